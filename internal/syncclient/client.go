package syncclient

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"planning-poker-be/internal/constant"
	"planning-poker-be/internal/entity"
	"planning-poker-be/internal/pkg/logger"
	"planning-poker-be/internal/pkg/serverutils"
	"planning-poker-be/pkg/events"

	"github.com/google/uuid"
)

// Client keeps a read-mostly mirror of one session (session row, participant
// set, story set) synchronized with the store. It fetches everything once on
// Attach, then reconciles on change notifications: the session row is
// replaced with the notified image verbatim, any participant or story
// notification triggers a wholesale refetch of that set. The store is the
// single source of truth; the client never merges.
//
// Notifications from different tables carry no relative ordering guarantee;
// each set reconciles independently.
type Client struct {
	store Store
	feed  Feed
	log   logger.ILogger

	// self is the participant this client heartbeats for; uuid.Nil for a
	// read-only observer.
	self           uuid.UUID
	heartbeatEvery time.Duration

	mu   sync.RWMutex
	snap Snapshot

	cancel   context.CancelFunc
	stopFeed func()
	wg       sync.WaitGroup
	attached bool
}

type Option func(*Client)

// WithParticipant makes the client heartbeat for the given participant and
// watch for its forced removal.
func WithParticipant(id uuid.UUID) Option {
	return func(c *Client) { c.self = id }
}

// WithHeartbeatInterval overrides the 30s presence interval.
func WithHeartbeatInterval(d time.Duration) Option {
	return func(c *Client) { c.heartbeatEvery = d }
}

func NewClient(store Store, feed Feed, log logger.ILogger, opts ...Option) *Client {
	c := &Client{
		store:          store,
		feed:           feed,
		log:            log,
		heartbeatEvery: constant.HeartbeatIntervalSeconds * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach performs the initial full fetch and starts the reconcile loop and
// the presence heartbeat. It fails with a not-found error when the session
// does not exist.
func (c *Client) Attach(ctx context.Context, sessionId uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attached {
		return serverutils.NewConflictError("client already attached")
	}

	session, err := c.store.FetchSession(ctx, sessionId)
	if err != nil {
		return serverutils.NewStoreError("failed to fetch session", err)
	}
	if session == nil {
		return serverutils.NewNotFoundError("session not found")
	}

	participants, err := c.store.FetchParticipants(ctx, sessionId)
	if err != nil {
		return serverutils.NewStoreError("failed to fetch participants", err)
	}
	stories, err := c.store.FetchStories(ctx, sessionId)
	if err != nil {
		return serverutils.NewStoreError("failed to fetch stories", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())

	ch, stop, err := c.feed.Subscribe(runCtx, sessionId)
	if err != nil {
		cancel()
		return serverutils.NewStoreError("failed to subscribe to change feed", err)
	}

	c.snap = Snapshot{
		Session:      session,
		Participants: participants,
		Stories:      stories,
		Self:         c.self,
	}
	c.cancel = cancel
	c.stopFeed = stop
	c.attached = true

	c.wg.Add(1)
	go c.reconcileLoop(runCtx, sessionId, ch)

	if c.self != uuid.Nil {
		c.wg.Add(1)
		go c.heartbeatLoop(runCtx)
	}

	return nil
}

// Detach cancels the subscription and the heartbeat. Safe to call multiple
// times.
func (c *Client) Detach() {
	c.mu.Lock()
	if !c.attached {
		c.mu.Unlock()
		return
	}
	c.attached = false
	cancel, stop := c.cancel, c.stopFeed
	// Release before waiting; the reconcile loop takes the lock to apply.
	c.mu.Unlock()

	cancel()
	stop()
	c.wg.Wait()
}

// Snapshot returns the current mirror. The slices are shared; treat the
// result as read-only.
func (c *Client) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func (c *Client) reconcileLoop(ctx context.Context, sessionId uuid.UUID, ch <-chan events.RowChange) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			c.apply(ctx, sessionId, change)
		}
	}
}

func (c *Client) apply(ctx context.Context, sessionId uuid.UUID, change events.RowChange) {
	switch change.Table {
	case events.TableSessions:
		c.applySession(change)
	case events.TableParticipants:
		// Coarse reconciliation: any participant change refetches the set.
		c.refetchParticipants(ctx, sessionId)
	case events.TableStories:
		c.refetchStories(ctx, sessionId)
	default:
		c.log.Warn("SyncClient", "Unknown table in change feed", map[string]interface{}{"table": string(change.Table)})
	}
}

func (c *Client) applySession(change events.RowChange) {
	if change.Action == events.ActionDelete {
		c.mu.Lock()
		c.snap.SessionDeleted = true
		c.mu.Unlock()
		return
	}

	var session entity.Session
	if err := json.Unmarshal(change.Row, &session); err != nil {
		c.log.Warn("SyncClient", "Bad session row image, keeping last known", map[string]interface{}{"error": err.Error()})
		return
	}

	// Last write wins; the notified row replaces the snapshot verbatim.
	c.mu.Lock()
	c.snap.Session = &session
	c.mu.Unlock()
}

func (c *Client) refetchParticipants(ctx context.Context, sessionId uuid.UUID) {
	participants, err := c.store.FetchParticipants(ctx, sessionId)
	if err != nil {
		// Keep the stale set; the next notification self-heals.
		c.log.Warn("SyncClient", "Participant refetch failed, keeping last known", map[string]interface{}{"error": err.Error()})
		return
	}

	c.mu.Lock()
	c.snap.Participants = participants
	if c.self != uuid.Nil && !c.snap.SelfRemoved {
		c.snap.SelfRemoved = true
		for _, p := range participants {
			if p.Id == c.self {
				c.snap.SelfRemoved = false
				break
			}
		}
		if c.snap.SelfRemoved {
			c.log.Info("SyncClient", "Own participant row removed (forced leave)", map[string]interface{}{"participant_id": c.self.String()})
		}
	}
	c.mu.Unlock()
}

func (c *Client) refetchStories(ctx context.Context, sessionId uuid.UUID) {
	stories, err := c.store.FetchStories(ctx, sessionId)
	if err != nil {
		c.log.Warn("SyncClient", "Story refetch failed, keeping last known", map[string]interface{}{"error": err.Error()})
		return
	}

	c.mu.Lock()
	c.snap.Stories = stories
	c.mu.Unlock()
}

// heartbeatLoop reports presence until detach. Failures are logged and the
// ticker keeps going; a missed beat is covered by the next one.
func (c *Client) heartbeatLoop(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.heartbeatEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.store.Heartbeat(ctx, c.self); err != nil {
				c.log.Warn("SyncClient", "Heartbeat failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}
}
