package syncclient

import (
	"context"
	"sync"
	"testing"
	"time"

	"planning-poker-be/internal/entity"
	"planning-poker-be/internal/pkg/logger"
	"planning-poker-be/internal/pkg/serverutils"
	"planning-poker-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu           sync.Mutex
	session      *entity.Session
	participants []*entity.Participant
	stories      []*entity.Story
	failFetches  bool
	heartbeats   int
}

func (s *fakeStore) FetchSession(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil || s.session.Id != id {
		return nil, nil
	}
	copied := *s.session
	return &copied, nil
}

func (s *fakeStore) FetchParticipants(ctx context.Context, sessionId uuid.UUID) ([]*entity.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFetches {
		return nil, assert.AnError
	}
	return append([]*entity.Participant(nil), s.participants...), nil
}

func (s *fakeStore) FetchStories(ctx context.Context, sessionId uuid.UUID) ([]*entity.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFetches {
		return nil, assert.AnError
	}
	return append([]*entity.Story(nil), s.stories...), nil
}

func (s *fakeStore) Heartbeat(ctx context.Context, participantId uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heartbeats++
	return nil
}

type fakeFeed struct {
	ch      chan events.RowChange
	stopped int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{ch: make(chan events.RowChange, 16)}
}

func (f *fakeFeed) Subscribe(ctx context.Context, sessionId uuid.UUID) (<-chan events.RowChange, func(), error) {
	return f.ch, func() { f.stopped++ }, nil
}

func newTestFixture(t *testing.T) (*fakeStore, *fakeFeed, *entity.Session) {
	t.Helper()
	sessionId := uuid.New()
	organizerId := uuid.New()
	session := &entity.Session{
		Id:          sessionId,
		RoomCode:    "AB12CD",
		Name:        "Sprint 1",
		OrganizerId: organizerId,
	}
	store := &fakeStore{
		session: session,
		participants: []*entity.Participant{
			{Id: organizerId, SessionId: sessionId, Name: "Alice", IsOrganizer: true},
		},
	}
	return store, newFakeFeed(), session
}

func testLogger(t *testing.T) logger.ILogger {
	t.Helper()
	return logger.NewIsolatedLogger(t.TempDir() + "/sync.log")
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestAttachFetchesInitialState(t *testing.T) {
	store, feed, session := newTestFixture(t)
	client := NewClient(store, feed, testLogger(t))
	defer client.Detach()

	err := client.Attach(context.Background(), session.Id)
	require.NoError(t, err)

	snap := client.Snapshot()
	require.NotNil(t, snap.Session)
	assert.Equal(t, session.Id, snap.Session.Id)
	assert.Len(t, snap.Participants, 1)
	assert.Empty(t, snap.Stories)
	assert.True(t, snap.AllVoted(), "organizer-only session has no pending voters")
}

func TestAttachUnknownSession(t *testing.T) {
	store, feed, _ := newTestFixture(t)
	client := NewClient(store, feed, testLogger(t))

	err := client.Attach(context.Background(), uuid.New())
	require.Error(t, err)
	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestSessionRowReplacedVerbatim(t *testing.T) {
	store, feed, session := newTestFixture(t)
	client := NewClient(store, feed, testLogger(t))
	defer client.Detach()
	require.NoError(t, client.Attach(context.Background(), session.Id))

	updated := *session
	updated.VotesRevealed = true
	feed.ch <- events.NewRowChange(events.TableSessions, events.ActionUpdate, session.Id, session.Id, updated)

	waitFor(t, func() bool { return client.Snapshot().Session.VotesRevealed })
}

func TestParticipantChangeTriggersRefetch(t *testing.T) {
	store, feed, session := newTestFixture(t)
	client := NewClient(store, feed, testLogger(t))
	defer client.Detach()
	require.NoError(t, client.Attach(context.Background(), session.Id))

	bob := &entity.Participant{Id: uuid.New(), SessionId: session.Id, Name: "Bob"}
	store.mu.Lock()
	store.participants = append(store.participants, bob)
	store.mu.Unlock()

	// Row image deliberately absent; any participant event means refetch.
	feed.ch <- events.NewRowChange(events.TableParticipants, events.ActionInsert, session.Id, bob.Id, nil)

	waitFor(t, func() bool { return len(client.Snapshot().Participants) == 2 })
}

func TestFailedRefetchKeepsLastKnownState(t *testing.T) {
	store, feed, session := newTestFixture(t)
	client := NewClient(store, feed, testLogger(t))
	defer client.Detach()
	require.NoError(t, client.Attach(context.Background(), session.Id))

	store.mu.Lock()
	store.failFetches = true
	store.mu.Unlock()

	feed.ch <- events.NewRowChange(events.TableParticipants, events.ActionUpdate, session.Id, uuid.Nil, nil)
	// Also prove the session table still reconciles while refetches fail.
	updated := *session
	updated.Name = "Sprint 1 renamed"
	feed.ch <- events.NewRowChange(events.TableSessions, events.ActionUpdate, session.Id, session.Id, updated)

	waitFor(t, func() bool { return client.Snapshot().Session.Name == "Sprint 1 renamed" })
	assert.Len(t, client.Snapshot().Participants, 1, "failed refetch keeps the last known set")
}

func TestForcedLeaveDetection(t *testing.T) {
	store, feed, session := newTestFixture(t)
	bob := &entity.Participant{Id: uuid.New(), SessionId: session.Id, Name: "Bob"}
	store.participants = append(store.participants, bob)

	client := NewClient(store, feed, testLogger(t), WithParticipant(bob.Id))
	defer client.Detach()
	require.NoError(t, client.Attach(context.Background(), session.Id))
	assert.False(t, client.Snapshot().SelfRemoved)

	store.mu.Lock()
	store.participants = store.participants[:1]
	store.mu.Unlock()
	feed.ch <- events.NewRowChange(events.TableParticipants, events.ActionDelete, session.Id, bob.Id, nil)

	waitFor(t, func() bool { return client.Snapshot().SelfRemoved })
}

func TestHeartbeat(t *testing.T) {
	store, feed, session := newTestFixture(t)
	self := store.participants[0].Id
	client := NewClient(store, feed, testLogger(t),
		WithParticipant(self),
		WithHeartbeatInterval(10*time.Millisecond),
	)
	require.NoError(t, client.Attach(context.Background(), session.Id))

	waitFor(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.heartbeats >= 3
	})

	client.Detach()
	store.mu.Lock()
	after := store.heartbeats
	store.mu.Unlock()
	time.Sleep(50 * time.Millisecond)
	store.mu.Lock()
	assert.Equal(t, after, store.heartbeats, "heartbeat must stop on detach")
	store.mu.Unlock()
}

func TestDetachIsIdempotent(t *testing.T) {
	store, feed, session := newTestFixture(t)
	client := NewClient(store, feed, testLogger(t))
	require.NoError(t, client.Attach(context.Background(), session.Id))

	client.Detach()
	client.Detach()
	client.Detach()
	assert.Equal(t, 1, feed.stopped, "subscription torn down exactly once")
}

func TestSnapshotDerivedReads(t *testing.T) {
	sessionId := uuid.New()
	organizer := &entity.Participant{Id: uuid.New(), IsOrganizer: true}
	v5, v8 := "5", "8"
	voters := []*entity.Participant{
		organizer,
		{Id: uuid.New(), HasVoted: true, Vote: &v8},
		{Id: uuid.New(), HasVoted: true, Vote: &v5},
	}
	storyId := uuid.New()

	snap := Snapshot{
		Session:      &entity.Session{Id: sessionId, CurrentStoryId: &storyId},
		Participants: voters,
		Stories:      []*entity.Story{{Id: storyId, Title: "A"}},
	}

	assert.True(t, snap.AllVoted())
	assert.Nil(t, snap.VisibleVote(voters[1]), "votes hidden before reveal")
	assert.Nil(t, snap.Summary())
	require.NotNil(t, snap.CurrentStory())
	assert.Equal(t, "A", snap.CurrentStory().Title)

	snap.Session.VotesRevealed = true
	require.NotNil(t, snap.VisibleVote(voters[1]))
	assert.Equal(t, "8", *snap.VisibleVote(voters[1]))
	summary := snap.Summary()
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.Total)
	assert.InDelta(t, 6.5, *summary.Average, 1e-9)
}
