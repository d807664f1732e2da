package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Table string

const (
	TableSessions     Table = "sessions"
	TableParticipants Table = "participants"
	TableStories      Table = "stories"
)

type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// RowChange is one change-feed notification: which table changed, how, and
// for inserts/updates the full new row image. Delivery is at-least-once and
// coarse; consumers treat any participant/story change as "refetch the set".
type RowChange struct {
	Table      Table           `json:"table"`
	Action     Action          `json:"action"`
	SessionId  uuid.UUID       `json:"session_id"`
	RowId      uuid.UUID       `json:"row_id"`
	Row        json.RawMessage `json:"row,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewRowChange builds a notification, serializing row (the entity as it now
// exists) into the event. A nil row is valid for deletes.
func NewRowChange(table Table, action Action, sessionId, rowId uuid.UUID, row interface{}) RowChange {
	ev := RowChange{
		Table:      table,
		Action:     action,
		SessionId:  sessionId,
		RowId:      rowId,
		OccurredAt: time.Now(),
	}
	if row != nil {
		if data, err := json.Marshal(row); err == nil {
			ev.Row = data
		}
	}
	return ev
}

// Subject returns the NATS subject for this change, e.g.
// "feed.<session-id>.participants.update". Session-scoped subscribers filter
// with "feed.<session-id>.>".
func (e RowChange) Subject() string {
	return "feed." + e.SessionId.String() + "." + string(e.Table) + "." + string(e.Action)
}
