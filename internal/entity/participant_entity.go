package entity

import (
	"time"

	"github.com/google/uuid"
)

// Participant is one joined user within a session. Vote and HasVoted move
// together: HasVoted true implies Vote is set, and a reset clears both.
type Participant struct {
	Id          uuid.UUID `json:"id"`
	SessionId   uuid.UUID `json:"session_id"`
	Name        string    `json:"name"`
	Avatar      *string   `json:"avatar"`
	IsOrganizer bool      `json:"is_organizer"`
	HasVoted    bool      `json:"has_voted"`
	Vote        *string   `json:"vote"`
	JoinedAt    time.Time `json:"joined_at"`
	LastSeen    time.Time `json:"last_seen"`
}
