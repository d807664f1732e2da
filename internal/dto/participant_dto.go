package dto

import (
	"time"

	"github.com/google/uuid"
)

type CastVoteRequest struct {
	Vote string `json:"vote" validate:"required"`
}

type CastVoteResponse struct {
	Id uuid.UUID `json:"id"`
}

type ParticipantResponse struct {
	Id          uuid.UUID `json:"id"`
	SessionId   uuid.UUID `json:"session_id"`
	Name        string    `json:"name"`
	Avatar      *string   `json:"avatar"`
	IsOrganizer bool      `json:"is_organizer"`
	HasVoted    bool      `json:"has_voted"`
	Vote        *string   `json:"vote"` // nil until the session is revealed
	JoinedAt    time.Time `json:"joined_at"`
	LastSeen    time.Time `json:"last_seen"`
}
