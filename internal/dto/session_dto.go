package dto

import (
	"time"

	"planning-poker-be/pkg/votes"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Name          string  `json:"name" validate:"required"`
	OrganizerName string  `json:"organizer_name" validate:"required"`
	Avatar        *string `json:"avatar"`
}

type CreateSessionResponse struct {
	Id          uuid.UUID `json:"id"`
	RoomCode    string    `json:"room_code"`
	OrganizerId uuid.UUID `json:"organizer_id"`
}

type JoinSessionRequest struct {
	RoomCode string  `json:"room_code" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Avatar   *string `json:"avatar"`
}

type JoinSessionResponse struct {
	SessionId     uuid.UUID `json:"session_id"`
	ParticipantId uuid.UUID `json:"participant_id"`
}

type SelectStoryRequest struct {
	StoryId uuid.UUID `json:"story_id" validate:"required"`
}

type SessionResponse struct {
	Id             uuid.UUID  `json:"id"`
	RoomCode       string     `json:"room_code"`
	Name           string     `json:"name"`
	OrganizerId    uuid.UUID  `json:"organizer_id"`
	CurrentStoryId *uuid.UUID `json:"current_story_id"`
	VotesRevealed  bool       `json:"votes_revealed"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

// SessionViewResponse is the full mirror a client needs after attach: the
// session row plus both child sets, with votes masked while hidden plus the
// derived all-voted flag and (when revealed) the round summary.
type SessionViewResponse struct {
	Session      SessionResponse        `json:"session"`
	Participants []*ParticipantResponse `json:"participants"`
	Stories      []*StoryResponse       `json:"stories"`
	AllVoted     bool                   `json:"all_voted"`
	Summary      *votes.Summary         `json:"summary,omitempty"`
}
