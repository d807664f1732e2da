package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is one planning-poker room. RoomCode is the short token
// participants type to join; it is stored uppercase and matched
// case-insensitively.
// The json tags match the REST response casing; entities travel as row
// images on the change feed.
type Session struct {
	Id             uuid.UUID  `json:"id"`
	RoomCode       string     `json:"room_code"`
	Name           string     `json:"name"`
	OrganizerId    uuid.UUID  `json:"organizer_id"`
	CurrentStoryId *uuid.UUID `json:"current_story_id"`
	VotesRevealed  bool       `json:"votes_revealed"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}
