package entity

import (
	"time"

	"github.com/google/uuid"
)

type StoryStatus string

const (
	StoryStatusPending   StoryStatus = "pending"
	StoryStatusEstimated StoryStatus = "estimated"
	StoryStatusCompleted StoryStatus = "completed"
)

// Story is one estimable backlog item. OrderIndex defines the display order
// within a session; ties are broken by CreatedAt then Id.
type Story struct {
	Id          uuid.UUID   `json:"id"`
	SessionId   uuid.UUID   `json:"session_id"`
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	Status      StoryStatus `json:"status"`
	OrderIndex  int         `json:"order_index"`
	CreatedAt   time.Time   `json:"created_at"`
}
