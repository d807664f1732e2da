package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateStoryRequest struct {
	SessionId   uuid.UUID `json:"session_id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description *string   `json:"description"`
}

type CreateStoryResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateStoryRequest struct {
	Id          uuid.UUID
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Status      string  `json:"status" validate:"omitempty,oneof=pending estimated completed"`
}

type UpdateStoryResponse struct {
	Id uuid.UUID `json:"id"`
}

type MoveStoryRequest struct {
	Id        uuid.UUID
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

type MoveStoryResponse struct {
	Id uuid.UUID `json:"id"`
}

type StoryResponse struct {
	Id          uuid.UUID `json:"id"`
	SessionId   uuid.UUID `json:"session_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}
