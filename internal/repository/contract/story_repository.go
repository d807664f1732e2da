package contract

import (
	"context"

	"planning-poker-be/internal/entity"
	"planning-poker-be/internal/repository/specification"

	"github.com/google/uuid"
)

type StoryRepository interface {
	Create(ctx context.Context, story *entity.Story) error
	Update(ctx context.Context, story *entity.Story) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Story, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Story, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// NextOrderIndex returns the order index a newly added story should take
	// (max existing index + 1, or 0 for the first story).
	NextOrderIndex(ctx context.Context, sessionId uuid.UUID) (int, error)
}
