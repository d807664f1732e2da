package contract

import (
	"context"
	"time"

	"planning-poker-be/internal/entity"
	"planning-poker-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ParticipantRepository interface {
	Create(ctx context.Context, participant *entity.Participant) error
	Update(ctx context.Context, participant *entity.Participant) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Participant, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Participant, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// ClearVotes resets vote and has_voted for every participant of a
	// session in a single statement.
	ClearVotes(ctx context.Context, sessionId uuid.UUID) error

	// Touch updates only last_seen; the presence heartbeat must not clobber
	// a vote written concurrently by the same participant.
	Touch(ctx context.Context, id uuid.UUID, lastSeen time.Time) error
}
