package unitofwork

import (
	"context"

	"planning-poker-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionRepository() contract.SessionRepository
	ParticipantRepository() contract.ParticipantRepository
	StoryRepository() contract.StoryRepository
}
