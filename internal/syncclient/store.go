package syncclient

import (
	"context"
	"time"

	"planning-poker-be/internal/entity"
	"planning-poker-be/internal/repository/specification"
	"planning-poker-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Store is the read/heartbeat surface the sync client needs from the
// session store. Fetches return the same sort order every time: participants
// by join time, stories by order index.
type Store interface {
	FetchSession(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	FetchParticipants(ctx context.Context, sessionId uuid.UUID) ([]*entity.Participant, error)
	FetchStories(ctx context.Context, sessionId uuid.UUID) ([]*entity.Story, error)
	Heartbeat(ctx context.Context, participantId uuid.UUID) error
}

// RepositoryStore backs the sync client directly with the repositories, for
// in-process consumers (bots, the observe tool, tests against a live DB).
type RepositoryStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewRepositoryStore(uowFactory unitofwork.RepositoryFactory) *RepositoryStore {
	return &RepositoryStore{uowFactory: uowFactory}
}

func (s *RepositoryStore) FetchSession(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
}

func (s *RepositoryStore) FetchParticipants(ctx context.Context, sessionId uuid.UUID) ([]*entity.Participant, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ParticipantRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.JoinOrder{},
	)
}

func (s *RepositoryStore) FetchStories(ctx context.Context, sessionId uuid.UUID) ([]*entity.Story, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.StoryRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.StoryOrder{},
	)
}

func (s *RepositoryStore) Heartbeat(ctx context.Context, participantId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ParticipantRepository().Touch(ctx, participantId, time.Now())
}
