package service

import (
	"context"
	"time"

	"planning-poker-be/internal/dto"
	"planning-poker-be/internal/pkg/serverutils"
	"planning-poker-be/internal/repository/specification"
	"planning-poker-be/internal/repository/unitofwork"
	"planning-poker-be/pkg/events"

	"github.com/google/uuid"
)

type IParticipantService interface {
	CastVote(ctx context.Context, id uuid.UUID, req *dto.CastVoteRequest) (*dto.CastVoteResponse, error)
	Heartbeat(ctx context.Context, id uuid.UUID) error
	Remove(ctx context.Context, id uuid.UUID) error
}

type participantService struct {
	uowFactory unitofwork.RepositoryFactory
	feed       IFeedPublisherService
}

func NewParticipantService(
	uowFactory unitofwork.RepositoryFactory,
	feed IFeedPublisherService,
) IParticipantService {
	return &participantService{
		uowFactory: uowFactory,
		feed:       feed,
	}
}

// CastVote records a vote while the round is collecting. The value is an
// opaque string; the deck palette is advisory and nothing rejects an
// off-deck card. Voting after reveal is refused, votes only change between
// rounds via reset.
func (s *participantService) CastVote(ctx context.Context, id uuid.UUID, req *dto.CastVoteRequest) (*dto.CastVoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	participant, err := uow.ParticipantRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, serverutils.NewStoreError("failed to fetch participant", err)
	}
	if participant == nil {
		return nil, serverutils.NewNotFoundError("participant not found")
	}

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: participant.SessionId})
	if err != nil {
		return nil, serverutils.NewStoreError("failed to fetch session", err)
	}
	if session == nil {
		return nil, serverutils.NewNotFoundError("session not found")
	}
	if session.VotesRevealed {
		return nil, serverutils.NewConflictError("votes are revealed, reset before voting again")
	}

	vote := req.Vote
	participant.Vote = &vote
	participant.HasVoted = true
	if err := uow.ParticipantRepository().Update(ctx, participant); err != nil {
		return nil, serverutils.NewStoreError("failed to save vote", err)
	}

	s.feed.PublishChange(ctx, events.NewRowChange(events.TableParticipants, events.ActionUpdate, participant.SessionId, participant.Id, participant))

	return &dto.CastVoteResponse{Id: participant.Id}, nil
}

// Heartbeat bumps last_seen. Fire-and-forget from the client's point of
// view; a failed beat is logged upstream and the next one covers it.
func (s *participantService) Heartbeat(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	participant, err := uow.ParticipantRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return serverutils.NewStoreError("failed to fetch participant", err)
	}
	if participant == nil {
		return serverutils.NewNotFoundError("participant not found")
	}

	now := time.Now()
	if err := uow.ParticipantRepository().Touch(ctx, id, now); err != nil {
		return serverutils.NewStoreError("failed to update presence", err)
	}

	participant.LastSeen = now
	s.feed.PublishChange(ctx, events.NewRowChange(events.TableParticipants, events.ActionUpdate, participant.SessionId, id, participant))

	return nil
}

// Remove hard-deletes a participant. There is no dedicated notification for
// the kicked client; it observes its own row disappear from the feed.
func (s *participantService) Remove(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	participant, err := uow.ParticipantRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return serverutils.NewStoreError("failed to fetch participant", err)
	}
	if participant == nil {
		return serverutils.NewNotFoundError("participant not found")
	}

	if err := uow.ParticipantRepository().Delete(ctx, id); err != nil {
		return serverutils.NewStoreError("failed to remove participant", err)
	}

	s.feed.PublishChange(ctx, events.NewRowChange(events.TableParticipants, events.ActionDelete, participant.SessionId, id, nil))

	return nil
}
