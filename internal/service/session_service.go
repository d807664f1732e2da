package service

import (
	"context"
	"time"

	"planning-poker-be/internal/dto"
	"planning-poker-be/internal/entity"
	"planning-poker-be/internal/pkg/serverutils"
	"planning-poker-be/internal/repository/memory"
	"planning-poker-be/internal/repository/specification"
	"planning-poker-be/internal/repository/unitofwork"
	"planning-poker-be/pkg/events"
	"planning-poker-be/pkg/roomcode"
	"planning-poker-be/pkg/votes"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	Join(ctx context.Context, req *dto.JoinSessionRequest) (*dto.JoinSessionResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.SessionViewResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reveal(ctx context.Context, id uuid.UUID) error
	Reset(ctx context.Context, id uuid.UUID) error
	SelectStory(ctx context.Context, sessionId, storyId uuid.UUID) error
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	codes      *memory.RoomCodeCache
	feed       IFeedPublisherService
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	codes *memory.RoomCodeCache,
	feed IFeedPublisherService,
) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		codes:      codes,
		feed:       feed,
	}
}

// Create allocates a room code and inserts the session and its organizer in
// one transaction. The original store could not insert two cross-referencing
// rows atomically and used a three-step create; collapsing it removes the
// orphan-participant window. The code is not checked for collisions, the
// unique constraint on room_code is the backstop.
func (s *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	session := entity.Session{
		Id:          uuid.New(),
		RoomCode:    roomcode.Generate(),
		Name:        req.Name,
		OrganizerId: uuid.New(),
		CreatedAt:   now,
	}
	organizer := entity.Participant{
		Id:          session.OrganizerId,
		SessionId:   session.Id,
		Name:        req.OrganizerName,
		Avatar:      req.Avatar,
		IsOrganizer: true,
		JoinedAt:    now,
		LastSeen:    now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewStoreError("failed to start session create", err)
	}
	defer uow.Rollback()

	if err := uow.SessionRepository().Create(ctx, &session); err != nil {
		return nil, serverutils.NewStoreError("failed to create session", err)
	}
	if err := uow.ParticipantRepository().Create(ctx, &organizer); err != nil {
		return nil, serverutils.NewStoreError("failed to create organizer", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewStoreError("failed to commit session create", err)
	}

	s.codes.Save(session.RoomCode, session.Id)
	s.feed.PublishChange(ctx, events.NewRowChange(events.TableSessions, events.ActionInsert, session.Id, session.Id, session))
	s.feed.PublishChange(ctx, events.NewRowChange(events.TableParticipants, events.ActionInsert, session.Id, organizer.Id, organizer))

	return &dto.CreateSessionResponse{
		Id:          session.Id,
		RoomCode:    session.RoomCode,
		OrganizerId: organizer.Id,
	}, nil
}

func (s *sessionService) Join(ctx context.Context, req *dto.JoinSessionRequest) (*dto.JoinSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findByRoomCode(ctx, uow, req.RoomCode)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NewNotFoundError("no session with that room code")
	}

	// Display names are unique per session, compared case-sensitively.
	existing, err := uow.ParticipantRepository().FindOne(ctx,
		specification.BySessionID{SessionID: session.Id},
		specification.ByName{Name: req.Name},
	)
	if err != nil {
		return nil, serverutils.NewStoreError("failed to check participant name", err)
	}
	if existing != nil {
		return nil, serverutils.NewConflictError("a participant with that name already joined")
	}

	now := time.Now()
	participant := entity.Participant{
		Id:        uuid.New(),
		SessionId: session.Id,
		Name:      req.Name,
		Avatar:    req.Avatar,
		JoinedAt:  now,
		LastSeen:  now,
	}
	if err := uow.ParticipantRepository().Create(ctx, &participant); err != nil {
		return nil, serverutils.NewStoreError("failed to create participant", err)
	}

	s.feed.PublishChange(ctx, events.NewRowChange(events.TableParticipants, events.ActionInsert, session.Id, participant.Id, participant))

	return &dto.JoinSessionResponse{
		SessionId:     session.Id,
		ParticipantId: participant.Id,
	}, nil
}

func (s *sessionService) Show(ctx context.Context, id uuid.UUID) (*dto.SessionViewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, serverutils.NewStoreError("failed to fetch session", err)
	}
	if session == nil {
		return nil, serverutils.NewNotFoundError("session not found")
	}

	participants, err := uow.ParticipantRepository().FindAll(ctx,
		specification.BySessionID{SessionID: id},
		specification.JoinOrder{},
	)
	if err != nil {
		return nil, serverutils.NewStoreError("failed to fetch participants", err)
	}

	stories, err := uow.StoryRepository().FindAll(ctx,
		specification.BySessionID{SessionID: id},
		specification.StoryOrder{},
	)
	if err != nil {
		return nil, serverutils.NewStoreError("failed to fetch stories", err)
	}

	return buildSessionView(session, participants, stories), nil
}

func (s *sessionService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return serverutils.NewStoreError("failed to fetch session", err)
	}
	if session == nil {
		return serverutils.NewNotFoundError("session not found")
	}

	// Participants and stories go with it via ON DELETE CASCADE.
	if err := uow.SessionRepository().Delete(ctx, id); err != nil {
		return serverutils.NewStoreError("failed to delete session", err)
	}

	s.codes.Delete(session.RoomCode)
	s.feed.PublishChange(ctx, events.NewRowChange(events.TableSessions, events.ActionDelete, id, id, nil))

	return nil
}

// Reveal flips the session-wide gate. Revealing an already-revealed session
// writes the same value, so repeats are no-ops.
func (s *sessionService) Reveal(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return serverutils.NewStoreError("failed to fetch session", err)
	}
	if session == nil {
		return serverutils.NewNotFoundError("session not found")
	}

	session.VotesRevealed = true
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return serverutils.NewStoreError("failed to reveal votes", err)
	}

	s.feed.PublishChange(ctx, events.NewRowChange(events.TableSessions, events.ActionUpdate, id, id, session))
	return nil
}

// Reset hides votes again and clears every participant's vote in one
// transaction. The original issued these as two concurrent requests with a
// documented inconsistency window; Postgres lets us close it.
func (s *sessionService) Reset(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return serverutils.NewStoreError("failed to fetch session", err)
	}
	if session == nil {
		return serverutils.NewNotFoundError("session not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return serverutils.NewStoreError("failed to start reset", err)
	}
	defer uow.Rollback()

	session.VotesRevealed = false
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return serverutils.NewStoreError("failed to hide votes", err)
	}
	if err := uow.ParticipantRepository().ClearVotes(ctx, id); err != nil {
		return serverutils.NewStoreError("failed to clear votes", err)
	}

	if err := uow.Commit(); err != nil {
		return serverutils.NewStoreError("failed to commit reset", err)
	}

	s.feed.PublishChange(ctx, events.NewRowChange(events.TableSessions, events.ActionUpdate, id, id, session))
	// One coarse participants event; consumers refetch the whole set anyway.
	s.feed.PublishChange(ctx, events.NewRowChange(events.TableParticipants, events.ActionUpdate, id, uuid.Nil, nil))

	return nil
}

// SelectStory points the session at a story and always resets the round,
// both in one transaction.
func (s *sessionService) SelectStory(ctx context.Context, sessionId, storyId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return serverutils.NewStoreError("failed to fetch session", err)
	}
	if session == nil {
		return serverutils.NewNotFoundError("session not found")
	}

	story, err := uow.StoryRepository().FindOne(ctx,
		specification.ByID{ID: storyId},
		specification.BySessionID{SessionID: sessionId},
	)
	if err != nil {
		return serverutils.NewStoreError("failed to fetch story", err)
	}
	if story == nil {
		return serverutils.NewNotFoundError("story not found in this session")
	}

	if err := uow.Begin(ctx); err != nil {
		return serverutils.NewStoreError("failed to start story select", err)
	}
	defer uow.Rollback()

	session.CurrentStoryId = &story.Id
	session.VotesRevealed = false
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return serverutils.NewStoreError("failed to set current story", err)
	}
	if err := uow.ParticipantRepository().ClearVotes(ctx, sessionId); err != nil {
		return serverutils.NewStoreError("failed to clear votes", err)
	}

	if err := uow.Commit(); err != nil {
		return serverutils.NewStoreError("failed to commit story select", err)
	}

	s.feed.PublishChange(ctx, events.NewRowChange(events.TableSessions, events.ActionUpdate, sessionId, sessionId, session))
	s.feed.PublishChange(ctx, events.NewRowChange(events.TableParticipants, events.ActionUpdate, sessionId, uuid.Nil, nil))

	return nil
}

func (s *sessionService) findByRoomCode(ctx context.Context, uow unitofwork.UnitOfWork, code string) (*entity.Session, error) {
	if id, ok := s.codes.Get(code); ok {
		session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
		if err != nil {
			return nil, serverutils.NewStoreError("failed to fetch session", err)
		}
		if session != nil {
			return session, nil
		}
		// Stale cache entry, fall through to the table.
		s.codes.Delete(code)
	}

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByRoomCode{RoomCode: code})
	if err != nil {
		return nil, serverutils.NewStoreError("failed to look up room code", err)
	}
	if session != nil {
		s.codes.Save(session.RoomCode, session.Id)
	}
	return session, nil
}

// buildSessionView assembles the client mirror. Votes stay hidden until the
// session-wide reveal; all-voted covers non-organizer participants only.
func buildSessionView(session *entity.Session, participants []*entity.Participant, stories []*entity.Story) *dto.SessionViewResponse {
	view := &dto.SessionViewResponse{
		Session: dto.SessionResponse{
			Id:             session.Id,
			RoomCode:       session.RoomCode,
			Name:           session.Name,
			OrganizerId:    session.OrganizerId,
			CurrentStoryId: session.CurrentStoryId,
			VotesRevealed:  session.VotesRevealed,
			CreatedAt:      session.CreatedAt,
			UpdatedAt:      session.UpdatedAt,
		},
		Participants: make([]*dto.ParticipantResponse, 0, len(participants)),
		Stories:      make([]*dto.StoryResponse, 0, len(stories)),
		AllVoted:     true,
	}

	var cast []string
	for _, p := range participants {
		res := &dto.ParticipantResponse{
			Id:          p.Id,
			SessionId:   p.SessionId,
			Name:        p.Name,
			Avatar:      p.Avatar,
			IsOrganizer: p.IsOrganizer,
			HasVoted:    p.HasVoted,
			JoinedAt:    p.JoinedAt,
			LastSeen:    p.LastSeen,
		}
		if session.VotesRevealed {
			res.Vote = p.Vote
			if p.Vote != nil {
				cast = append(cast, *p.Vote)
			}
		}
		if !p.IsOrganizer && !p.HasVoted {
			view.AllVoted = false
		}
		view.Participants = append(view.Participants, res)
	}

	if session.VotesRevealed {
		summary := votes.Summarize(cast)
		view.Summary = &summary
	}

	for _, st := range stories {
		view.Stories = append(view.Stories, &dto.StoryResponse{
			Id:          st.Id,
			SessionId:   st.SessionId,
			Title:       st.Title,
			Description: st.Description,
			Status:      string(st.Status),
			OrderIndex:  st.OrderIndex,
			CreatedAt:   st.CreatedAt,
		})
	}

	return view
}
