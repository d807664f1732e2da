package service

import (
	"context"
	"time"

	"planning-poker-be/internal/dto"
	"planning-poker-be/internal/entity"
	"planning-poker-be/internal/pkg/serverutils"
	"planning-poker-be/internal/repository/specification"
	"planning-poker-be/internal/repository/unitofwork"
	"planning-poker-be/pkg/events"

	"github.com/google/uuid"
)

type IStoryService interface {
	Create(ctx context.Context, req *dto.CreateStoryRequest) (*dto.CreateStoryResponse, error)
	Update(ctx context.Context, req *dto.UpdateStoryRequest) (*dto.UpdateStoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Move(ctx context.Context, req *dto.MoveStoryRequest) (*dto.MoveStoryResponse, error)
}

type storyService struct {
	uowFactory unitofwork.RepositoryFactory
	feed       IFeedPublisherService
}

func NewStoryService(
	uowFactory unitofwork.RepositoryFactory,
	feed IFeedPublisherService,
) IStoryService {
	return &storyService{
		uowFactory: uowFactory,
		feed:       feed,
	}
}

func (s *storyService) Create(ctx context.Context, req *dto.CreateStoryRequest) (*dto.CreateStoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: req.SessionId})
	if err != nil {
		return nil, serverutils.NewStoreError("failed to fetch session", err)
	}
	if session == nil {
		return nil, serverutils.NewNotFoundError("session not found")
	}

	orderIndex, err := uow.StoryRepository().NextOrderIndex(ctx, req.SessionId)
	if err != nil {
		return nil, serverutils.NewStoreError("failed to compute order index", err)
	}

	story := entity.Story{
		Id:          uuid.New(),
		SessionId:   req.SessionId,
		Title:       req.Title,
		Description: req.Description,
		Status:      entity.StoryStatusPending,
		OrderIndex:  orderIndex,
		CreatedAt:   time.Now(),
	}
	if err := uow.StoryRepository().Create(ctx, &story); err != nil {
		return nil, serverutils.NewStoreError("failed to create story", err)
	}

	s.feed.PublishChange(ctx, events.NewRowChange(events.TableStories, events.ActionInsert, story.SessionId, story.Id, story))

	return &dto.CreateStoryResponse{Id: story.Id}, nil
}

func (s *storyService) Update(ctx context.Context, req *dto.UpdateStoryRequest) (*dto.UpdateStoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	story, err := uow.StoryRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, serverutils.NewStoreError("failed to fetch story", err)
	}
	if story == nil {
		return nil, serverutils.NewNotFoundError("story not found")
	}

	story.Title = req.Title
	story.Description = req.Description
	if req.Status != "" {
		story.Status = entity.StoryStatus(req.Status)
	}
	if err := uow.StoryRepository().Update(ctx, story); err != nil {
		return nil, serverutils.NewStoreError("failed to update story", err)
	}

	s.feed.PublishChange(ctx, events.NewRowChange(events.TableStories, events.ActionUpdate, story.SessionId, story.Id, story))

	return &dto.UpdateStoryResponse{Id: story.Id}, nil
}

func (s *storyService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	story, err := uow.StoryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return serverutils.NewStoreError("failed to fetch story", err)
	}
	if story == nil {
		return serverutils.NewNotFoundError("story not found")
	}

	if err := uow.StoryRepository().Delete(ctx, id); err != nil {
		return serverutils.NewStoreError("failed to delete story", err)
	}

	s.feed.PublishChange(ctx, events.NewRowChange(events.TableStories, events.ActionDelete, story.SessionId, id, nil))

	return nil
}

// Move swaps the story's order index with its neighbor in one transaction.
// Moving the first story up or the last story down is a no-op. Neighbor
// resolution uses the same sort the clients see (order_index, created_at,
// id), so a transient duplicate index still resolves deterministically.
func (s *storyService) Move(ctx context.Context, req *dto.MoveStoryRequest) (*dto.MoveStoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	story, err := uow.StoryRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, serverutils.NewStoreError("failed to fetch story", err)
	}
	if story == nil {
		return nil, serverutils.NewNotFoundError("story not found")
	}

	siblings, err := uow.StoryRepository().FindAll(ctx,
		specification.BySessionID{SessionID: story.SessionId},
		specification.StoryOrder{},
	)
	if err != nil {
		return nil, serverutils.NewStoreError("failed to fetch stories", err)
	}

	pos := -1
	for i, sibling := range siblings {
		if sibling.Id == story.Id {
			pos = i
			break
		}
	}
	if pos == -1 {
		return nil, serverutils.NewNotFoundError("story not found")
	}

	var neighbor *entity.Story
	switch req.Direction {
	case "up":
		if pos == 0 {
			return &dto.MoveStoryResponse{Id: story.Id}, nil
		}
		neighbor = siblings[pos-1]
	case "down":
		if pos == len(siblings)-1 {
			return &dto.MoveStoryResponse{Id: story.Id}, nil
		}
		neighbor = siblings[pos+1]
	default:
		return nil, serverutils.NewBadRequestError("direction must be up or down")
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewStoreError("failed to start story move", err)
	}
	defer uow.Rollback()

	story.OrderIndex, neighbor.OrderIndex = neighbor.OrderIndex, story.OrderIndex
	if err := uow.StoryRepository().Update(ctx, story); err != nil {
		return nil, serverutils.NewStoreError("failed to move story", err)
	}
	if err := uow.StoryRepository().Update(ctx, neighbor); err != nil {
		return nil, serverutils.NewStoreError("failed to move neighbor story", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewStoreError("failed to commit story move", err)
	}

	s.feed.PublishChange(ctx, events.NewRowChange(events.TableStories, events.ActionUpdate, story.SessionId, story.Id, story))
	s.feed.PublishChange(ctx, events.NewRowChange(events.TableStories, events.ActionUpdate, neighbor.SessionId, neighbor.Id, neighbor))

	return &dto.MoveStoryResponse{Id: story.Id}, nil
}
