package mapper

import (
	"planning-poker-be/internal/entity"
	"planning-poker-be/internal/model"
)

type StoryMapper struct{}

func NewStoryMapper() *StoryMapper {
	return &StoryMapper{}
}

func (m *StoryMapper) ToEntity(s *model.Story) *entity.Story {
	if s == nil {
		return nil
	}

	return &entity.Story{
		Id:          s.Id,
		SessionId:   s.SessionId,
		Title:       s.Title,
		Description: s.Description,
		Status:      entity.StoryStatus(s.Status),
		OrderIndex:  s.OrderIndex,
		CreatedAt:   s.CreatedAt,
	}
}

func (m *StoryMapper) ToModel(s *entity.Story) *model.Story {
	if s == nil {
		return nil
	}

	return &model.Story{
		Id:          s.Id,
		SessionId:   s.SessionId,
		Title:       s.Title,
		Description: s.Description,
		Status:      string(s.Status),
		OrderIndex:  s.OrderIndex,
		CreatedAt:   s.CreatedAt,
	}
}

func (m *StoryMapper) ToEntities(stories []*model.Story) []*entity.Story {
	entities := make([]*entity.Story, len(stories))
	for i, s := range stories {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
