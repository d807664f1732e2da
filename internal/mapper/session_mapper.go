package mapper

import (
	"time"

	"planning-poker-be/internal/entity"
	"planning-poker-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.Session{
		Id:             s.Id,
		RoomCode:       s.RoomCode,
		Name:           s.Name,
		OrganizerId:    s.OrganizerId,
		CurrentStoryId: s.CurrentStoryId,
		VotesRevealed:  s.VotesRevealed,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.Session{
		Id:             s.Id,
		RoomCode:       s.RoomCode,
		Name:           s.Name,
		OrganizerId:    s.OrganizerId,
		CurrentStoryId: s.CurrentStoryId,
		VotesRevealed:  s.VotesRevealed,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *SessionMapper) ToEntities(sessions []*model.Session) []*entity.Session {
	entities := make([]*entity.Session, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
