package mapper

import (
	"planning-poker-be/internal/entity"
	"planning-poker-be/internal/model"
)

type ParticipantMapper struct{}

func NewParticipantMapper() *ParticipantMapper {
	return &ParticipantMapper{}
}

func (m *ParticipantMapper) ToEntity(p *model.Participant) *entity.Participant {
	if p == nil {
		return nil
	}

	return &entity.Participant{
		Id:          p.Id,
		SessionId:   p.SessionId,
		Name:        p.Name,
		Avatar:      p.Avatar,
		IsOrganizer: p.IsOrganizer,
		HasVoted:    p.HasVoted,
		Vote:        p.Vote,
		JoinedAt:    p.JoinedAt,
		LastSeen:    p.LastSeen,
	}
}

func (m *ParticipantMapper) ToModel(p *entity.Participant) *model.Participant {
	if p == nil {
		return nil
	}

	return &model.Participant{
		Id:          p.Id,
		SessionId:   p.SessionId,
		Name:        p.Name,
		Avatar:      p.Avatar,
		IsOrganizer: p.IsOrganizer,
		HasVoted:    p.HasVoted,
		Vote:        p.Vote,
		JoinedAt:    p.JoinedAt,
		LastSeen:    p.LastSeen,
	}
}

func (m *ParticipantMapper) ToEntities(participants []*model.Participant) []*entity.Participant {
	entities := make([]*entity.Participant, len(participants))
	for i, p := range participants {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
