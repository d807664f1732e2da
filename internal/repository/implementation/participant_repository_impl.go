package implementation

import (
	"context"
	"errors"
	"time"

	"planning-poker-be/internal/entity"
	"planning-poker-be/internal/mapper"
	"planning-poker-be/internal/model"
	"planning-poker-be/internal/repository/contract"
	"planning-poker-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParticipantRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ParticipantMapper
}

func NewParticipantRepository(db *gorm.DB) contract.ParticipantRepository {
	return &ParticipantRepositoryImpl{
		db:     db,
		mapper: mapper.NewParticipantMapper(),
	}
}

func (r *ParticipantRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ParticipantRepositoryImpl) Create(ctx context.Context, participant *entity.Participant) error {
	m := r.mapper.ToModel(participant)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*participant = *r.mapper.ToEntity(m)
	return nil
}

func (r *ParticipantRepositoryImpl) Update(ctx context.Context, participant *entity.Participant) error {
	m := r.mapper.ToModel(participant)
	// Save, not Updates: clearing a vote writes NULL and has_voted=false,
	// both zero values.
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*participant = *r.mapper.ToEntity(m)
	return nil
}

func (r *ParticipantRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Participant{}, id).Error
}

func (r *ParticipantRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Participant, error) {
	var m model.Participant
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ParticipantRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Participant, error) {
	var models []*model.Participant
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ParticipantRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Participant{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ParticipantRepositoryImpl) ClearVotes(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Participant{}).
		Where("session_id = ?", sessionId).
		Updates(map[string]interface{}{"vote": nil, "has_voted": false}).Error
}

func (r *ParticipantRepositoryImpl) Touch(ctx context.Context, id uuid.UUID, lastSeen time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Participant{}).
		Where("id = ?", id).
		Update("last_seen", lastSeen).Error
}
