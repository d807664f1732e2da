package implementation

import (
	"context"
	"errors"

	"planning-poker-be/internal/entity"
	"planning-poker-be/internal/mapper"
	"planning-poker-be/internal/model"
	"planning-poker-be/internal/repository/contract"
	"planning-poker-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StoryMapper
}

func NewStoryRepository(db *gorm.DB) contract.StoryRepository {
	return &StoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewStoryMapper(),
	}
}

func (r *StoryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *StoryRepositoryImpl) Create(ctx context.Context, story *entity.Story) error {
	m := r.mapper.ToModel(story)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*story = *r.mapper.ToEntity(m)
	return nil
}

func (r *StoryRepositoryImpl) Update(ctx context.Context, story *entity.Story) error {
	m := r.mapper.ToModel(story)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*story = *r.mapper.ToEntity(m)
	return nil
}

func (r *StoryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Story{}, id).Error
}

func (r *StoryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Story, error) {
	var m model.Story
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *StoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Story, error) {
	var models []*model.Story
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *StoryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Story{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *StoryRepositoryImpl) NextOrderIndex(ctx context.Context, sessionId uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&model.Story{}).
		Where("session_id = ?", sessionId).
		Select("MAX(order_index)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}
