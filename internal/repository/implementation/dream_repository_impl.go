package implementation

import (
	"context"
	"errors"

	"dream-insight-be/internal/entity"
	"dream-insight-be/internal/mapper"
	"dream-insight-be/internal/model"
	"dream-insight-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DreamRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DreamMapper
}

func NewDreamRepository(db *gorm.DB) contract.DreamRepository {
	return &DreamRepositoryImpl{
		db:     db,
		mapper: mapper.NewDreamMapper(),
	}
}

func (r *DreamRepositoryImpl) Create(ctx context.Context, dream *entity.Dream) error {
	m := r.mapper.ToModel(dream)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*dream = *r.mapper.ToEntity(m)
	return nil
}

func (r *DreamRepositoryImpl) Update(ctx context.Context, dream *entity.Dream) error {
	m := r.mapper.ToModel(dream)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*dream = *r.mapper.ToEntity(m)
	return nil
}

func (r *DreamRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Dream{}, id).Error
}

func (r *DreamRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Dream, error) {
	var m model.Dream
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DreamRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.Dream, error) {
	if limit <= 0 {
		limit = 20
	}
	var models []*model.Dream
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
