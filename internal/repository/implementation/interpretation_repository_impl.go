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

type InterpretationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.InterpretationMapper
}

func NewInterpretationRepository(db *gorm.DB) contract.InterpretationRepository {
	return &InterpretationRepositoryImpl{
		db:     db,
		mapper: mapper.NewInterpretationMapper(),
	}
}

func (r *InterpretationRepositoryImpl) Create(ctx context.Context, interpretation *entity.Interpretation) error {
	m := r.mapper.ToModel(interpretation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*interpretation = *r.mapper.ToEntity(m)
	return nil
}

func (r *InterpretationRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Interpretation, error) {
	var m model.Interpretation
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *InterpretationRepositoryImpl) FindByDreamId(ctx context.Context, dreamId uuid.UUID) ([]*entity.Interpretation, error) {
	var models []*model.Interpretation
	err := r.db.WithContext(ctx).
		Where("dream_id = ?", dreamId).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *InterpretationRepositoryImpl) FindByDreamAndPersona(ctx context.Context, dreamId uuid.UUID, persona string) (*entity.Interpretation, error) {
	var m model.Interpretation
	err := r.db.WithContext(ctx).
		Where("dream_id = ? AND persona = ?", dreamId, persona).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *InterpretationRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.Interpretation, error) {
	if limit <= 0 {
		limit = 20
	}
	var models []*model.Interpretation
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
