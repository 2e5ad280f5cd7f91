package implementation

import (
	"context"

	"dream-insight-be/internal/mapper"
	"dream-insight-be/internal/model"
	"dream-insight-be/internal/repository/contract"
	"dream-insight-be/pkg/knowledge"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ThemeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ThemeMapper
}

func NewThemeRepository(db *gorm.DB) contract.ThemeRepository {
	return &ThemeRepositoryImpl{
		db:     db,
		mapper: mapper.NewThemeMapper(),
	}
}

func (r *ThemeRepositoryImpl) Upsert(ctx context.Context, theme knowledge.Theme) error {
	m := r.mapper.ToModel(theme)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"label", "description", "embedding_value", "updated_at"}),
		}).
		Create(m).Error
}

func (r *ThemeRepositoryImpl) FindByCodes(ctx context.Context, codes []string) ([]knowledge.Theme, error) {
	if len(codes) == 0 {
		return []knowledge.Theme{}, nil
	}
	var models []*model.Theme
	err := r.db.WithContext(ctx).
		Where("code IN ?", codes).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToDomains(models), nil
}

func (r *ThemeRepositoryImpl) FindAll(ctx context.Context) ([]knowledge.Theme, error) {
	var models []*model.Theme
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToDomains(models), nil
}
