package mapper

import (
	"encoding/json"
	"time"

	"dream-insight-be/internal/entity"
	"dream-insight-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DreamMapper struct{}

func NewDreamMapper() *DreamMapper {
	return &DreamMapper{}
}

func (m *DreamMapper) ToEntity(d *model.Dream) *entity.Dream {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	var themes []entity.ThemeDetection
	if len(d.Themes) > 0 {
		_ = json.Unmarshal(d.Themes, &themes)
	}

	return &entity.Dream{
		Id:            d.Id,
		UserId:        d.UserId,
		Transcription: d.Transcription,
		Themes:        themes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
		IsDeleted:     d.DeletedAt.Valid,
	}
}

func (m *DreamMapper) ToModel(d *entity.Dream) *model.Dream {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	var themes datatypes.JSON
	if len(d.Themes) > 0 {
		raw, err := json.Marshal(d.Themes)
		if err == nil {
			themes = raw
		}
	}

	return &model.Dream{
		Id:            d.Id,
		UserId:        d.UserId,
		Transcription: d.Transcription,
		Themes:        themes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
	}
}

func (m *DreamMapper) ToEntities(dreams []*model.Dream) []*entity.Dream {
	entities := make([]*entity.Dream, len(dreams))
	for i, d := range dreams {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
