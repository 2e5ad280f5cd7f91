package mapper

import (
	"encoding/json"
	"time"

	"dream-insight-be/internal/entity"
	"dream-insight-be/internal/model"
	"dream-insight-be/pkg/interpret"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InterpretationMapper struct{}

func NewInterpretationMapper() *InterpretationMapper {
	return &InterpretationMapper{}
}

func (m *InterpretationMapper) ToEntity(i *model.Interpretation) *entity.Interpretation {
	if i == nil {
		return nil
	}

	var deletedAt *time.Time
	if i.DeletedAt.Valid {
		t := i.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !i.UpdatedAt.IsZero() {
		t := i.UpdatedAt
		updatedAt = &t
	}

	var result interpret.Canonical
	if len(i.Result) > 0 {
		_ = json.Unmarshal(i.Result, &result)
	}

	return &entity.Interpretation{
		Id:        i.Id,
		DreamId:   i.DreamId,
		UserId:    i.UserId,
		Persona:   i.Persona,
		Topic:     i.Topic,
		QuickTake: i.QuickTake,
		Fallback:  i.Fallback,
		Result:    result,
		CreatedAt: i.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: i.DeletedAt.Valid,
	}
}

func (m *InterpretationMapper) ToModel(i *entity.Interpretation) *model.Interpretation {
	if i == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if i.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *i.DeletedAt, Valid: true}
	} else if i.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if i.UpdatedAt != nil {
		updatedAt = *i.UpdatedAt
	}

	var result datatypes.JSON
	if raw, err := json.Marshal(i.Result); err == nil {
		result = raw
	}

	return &model.Interpretation{
		Id:        i.Id,
		DreamId:   i.DreamId,
		UserId:    i.UserId,
		Persona:   i.Persona,
		Topic:     i.Topic,
		QuickTake: i.QuickTake,
		Fallback:  i.Fallback,
		Result:    result,
		CreatedAt: i.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *InterpretationMapper) ToEntities(interpretations []*model.Interpretation) []*entity.Interpretation {
	entities := make([]*entity.Interpretation, len(interpretations))
	for i, item := range interpretations {
		entities[i] = m.ToEntity(item)
	}
	return entities
}
