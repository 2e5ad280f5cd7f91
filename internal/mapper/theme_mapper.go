package mapper

import (
	"dream-insight-be/internal/model"
	"dream-insight-be/pkg/knowledge"

	"github.com/pgvector/pgvector-go"
)

type ThemeMapper struct{}

func NewThemeMapper() *ThemeMapper {
	return &ThemeMapper{}
}

func (m *ThemeMapper) ToDomain(t *model.Theme) knowledge.Theme {
	return knowledge.Theme{
		Code:        t.Code,
		Label:       t.Label,
		Description: t.Description,
		Embedding:   t.EmbeddingValue.Slice(),
	}
}

func (m *ThemeMapper) ToModel(t knowledge.Theme) *model.Theme {
	return &model.Theme{
		Code:           t.Code,
		Label:          t.Label,
		Description:    t.Description,
		EmbeddingValue: pgvector.NewVector(t.Embedding),
	}
}

func (m *ThemeMapper) ToDomains(models []*model.Theme) []knowledge.Theme {
	themes := make([]knowledge.Theme, len(models))
	for i, t := range models {
		themes[i] = m.ToDomain(t)
	}
	return themes
}
