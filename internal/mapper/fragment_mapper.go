package mapper

import (
	"encoding/json"

	"dream-insight-be/internal/model"
	"dream-insight-be/pkg/knowledge"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// FragmentMapper converts between the storage model and the domain fragment
// type spoken by the classifier and retriever. The classification detail
// beyond the indexed columns travels as one JSON blob.
type FragmentMapper struct{}

func NewFragmentMapper() *FragmentMapper {
	return &FragmentMapper{}
}

func (m *FragmentMapper) ToDomain(f *model.KnowledgeFragment) knowledge.Fragment {
	classification := knowledge.Classification{
		PrimaryType: knowledge.ContentType(f.PrimaryType),
		Confidence:  f.Confidence,
	}
	if len(f.Classification) > 0 {
		// Indexed columns win over the blob on disagreement
		var full knowledge.Classification
		if err := json.Unmarshal(f.Classification, &full); err == nil {
			full.PrimaryType = classification.PrimaryType
			full.Confidence = classification.Confidence
			classification = full
		}
	}

	return knowledge.Fragment{
		Id:             f.Id.String(),
		SourceId:       f.SourceId,
		Chapter:        f.Chapter,
		Content:        f.Content,
		Classification: classification,
		Embedding:      f.EmbeddingValue.Slice(),
	}
}

func (m *FragmentMapper) ToModel(f knowledge.Fragment) *model.KnowledgeFragment {
	id, err := uuid.Parse(f.Id)
	if err != nil {
		id = uuid.New()
	}

	var classification datatypes.JSON
	if raw, err := json.Marshal(f.Classification); err == nil {
		classification = raw
	}

	return &model.KnowledgeFragment{
		Id:             id,
		SourceId:       f.SourceId,
		Chapter:        f.Chapter,
		Content:        f.Content,
		PrimaryType:    string(f.Classification.PrimaryType),
		Confidence:     f.Classification.Confidence,
		Classification: classification,
		EmbeddingValue: pgvector.NewVector(f.Embedding),
	}
}

func (m *FragmentMapper) ToDomains(models []*model.KnowledgeFragment) []knowledge.Fragment {
	fragments := make([]knowledge.Fragment, len(models))
	for i, f := range models {
		fragments[i] = m.ToDomain(f)
	}
	return fragments
}
