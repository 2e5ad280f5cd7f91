package contract

import (
	"context"

	"dream-insight-be/pkg/knowledge"
)

// KnowledgeFragmentRepository is the pgvector-backed corpus store. It also
// satisfies the retriever's CorpusStore dependency.
type KnowledgeFragmentRepository interface {
	Create(ctx context.Context, fragment *knowledge.Fragment) error
	CreateBulk(ctx context.Context, fragments []knowledge.Fragment) error
	FindById(ctx context.Context, id string) (*knowledge.Fragment, error)
	UpdateEmbedding(ctx context.Context, id string, embedding []float32) error
	Count(ctx context.Context) (int64, error)

	SearchSimilarWithScore(ctx context.Context, embedding []float32, topK int, threshold float64) ([]knowledge.ScoredFragment, error)
	FindByThemeCodes(ctx context.Context, codes []string, limit int) ([]knowledge.Fragment, error)
	FindSample(ctx context.Context, limit int) ([]knowledge.Fragment, error)
}
