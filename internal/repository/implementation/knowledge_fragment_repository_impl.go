package implementation

import (
	"context"
	"encoding/json"
	"errors"

	"dream-insight-be/internal/mapper"
	"dream-insight-be/internal/model"
	"dream-insight-be/internal/repository/contract"
	"dream-insight-be/pkg/knowledge"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeFragmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FragmentMapper
}

func NewKnowledgeFragmentRepository(db *gorm.DB) contract.KnowledgeFragmentRepository {
	return &KnowledgeFragmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewFragmentMapper(),
	}
}

func (r *KnowledgeFragmentRepositoryImpl) Create(ctx context.Context, fragment *knowledge.Fragment) error {
	m := r.mapper.ToModel(*fragment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*fragment = r.mapper.ToDomain(m)
	return nil
}

func (r *KnowledgeFragmentRepositoryImpl) CreateBulk(ctx context.Context, fragments []knowledge.Fragment) error {
	if len(fragments) == 0 {
		return nil
	}
	models := make([]*model.KnowledgeFragment, len(fragments))
	for i, f := range fragments {
		models[i] = r.mapper.ToModel(f)
	}
	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return err
	}
	for i, m := range models {
		fragments[i] = r.mapper.ToDomain(m)
	}
	return nil
}

func (r *KnowledgeFragmentRepositoryImpl) FindById(ctx context.Context, id string) (*knowledge.Fragment, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	var m model.KnowledgeFragment
	if err := r.db.WithContext(ctx).First(&m, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	fragment := r.mapper.ToDomain(&m)
	return &fragment, nil
}

func (r *KnowledgeFragmentRepositoryImpl) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&model.KnowledgeFragment{}).
		Where("id = ?", uid).
		Update("embedding_value", pgvector.NewVector(embedding)).Error
}

func (r *KnowledgeFragmentRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.KnowledgeFragment{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore returns fragments with cosine similarity scores,
// filtered by threshold. Cosine distance in pgvector is 1 - similarity.
func (r *KnowledgeFragmentRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, topK int, threshold float64) ([]knowledge.ScoredFragment, error) {
	if topK <= 0 {
		topK = 5
	}

	type result struct {
		model.KnowledgeFragment
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("knowledge_fragments").
		Select("knowledge_fragments.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("knowledge_fragments.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(topK).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]knowledge.ScoredFragment, len(results))
	for i, res := range results {
		scored[i] = knowledge.ScoredFragment{
			Fragment:  r.mapper.ToDomain(&res.KnowledgeFragment),
			Relevance: res.Similarity,
		}
	}
	return scored, nil
}

// FindByThemeCodes matches fragments whose classification blob carries any of
// the given theme codes. Used by the keyword fallback path.
func (r *KnowledgeFragmentRepositoryImpl) FindByThemeCodes(ctx context.Context, codes []string, limit int) ([]knowledge.Fragment, error) {
	if limit <= 0 {
		limit = 32
	}
	if len(codes) == 0 {
		return []knowledge.Fragment{}, nil
	}

	// jsonb containment per code, OR-ed together
	query := r.db.WithContext(ctx).Model(&model.KnowledgeFragment{})
	conditions := r.db.WithContext(ctx).Model(&model.KnowledgeFragment{})
	for i, code := range codes {
		arg, err := json.Marshal([]string{code})
		if err != nil {
			continue
		}
		if i == 0 {
			conditions = conditions.Where("classification -> 'theme_codes' @> ?", string(arg))
		} else {
			conditions = conditions.Or("classification -> 'theme_codes' @> ?", string(arg))
		}
	}
	query = query.Where(conditions)

	var models []*model.KnowledgeFragment
	if err := query.Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToDomains(models), nil
}

func (r *KnowledgeFragmentRepositoryImpl) FindSample(ctx context.Context, limit int) ([]knowledge.Fragment, error) {
	if limit <= 0 {
		limit = 64
	}
	var models []*model.KnowledgeFragment
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToDomains(models), nil
}
