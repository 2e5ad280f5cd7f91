// Package retriever returns ranked knowledge fragments for a theme set and
// persona. The primary path is vector similarity over the precomputed
// fragment embedding space; when embeddings are unavailable or the search
// backend fails it degrades to keyword scoring against the theme vocabulary.
// Retrieval never mutates the corpus.
package retriever

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"dream-insight-be/pkg/embedding"
	"dream-insight-be/pkg/knowledge"

	gocache "github.com/patrickmn/go-cache"
)

// CorpusStore is the read side of the fragment corpus. Implemented by the
// pgvector-backed repository; tests supply fakes.
type CorpusStore interface {
	SearchSimilarWithScore(ctx context.Context, embedding []float32, topK int, threshold float64) ([]knowledge.ScoredFragment, error)
	FindByThemeCodes(ctx context.Context, codes []string, limit int) ([]knowledge.Fragment, error)
	FindSample(ctx context.Context, limit int) ([]knowledge.Fragment, error)
}

// ThemeStore resolves theme codes to their reference rows.
type ThemeStore interface {
	FindByCodes(ctx context.Context, codes []string) ([]knowledge.Theme, error)
}

// Constraints bound one retrieval call.
type Constraints struct {
	TopK      int
	Threshold float64
	QueryText string // dream transcription, folded into the query representation
}

// DefaultConstraints mirror the search defaults used across the service.
func DefaultConstraints() Constraints {
	return Constraints{
		TopK:      8,
		Threshold: 0.35,
	}
}

// personaTopicAffinity biases ranking toward fragments whose classified
// topics match the persona's home literature.
var personaTopicAffinity = map[string][]string{
	"psychoanalytic":  {"freudian_psychology", "emotions"},
	"archetypal":      {"jungian_psychology", "symbolism"},
	"neuroscientific": {"neuroscience", "sleep_science"},
	"devotional":      {"spiritual_tradition", "emotions"},
}

const affinityBoost = 0.05

type Retriever struct {
	corpus     CorpusStore
	themeStore ThemeStore
	embedder   embedding.EmbeddingProvider
	themeCache *gocache.Cache // query-embedding cache keyed by theme-code set
	logger     *log.Logger
}

func New(corpus CorpusStore, themeStore ThemeStore, embedder embedding.EmbeddingProvider, logger *log.Logger) *Retriever {
	return &Retriever{
		corpus:     corpus,
		themeStore: themeStore,
		embedder:   embedder,
		themeCache: gocache.New(30*time.Minute, 10*time.Minute),
		logger:     logger,
	}
}

// Retrieve returns fragments ordered by descending relevance. A degenerate
// theme set yields an empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, themeCodes []string, persona string, constraints Constraints) ([]knowledge.ScoredFragment, error) {
	if constraints.TopK <= 0 {
		constraints.TopK = DefaultConstraints().TopK
	}
	if constraints.Threshold <= 0 {
		constraints.Threshold = DefaultConstraints().Threshold
	}

	if len(themeCodes) == 0 && strings.TrimSpace(constraints.QueryText) == "" {
		return []knowledge.ScoredFragment{}, nil
	}

	themes, err := r.resolveThemes(ctx, themeCodes)
	if err != nil {
		r.logger.Printf("[WARN] Theme resolution failed, continuing with codes only: %v", err)
	}

	scored, err := r.vectorSearch(ctx, themes, themeCodes, constraints)
	if err != nil {
		r.logger.Printf("[WARN] Vector retrieval failed, falling back to keyword scoring: %v", err)
		scored, err = r.keywordSearch(ctx, themes, themeCodes, constraints)
		if err != nil {
			return nil, fmt.Errorf("keyword fallback failed: %w", err)
		}
	}

	scored = applyPersonaAffinity(scored, persona)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Relevance > scored[j].Relevance
	})
	if len(scored) > constraints.TopK {
		scored = scored[:constraints.TopK]
	}

	r.logger.Printf("[RETRIEVE] %d fragments for themes=%v persona=%s", len(scored), themeCodes, persona)
	return scored, nil
}

func (r *Retriever) resolveThemes(ctx context.Context, codes []string) ([]knowledge.Theme, error) {
	if len(codes) == 0 || r.themeStore == nil {
		return nil, nil
	}
	return r.themeStore.FindByCodes(ctx, codes)
}

// vectorSearch builds a query representation from the dream text and theme
// labels, embeds it, and runs the similarity backend.
func (r *Retriever) vectorSearch(ctx context.Context, themes []knowledge.Theme, codes []string, constraints Constraints) ([]knowledge.ScoredFragment, error) {
	if r.embedder == nil {
		return nil, fmt.Errorf("no embedding provider configured")
	}

	queryText := buildQueryText(themes, codes, constraints.QueryText)

	vector, err := r.queryEmbedding(queryText)
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}

	return r.corpus.SearchSimilarWithScore(ctx, vector, constraints.TopK, constraints.Threshold)
}

func (r *Retriever) queryEmbedding(queryText string) ([]float32, error) {
	if cached, found := r.themeCache.Get(queryText); found {
		return cached.([]float32), nil
	}

	res, err := r.embedder.Generate(queryText, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}
	if len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding returned")
	}

	r.themeCache.Set(queryText, res.Embedding.Values, gocache.DefaultExpiration)
	return res.Embedding.Values, nil
}

func buildQueryText(themes []knowledge.Theme, codes []string, dreamText string) string {
	var sb strings.Builder
	if dreamText != "" {
		sb.WriteString(dreamText)
		sb.WriteString("\n")
	}
	if len(themes) > 0 {
		for _, t := range themes {
			sb.WriteString(t.Label)
			if t.Description != "" {
				sb.WriteString(": ")
				sb.WriteString(t.Description)
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString(strings.Join(codes, " "))
	}
	return sb.String()
}

// keywordSearch is the degraded path: score candidate fragments by overlap
// with the theme vocabulary. Threshold scales with vocabulary size so rich
// theme descriptions do not demand impossible overlap.
func (r *Retriever) keywordSearch(ctx context.Context, themes []knowledge.Theme, codes []string, constraints Constraints) ([]knowledge.ScoredFragment, error) {
	candidates, err := r.corpus.FindByThemeCodes(ctx, codes, constraints.TopK*4)
	if err != nil || len(candidates) == 0 {
		candidates, err = r.corpus.FindSample(ctx, constraints.TopK*8)
		if err != nil {
			return nil, err
		}
	}

	vocabulary := themeVocabulary(themes, codes)
	if len(vocabulary) == 0 {
		return []knowledge.ScoredFragment{}, nil
	}

	minHits := len(vocabulary) / 6
	if minHits < 1 {
		minHits = 1
	}

	var scored []knowledge.ScoredFragment
	for _, frag := range candidates {
		lower := strings.ToLower(frag.Content)
		hits := 0
		for _, word := range vocabulary {
			if strings.Contains(lower, word) {
				hits++
			}
		}
		if hits < minHits {
			continue
		}
		relevance := float64(hits) / float64(len(vocabulary))
		if relevance > 1 {
			relevance = 1
		}
		scored = append(scored, knowledge.ScoredFragment{Fragment: frag, Relevance: relevance})
	}
	return scored, nil
}

func themeVocabulary(themes []knowledge.Theme, codes []string) []string {
	seen := make(map[string]bool)
	var vocabulary []string

	add := func(raw string) {
		for _, word := range strings.Fields(strings.ToLower(raw)) {
			word = strings.Trim(word, ".,;:\"'()")
			if len(word) < 4 || seen[word] {
				continue
			}
			seen[word] = true
			vocabulary = append(vocabulary, word)
		}
	}

	for _, t := range themes {
		add(t.Label)
		add(t.Description)
	}
	for _, code := range codes {
		add(strings.ReplaceAll(code, "_", " "))
	}
	return vocabulary
}

func applyPersonaAffinity(scored []knowledge.ScoredFragment, persona string) []knowledge.ScoredFragment {
	preferred := personaTopicAffinity[persona]
	if len(preferred) == 0 {
		return scored
	}

	for i := range scored {
		for _, topic := range scored[i].Fragment.Classification.Topics {
			for _, p := range preferred {
				if topic == p {
					scored[i].Relevance += affinityBoost
				}
			}
		}
		if scored[i].Relevance > 1 {
			scored[i].Relevance = 1
		}
	}
	return scored
}
