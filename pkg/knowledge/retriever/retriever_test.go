package retriever

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"dream-insight-be/pkg/embedding"
	"dream-insight-be/pkg/knowledge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCorpus struct {
	similar    []knowledge.ScoredFragment
	similarErr error

	byTheme    []knowledge.Fragment
	byThemeErr error

	sample    []knowledge.Fragment
	sampleErr error

	searchCalls   int
	lastTopK      int
	lastThreshold float64
	sampleCalls   int
}

func (f *fakeCorpus) SearchSimilarWithScore(ctx context.Context, emb []float32, topK int, threshold float64) ([]knowledge.ScoredFragment, error) {
	f.searchCalls++
	f.lastTopK = topK
	f.lastThreshold = threshold
	return f.similar, f.similarErr
}

func (f *fakeCorpus) FindByThemeCodes(ctx context.Context, codes []string, limit int) ([]knowledge.Fragment, error) {
	return f.byTheme, f.byThemeErr
}

func (f *fakeCorpus) FindSample(ctx context.Context, limit int) ([]knowledge.Fragment, error) {
	f.sampleCalls++
	return f.sample, f.sampleErr
}

type fakeThemeStore struct {
	themes []knowledge.Theme
	err    error
}

func (f *fakeThemeStore) FindByCodes(ctx context.Context, codes []string) ([]knowledge.Theme, error) {
	return f.themes, f.err
}

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func scoredFrag(id string, relevance float64, topics ...string) knowledge.ScoredFragment {
	return knowledge.ScoredFragment{
		Fragment: knowledge.Fragment{
			Id:             id,
			Content:        "fragment " + id,
			Classification: knowledge.Classification{Topics: topics},
		},
		Relevance: relevance,
	}
}

func TestRetrieveVectorPathRanksWithAffinity(t *testing.T) {
	corpus := &fakeCorpus{similar: []knowledge.ScoredFragment{
		scoredFrag("plain", 0.62),
		scoredFrag("jungian", 0.60, "jungian_psychology"),
		scoredFrag("weak", 0.40),
	}}
	r := New(corpus, &fakeThemeStore{}, &fakeEmbedder{}, testLogger())

	got, err := r.Retrieve(context.Background(), []string{"owl"}, "archetypal", Constraints{TopK: 2, Threshold: 0.3})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// The topic-affinity boost lifts the jungian fragment past the plain one
	assert.Equal(t, "jungian", got[0].Fragment.Id)
	assert.InDelta(t, 0.65, got[0].Relevance, 1e-9)
	assert.Equal(t, "plain", got[1].Fragment.Id)
	assert.InDelta(t, 0.62, got[1].Relevance, 1e-9)
}

func TestRetrieveAffinityBoostCapsAtOne(t *testing.T) {
	corpus := &fakeCorpus{similar: []knowledge.ScoredFragment{
		scoredFrag("double", 0.98, "jungian_psychology", "symbolism"),
	}}
	r := New(corpus, &fakeThemeStore{}, &fakeEmbedder{}, testLogger())

	got, err := r.Retrieve(context.Background(), []string{"owl"}, "archetypal", Constraints{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].Relevance)
}

func TestRetrieveAppliesDefaultConstraints(t *testing.T) {
	corpus := &fakeCorpus{}
	r := New(corpus, &fakeThemeStore{}, &fakeEmbedder{}, testLogger())

	_, err := r.Retrieve(context.Background(), []string{"owl"}, "archetypal", Constraints{})
	require.NoError(t, err)
	assert.Equal(t, 8, corpus.lastTopK)
	assert.Equal(t, 0.35, corpus.lastThreshold)
}

func TestRetrieveKeywordFallback(t *testing.T) {
	themeStore := &fakeThemeStore{themes: []knowledge.Theme{
		{Code: "owl", Label: "Owl", Description: "hidden wisdom of the night"},
	}}
	corpus := &fakeCorpus{byTheme: []knowledge.Fragment{
		{Id: "match", Content: "The owl carries hidden wisdom through the night air."},
		{Id: "miss", Content: "Nothing relevant appears in this candidate."},
	}}
	embedder := &fakeEmbedder{err: errors.New("embedding backend down")}
	r := New(corpus, themeStore, embedder, testLogger())

	got, err := r.Retrieve(context.Background(), []string{"owl"}, "archetypal", Constraints{})
	require.NoError(t, err)

	// Vector search never ran; keyword scoring against the theme vocabulary did
	assert.Equal(t, 0, corpus.searchCalls)
	require.Len(t, got, 1)
	assert.Equal(t, "match", got[0].Fragment.Id)
	// All three vocabulary words hit: hidden, wisdom, night ("owl" is too short)
	assert.Equal(t, 1.0, got[0].Relevance)
}

func TestRetrieveKeywordFallbackSamplesWhenThemeLookupEmpty(t *testing.T) {
	themeStore := &fakeThemeStore{themes: []knowledge.Theme{
		{Code: "owl", Label: "Owl", Description: "hidden wisdom of the night"},
	}}
	corpus := &fakeCorpus{sample: []knowledge.Fragment{
		{Id: "sampled", Content: "A passage on the hidden wisdom carried through night vigils."},
	}}
	r := New(corpus, themeStore, &fakeEmbedder{err: errors.New("down")}, testLogger())

	got, err := r.Retrieve(context.Background(), []string{"owl"}, "devotional", Constraints{})
	require.NoError(t, err)
	assert.Equal(t, 1, corpus.sampleCalls)
	require.Len(t, got, 1)
	assert.Equal(t, "sampled", got[0].Fragment.Id)
}

func TestRetrieveEmptyInputShortCircuits(t *testing.T) {
	corpus := &fakeCorpus{}
	embedder := &fakeEmbedder{}
	r := New(corpus, &fakeThemeStore{}, embedder, testLogger())

	got, err := r.Retrieve(context.Background(), nil, "archetypal", Constraints{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, embedder.calls)
	assert.Equal(t, 0, corpus.searchCalls)
}

func TestRetrieveThemeResolutionFailureTolerated(t *testing.T) {
	corpus := &fakeCorpus{similar: []knowledge.ScoredFragment{scoredFrag("a", 0.5)}}
	r := New(corpus, &fakeThemeStore{err: errors.New("db gone")}, &fakeEmbedder{}, testLogger())

	got, err := r.Retrieve(context.Background(), []string{"owl", "forest"}, "archetypal", Constraints{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRetrieveCachesQueryEmbedding(t *testing.T) {
	embedder := &fakeEmbedder{}
	r := New(&fakeCorpus{}, &fakeThemeStore{}, embedder, testLogger())

	for i := 0; i < 3; i++ {
		_, err := r.Retrieve(context.Background(), []string{"owl"}, "archetypal", Constraints{})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, embedder.calls)
}

func TestRetrieveKeywordFallbackFailureSurfaces(t *testing.T) {
	corpus := &fakeCorpus{
		byThemeErr: errors.New("theme query failed"),
		sampleErr:  errors.New("sample query failed"),
	}
	r := New(corpus, &fakeThemeStore{}, &fakeEmbedder{err: errors.New("down")}, testLogger())

	_, err := r.Retrieve(context.Background(), []string{"owl"}, "archetypal", Constraints{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyword fallback failed")
}
