package persona

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"dream-insight-be/pkg/interpret"
	"dream-insight-be/pkg/knowledge"
	"dream-insight-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queueProvider replays canned completions in call order.
type queueProvider struct {
	queue []func() (*llm.Completion, error)
	calls int
}

func (p *queueProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.Completion, error) {
	if p.calls >= len(p.queue) {
		return nil, errors.New("queue exhausted")
	}
	next := p.queue[p.calls]
	p.calls++
	return next()
}

func (p *queueProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	return p.Generate(ctx, "", options...)
}

func respond(content string) func() (*llm.Completion, error) {
	return func() (*llm.Completion, error) {
		return &llm.Completion{Content: content, Model: "test-model"}, nil
	}
}

func testContext(fragments ...knowledge.ScoredFragment) *interpret.Context {
	return &interpret.Context{
		Request: interpret.Request{
			DreamId:   "d-1",
			UserId:    "u-1",
			DreamText: "An owl watched me from the forest edge and whispered my name.",
			Persona:   "archetypal",
		},
		Fragments: fragments,
	}
}

func newTestInterpreter(t *testing.T, provider llm.LLMProvider) interpret.Interpreter {
	t.Helper()
	chain := interpret.NewChain(provider, nil)
	return NewArchetypal(chain, log.New(io.Discard, "", 0))
}

func TestAssessRelevanceRelinksFragments(t *testing.T) {
	provider := &queueProvider{queue: []func() (*llm.Completion, error){
		respond(`{
			"relevant_themes": ["owl", "forest"],
			"focus_areas": ["hidden wisdom"],
			"fragments": [
				{"fragment_id": "frag-1", "relevance": 0.9, "reason": "direct owl symbolism"},
				{"fragment_id": "hallucinated-id", "excerpt": "the owl sees precisely", "relevance": 1.7, "reason": "excerpt only"},
				{"fragment_id": "also-wrong", "relevance": 0.3, "reason": "no anchor at all"}
			]
		}`),
	}}
	it := newTestInterpreter(t, provider)

	ic := testContext(
		knowledge.ScoredFragment{Fragment: knowledge.Fragment{
			Id:      "frag-1",
			Content: "The owl sees precisely where the dreamer cannot; its wisdom is nocturnal.",
		}},
	)

	res := it.AssessRelevance(context.Background(), ic)
	require.True(t, res.Success, res.Err)

	frags := res.Data.Fragments
	require.Len(t, frags, 3)

	assert.Equal(t, "frag-1", frags[0].FragmentId)
	// Hallucinated id recovered via excerpt containment
	assert.Equal(t, "frag-1", frags[1].FragmentId)
	// Out-of-range relevance clamped
	assert.Equal(t, 1.0, frags[1].Relevance)
	// Nothing to anchor on: synthesized placeholder, never an outside id
	assert.Equal(t, "unmatched-1", frags[2].FragmentId)
}

func TestAssessRelevanceDefaultsMissingFields(t *testing.T) {
	provider := &queueProvider{queue: []func() (*llm.Completion, error){
		respond(`{"commentary": "no structured fields at all"}`),
	}}
	it := newTestInterpreter(t, provider)

	res := it.AssessRelevance(context.Background(), testContext())
	require.True(t, res.Success, res.Err)

	assert.NotNil(t, res.Data.RelevantThemes)
	assert.NotNil(t, res.Data.FocusAreas)
	assert.NotNil(t, res.Data.Fragments)
	assert.Empty(t, res.Data.Fragments)
}

func TestAssessRelevanceFailsOnExhaustedChain(t *testing.T) {
	provider := &queueProvider{queue: []func() (*llm.Completion, error){
		func() (*llm.Completion, error) { return nil, errors.New("backend down") },
	}}
	it := newTestInterpreter(t, provider)

	res := it.AssessRelevance(context.Background(), testContext())
	assert.False(t, res.Success)
	assert.Contains(t, res.Err, "relevance assessment")
}

func TestGenerateFullInterpretationHarvestsSymbols(t *testing.T) {
	prose := "The owl at the forest edge is no ordinary bird. It carries the shadow of what you have not yet faced, and the whisper it offers is the psyche speaking in images. Follow the path it marks."
	provider := &queueProvider{queue: []func() (*llm.Completion, error){respond(prose)}}
	it := newTestInterpreter(t, provider)

	res := it.GenerateFullInterpretation(context.Background(), testContext(), interpret.RelevanceAssessment{})
	require.True(t, res.Success, res.Err)

	assert.Equal(t, prose, res.Data.Text)
	assert.Contains(t, res.Data.Symbols, "owl")
	assert.Contains(t, res.Data.Symbols, "forest")
	assert.Contains(t, res.Data.Symbols, "shadow")
	assert.LessOrEqual(t, len(res.Data.Symbols), 10)
	assert.NotEmpty(t, res.Data.KeyInsights)
	assert.Nil(t, res.Data.Debate)
}

func TestFormatToJSONReconcilesAliasCore(t *testing.T) {
	provider := &queueProvider{queue: []func() (*llm.Completion, error){
		respond(`{
			"topic": "The owl that waits at the threshold",
			"interpretation": "The owl is an archetypal messenger: the psyche compensating for a waking life that has stopped listening to its own knowing.",
			"quick_take": "A threshold encounter with inner wisdom.",
			"symbols": ["Owl", "owl", "FOREST", ""],
			"emotional_tone": {"primary": "awe", "secondary": "unease", "intensity": 0.7},
			"archetypal_reading": {"archetypes": ["the Wise Old Man"], "compensation": "stillness"},
			"guidance": ["Sit with the image before interpreting it."],
			"reflective_question": "What does the owl already know?",
			"stray_field": "kept for traceability"
		}`),
	}}
	it := newTestInterpreter(t, provider)

	full := interpret.FullInterpretation{Text: "prose", Symbols: []string{"whisper", "path"}}
	res := it.FormatToJSON(context.Background(), testContext(), full, interpret.RelevanceAssessment{})
	require.True(t, res.Success, res.Err)

	f := res.Data
	assert.Equal(t, "archetypal", f.Persona)
	assert.Equal(t, "d-1", f.DreamId)

	// Aliased core recovered into the canonical slot
	require.Contains(t, f.Core, "archetypes")
	assert.Equal(t, "stillness", f.Core["compensation"])

	// Symbols lowercased, deduplicated, empties dropped, padded to >= 3
	assert.Equal(t, []string{"owl", "forest", "whisper"}, f.Symbols)

	assert.Equal(t, "awe", f.EmotionalTone.Primary)
	assert.Equal(t, 0.7, f.EmotionalTone.Intensity)

	// Non-canonical fields survive in Extra
	assert.Equal(t, "kept for traceability", f.Extra["stray_field"])
	assert.NotEmpty(t, f.Authenticity)
}

func TestFormatToJSONCondensesWhenInterpretationMissing(t *testing.T) {
	provider := &queueProvider{queue: []func() (*llm.Completion, error){
		respond(`{"topic": "A bare skeleton of a structured reply"}`),
	}}
	it := newTestInterpreter(t, provider)

	full := interpret.FullInterpretation{
		Text: "First sentence of substance here. Second sentence with more. Third one closes it out.",
	}
	res := it.FormatToJSON(context.Background(), testContext(), full, interpret.RelevanceAssessment{})
	require.True(t, res.Success, res.Err)

	assert.NotEmpty(t, res.Data.Interpretation)
	assert.NotEmpty(t, res.Data.ReflectiveQuestion)
	assert.NotNil(t, res.Data.Guidance)
}

func TestValidate(t *testing.T) {
	it := newTestInterpreter(t, &queueProvider{})

	longEnough := "An interpretation body comfortably over the fifty character floor for validity."

	tests := []struct {
		name      string
		formatted interpret.Formatted
		wantValid bool
	}{
		{
			name: "valid",
			formatted: interpret.Formatted{
				DreamId:        "d-1",
				Interpretation: longEnough,
				Symbols:        []string{"owl", "forest", "whisper"},
			},
			wantValid: true,
		},
		{
			name: "missing dream reference",
			formatted: interpret.Formatted{
				Interpretation: longEnough,
			},
			wantValid: false,
		},
		{
			name: "interpretation too short",
			formatted: interpret.Formatted{
				DreamId:        "d-1",
				Interpretation: "too short",
			},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := it.Validate(tt.formatted)
			assert.Equal(t, tt.wantValid, v.IsValid)
			if !tt.wantValid {
				assert.NotEmpty(t, v.Errors)
			}
		})
	}
}

func TestValidateWarningsDoNotBlock(t *testing.T) {
	it := newTestInterpreter(t, &queueProvider{})

	v := it.Validate(interpret.Formatted{
		DreamId:        "d-1",
		Interpretation: "An interpretation body comfortably over the fifty character floor for validity.",
		// no symbols, no core, no question: all advisory
	})
	assert.True(t, v.IsValid)
	assert.NotEmpty(t, v.Warnings)
}

func TestBoundSymbols(t *testing.T) {
	got := boundSymbols(
		[]string{"Owl", "owl", " FOREST ", "", "averylongsymbolnamethatexceedsthirtychars"},
		[]string{"whisper", "path", "night"},
	)
	assert.Equal(t, []string{"owl", "forest", "whisper"}, got)

	// Over-ten input truncates
	many := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	assert.Len(t, boundSymbols(many, nil), 10)

	// Nothing anywhere still yields a non-nil slice
	assert.NotNil(t, boundSymbols(nil, nil))
}

func TestExtractKeyInsights(t *testing.T) {
	text := "The first insight sentence is long enough to keep. Second insight also carries enough weight here. Third one rounds out the trio nicely. A fourth that should be cut."
	insights := extractKeyInsights(text, 3)
	assert.Len(t, insights, 3)

	assert.Empty(t, extractKeyInsights("", 3))
	assert.Empty(t, extractKeyInsights("Short. Tiny. No.", 3))
}

func TestBuildRegistryCoversAllPersonas(t *testing.T) {
	chain := interpret.NewChain(&queueProvider{}, nil)
	registry := BuildRegistry(chain, log.New(io.Discard, "", 0))

	for _, key := range []string{"psychoanalytic", "archetypal", "neuroscientific", "devotional"} {
		it, ok := registry[key]
		require.True(t, ok, "missing persona %s", key)
		assert.Equal(t, key, it.Key())
		assert.NotEmpty(t, it.Meta().Name)
		assert.NotEmpty(t, it.OpeningStyles())
		assert.NotEmpty(t, it.StructureStyles())
		assert.NotEmpty(t, it.CoreStructure())
	}
}
