package interpret_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"unicode/utf8"

	"dream-insight-be/pkg/interpret"
	"dream-insight-be/pkg/interpret/persona"
	"dream-insight-be/pkg/interpret/style"
	"dream-insight-be/pkg/knowledge"
	"dream-insight-be/pkg/knowledge/retriever"
	"dream-insight-be/pkg/knowledge/themes"
	"dream-insight-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqProvider replays completions in call order, one per pipeline stage.
type seqProvider struct {
	queue []func() (*llm.Completion, error)
	calls int
}

func (p *seqProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.Completion, error) {
	if p.calls >= len(p.queue) {
		return nil, errors.New("no more scripted responses")
	}
	next := p.queue[p.calls]
	p.calls++
	return next()
}

func (p *seqProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	return p.Generate(ctx, "", options...)
}

func reply(content string) func() (*llm.Completion, error) {
	return func() (*llm.Completion, error) {
		return &llm.Completion{Content: content, Model: "scripted", Usage: llm.Usage{PromptTokens: 10, CompletionTokens: 20}}, nil
	}
}

func alwaysFail() func() (*llm.Completion, error) {
	return func() (*llm.Completion, error) {
		return nil, errors.New("backend unavailable")
	}
}

type fakeSource struct {
	fragments []knowledge.ScoredFragment
	err       error
	calls     int
}

func (f *fakeSource) Retrieve(ctx context.Context, themeCodes []string, personaKey string, constraints retriever.Constraints) ([]knowledge.ScoredFragment, error) {
	f.calls++
	return f.fragments, f.err
}

func newOrchestrator(provider llm.LLMProvider, source interpret.FragmentSource) *interpret.Orchestrator {
	logger := log.New(io.Discard, "", 0)
	chain := interpret.NewChain(provider, nil)
	registry := persona.BuildRegistry(chain, logger)
	return interpret.NewOrchestrator(registry, source, themes.NewMapper(), style.NewTracker(0), logger)
}

func owlRequest() interpret.Request {
	return interpret.Request{
		DreamId:   "d-1",
		UserId:    "u-1",
		DreamText: "An owl watched me from the forest edge and whispered my name.",
		Persona:   "archetypal",
		Themes: []interpret.ThemeRef{
			{Code: "owl", Name: "owl", Score: 0.9},
			{Code: "forest", Name: "forest", Score: 0.7},
		},
	}
}

const stageOneJSON = `{
	"relevant_themes": ["owl", "forest"],
	"focus_areas": ["hidden wisdom"],
	"fragments": [{"fragment_id": "frag-1", "relevance": 0.8, "reason": "owl symbolism"}]
}`

const stageTwoProse = "The owl at the forest edge is an archetypal watcher. Its stillness holds a knowing your waking mind has not yet admitted, and the whisper of your name is the psyche calling you toward what the darkness conceals. The forest marks the boundary of the territory you have mapped."

const stageThreeJSON = `{
	"topic": "The owl at the forest threshold",
	"interpretation": "The owl is the psyche's night-sighted witness: an archetype of wisdom that sees what daylight consciousness cannot, calling you by name toward the unexplored forest of your inner life.",
	"quick_take": "A threshold encounter with an inner figure of wisdom.",
	"symbols": ["owl", "forest", "threshold"],
	"emotional_tone": {"primary": "awe", "secondary": "unease", "intensity": 0.6},
	"archetypal_reading": {"archetypes": ["the Wise Old Man"], "compensation": "attention to the neglected inner life"},
	"guidance": ["Sit with the owl's image before assigning it a meaning."],
	"reflective_question": "What does the owl already know about you?"
}`

func TestInterpretRunsAllThreeStages(t *testing.T) {
	provider := &seqProvider{queue: []func() (*llm.Completion, error){
		reply(stageOneJSON),
		reply(stageTwoProse),
		reply(stageThreeJSON),
	}}
	source := &fakeSource{fragments: []knowledge.ScoredFragment{
		{Fragment: knowledge.Fragment{Id: "frag-1", Content: "The owl sees in darkness."}, Relevance: 0.8},
	}}
	o := newOrchestrator(provider, source)

	res, err := o.Interpret(context.Background(), owlRequest(), interpret.Options{})
	require.NoError(t, err)
	require.NotNil(t, res)

	c := res.Canonical
	assert.Equal(t, "archetypal", c.Persona)
	assert.Equal(t, "d-1", c.DreamId)
	assert.Equal(t, "The owl at the forest threshold", c.Topic)
	assert.Contains(t, c.Symbols, "owl")
	assert.Equal(t, "awe", c.EmotionalTone.Primary)
	assert.NotEmpty(t, c.Core)
	assert.NotEmpty(t, c.ReflectiveQuestion)

	meta := c.GenerationMetadata
	assert.Equal(t, []string{
		interpret.StageRelevance,
		interpret.StageFull,
		interpret.StageFormat,
	}, meta.StagesCompleted)
	assert.False(t, meta.Fallback)
	assert.Equal(t, 1, meta.FragmentsRetrieved)
	assert.Equal(t, 1, meta.FragmentsUsed)
	assert.Equal(t, 30, meta.PromptTokens)
	assert.Equal(t, 60, meta.CompletionTokens)

	assert.True(t, res.Validation.IsValid)
	assert.Equal(t, 3, provider.calls)
	assert.Equal(t, 1, source.calls)
}

func TestInterpretFallsBackWhenGenerationExhausted(t *testing.T) {
	provider := &seqProvider{queue: []func() (*llm.Completion, error){alwaysFail()}}
	o := newOrchestrator(provider, &fakeSource{})

	res, err := o.Interpret(context.Background(), owlRequest(), interpret.Options{})
	require.NoError(t, err, "exhaustion yields a fallback result, not an error")
	require.NotNil(t, res)

	c := res.Canonical
	assert.True(t, c.GenerationMetadata.Fallback)
	assert.NotEmpty(t, c.AdditionalInfo["fallback_reason"])
	assert.Equal(t, "A dream held for later reflection", c.Topic)
	// Fallback symbols come from the detected themes, padded to the floor
	assert.Equal(t, []string{"owl", "forest", "dream"}, c.Symbols)
	assert.NotEmpty(t, c.Interpretation)

	assert.True(t, res.Validation.IsValid)
	assert.Contains(t, res.Validation.Warnings, "fallback response substituted")
}

func TestInterpretFallbackSymbolsDefaultWithoutThemes(t *testing.T) {
	provider := &seqProvider{queue: []func() (*llm.Completion, error){alwaysFail()}}
	o := newOrchestrator(provider, &fakeSource{})

	req := owlRequest()
	req.Themes = nil

	res, err := o.Interpret(context.Background(), req, interpret.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"dream", "night", "memory"}, res.Canonical.Symbols)
}

func TestInterpretFallbackSymbolsPadWithoutDuplicates(t *testing.T) {
	provider := &seqProvider{queue: []func() (*llm.Completion, error){alwaysFail()}}
	o := newOrchestrator(provider, &fakeSource{})

	req := owlRequest()
	req.Themes = []interpret.ThemeRef{{Code: "dream", Name: "dream", Score: 0.9}}

	res, err := o.Interpret(context.Background(), req, interpret.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"dream", "night", "memory"}, res.Canonical.Symbols)
}

func TestInterpretUnknownPersona(t *testing.T) {
	o := newOrchestrator(&seqProvider{}, &fakeSource{})

	req := owlRequest()
	req.Persona = "somatic"

	res, err := o.Interpret(context.Background(), req, interpret.Options{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "unknown persona")
	// The error names the personas that do exist
	assert.Contains(t, err.Error(), "archetypal")
}

func TestInterpretToleratesRetrievalFailure(t *testing.T) {
	provider := &seqProvider{queue: []func() (*llm.Completion, error){
		reply(stageOneJSON),
		reply(stageTwoProse),
		reply(stageThreeJSON),
	}}
	source := &fakeSource{err: errors.New("search backend down")}
	o := newOrchestrator(provider, source)

	res, err := o.Interpret(context.Background(), owlRequest(), interpret.Options{})
	require.NoError(t, err)

	// The run proceeded without reference material
	assert.False(t, res.Canonical.GenerationMetadata.Fallback)
	assert.Equal(t, 0, res.Canonical.GenerationMetadata.FragmentsRetrieved)
	assert.Len(t, res.Canonical.GenerationMetadata.StagesCompleted, 3)
}

func TestInterpretFallsBackOnInvalidOutput(t *testing.T) {
	provider := &seqProvider{queue: []func() (*llm.Completion, error){
		reply(stageOneJSON),
		reply(stageTwoProse),
		reply(`{"topic": "A reading", "interpretation": "tiny"}`),
	}}
	o := newOrchestrator(provider, &fakeSource{})

	res, err := o.Interpret(context.Background(), owlRequest(), interpret.Options{})
	require.NoError(t, err)

	assert.True(t, res.Canonical.GenerationMetadata.Fallback)
	assert.Contains(t, res.Canonical.AdditionalInfo["fallback_reason"], "too short")
}

func TestTrackedOpeningCutsOnRuneBoundary(t *testing.T) {
	// A two-byte rune straddling the 60-byte opening cut must not be split
	body := strings.Repeat("a", 59) + "é and the remainder of the interpretation body continues on"
	stage3 := fmt.Sprintf(`{"topic": "The owl at the forest threshold", "interpretation": %q}`, body)

	provider := &seqProvider{queue: []func() (*llm.Completion, error){
		reply(stageOneJSON),
		reply(stageTwoProse),
		reply(stage3),
	}}
	logger := log.New(io.Discard, "", 0)
	chain := interpret.NewChain(provider, nil)
	registry := persona.BuildRegistry(chain, logger)
	tracker := style.NewTracker(0)
	o := interpret.NewOrchestrator(registry, &fakeSource{}, themes.NewMapper(), tracker, logger)

	_, err := o.Interpret(context.Background(), owlRequest(), interpret.Options{})
	require.NoError(t, err)

	openings := tracker.ForbiddenOpenings("archetypal")
	require.NotEmpty(t, openings)

	tracked := openings[len(openings)-1]
	assert.True(t, utf8.ValidString(tracked))
	assert.Equal(t, strings.Repeat("a", 59), tracked)
}

func TestKnownPersonasStableOrder(t *testing.T) {
	o := newOrchestrator(&seqProvider{}, &fakeSource{})

	assert.Equal(t,
		[]string{"archetypal", "devotional", "neuroscientific", "psychoanalytic"},
		o.KnownPersonas())
}
