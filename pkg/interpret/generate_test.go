package interpret

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dream-insight-be/pkg/llm"
)

// scriptedProvider routes each request to a per-model response, mirroring how
// the chain rotates through its fallback models.
type scriptedProvider struct {
	responses map[string]func() (*llm.Completion, error)
	calls     []string
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.Completion, error) {
	o := &llm.Options{}
	for _, opt := range options {
		opt(o)
	}
	p.calls = append(p.calls, o.Model)

	respond, ok := p.responses[o.Model]
	if !ok {
		return nil, errors.New("no scripted response for model " + o.Model)
	}
	return respond()
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	last := ""
	if len(history) > 0 {
		last = history[len(history)-1].Content
	}
	return p.Generate(ctx, last, options...)
}

func TestGenerateStructuredRotatesToWorkingModel(t *testing.T) {
	provider := &scriptedProvider{responses: map[string]func() (*llm.Completion, error){
		"m1": func() (*llm.Completion, error) { return nil, errors.New("rate limited") },
		"m2": func() (*llm.Completion, error) {
			return &llm.Completion{Content: "definitely not json", Model: "m2"}, nil
		},
		"m3": func() (*llm.Completion, error) {
			return &llm.Completion{Content: `{"topic": "recovered"}`, Model: "m3", Usage: llm.Usage{PromptTokens: 10, CompletionTokens: 5}}, nil
		},
	}}
	chain := NewChain(provider, []string{"m1", "m2", "m3"})

	obj, completion, err := chain.GenerateStructured(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj["topic"] != "recovered" {
		t.Errorf("obj = %v, want topic=recovered", obj)
	}
	if completion.Model != "m3" {
		t.Errorf("completion.Model = %q, want m3", completion.Model)
	}
	if len(provider.calls) != 3 {
		t.Errorf("calls = %v, want strict in-order rotation over 3 models", provider.calls)
	}
}

func TestGenerateStructuredExhaustion(t *testing.T) {
	provider := &scriptedProvider{responses: map[string]func() (*llm.Completion, error){
		"m1": func() (*llm.Completion, error) { return nil, errors.New("down") },
		"m2": func() (*llm.Completion, error) { return &llm.Completion{Content: "still not json", Model: "m2"}, nil },
	}}
	chain := NewChain(provider, []string{"m1", "m2"})

	_, _, err := chain.GenerateStructured(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if !strings.Contains(err.Error(), "fallback chain exhausted (2 attempts)") {
		t.Errorf("error = %v, want exhaustion summary with attempt count", err)
	}
	// Both failures are reported, per model
	if !strings.Contains(err.Error(), "m1") || !strings.Contains(err.Error(), "m2") {
		t.Errorf("error = %v, want both model failures listed", err)
	}
}

func TestGenerateTextSkipsEmptyCompletions(t *testing.T) {
	provider := &scriptedProvider{responses: map[string]func() (*llm.Completion, error){
		"m1": func() (*llm.Completion, error) { return &llm.Completion{Content: "   \n", Model: "m1"}, nil },
		"m2": func() (*llm.Completion, error) { return &llm.Completion{Content: "some prose", Model: "m2"}, nil },
	}}
	chain := NewChain(provider, []string{"m1", "m2"})

	completion, err := chain.GenerateText(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completion.Model != "m2" || completion.Content != "some prose" {
		t.Errorf("completion = %+v, want m2's prose", completion)
	}
}

func TestGenerateTextAcceptsAnyNonEmptyContent(t *testing.T) {
	// Unlike the structured path, free prose never rotates on content shape
	provider := &scriptedProvider{responses: map[string]func() (*llm.Completion, error){
		"m1": func() (*llm.Completion, error) { return &llm.Completion{Content: "{broken json", Model: "m1"}, nil },
	}}
	chain := NewChain(provider, []string{"m1", "m2"})

	completion, err := chain.GenerateText(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completion.Model != "m1" {
		t.Errorf("completion.Model = %q, want first model accepted as-is", completion.Model)
	}
}

func TestEmptyChainUsesProviderDefault(t *testing.T) {
	provider := &scriptedProvider{responses: map[string]func() (*llm.Completion, error){
		"": func() (*llm.Completion, error) {
			return &llm.Completion{Content: `{"ok": true}`, Model: "provider-default"}, nil
		},
	}}
	chain := NewChain(provider, nil)

	obj, _, err := chain.GenerateStructured(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj["ok"] != true {
		t.Errorf("obj = %v", obj)
	}
	if len(provider.calls) != 1 || provider.calls[0] != "" {
		t.Errorf("calls = %v, want one call without model override", provider.calls)
	}
}
