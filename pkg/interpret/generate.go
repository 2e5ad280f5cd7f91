package interpret

import (
	"context"
	"fmt"
	"strings"

	"dream-insight-be/pkg/interpret/jsonrepair"
	"dream-insight-be/pkg/llm"
)

// Chain is the ordered model fallback chain. Models are tried strictly in
// sequence, never in parallel, so cost stays predictable and earlier models
// keep precedence. An empty model list means one attempt with the provider's
// default model.
type Chain struct {
	Provider llm.LLMProvider
	Models   []string
}

func NewChain(provider llm.LLMProvider, models []string) Chain {
	return Chain{Provider: provider, Models: models}
}

func (c Chain) attempts() []string {
	if len(c.Models) == 0 {
		return []string{""} // provider default
	}
	return c.Models
}

// GenerateStructured is the two-level retry at the heart of the pipeline:
// for each model in the chain, generate once and run the full in-response
// repair ladder; rotate to the next model on request failure or parse
// exhaustion. Only a fully exhausted chain returns an error.
func (c Chain) GenerateStructured(ctx context.Context, prompt string, opts ...llm.Option) (map[string]any, *llm.Completion, error) {
	var failures []string

	for _, model := range c.attempts() {
		attemptOpts := opts
		if model != "" {
			attemptOpts = append(append([]llm.Option{}, opts...), llm.WithModel(model))
		}

		completion, err := c.Provider.Generate(ctx, prompt, attemptOpts...)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: request failed: %v", displayModel(model), err))
			continue
		}

		obj, err := jsonrepair.Parse(completion.Content)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", displayModel(completion.Model), err))
			continue
		}

		return obj, completion, nil
	}

	return nil, nil, fmt.Errorf("fallback chain exhausted (%d attempts): %s",
		len(c.attempts()), strings.Join(failures, "; "))
}

// GenerateText rotates only on request-level failure; any non-empty content
// is accepted as-is. Used by the free-prose stage where there is nothing to
// parse.
func (c Chain) GenerateText(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Completion, error) {
	var failures []string

	for _, model := range c.attempts() {
		attemptOpts := opts
		if model != "" {
			attemptOpts = append(append([]llm.Option{}, opts...), llm.WithModel(model))
		}

		completion, err := c.Provider.Generate(ctx, prompt, attemptOpts...)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", displayModel(model), err))
			continue
		}
		if strings.TrimSpace(completion.Content) == "" {
			failures = append(failures, fmt.Sprintf("%s: empty completion", displayModel(completion.Model)))
			continue
		}
		return completion, nil
	}

	return nil, fmt.Errorf("fallback chain exhausted (%d attempts): %s",
		len(c.attempts()), strings.Join(failures, "; "))
}

func displayModel(model string) string {
	if model == "" {
		return "default"
	}
	return model
}
