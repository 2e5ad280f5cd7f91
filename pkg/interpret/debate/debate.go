// Package debate implements the optional internal-debate pre-commit step:
// the generation prompt is extended so the model produces three competing
// hypotheses, scores them against a fixed rubric, and commits to the winner.
// The hypotheses survive only as debug metadata.
package debate

import (
	"fmt"
	"strings"
)

// RubricCriteria is the fixed scoring rubric, in prompt order.
var RubricCriteria = []string{
	"uniqueness",
	"personal_relevance",
	"voice_authenticity",
	"insight_depth",
	"engagement",
	"actionable_value",
	"emotional_resonance",
}

// Hypothesis is one candidate interpretation as scored by the model.
type Hypothesis struct {
	Angle    string             `json:"angle"`
	Summary  string             `json:"summary"`
	Scores   map[string]float64 `json:"scores"`
	Total    float64            `json:"total"`
	Selected bool               `json:"selected"`
}

// Record carries the debate outcome as debug-only metadata.
type Record struct {
	Hypotheses []Hypothesis `json:"hypotheses"`
	Rationale  string       `json:"rationale"`
}

// PromptBlock returns the instruction block appended to the Stage 2 prompt
// when debate mode is enabled.
func PromptBlock() string {
	var sb strings.Builder
	sb.WriteString("<internal_debate>\n")
	sb.WriteString("Before writing the interpretation, silently develop THREE distinct interpretive hypotheses,\n")
	sb.WriteString("each approaching the dream from a different angle.\n")
	sb.WriteString("Score each hypothesis from 1 to 10 on every criterion:\n")
	for _, c := range RubricCriteria {
		sb.WriteString(fmt.Sprintf("  - %s\n", c))
	}
	sb.WriteString("Commit to the highest-scoring hypothesis and write ONLY that interpretation.\n")
	sb.WriteString("After the interpretation, append a JSON object on its own line:\n")
	sb.WriteString(`{"debate": {"hypotheses": [{"angle": "...", "summary": "...", "scores": {"uniqueness": 8}, "total": 52, "selected": true}], "rationale": "..."}}`)
	sb.WriteString("\n</internal_debate>\n")
	return sb.String()
}

// ExtractRecord pulls the debate block out of a parsed structured response.
// Missing or malformed blocks return nil; debate output is never required
// for correctness.
func ExtractRecord(obj map[string]any) *Record {
	raw, ok := obj["debate"].(map[string]any)
	if !ok {
		return nil
	}

	record := &Record{}
	if rationale, ok := raw["rationale"].(string); ok {
		record.Rationale = rationale
	}

	list, ok := raw["hypotheses"].([]any)
	if !ok {
		return record
	}
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		h := Hypothesis{Scores: make(map[string]float64)}
		if v, ok := entry["angle"].(string); ok {
			h.Angle = v
		}
		if v, ok := entry["summary"].(string); ok {
			h.Summary = v
		}
		if v, ok := entry["total"].(float64); ok {
			h.Total = v
		}
		if v, ok := entry["selected"].(bool); ok {
			h.Selected = v
		}
		if scores, ok := entry["scores"].(map[string]any); ok {
			for name, val := range scores {
				if f, ok := val.(float64); ok {
					h.Scores[name] = f
				}
			}
		}
		record.Hypotheses = append(record.Hypotheses, h)
	}
	return record
}
