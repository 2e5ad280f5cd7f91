// Package qa runs the post-generation rule battery over a canonical
// interpretation. It only reports: a score, the failed checks, and suggested
// remediations. It never rewrites content.
package qa

import (
	"fmt"
	"strings"

	"dream-insight-be/pkg/interpret"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule is one check. Passes returns true when the interpretation satisfies
// the rule.
type Rule struct {
	Name       string
	Severity   Severity
	Penalty    float64
	Suggestion string
	Passes     func(c interpret.Canonical) bool
}

// Failure records one failed rule in a report.
type Failure struct {
	Rule       string   `json:"rule"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion"`
}

// Report is the scoring outcome. Passing requires zero error-severity
// failures and Score >= PassThreshold.
type Report struct {
	Score    float64   `json:"score"`
	Passed   bool      `json:"passed"`
	Failures []Failure `json:"failures,omitempty"`
}

const PassThreshold = 70.0

// forbidden clichés checked against the lowercased interpretation body
var clichePhrases = []string{
	"this dream means",
	"dreams like this usually",
	"it is commonly believed",
	"as everyone knows",
	"your subconscious is trying to tell you",
}

var genericOpenings = []string{
	"your dream",
	"this dream",
	"dreams are",
	"in your dream",
}

// technical vocabulary each persona is expected to actually use
var personaTerms = map[string][]string{
	"psychoanalytic":  {"unconscious", "wish", "latent", "defense", "conflict", "repress"},
	"archetypal":      {"archetype", "symbol", "shadow", "psyche", "individuation", "image"},
	"neuroscientific": {"memory", "rem", "brain", "sleep", "emotional processing", "consolidation"},
	"devotional":      {"soul", "sacred", "grace", "spirit", "prayer", "inner"},
}

type Scorer struct {
	common []Rule
}

func NewScorer() *Scorer {
	return &Scorer{common: commonRules()}
}

// Score runs the common battery plus the persona-specific checks.
func (s *Scorer) Score(c interpret.Canonical) Report {
	rules := append([]Rule{}, s.common...)
	rules = append(rules, personaRules(c.Persona)...)

	report := Report{Score: 100}
	for _, rule := range rules {
		if rule.Passes(c) {
			continue
		}
		report.Score -= rule.Penalty
		report.Failures = append(report.Failures, Failure{
			Rule:       rule.Name,
			Severity:   rule.Severity,
			Suggestion: rule.Suggestion,
		})
	}
	if report.Score < 0 {
		report.Score = 0
	}

	report.Passed = report.Score >= PassThreshold
	for _, f := range report.Failures {
		if f.Severity == SeverityError {
			report.Passed = false
			break
		}
	}
	return report
}

func commonRules() []Rule {
	return []Rule{
		{
			Name:       "no_cliche_phrases",
			Severity:   SeverityError,
			Penalty:    20,
			Suggestion: "Replace formulaic phrasing with persona-voiced observations tied to this dream's imagery.",
			Passes: func(c interpret.Canonical) bool {
				lower := strings.ToLower(c.Interpretation)
				for _, phrase := range clichePhrases {
					if strings.Contains(lower, phrase) {
						return false
					}
				}
				return true
			},
		},
		{
			Name:       "no_generic_opening",
			Severity:   SeverityWarning,
			Penalty:    10,
			Suggestion: "Open with a concrete image from the dream instead of a generic frame.",
			Passes: func(c interpret.Canonical) bool {
				lower := strings.ToLower(strings.TrimSpace(c.Interpretation))
				for _, opening := range genericOpenings {
					if strings.HasPrefix(lower, opening) {
						return false
					}
				}
				return true
			},
		},
		{
			Name:       "interpretation_length",
			Severity:   SeverityError,
			Penalty:    25,
			Suggestion: "The interpretation body must be substantial but bounded (200-4000 characters).",
			Passes: func(c interpret.Canonical) bool {
				n := len(c.Interpretation)
				return n >= 200 && n <= 4000
			},
		},
		{
			Name:       "symbols_present",
			Severity:   SeverityWarning,
			Penalty:    8,
			Suggestion: "Name at least three concrete symbols drawn from the dream imagery.",
			Passes: func(c interpret.Canonical) bool {
				return len(c.Symbols) >= 3
			},
		},
		{
			Name:       "reflective_question_present",
			Severity:   SeverityWarning,
			Penalty:    5,
			Suggestion: "Close with one open question the dreamer can sit with.",
			Passes: func(c interpret.Canonical) bool {
				return strings.TrimSpace(c.ReflectiveQuestion) != ""
			},
		},
	}
}

func personaRules(persona string) []Rule {
	terms, ok := personaTerms[persona]
	if !ok {
		return nil
	}
	return []Rule{
		{
			Name:       fmt.Sprintf("%s_vocabulary", persona),
			Severity:   SeverityWarning,
			Penalty:    10,
			Suggestion: fmt.Sprintf("Use at least two terms from the %s register (e.g. %s).", persona, strings.Join(terms[:3], ", ")),
			Passes: func(c interpret.Canonical) bool {
				lower := strings.ToLower(c.Interpretation)
				hits := 0
				for _, term := range terms {
					if strings.Contains(lower, term) {
						hits++
					}
				}
				return hits >= 2
			},
		},
	}
}
