package classifier

import (
	"regexp"
	"strings"

	"dream-insight-be/pkg/knowledge"
)

// RuleEngine scores text against the content-type categories. The default
// implementation is pattern-based; an embedding-based engine can be swapped in
// without touching callers.
type RuleEngine interface {
	Score(text string) map[knowledge.ContentType]float64
}

// categoryRule groups the signals for one content type. Keywords are matched
// case-insensitively as substrings; patterns are compiled regexes with their
// own weight.
type categoryRule struct {
	contentType   knowledge.ContentType
	keywords      []string
	keywordWeight float64
	patterns      []*regexp.Regexp
	patternWeight float64
}

type patternEngine struct {
	rules  []categoryRule
	boosts []contextualBoost
}

// contextualBoost adds weight to a category when a marker regex fires,
// regardless of which category the marker nominally belongs to.
type contextualBoost struct {
	target  knowledge.ContentType
	marker  *regexp.Regexp
	weight  float64
	comment string
}

// NewPatternEngine builds the default rule set for the dream-literature corpus.
func NewPatternEngine() RuleEngine {
	return &patternEngine{
		rules: []categoryRule{
			{
				contentType: knowledge.ContentTheory,
				keywords: []string{
					"theory", "concept", "principle", "hypothesis", "framework",
					"unconscious", "psyche", "mechanism", "model of", "according to",
				},
				keywordWeight: 1.0,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(freud|jung|adler|hillman)\b.{0,60}\b(argued|proposed|believed|held|theorized)\b`),
					regexp.MustCompile(`(?i)\bthe (concept|notion|idea) of\b`),
				},
				patternWeight: 2.0,
			},
			{
				contentType: knowledge.ContentSymbol,
				keywords: []string{
					"symbol", "symbolize", "represents", "signifies", "stands for",
					"imagery", "motif", "emblem", "archetype",
				},
				keywordWeight: 1.2,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(water|fire|snake|owl|forest|house|flight|falling|teeth|death)\b.{0,40}\b(symbol|represent|signif)`),
					regexp.MustCompile(`(?i)\bin dreams?,? (a |an |the )?\w+ (often |usually |may )?(represents?|signifies)\b`),
				},
				patternWeight: 2.0,
			},
			{
				contentType: knowledge.ContentCaseStudy,
				keywords: []string{
					"patient", "client", "analysand", "session", "case", "treatment",
					"therapy", "presented with", "diagnosis",
				},
				keywordWeight: 1.0,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\ba (\d{2}|young|middle-aged|elderly)[- ]?(year[- ]old )?(man|woman|patient|client)\b`),
					regexp.MustCompile(`(?i)\b(case (study|history|report)|clinical (picture|material))\b`),
				},
				patternWeight: 2.5,
			},
			{
				contentType: knowledge.ContentDreamExample,
				keywords: []string{
					"dreamed", "dreamt", "in the dream", "dream report", "the dreamer",
					"woke up", "recurring dream", "nightmare",
				},
				keywordWeight: 1.2,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(i|she|he|they) (was|were|found (myself|herself|himself|themselves))\b.{0,80}\b(dream|sleep)`),
					regexp.MustCompile(`(?i)\b(had|reported|recounted) (a|the following) dream\b`),
				},
				patternWeight: 2.0,
			},
			{
				contentType: knowledge.ContentTechnique,
				keywords: []string{
					"technique", "method", "approach", "procedure", "amplification",
					"free association", "active imagination", "interpretation of",
				},
				keywordWeight: 1.0,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(first|then|next|finally),? (ask|invite|have|let) the (dreamer|patient|client)\b`),
					regexp.MustCompile(`(?i)\bstep \d\b`),
				},
				patternWeight: 2.0,
			},
			{
				contentType: knowledge.ContentDefinition,
				keywords: []string{
					"is defined as", "refers to", "means", "denotes", "is the term",
					"definition",
				},
				keywordWeight: 1.3,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b\w+ (is|are) (a|an|the) (term|word|name) (for|used)\b`),
					regexp.MustCompile(`(?i)\b(known|referred to) as\b`),
				},
				patternWeight: 1.8,
			},
			{
				contentType: knowledge.ContentBiography,
				keywords: []string{
					"was born", "biography", "childhood", "his life", "her life",
					"died in", "career", "studied under",
				},
				keywordWeight: 1.0,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(born|died) (in|on) \d{4}\b`),
					regexp.MustCompile(`(?i)\bin \d{4},? (he|she|they) \b`),
				},
				patternWeight: 2.0,
			},
			{
				contentType: knowledge.ContentMethodology,
				keywords: []string{
					"methodology", "study design", "participants", "sample",
					"measured", "experiment", "findings suggest", "data",
				},
				keywordWeight: 1.0,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(n\s*=\s*\d+|p\s*[<>]\s*0?\.\d+)\b`),
					regexp.MustCompile(`(?i)\b(rem|non-rem|eeg|fmri) (sleep|stud|record|scan)`),
				},
				patternWeight: 2.2,
			},
			{
				contentType: knowledge.ContentPractice,
				keywords: []string{
					"exercise", "practice", "journal", "write down", "before sleep",
					"upon waking", "meditation", "ritual", "try this",
				},
				keywordWeight: 1.2,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(keep|start|maintain) a (dream )?journal\b`),
					regexp.MustCompile(`(?i)^\s*\d+\.\s+[A-Z]`),
				},
				patternWeight: 1.8,
			},
		},
		boosts: []contextualBoost{
			{
				target:  knowledge.ContentCaseStudy,
				marker:  regexp.MustCompile(`(?i)\b(transference|countertransference|presenting (problem|complaint)|in session)\b`),
				weight:  2.0,
				comment: "clinical markers",
			},
			{
				target:  knowledge.ContentTechnique,
				marker:  regexp.MustCompile(`(?i)\b(in order to|so that|by doing this|the next step)\b`),
				weight:  1.0,
				comment: "instructional connectives",
			},
			{
				target:  knowledge.ContentPractice,
				marker:  regexp.MustCompile(`(?i)\b(you can|you should|try to|each (morning|night))\b`),
				weight:  1.0,
				comment: "second-person guidance",
			},
			{
				target:  knowledge.ContentDreamExample,
				marker:  regexp.MustCompile(`(?i)"[^"]{30,}"`),
				weight:  0.8,
				comment: "long quoted passage, likely a dream report",
			},
		},
	}
}

func (e *patternEngine) Score(text string) map[knowledge.ContentType]float64 {
	lower := strings.ToLower(text)
	scores := make(map[knowledge.ContentType]float64, len(e.rules))

	for _, rule := range e.rules {
		var score float64
		for _, kw := range rule.keywords {
			score += float64(strings.Count(lower, kw)) * rule.keywordWeight
		}
		for _, pat := range rule.patterns {
			score += float64(len(pat.FindAllStringIndex(text, -1))) * rule.patternWeight
		}
		scores[rule.contentType] = score
	}

	for _, boost := range e.boosts {
		if boost.marker.MatchString(text) {
			scores[boost.target] += boost.weight
		}
	}

	return scores
}
