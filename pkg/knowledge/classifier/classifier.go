// Package classifier scores arbitrary text against the corpus content
// categories. Classification is a pure function of the input text: identical
// input always yields an identical result.
package classifier

import (
	"sort"

	"dream-insight-be/pkg/knowledge"
)

const (
	// MinConfidence is emitted even when no category signal is found at all.
	MinConfidence = 0.2
	// MaxConfidence caps the normalized score so a single dominant pattern
	// never claims certainty.
	MaxConfidence = 0.95

	// dominanceMargin: top score must exceed the runner-up by this factor to
	// earn the dominance boost.
	dominanceMargin = 1.5
	dominanceBoost  = 0.15
	// nearTiePenalty applies when the top three scores sit within tieSpread
	// of each other.
	nearTiePenalty = 0.1
	tieSpread      = 0.15

	secondaryRatio = 0.6 // secondary types must reach this fraction of the primary score
)

// Classifier produces knowledge.Classification values from raw text.
type Classifier struct {
	engine RuleEngine
}

func New(engine RuleEngine) *Classifier {
	if engine == nil {
		engine = NewPatternEngine()
	}
	return &Classifier{engine: engine}
}

// Classify scores the text, derives confidence, and extracts topics and
// keywords. It never returns an error: zero-signal input classifies as theory
// at MinConfidence.
func (c *Classifier) Classify(text string) knowledge.Classification {
	scores := c.engine.Score(text)

	ranked := rankScores(scores)
	primary := ranked[0]

	result := knowledge.Classification{
		PrimaryType: primary.contentType,
		Confidence:  deriveConfidence(ranked),
		Topics:      extractTopics(text),
		Keywords:    extractKeywords(text),
	}

	for _, entry := range ranked[1:] {
		if entry.score > 0 && entry.score >= primary.score*secondaryRatio {
			result.SecondaryTypes = append(result.SecondaryTypes, entry.contentType)
		}
	}

	result.HasSymbols = scores[knowledge.ContentSymbol] > 0
	result.HasExamples = scores[knowledge.ContentDreamExample] > 0
	result.HasCaseStudy = scores[knowledge.ContentCaseStudy] > 0
	result.HasExercise = scores[knowledge.ContentPractice] > 0 || scores[knowledge.ContentTechnique] > 0

	return result
}

type rankedScore struct {
	contentType knowledge.ContentType
	score       float64
}

// rankScores orders categories by descending score. Ties break on the fixed
// category order so the result is deterministic.
func rankScores(scores map[knowledge.ContentType]float64) []rankedScore {
	order := knowledge.AllContentTypes()
	ranked := make([]rankedScore, 0, len(order))
	for _, ct := range order {
		ranked = append(ranked, rankedScore{contentType: ct, score: scores[ct]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

// deriveConfidence normalizes the primary score against the total, floors it
// at MinConfidence, boosts clear winners and penalizes three-way near ties.
func deriveConfidence(ranked []rankedScore) float64 {
	var total float64
	for _, r := range ranked {
		total += r.score
	}
	if total == 0 {
		return MinConfidence
	}

	confidence := ranked[0].score / total
	if confidence < MinConfidence {
		confidence = MinConfidence
	}

	if len(ranked) > 1 && ranked[1].score > 0 && ranked[0].score >= ranked[1].score*dominanceMargin {
		confidence += dominanceBoost
	}
	if len(ranked) > 1 && ranked[1].score == 0 {
		// Only one category fired at all
		confidence += dominanceBoost
	}

	if len(ranked) > 2 && ranked[2].score > 0 {
		spread := (ranked[0].score - ranked[2].score) / ranked[0].score
		if spread < tieSpread {
			confidence -= nearTiePenalty
		}
	}

	if confidence > MaxConfidence {
		confidence = MaxConfidence
	}
	if confidence < MinConfidence {
		confidence = MinConfidence
	}
	return confidence
}
