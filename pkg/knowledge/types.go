// Package knowledge holds the shared domain types for the classified dream
// corpus: fragments, themes, and classification results. The classifier,
// retriever and interpretation pipeline all speak these types.
package knowledge

// ContentType tags what kind of material a corpus fragment contains.
type ContentType string

const (
	ContentTheory       ContentType = "theory"
	ContentSymbol       ContentType = "symbol"
	ContentCaseStudy    ContentType = "case_study"
	ContentDreamExample ContentType = "dream_example"
	ContentTechnique    ContentType = "technique"
	ContentDefinition   ContentType = "definition"
	ContentBiography    ContentType = "biography"
	ContentMethodology  ContentType = "methodology"
	ContentPractice     ContentType = "practice"
)

// AllContentTypes lists every known content category in scoring order.
func AllContentTypes() []ContentType {
	return []ContentType{
		ContentTheory,
		ContentSymbol,
		ContentCaseStudy,
		ContentDreamExample,
		ContentTechnique,
		ContentDefinition,
		ContentBiography,
		ContentMethodology,
		ContentPractice,
	}
}

// Classification is the derived metadata attached to a fragment at ingestion
// time. Confidence is always in [0,1]; when the classifier finds no signal it
// still emits a defined minimum-confidence default.
type Classification struct {
	PrimaryType    ContentType   `json:"primary_type"`
	Confidence     float64       `json:"confidence"`
	SecondaryTypes []ContentType `json:"secondary_types,omitempty"`
	Topics         []string      `json:"topics,omitempty"`
	Keywords       []string      `json:"keywords,omitempty"`
	HasSymbols     bool          `json:"has_symbols"`
	HasExamples    bool          `json:"has_examples"`
	HasCaseStudy   bool          `json:"has_case_study"`
	HasExercise    bool          `json:"has_exercise"`
	ThemeCodes     []string      `json:"theme_codes,omitempty"`
	Concepts       []string      `json:"concepts,omitempty"`
}

// Fragment is a classified excerpt from a source document. Created once at
// ingestion; read-only at query time.
type Fragment struct {
	Id             string
	SourceId       string
	Chapter        string
	Content        string
	Classification Classification
	Embedding      []float32
}

// ScoredFragment pairs a fragment with its retrieval relevance.
type ScoredFragment struct {
	Fragment  Fragment
	Relevance float64
}

// Theme is a stable taxonomy entry for a recurring dream motif.
type Theme struct {
	Code        string
	Label       string
	Description string
	Embedding   []float32
}
