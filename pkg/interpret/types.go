// Package interpret implements the persona-driven dream interpretation
// pipeline: three sequential generation stages per request, a retrieval-fed
// shared context, structured-output recovery across a model fallback chain,
// and canonicalization of persona-specific results.
package interpret

import (
	"context"

	"dream-insight-be/pkg/interpret/debate"
	"dream-insight-be/pkg/knowledge"
	"dream-insight-be/pkg/knowledge/themes"
	"dream-insight-be/pkg/llm"
)

// ThemeRef is one detected dream theme with its detection score.
type ThemeRef struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// UserContext is the optional personal framing supplied by the requester.
type UserContext struct {
	Age            int    `json:"age,omitempty"`
	LifeSituation  string `json:"life_situation,omitempty"`
	EmotionalState string `json:"emotional_state,omitempty"`
}

// Request is the immutable input of one pipeline run.
type Request struct {
	DreamId     string       `json:"dream_id"`
	UserId      string       `json:"user_id"`
	DreamText   string       `json:"dream_text"`
	Persona     string       `json:"persona"`
	Themes      []ThemeRef   `json:"themes"`
	UserContext *UserContext `json:"user_context,omitempty"`
}

// StageResult wraps one stage outcome: success with data, or failure with an
// error string. Never both absent.
type StageResult[T any] struct {
	Success bool
	Data    T
	Err     string
	Model   string
	Usage   llm.Usage
}

func Ok[T any](data T, model string, usage llm.Usage) StageResult[T] {
	return StageResult[T]{Success: true, Data: data, Model: model, Usage: usage}
}

func Fail[T any](err string) StageResult[T] {
	return StageResult[T]{Success: false, Err: err}
}

// FragmentAssessment links one supplied fragment to its judged relevance.
// FragmentId always references a fragment from the same run, or a
// synthesized placeholder when re-linking failed.
type FragmentAssessment struct {
	FragmentId string  `json:"fragment_id"`
	Relevance  float64 `json:"relevance"`
	Reason     string  `json:"reason"`
}

// RelevanceAssessment is Stage 1 output, consumed by Stages 2 and 3.
type RelevanceAssessment struct {
	RelevantThemes []string             `json:"relevant_themes"`
	Fragments      []FragmentAssessment `json:"fragments"`
	FocusAreas     []string             `json:"focus_areas"`
}

// FullInterpretation is Stage 2 output: the free-text interpretation plus
// heuristically extracted symbols and insights. Debate is debug-only
// metadata, present when the internal-debate mode produced a record.
type FullInterpretation struct {
	Text        string         `json:"text"`
	Symbols     []string       `json:"symbols"`
	KeyInsights []string       `json:"key_insights"`
	Debate      *debate.Record `json:"debate,omitempty"`
}

// EmotionalTone summarizes the affective reading of the dream.
type EmotionalTone struct {
	Primary   string  `json:"primary"`
	Secondary string  `json:"secondary,omitempty"`
	Intensity float64 `json:"intensity"`
}

// Formatted is Stage 3 output. Persona is an explicit discriminant set at
// construction time; the standardizer switches on it rather than sniffing
// field presence.
type Formatted struct {
	Persona            string              `json:"persona"`
	DreamId            string              `json:"dream_id"`
	Topic              string              `json:"topic"`
	Interpretation     string              `json:"interpretation"`
	QuickTake          string              `json:"quick_take"`
	Symbols            []string            `json:"symbols"`
	EmotionalTone      EmotionalTone       `json:"emotional_tone"`
	Core               map[string]any      `json:"core"`
	Guidance           []string            `json:"guidance"`
	ReflectiveQuestion string              `json:"reflective_question"`
	Authenticity       []string            `json:"authenticity"`
	Relevance          RelevanceAssessment `json:"relevance"`
	Full               FullInterpretation  `json:"full"`
	Extra              map[string]any      `json:"extra,omitempty"`
}

// Validation separates mandatory failures from advisory warnings. Warnings
// are logged and never block success.
type Validation struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// GenerationMetadata records provenance for the persisted result.
type GenerationMetadata struct {
	Model              string   `json:"model"`
	PromptTokens       int      `json:"prompt_tokens"`
	CompletionTokens   int      `json:"completion_tokens"`
	StagesCompleted    []string `json:"stages_completed"`
	FragmentsRetrieved int      `json:"fragments_retrieved"`
	FragmentsUsed      int      `json:"fragments_used"`
	ProcessingMs       int64    `json:"processing_ms"`
	Fallback           bool     `json:"fallback,omitempty"`
}

// Canonical is the single normalized output shape, whatever the persona.
type Canonical struct {
	DreamId            string             `json:"dream_id"`
	Persona            string             `json:"persona"`
	Topic              string             `json:"topic"`
	Interpretation     string             `json:"interpretation"`
	QuickTake          string             `json:"quick_take"`
	Symbols            []string           `json:"symbols"`
	EmotionalTone      EmotionalTone      `json:"emotional_tone"`
	Core               map[string]any     `json:"core"`
	Guidance           []string           `json:"guidance"`
	ReflectiveQuestion string             `json:"reflective_question"`
	Authenticity       []string           `json:"authenticity"`
	GenerationMetadata GenerationMetadata `json:"generation_metadata"`
	AdditionalInfo     map[string]any     `json:"additional_info,omitempty"`
}

// Stage names as reported in GenerationMetadata.StagesCompleted.
const (
	StageRelevance = "relevance_assessment"
	StageFull      = "full_interpretation"
	StageFormat    = "structured_format"
)

// Context is the shared per-request interpretation state. Each request owns
// its own instance; nothing here is shared across requests.
type Context struct {
	Request           Request
	Fragments         []knowledge.ScoredFragment
	Concepts          []themes.Concept
	ApproachHints     []string
	OpeningStyle      string
	StructureStyle    string
	ForbiddenOpenings []string
	DebateEnabled     bool
}

// Interpreter is the three-stage persona contract. Stages are idempotent and
// independently retryable; the orchestrator guarantees their ordering.
type Interpreter interface {
	Key() string
	Meta() PersonaMeta
	CoreStructure() map[string]any
	OpeningStyles() []string
	StructureStyles() []string

	AssessRelevance(ctx context.Context, ic *Context) StageResult[RelevanceAssessment]
	GenerateFullInterpretation(ctx context.Context, ic *Context, rel RelevanceAssessment) StageResult[FullInterpretation]
	FormatToJSON(ctx context.Context, ic *Context, full FullInterpretation, rel RelevanceAssessment) StageResult[Formatted]
	Validate(f Formatted) Validation
}

// PersonaMeta is the fixed descriptive block each persona exposes.
type PersonaMeta struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Strengths   []string `json:"strengths"`
	Limits      []string `json:"limits"`
}
