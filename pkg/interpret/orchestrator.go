package interpret

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"dream-insight-be/pkg/interpret/style"
	"dream-insight-be/pkg/knowledge"
	"dream-insight-be/pkg/knowledge/retriever"
	"dream-insight-be/pkg/knowledge/themes"
	"dream-insight-be/pkg/llm"
)

// FragmentSource is the retrieval dependency of the orchestrator. Implemented
// by retriever.Retriever; tests supply fakes.
type FragmentSource interface {
	Retrieve(ctx context.Context, themeCodes []string, persona string, constraints retriever.Constraints) ([]knowledge.ScoredFragment, error)
}

// Result is the orchestrator's envelope: the canonical interpretation plus
// per-stage traceability.
type Result struct {
	Canonical  Canonical
	Relevance  RelevanceAssessment
	Full       FullInterpretation
	Validation Validation
}

// Options tune one orchestration run.
type Options struct {
	DebateEnabled bool
	TopK          int
	Threshold     float64
}

// Orchestrator sequences the three persona stages over a retrieval-fed
// context. Stage ordering is strict: a failed stage aborts the sequence and
// yields the canned fallback instead of a partial pipeline.
type Orchestrator struct {
	registry map[string]Interpreter
	source   FragmentSource
	mapper   *themes.Mapper
	tracker  *style.Tracker
	logger   *log.Logger
}

func NewOrchestrator(registry map[string]Interpreter, source FragmentSource, mapper *themes.Mapper, tracker *style.Tracker, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		source:   source,
		mapper:   mapper,
		tracker:  tracker,
		logger:   logger,
	}
}

// KnownPersonas lists registry keys in stable order, for error messages and
// the persona listing endpoint.
func (o *Orchestrator) KnownPersonas() []string {
	keys := make([]string, 0, len(o.registry))
	for k := range o.registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Interpreter resolves a persona key. Useful for metadata endpoints.
func (o *Orchestrator) Interpreter(persona string) (Interpreter, bool) {
	it, ok := o.registry[persona]
	return it, ok
}

// Interpret runs the full pipeline for one request.
func (o *Orchestrator) Interpret(ctx context.Context, req Request, opts Options) (*Result, error) {
	it, ok := o.registry[req.Persona]
	if !ok {
		return nil, fmt.Errorf("unknown persona %q (known: %s)", req.Persona, strings.Join(o.KnownPersonas(), ", "))
	}

	started := time.Now()
	ic := o.buildContext(ctx, req, it, opts)

	meta := GenerationMetadata{
		FragmentsRetrieved: len(ic.Fragments),
	}

	relRes := it.AssessRelevance(ctx, ic)
	if !relRes.Success {
		o.logger.Printf("[ORCH] Stage 1 exhausted for dream=%s persona=%s: %s", req.DreamId, req.Persona, relRes.Err)
		return o.fallbackResult(req, it, meta, started, relRes.Err), nil
	}
	accumulate(&meta, relRes.Model, relRes.Usage, StageRelevance)
	meta.FragmentsUsed = len(relRes.Data.Fragments)

	fullRes := it.GenerateFullInterpretation(ctx, ic, relRes.Data)
	if !fullRes.Success {
		o.logger.Printf("[ORCH] Stage 2 exhausted for dream=%s persona=%s: %s", req.DreamId, req.Persona, fullRes.Err)
		return o.fallbackResult(req, it, meta, started, fullRes.Err), nil
	}
	accumulate(&meta, fullRes.Model, fullRes.Usage, StageFull)

	fmtRes := it.FormatToJSON(ctx, ic, fullRes.Data, relRes.Data)
	if !fmtRes.Success {
		o.logger.Printf("[ORCH] Stage 3 exhausted for dream=%s persona=%s: %s", req.DreamId, req.Persona, fmtRes.Err)
		return o.fallbackResult(req, it, meta, started, fmtRes.Err), nil
	}
	accumulate(&meta, fmtRes.Model, fmtRes.Usage, StageFormat)

	validation := it.Validate(fmtRes.Data)
	for _, w := range validation.Warnings {
		o.logger.Printf("[ORCH] Validation warning dream=%s persona=%s: %s", req.DreamId, req.Persona, w)
	}
	if !validation.IsValid {
		o.logger.Printf("[ORCH] Validation failed for dream=%s persona=%s: %v", req.DreamId, req.Persona, validation.Errors)
		return o.fallbackResult(req, it, meta, started, strings.Join(validation.Errors, "; ")), nil
	}

	meta.ProcessingMs = time.Since(started).Milliseconds()
	canonical := Standardize(fmtRes.Data, meta)

	o.trackOpening(req.Persona, canonical.Interpretation)

	o.logger.Printf("[ORCH] Completed dream=%s persona=%s stages=%d fragments=%d/%d in %dms",
		req.DreamId, req.Persona, len(meta.StagesCompleted), meta.FragmentsUsed, meta.FragmentsRetrieved, meta.ProcessingMs)

	return &Result{
		Canonical:  canonical,
		Relevance:  relRes.Data,
		Full:       fullRes.Data,
		Validation: validation,
	}, nil
}

// buildContext assembles the shared per-request state: retrieved fragments,
// mapped concepts, and the style picks for this run. Retrieval failure
// degrades to an empty fragment set rather than failing the request.
func (o *Orchestrator) buildContext(ctx context.Context, req Request, it Interpreter, opts Options) *Context {
	codes := make([]string, 0, len(req.Themes))
	for _, t := range req.Themes {
		codes = append(codes, t.Code)
	}

	constraints := retriever.DefaultConstraints()
	if opts.TopK > 0 {
		constraints.TopK = opts.TopK
	}
	if opts.Threshold > 0 {
		constraints.Threshold = opts.Threshold
	}
	constraints.QueryText = req.DreamText

	var fragments []knowledge.ScoredFragment
	if o.source != nil {
		var err error
		fragments, err = o.source.Retrieve(ctx, codes, req.Persona, constraints)
		if err != nil {
			o.logger.Printf("[WARN] Retrieval failed for dream=%s, proceeding without reference material: %v", req.DreamId, err)
			fragments = nil
		}
	}

	var concepts []themes.Concept
	var hints []string
	if o.mapper != nil {
		concepts, hints = o.mapper.MapThemesToConcepts(codes)
	}

	ic := &Context{
		Request:       req,
		Fragments:     fragments,
		Concepts:      concepts,
		ApproachHints: hints,
		DebateEnabled: opts.DebateEnabled,
	}

	if o.tracker != nil {
		ic.OpeningStyle = o.tracker.PickUnique(it.OpeningStyles(), req.Persona, style.KindOpening)
		ic.StructureStyle = o.tracker.PickUnique(it.StructureStyles(), req.Persona, style.KindStructure)
		ic.ForbiddenOpenings = o.tracker.ForbiddenOpenings(req.Persona)
	}

	return ic
}

func (o *Orchestrator) trackOpening(persona, interpretation string) {
	if o.tracker == nil {
		return
	}
	opening := interpretation
	if len(opening) > 60 {
		cut := 60
		// back up to a rune boundary so the clause stays valid UTF-8
		for cut > 0 && !utf8.RuneStart(opening[cut]) {
			cut--
		}
		opening = opening[:cut]
	}
	o.tracker.TrackOpening(persona, strings.TrimSpace(opening))
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func accumulate(meta *GenerationMetadata, model string, usage llm.Usage, stage string) {
	if model != "" {
		meta.Model = model
	}
	meta.PromptTokens += usage.PromptTokens
	meta.CompletionTokens += usage.CompletionTokens
	meta.StagesCompleted = append(meta.StagesCompleted, stage)
}

// fallbackResult produces the documented canned interpretation when the
// generation pipeline is fully exhausted. It is persona-flavored, clearly
// marked as a fallback in metadata, and always canonical-valid.
func (o *Orchestrator) fallbackResult(req Request, it Interpreter, meta GenerationMetadata, started time.Time, reason string) *Result {
	meta.Fallback = true
	meta.ProcessingMs = time.Since(started).Milliseconds()

	persona := it.Meta()

	symbols := make([]string, 0, 3)
	for _, t := range req.Themes {
		symbols = append(symbols, t.Name)
		if len(symbols) == 6 {
			break
		}
	}
	// Pad to the 3-symbol floor when the request carried fewer themes
	for _, s := range []string{"dream", "night", "memory"} {
		if len(symbols) >= 3 {
			break
		}
		if !containsString(symbols, s) {
			symbols = append(symbols, s)
		}
	}

	text := fmt.Sprintf(
		"Your dream could not be fully interpreted right now, but it deserves attention. %s would note that the imagery you described carries weight worth sitting with: hold onto the details while they are fresh, write them down, and return to them. The themes present in your dream are real starting points for reflection even without a full reading.",
		persona.Name)

	formatted := Formatted{
		Persona:            req.Persona,
		DreamId:            req.DreamId,
		Topic:              "A dream held for later reflection",
		Interpretation:     text,
		QuickTake:          "The full reading is unavailable; the dream's themes still invite reflection.",
		Symbols:            symbols,
		EmotionalTone:      EmotionalTone{Primary: "ambivalence", Intensity: 0.4},
		Core:               it.CoreStructure(),
		Guidance:           []string{"Write the dream down in as much detail as you remember.", "Revisit it once; a second look often surfaces what the first missed."},
		ReflectiveQuestion: "What part of this dream stays with you most strongly?",
		Authenticity:       []string{"fallback response"},
	}

	canonical := Standardize(formatted, meta)
	if canonical.AdditionalInfo == nil {
		canonical.AdditionalInfo = map[string]any{}
	}
	canonical.AdditionalInfo["fallback_reason"] = reason

	return &Result{
		Canonical:  canonical,
		Validation: Validation{IsValid: true, Warnings: []string{"fallback response substituted"}},
	}
}
