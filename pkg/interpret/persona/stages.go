package persona

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"dream-insight-be/pkg/interpret"
	"dream-insight-be/pkg/interpret/debate"
	"dream-insight-be/pkg/interpret/jsonrepair"
	"dream-insight-be/pkg/llm"
)

// AssessRelevance is Stage 1: judge fragment relevance at low temperature
// and re-link model excerpts back to real fragment ids. Partial data fills
// with defaults; only chain exhaustion fails the stage.
func (b *base) AssessRelevance(ctx context.Context, ic *interpret.Context) interpret.StageResult[interpret.RelevanceAssessment] {
	prompt := b.relevancePrompt(ic)

	obj, completion, err := b.chain.GenerateStructured(ctx, prompt,
		llm.WithTemperature(b.profile.relevanceTemperature))
	if err != nil {
		return interpret.Fail[interpret.RelevanceAssessment](fmt.Sprintf("relevance assessment: %v", err))
	}

	assessment := interpret.RelevanceAssessment{
		RelevantThemes: getStringSlice(obj, "relevant_themes"),
		FocusAreas:     getStringSlice(obj, "focus_areas"),
		Fragments:      b.relinkFragments(obj, ic),
	}
	// Safe defaults instead of nil slices; downstream prompts range over these
	if assessment.RelevantThemes == nil {
		assessment.RelevantThemes = []string{}
	}
	if assessment.FocusAreas == nil {
		assessment.FocusAreas = []string{}
	}
	if assessment.Fragments == nil {
		assessment.Fragments = []interpret.FragmentAssessment{}
	}

	b.logger.Printf("[%s] Stage 1 complete: %d themes, %d fragments, model=%s",
		b.profile.key, len(assessment.RelevantThemes), len(assessment.Fragments), completion.Model)

	return interpret.Ok(assessment, completion.Model, completion.Usage)
}

// relinkFragments matches each returned excerpt back to a supplied fragment:
// exact id first, then substring containment, then a synthesized placeholder.
// Provenance never points outside this run's fragment set.
func (b *base) relinkFragments(obj map[string]any, ic *interpret.Context) []interpret.FragmentAssessment {
	list, ok := obj["fragments"].([]any)
	if !ok {
		return nil
	}

	known := make(map[string]bool, len(ic.Fragments))
	for _, sf := range ic.Fragments {
		known[sf.Fragment.Id] = true
	}

	var out []interpret.FragmentAssessment
	placeholderSeq := 0
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		fa := interpret.FragmentAssessment{
			Relevance: clamp01(getFloat(entry, "relevance")),
			Reason:    getString(entry, "reason"),
		}

		id := getString(entry, "fragment_id")
		excerpt := getString(entry, "excerpt")

		switch {
		case known[id]:
			fa.FragmentId = id
		case excerpt != "":
			if matched := matchExcerpt(excerpt, ic); matched != "" {
				fa.FragmentId = matched
				break
			}
			fallthrough
		default:
			placeholderSeq++
			fa.FragmentId = fmt.Sprintf("unmatched-%d", placeholderSeq)
		}

		out = append(out, fa)
	}
	return out
}

func matchExcerpt(excerpt string, ic *interpret.Context) string {
	needle := strings.ToLower(strings.TrimSpace(excerpt))
	if len(needle) > 80 {
		needle = needle[:80]
	}
	if needle == "" {
		return ""
	}
	for _, sf := range ic.Fragments {
		if strings.Contains(strings.ToLower(sf.Fragment.Content), needle) {
			return sf.Fragment.Id
		}
	}
	return ""
}

// GenerateFullInterpretation is Stage 2: the rich prose pass at high
// temperature. Symbols and key insights are pulled from the prose by
// persona-overridable heuristics.
func (b *base) GenerateFullInterpretation(ctx context.Context, ic *interpret.Context, rel interpret.RelevanceAssessment) interpret.StageResult[interpret.FullInterpretation] {
	prompt := b.fullPrompt(ic, rel)

	completion, err := b.chain.GenerateText(ctx, prompt,
		llm.WithTemperature(b.profile.proseTemperature),
		llm.WithMaxTokens(2000))
	if err != nil {
		return interpret.Fail[interpret.FullInterpretation](fmt.Sprintf("full interpretation: %v", err))
	}

	text, debateRecord := splitDebateTrailer(completion.Content, ic.DebateEnabled)

	full := interpret.FullInterpretation{
		Text:        strings.TrimSpace(text),
		Symbols:     b.extractSymbols(ic.Request.DreamText, text),
		KeyInsights: extractKeyInsights(text, 3),
		Debate:      debateRecord,
	}

	b.logger.Printf("[%s] Stage 2 complete: %d chars, %d symbols, model=%s",
		b.profile.key, len(full.Text), len(full.Symbols), completion.Model)

	return interpret.Ok(full, completion.Model, completion.Usage)
}

// splitDebateTrailer peels the appended debate JSON off the prose when
// debate mode was requested. A missing or broken trailer is ignored.
func splitDebateTrailer(content string, debateEnabled bool) (string, *debate.Record) {
	if !debateEnabled {
		return content, nil
	}
	idx := strings.LastIndex(content, `{"debate"`)
	if idx == -1 {
		return content, nil
	}
	obj, err := jsonrepair.Parse(content[idx:])
	if err != nil {
		return content, nil
	}
	return content[:idx], debate.ExtractRecord(obj)
}

// motifVocabulary is the default symbol-harvesting lexicon: terms count as
// symbols when they occur in the dream or the interpretation.
var motifVocabulary = []string{
	"owl", "forest", "water", "ocean", "river", "snake", "serpent", "house",
	"door", "key", "mirror", "bridge", "mountain", "fire", "darkness", "light",
	"shadow", "child", "mother", "father", "stranger", "bird", "wolf", "moon",
	"sun", "stairs", "falling", "flight", "teeth", "blood", "tree", "path",
	"whisper", "voice", "shoulder", "night", "storm", "garden", "wall",
}

func (b *base) extractSymbols(dreamText, interpretation string) []string {
	combined := strings.ToLower(dreamText + " " + interpretation)

	var symbols []string
	seen := make(map[string]bool)

	if b.profile.symbolPattern != nil {
		for _, m := range b.profile.symbolPattern.FindAllString(combined, -1) {
			m = strings.TrimSpace(m)
			if m != "" && !seen[m] {
				seen[m] = true
				symbols = append(symbols, m)
			}
		}
	}

	for _, motif := range motifVocabulary {
		if seen[motif] {
			continue
		}
		if regexp.MustCompile(`\b` + motif + `\b`).MatchString(combined) {
			seen[motif] = true
			symbols = append(symbols, motif)
		}
	}

	if len(symbols) > 10 {
		symbols = symbols[:10]
	}
	return symbols
}

var sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)

// extractKeyInsights takes the first n sentences of the prose as insights.
func extractKeyInsights(text string, n int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return []string{}
	}

	parts := sentenceEndRe.Split(trimmed, n+1)
	if len(parts) > n {
		parts = parts[:n]
	}
	var insights []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) > 20 {
			insights = append(insights, p)
		}
	}
	if insights == nil {
		insights = []string{}
	}
	return insights
}

// FormatToJSON is Stage 3: the strict structured pass. Field aliases are
// reconciled, symbols bounded, authenticity markers and stage provenance
// merged in. The Persona discriminant is set here, at construction.
func (b *base) FormatToJSON(ctx context.Context, ic *interpret.Context, full interpret.FullInterpretation, rel interpret.RelevanceAssessment) interpret.StageResult[interpret.Formatted] {
	prompt := b.formatPrompt(ic, full)

	obj, completion, err := b.chain.GenerateStructured(ctx, prompt,
		llm.WithTemperature(b.profile.formatTemperature))
	if err != nil {
		return interpret.Fail[interpret.Formatted](fmt.Sprintf("structured format: %v", err))
	}

	formatted := interpret.Formatted{
		Persona:            b.profile.key,
		DreamId:            ic.Request.DreamId,
		Topic:              getString(obj, "topic"),
		Interpretation:     getString(obj, "interpretation"),
		QuickTake:          getString(obj, "quick_take"),
		Symbols:            boundSymbols(getStringSlice(obj, "symbols"), full.Symbols),
		EmotionalTone:      extractTone(obj),
		Core:               b.reconcileCore(obj),
		Guidance:           getStringSlice(obj, "guidance"),
		ReflectiveQuestion: getString(obj, "reflective_question"),
		Authenticity:       append([]string{}, b.profile.authenticity...),
		Relevance:          rel,
		Full:               full,
		Extra:              collectExtras(obj),
	}

	if formatted.Interpretation == "" {
		// Degenerate structured output still ships; the prose is the value
		formatted.Interpretation = condense(full.Text, 6)
	}
	if formatted.ReflectiveQuestion == "" {
		formatted.ReflectiveQuestion = b.profile.defaultQuestion
	}
	if formatted.Guidance == nil {
		formatted.Guidance = []string{}
	}

	b.logger.Printf("[%s] Stage 3 complete: topic=%q, %d symbols, model=%s",
		b.profile.key, formatted.Topic, len(formatted.Symbols), completion.Model)

	return interpret.Ok(formatted, completion.Model, completion.Usage)
}

// reconcileCore finds the core substructure wherever the model put it: the
// canonical key first, then the persona's known aliases.
func (b *base) reconcileCore(obj map[string]any) map[string]any {
	if core, ok := obj["core"].(map[string]any); ok {
		return core
	}
	for _, alias := range b.profile.coreAliases {
		if core, ok := obj[alias].(map[string]any); ok {
			return core
		}
	}
	return map[string]any{}
}

// canonicalFields are consumed into Formatted directly; everything else
// lands in Extra rather than being discarded.
var canonicalFields = map[string]bool{
	"topic": true, "interpretation": true, "quick_take": true, "symbols": true,
	"emotional_tone": true, "core": true, "guidance": true,
	"reflective_question": true, "debate": true,
}

func collectExtras(obj map[string]any) map[string]any {
	var extra map[string]any
	for k, v := range obj {
		if canonicalFields[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	return extra
}

// boundSymbols enforces the 3-10 flat token invariant, padding from the
// Stage 2 harvest when the model returned too few.
func boundSymbols(symbols, fallback []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range symbols {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || len(s) > 30 || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	for _, s := range fallback {
		if len(out) >= 3 {
			break
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	if len(out) > 10 {
		out = out[:10]
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func extractTone(obj map[string]any) interpret.EmotionalTone {
	tone := interpret.EmotionalTone{Primary: "ambivalence", Intensity: 0.5}
	raw, ok := obj["emotional_tone"].(map[string]any)
	if !ok {
		return tone
	}
	if v := getString(raw, "primary"); v != "" {
		tone.Primary = v
	}
	tone.Secondary = getString(raw, "secondary")
	if v := getFloat(raw, "intensity"); v > 0 {
		tone.Intensity = clamp01(v)
	}
	return tone
}

// Validate applies the mandatory checks (dream reference, minimum condensed
// interpretation length); everything else is advisory and never blocks.
func (b *base) Validate(f interpret.Formatted) interpret.Validation {
	v := interpret.Validation{IsValid: true}

	if f.DreamId == "" {
		v.IsValid = false
		v.Errors = append(v.Errors, "missing dream reference")
	}
	if len(f.Interpretation) < 50 {
		v.IsValid = false
		v.Errors = append(v.Errors, fmt.Sprintf("condensed interpretation too short (%d chars, need 50)", len(f.Interpretation)))
	}

	if len(f.Symbols) < 3 {
		v.Warnings = append(v.Warnings, "fewer than 3 symbols")
	}
	if len(f.QuickTake) > 280 {
		v.Warnings = append(v.Warnings, "quick take exceeds 280 chars")
	}
	if len(f.Core) == 0 {
		v.Warnings = append(v.Warnings, "empty persona core structure")
	}
	if f.ReflectiveQuestion == "" {
		v.Warnings = append(v.Warnings, "missing reflective question")
	}
	return v
}

// condense keeps the first n sentences of a longer text.
func condense(text string, n int) string {
	parts := sentenceEndRe.Split(strings.TrimSpace(text), n+1)
	if len(parts) > n {
		parts = parts[:n]
	}
	out := strings.TrimSpace(strings.Join(parts, ". "))
	if out != "" && !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out
}

// --- loose-object accessors ---

func getString(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func getFloat(obj map[string]any, key string) float64 {
	switch v := obj[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func getStringSlice(obj map[string]any, key string) []string {
	list, ok := obj[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range list {
		if s, ok := item.(string); ok {
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
