package interpret

import (
	"strings"
)

// Standardize collapses any persona-shaped Formatted into the one Canonical
// result. It is total: every input produces a fully populated Canonical, with
// defaults filling whatever the structured pass left out. Persona-specific
// remainders land in AdditionalInfo instead of being dropped.
func Standardize(f Formatted, meta GenerationMetadata) Canonical {
	c := Canonical{
		DreamId:            f.DreamId,
		Persona:            f.Persona,
		Topic:              normalizeTopic(f.Topic, f.QuickTake, f.Full.Text),
		Interpretation:     f.Interpretation,
		QuickTake:          f.QuickTake,
		Symbols:            f.Symbols,
		EmotionalTone:      f.EmotionalTone,
		Core:               standardizeCore(f),
		Guidance:           f.Guidance,
		ReflectiveQuestion: f.ReflectiveQuestion,
		Authenticity:       f.Authenticity,
		GenerationMetadata: meta,
	}

	if c.Interpretation == "" {
		c.Interpretation = strings.TrimSpace(f.Full.Text)
	}
	if c.QuickTake == "" {
		c.QuickTake = firstSentence(c.Interpretation)
	}
	if c.ReflectiveQuestion == "" {
		c.ReflectiveQuestion = defaultQuestionFor(f.Persona)
	}
	if c.Symbols == nil {
		c.Symbols = []string{}
	}
	if c.Guidance == nil {
		c.Guidance = []string{}
	}
	if c.Authenticity == nil {
		c.Authenticity = []string{}
	}
	if c.EmotionalTone.Primary == "" {
		c.EmotionalTone.Primary = "ambivalence"
		c.EmotionalTone.Intensity = 0.5
	}

	c.AdditionalInfo = overflowFields(f)
	return c
}

// standardizeCore switches on the explicit persona discriminant to pick the
// persona's canonical core keys; unknown personas pass the core through
// unchanged rather than guessing at shape.
func standardizeCore(f Formatted) map[string]any {
	if f.Core == nil {
		return map[string]any{}
	}

	var wanted []string
	switch f.Persona {
	case "psychoanalytic":
		wanted = []string{"manifest_content", "latent_content", "defense_mechanisms", "childhood_connection"}
	case "archetypal":
		wanted = []string{"archetypes", "compensation", "individuation_stage", "amplifications"}
	case "neuroscientific":
		wanted = []string{"sleep_processes", "memory_sources", "emotional_processing", "confidence_note"}
	case "devotional":
		wanted = []string{"invitation", "inner_movement", "discernment_points", "practice"}
	default:
		return f.Core
	}

	core := make(map[string]any, len(wanted))
	for _, key := range wanted {
		if v, ok := f.Core[key]; ok {
			core[key] = v
		}
	}
	// Keys outside the canonical shape are still persona output; keep them
	for k, v := range f.Core {
		if _, ok := core[k]; !ok {
			core[k] = v
		}
	}
	return core
}

func defaultQuestionFor(persona string) string {
	switch persona {
	case "psychoanalytic":
		return "What in this dream felt familiar in a way you could not place?"
	case "archetypal":
		return "Which image in this dream feels larger than your own life?"
	case "neuroscientific":
		return "What recent experience might your sleeping brain have been working through?"
	case "devotional":
		return "What is this dream quietly inviting you toward?"
	default:
		return "What does this dream ask of you?"
	}
}

const (
	topicMinWords = 5
	topicMaxWords = 9
)

// normalizeTopic enforces the 5-9 word topic, deriving one from the quick
// take or the prose when the structured pass came back empty or overlong.
func normalizeTopic(topic, quickTake, fullText string) string {
	words := strings.Fields(strings.TrimSpace(topic))
	if len(words) >= topicMinWords && len(words) <= topicMaxWords {
		return strings.Join(words, " ")
	}
	if len(words) > topicMaxWords {
		return strings.Join(words[:topicMaxWords], " ")
	}

	for _, source := range []string{quickTake, fullText} {
		derived := strings.Fields(strings.TrimSuffix(firstSentence(source), "."))
		if len(derived) >= topicMinWords {
			if len(derived) > topicMaxWords {
				derived = derived[:topicMaxWords]
			}
			return strings.Join(derived, " ")
		}
	}

	if len(words) > 0 {
		return strings.Join(words, " ")
	}
	return "A dream awaiting its interpretation"
}

func firstSentence(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	for i, r := range trimmed {
		if r == '.' || r == '!' || r == '?' {
			return strings.TrimSpace(trimmed[:i+1])
		}
	}
	if len(trimmed) > 200 {
		return trimmed[:200]
	}
	return trimmed
}

// overflowFields gathers everything canonicalization does not consume: the
// model's extra keys plus traceability embeds worth surfacing.
func overflowFields(f Formatted) map[string]any {
	var info map[string]any
	put := func(k string, v any) {
		if info == nil {
			info = make(map[string]any)
		}
		info[k] = v
	}

	for k, v := range f.Extra {
		put(k, v)
	}
	if len(f.Full.KeyInsights) > 0 {
		put("key_insights", f.Full.KeyInsights)
	}
	if len(f.Relevance.FocusAreas) > 0 {
		put("focus_areas", f.Relevance.FocusAreas)
	}
	if f.Full.Debate != nil {
		put("debate", f.Full.Debate)
	}
	return info
}
