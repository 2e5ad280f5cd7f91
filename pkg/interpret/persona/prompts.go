package persona

import (
	"encoding/json"
	"fmt"
	"strings"

	"dream-insight-be/pkg/interpret"
	"dream-insight-be/pkg/interpret/debate"
)

const fragmentExcerptLimit = 400

func (b *base) writeVoiceBlock(sb *strings.Builder) {
	sb.WriteString("<voice>\n")
	sb.WriteString(fmt.Sprintf("You are %s. %s\n", b.profile.meta.Name, b.profile.meta.Description))
	sb.WriteString(fmt.Sprintf("Tone: %s. Register: %s.\n", b.profile.voice.Tone, b.profile.voice.Register))
	if len(b.profile.voice.SignaturePhrases) > 0 {
		sb.WriteString("Phrases natural to your voice (use sparingly): ")
		sb.WriteString(strings.Join(b.profile.voice.SignaturePhrases, "; "))
		sb.WriteString("\n")
	}
	sb.WriteString("</voice>\n\n")

	if b.profile.framing != "" {
		sb.WriteString("<interpretive_stance>\n")
		sb.WriteString(b.profile.framing)
		sb.WriteString("\n</interpretive_stance>\n\n")
	}
}

func (b *base) writeDreamBlock(sb *strings.Builder, ic *interpret.Context) {
	sb.WriteString("<dream>\n")
	sb.WriteString(ic.Request.DreamText)
	sb.WriteString("\n</dream>\n\n")

	if len(ic.Request.Themes) > 0 {
		sb.WriteString("<detected_themes>\n")
		for _, t := range ic.Request.Themes {
			sb.WriteString(fmt.Sprintf("- %s (%s, score %.2f)\n", t.Name, t.Code, t.Score))
		}
		sb.WriteString("</detected_themes>\n\n")
	}

	if len(ic.Concepts) > 0 {
		sb.WriteString("<interpretive_concepts>\n")
		for _, c := range ic.Concepts {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", c.Name, c.Description))
		}
		for _, hint := range ic.ApproachHints {
			sb.WriteString(fmt.Sprintf("Hint: %s\n", hint))
		}
		sb.WriteString("</interpretive_concepts>\n\n")
	}
}

func (b *base) writeUserContextBlock(sb *strings.Builder, ic *interpret.Context) {
	uc := ic.Request.UserContext
	if uc == nil {
		return
	}
	sb.WriteString("<dreamer_context>\n")
	if uc.Age > 0 {
		sb.WriteString(fmt.Sprintf("Age: %d\n", uc.Age))
	}
	if uc.LifeSituation != "" {
		sb.WriteString(fmt.Sprintf("Life situation: %s\n", uc.LifeSituation))
	}
	if uc.EmotionalState != "" {
		sb.WriteString(fmt.Sprintf("Emotional state: %s\n", uc.EmotionalState))
	}
	sb.WriteString("</dreamer_context>\n\n")
}

func (b *base) writeFragmentBlock(sb *strings.Builder, ic *interpret.Context) {
	if len(ic.Fragments) == 0 {
		sb.WriteString("<reference_material>\nNo reference material is available. Work from the dream alone.\n</reference_material>\n\n")
		return
	}

	sb.WriteString("<reference_material>\n")
	sb.WriteString("Candidate knowledge fragments from the corpus. Judge each on its own merits.\n\n")
	for _, sf := range ic.Fragments {
		excerpt := sf.Fragment.Content
		if len(excerpt) > fragmentExcerptLimit {
			excerpt = excerpt[:fragmentExcerptLimit] + "..."
		}
		sb.WriteString(fmt.Sprintf("[fragment %s] (%s)\n%s\n\n", sf.Fragment.Id, sf.Fragment.Classification.PrimaryType, excerpt))
	}
	sb.WriteString("</reference_material>\n\n")
}

// relevancePrompt builds the Stage 1 prompt: judge fragments against this
// dream and surface focus areas, as strict JSON.
func (b *base) relevancePrompt(ic *interpret.Context) string {
	var sb strings.Builder

	b.writeVoiceBlock(&sb)
	sb.WriteString("<task>\n")
	sb.WriteString("Assess which themes and reference fragments genuinely matter for interpreting THIS dream.\n")
	sb.WriteString("Judge relevance strictly; most fragments deserve a low score.\n")
	sb.WriteString("</task>\n\n")

	b.writeDreamBlock(&sb, ic)
	b.writeFragmentBlock(&sb, ic)

	sb.WriteString("<output_format>\n")
	sb.WriteString("Respond with ONLY valid JSON in this exact structure:\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"relevant_themes\": [\"theme label\", ...],\n")
	sb.WriteString("  \"fragments\": [{\"fragment_id\": \"id\", \"excerpt\": \"short quote from the fragment\", \"relevance\": 0.8, \"reason\": \"why it applies\"}],\n")
	sb.WriteString("  \"focus_areas\": [\"aspect of the dream to center\", ...]\n")
	sb.WriteString("}\n")
	sb.WriteString("IMPORTANT: Output ONLY the JSON. No preamble, no commentary.\n")
	sb.WriteString("</output_format>\n")

	return sb.String()
}

// fullPrompt builds the Stage 2 prompt: the rich free-text interpretation.
func (b *base) fullPrompt(ic *interpret.Context, rel interpret.RelevanceAssessment) string {
	var sb strings.Builder

	b.writeVoiceBlock(&sb)
	b.writeDreamBlock(&sb, ic)
	b.writeUserContextBlock(&sb, ic)

	if len(rel.RelevantThemes) > 0 || len(rel.FocusAreas) > 0 {
		sb.WriteString("<assessment>\n")
		if len(rel.RelevantThemes) > 0 {
			sb.WriteString("Relevant themes: " + strings.Join(rel.RelevantThemes, ", ") + "\n")
		}
		if len(rel.FocusAreas) > 0 {
			sb.WriteString("Focus on: " + strings.Join(rel.FocusAreas, "; ") + "\n")
		}
		sb.WriteString("</assessment>\n\n")
	}

	b.writeRelevantFragments(&sb, ic, rel)

	sb.WriteString("<style_directives>\n")
	if ic.OpeningStyle != "" {
		sb.WriteString(fmt.Sprintf("Opening approach: %s\n", ic.OpeningStyle))
	}
	if ic.StructureStyle != "" {
		sb.WriteString(fmt.Sprintf("Structure: %s\n", ic.StructureStyle))
	}
	if len(ic.ForbiddenOpenings) > 0 {
		sb.WriteString("Do not begin with any of these recently used openings:\n")
		for _, o := range ic.ForbiddenOpenings {
			sb.WriteString(fmt.Sprintf("- %q\n", o))
		}
	}
	sb.WriteString("</style_directives>\n\n")

	if ic.DebateEnabled {
		sb.WriteString(debate.PromptBlock())
		sb.WriteString("\n")
	}

	sb.WriteString("<task>\n")
	sb.WriteString("Write the full interpretation of this dream in your voice. Ground every claim in the\n")
	sb.WriteString("dream's own imagery and the reference material above. Speak directly to the dreamer.\n")
	sb.WriteString("Aim for 4-7 substantial paragraphs. Do not use headings or bullet lists.\n")
	sb.WriteString("</task>\n")

	return sb.String()
}

func (b *base) writeRelevantFragments(sb *strings.Builder, ic *interpret.Context, rel interpret.RelevanceAssessment) {
	if len(rel.Fragments) == 0 {
		return
	}
	byId := make(map[string]string, len(ic.Fragments))
	for _, sf := range ic.Fragments {
		byId[sf.Fragment.Id] = sf.Fragment.Content
	}

	sb.WriteString("<grounded_reference_material>\n")
	sb.WriteString("Use ONLY this material as literature support. Do not cite anything else.\n\n")
	for _, fa := range rel.Fragments {
		content, ok := byId[fa.FragmentId]
		if !ok {
			continue
		}
		if len(content) > fragmentExcerptLimit*2 {
			content = content[:fragmentExcerptLimit*2] + "..."
		}
		sb.WriteString(fmt.Sprintf("--- %s (relevance %.2f) ---\n%s\n\n", fa.FragmentId, fa.Relevance, content))
	}
	sb.WriteString("</grounded_reference_material>\n\n")
}

// formatPrompt builds the Stage 3 prompt: condense the interpretation into
// the strict structured object.
func (b *base) formatPrompt(ic *interpret.Context, full interpret.FullInterpretation) string {
	var sb strings.Builder

	b.writeVoiceBlock(&sb)

	sb.WriteString("<interpretation>\n")
	sb.WriteString(full.Text)
	sb.WriteString("\n</interpretation>\n\n")

	coreJson, _ := json.MarshalIndent(b.profile.coreStructure, "  ", "  ")

	sb.WriteString("<task>\n")
	sb.WriteString("Condense the interpretation above into the structured object described below.\n")
	sb.WriteString("Stay faithful to the interpretation; do not invent new claims.\n")
	sb.WriteString("</task>\n\n")

	sb.WriteString("<output_format>\n")
	sb.WriteString("Respond with ONLY valid JSON in this exact structure:\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"topic\": \"5-9 word phrase naming what the dream is about\",\n")
	sb.WriteString("  \"interpretation\": \"condensed interpretation, 3-6 sentences, in your voice\",\n")
	sb.WriteString("  \"quick_take\": \"one-sentence essence of the reading\",\n")
	sb.WriteString("  \"symbols\": [\"3 to 10 short symbol tokens\"],\n")
	sb.WriteString("  \"emotional_tone\": {\"primary\": \"emotion\", \"secondary\": \"emotion\", \"intensity\": 0.7},\n")
	sb.WriteString(fmt.Sprintf("  \"core\": %s,\n", string(coreJson)))
	sb.WriteString(fmt.Sprintf("  \"guidance\": [\"2-4 items of practical guidance, %s\"],\n", b.profile.guidanceStyle))
	sb.WriteString("  \"reflective_question\": \"one open question for the dreamer\"\n")
	sb.WriteString("}\n")
	sb.WriteString("IMPORTANT: Output ONLY the JSON object. No code fences, no commentary.\n")
	sb.WriteString("</output_format>\n")

	return sb.String()
}
