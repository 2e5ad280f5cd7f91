package interpret

import (
	"strings"
	"testing"
)

func TestStandardizeIsTotal(t *testing.T) {
	// A completely empty structured pass still yields a fully populated result
	for _, persona := range []string{"psychoanalytic", "archetypal", "neuroscientific", "devotional"} {
		t.Run(persona, func(t *testing.T) {
			c := Standardize(Formatted{Persona: persona, DreamId: "d-1"}, GenerationMetadata{})

			if c.DreamId != "d-1" || c.Persona != persona {
				t.Errorf("identity fields lost: %+v", c)
			}
			if c.Topic == "" {
				t.Error("Topic left empty")
			}
			if c.ReflectiveQuestion == "" {
				t.Error("ReflectiveQuestion left empty")
			}
			if c.Symbols == nil || c.Guidance == nil || c.Authenticity == nil {
				t.Error("slice fields left nil")
			}
			if c.Core == nil {
				t.Error("Core left nil")
			}
			if c.EmotionalTone.Primary != "ambivalence" || c.EmotionalTone.Intensity != 0.5 {
				t.Errorf("tone default = %+v", c.EmotionalTone)
			}
		})
	}
}

func TestStandardizeDefaultQuestionsDiffer(t *testing.T) {
	questions := make(map[string]bool)
	for _, persona := range []string{"psychoanalytic", "archetypal", "neuroscientific", "devotional"} {
		c := Standardize(Formatted{Persona: persona, DreamId: "d-1"}, GenerationMetadata{})
		questions[c.ReflectiveQuestion] = true
	}
	if len(questions) != 4 {
		t.Errorf("personas share default questions: %v", questions)
	}
}

func TestStandardizeFillsFromProse(t *testing.T) {
	f := Formatted{
		Persona: "archetypal",
		DreamId: "d-2",
		Full: FullInterpretation{
			Text: "The owl at the forest edge is the dream's central figure. It watches without fear.",
		},
	}

	c := Standardize(f, GenerationMetadata{})

	if c.Interpretation != strings.TrimSpace(f.Full.Text) {
		t.Errorf("Interpretation not filled from prose: %q", c.Interpretation)
	}
	if c.QuickTake != "The owl at the forest edge is the dream's central figure." {
		t.Errorf("QuickTake = %q, want the first sentence", c.QuickTake)
	}
}

func TestStandardizeCoreKeepsExtraKeys(t *testing.T) {
	f := Formatted{
		Persona: "archetypal",
		DreamId: "d-3",
		Core: map[string]any{
			"archetypes":     []string{"the Wise Old Man"},
			"compensation":   "stillness against a hurried waking life",
			"mythic_aside":   "Athena's owl",
			"unrelated_blob": 42,
		},
	}

	c := Standardize(f, GenerationMetadata{})

	for _, key := range []string{"archetypes", "compensation", "mythic_aside", "unrelated_blob"} {
		if _, ok := c.Core[key]; !ok {
			t.Errorf("core key %q dropped: %v", key, c.Core)
		}
	}
}

func TestStandardizeUnknownPersonaCorePassthrough(t *testing.T) {
	core := map[string]any{"anything": "goes"}
	c := Standardize(Formatted{Persona: "somatic", DreamId: "d-4", Core: core}, GenerationMetadata{})

	if v, ok := c.Core["anything"]; !ok || v != "goes" {
		t.Errorf("unknown persona core mangled: %v", c.Core)
	}
}

func TestNormalizeTopic(t *testing.T) {
	tests := []struct {
		name      string
		topic     string
		quickTake string
		fullText  string
		want      string
	}{
		{
			name:  "in-range topic kept",
			topic: "The owl that waits in the dark",
			want:  "The owl that waits in the dark",
		},
		{
			name:  "overlong topic truncated to nine words",
			topic: "one two three four five six seven eight nine ten eleven",
			want:  "one two three four five six seven eight nine",
		},
		{
			name:      "short topic derived from quick take",
			topic:     "Owls",
			quickTake: "An old wisdom is waiting at the forest edge.",
			want:      "An old wisdom is waiting at the forest edge",
		},
		{
			name:     "derived from prose when quick take empty",
			fullText: "Something in this dream refuses to stay hidden from you. More follows.",
			want:     "Something in this dream refuses to stay hidden from",
		},
		{
			name: "everything empty falls back to the default",
			want: "A dream awaiting its interpretation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeTopic(tt.topic, tt.quickTake, tt.fullText)
			if got != tt.want {
				t.Errorf("normalizeTopic(%q, %q, %q) = %q, want %q", tt.topic, tt.quickTake, tt.fullText, got, tt.want)
			}
		})
	}
}

func TestStandardizeOverflow(t *testing.T) {
	f := Formatted{
		Persona: "neuroscientific",
		DreamId: "d-5",
		Extra:   map[string]any{"model_note": "speculative"},
		Full: FullInterpretation{
			Text:        "REM replay carries the day's residue into the dream's scenes here.",
			KeyInsights: []string{"memory replay dominates"},
		},
		Relevance: RelevanceAssessment{FocusAreas: []string{"memory_sources"}},
	}

	c := Standardize(f, GenerationMetadata{})

	if c.AdditionalInfo["model_note"] != "speculative" {
		t.Errorf("Extra not carried into AdditionalInfo: %v", c.AdditionalInfo)
	}
	if _, ok := c.AdditionalInfo["key_insights"]; !ok {
		t.Errorf("key_insights missing from AdditionalInfo: %v", c.AdditionalInfo)
	}
	if _, ok := c.AdditionalInfo["focus_areas"]; !ok {
		t.Errorf("focus_areas missing from AdditionalInfo: %v", c.AdditionalInfo)
	}
}
