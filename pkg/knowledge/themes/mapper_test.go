package themes

import (
	"reflect"
	"testing"
)

func TestMapThemesToConcepts(t *testing.T) {
	m := NewMapper()

	concepts, hints := m.MapThemesToConcepts([]string{"owl", "forest", "no_such_theme"})

	names := make([]string, 0, len(concepts))
	for _, c := range concepts {
		names = append(names, c.Name)
	}

	for _, want := range []string{"hidden wisdom", "the unknown"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("concepts missing %q, got %v", want, names)
		}
	}

	// Unknown codes contribute nothing; both known themes carry an approach hint
	if len(hints) != 2 {
		t.Errorf("hints = %v, want exactly 2", hints)
	}
}

func TestMapThemesToConceptsDedupe(t *testing.T) {
	m := NewMapper()

	once, _ := m.MapThemesToConcepts([]string{"water"})
	twice, _ := m.MapThemesToConcepts([]string{"water", "water"})

	if len(once) != len(twice) {
		t.Errorf("duplicate theme codes changed concept count: %d vs %d", len(once), len(twice))
	}
}

func TestThemesForConcept(t *testing.T) {
	m := NewMapper()

	got := m.ThemesForConcept("Hidden Wisdom")
	if !reflect.DeepEqual(got, []string{"owl"}) {
		t.Errorf("ThemesForConcept(\"Hidden Wisdom\") = %v, want [owl]", got)
	}

	if unknown := m.ThemesForConcept("no such concept"); len(unknown) != 0 {
		t.Errorf("unknown concept resolved to %v, want empty", unknown)
	}
}

func TestInferThemes(t *testing.T) {
	m := NewMapper()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single strong signal",
			text: "I was falling from the roof of a tall building.",
			want: []string{"falling"},
		},
		{
			name: "two themes",
			text: "An owl watched me from deep inside the forest.",
			want: []string{"forest", "owl"},
		},
		{
			name: "multi-hit threshold met",
			text: "The ocean rose and the waves pulled me under the water.",
			want: []string{"water"},
		},
		{
			name: "single hit below threshold",
			text: "Someone spoke of wisdom once.",
			want: nil,
		},
		{
			name: "no signal",
			text: "A completely uneventful afternoon.",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.InferThemes(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("InferThemes(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestKnownCodes(t *testing.T) {
	m := NewMapper()

	codes := m.KnownCodes()
	if len(codes) != 15 {
		t.Errorf("KnownCodes() returned %d codes, want 15", len(codes))
	}
	for _, code := range codes {
		if m.ApproachFor(code) == "" {
			t.Errorf("theme %q has no approach hint", code)
		}
	}
}
