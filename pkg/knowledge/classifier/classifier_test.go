package classifier

import (
	"reflect"
	"testing"

	"dream-insight-be/pkg/knowledge"
)

func TestClassify(t *testing.T) {
	c := New(nil)

	tests := []struct {
		name        string
		text        string
		wantPrimary knowledge.ContentType
		wantFlag    func(knowledge.Classification) bool
	}{
		{
			name:        "symbol material",
			text:        "In dreams, the owl often represents hidden wisdom. The owl is an ancient symbol of sight in darkness, and its imagery signifies knowledge the waking mind cannot reach.",
			wantPrimary: knowledge.ContentSymbol,
			wantFlag:    func(r knowledge.Classification) bool { return r.HasSymbols },
		},
		{
			name:        "clinical case material",
			text:        "A 34-year-old patient presented with a recurring dream of locked rooms. In session the transference was immediate; treatment focused on the case history her dream kept restaging.",
			wantPrimary: knowledge.ContentCaseStudy,
			wantFlag:    func(r knowledge.Classification) bool { return r.HasCaseStudy },
		},
		{
			name:        "practice material",
			text:        "Exercise: keep a dream journal by your bed. Each morning, write down whatever you remember before sleep fades. You can try this practice for a week before reading anything back.",
			wantPrimary: knowledge.ContentPractice,
			wantFlag:    func(r knowledge.Classification) bool { return r.HasExercise },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Classify(tt.text)
			if result.PrimaryType != tt.wantPrimary {
				t.Errorf("PrimaryType = %s, want %s", result.PrimaryType, tt.wantPrimary)
			}
			if !tt.wantFlag(result) {
				t.Errorf("expected content flag not set: %+v", result)
			}
			if result.Confidence < MinConfidence || result.Confidence > MaxConfidence {
				t.Errorf("Confidence = %f, outside [%f, %f]", result.Confidence, MinConfidence, MaxConfidence)
			}
		})
	}
}

func TestClassifyZeroSignal(t *testing.T) {
	c := New(nil)

	result := c.Classify("zxcv qwer asdf")
	if result.Confidence != MinConfidence {
		t.Errorf("zero-signal Confidence = %f, want %f", result.Confidence, MinConfidence)
	}
	if result.PrimaryType != knowledge.ContentTheory {
		t.Errorf("zero-signal PrimaryType = %s, want the first category in scoring order", result.PrimaryType)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := New(nil)
	text := "Jung proposed that the snake symbolizes transformation. The concept of compensation runs through his dream theory."

	first := c.Classify(text)
	second := c.Classify(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Classify is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestExtractTopics(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "jungian vocabulary fires",
			text: "Jung held that the shadow and the anima are archetypes of the collective unconscious.",
			want: []string{"jungian_psychology"},
		},
		{
			name: "single stray term does not fire",
			text: "She mentioned an archetype once in passing.",
			want: nil,
		},
		{
			name: "two groups at once",
			text: "REM sleep and the amygdala drive memory consolidation; fear and grief surface in the replay.",
			want: []string{"neuroscience", "emotions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractTopics(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractTopics(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	text := `Carl Jung described what is known as active imagination, a technique of "waking dreamwork". Amplification and individuation appear together throughout.`

	got := extractKeywords(text)

	// "Amplification" keeps its capitalized first occurrence through dedupe
	wantPresent := []string{"Carl Jung", "waking dreamwork", "active imagination", "individuation", "Amplification"}
	for _, want := range wantPresent {
		found := false
		for _, kw := range got {
			if kw == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("extractKeywords missing %q, got %v", want, got)
		}
	}

	// Dedupe is case-insensitive, first occurrence wins
	seen := make(map[string]int)
	for _, kw := range got {
		seen[kw]++
		if seen[kw] > 1 {
			t.Errorf("duplicate keyword %q in %v", kw, got)
		}
	}
}
