package qa

import (
	"strings"
	"testing"

	"dream-insight-be/pkg/interpret"
)

func passingCanonical() interpret.Canonical {
	return interpret.Canonical{
		DreamId: "d-1",
		Persona: "archetypal",
		Topic:   "The owl that guards the forest threshold",
		Interpretation: "An owl waiting at the edge of a darkened forest is an archetype of the threshold: " +
			"the psyche poised between what is known and what is not. The symbol carries the Wise Old Man's " +
			"quality of sight in darkness, and its stillness suggests the individuation work of waiting rather " +
			"than forcing. The forest itself is the image of unexplored inner territory.",
		QuickTake:          "The dream stages a threshold encounter with inner wisdom.",
		Symbols:            []string{"owl", "forest", "threshold"},
		ReflectiveQuestion: "Which figure in this dream carries something you have not yet claimed?",
	}
}

func TestScorePassingInterpretation(t *testing.T) {
	s := NewScorer()

	report := s.Score(passingCanonical())
	if !report.Passed {
		t.Fatalf("expected pass, got %+v", report)
	}
	if report.Score != 100 {
		t.Errorf("Score = %f, want 100 with no failures", report.Score)
	}
	if len(report.Failures) != 0 {
		t.Errorf("Failures = %v, want none", report.Failures)
	}
}

func TestScoreClicheIsFatal(t *testing.T) {
	s := NewScorer()

	c := passingCanonical()
	c.Interpretation += " This dream means you should trust the archetype of the symbol."

	report := s.Score(c)
	if report.Passed {
		t.Fatalf("cliché phrasing must fail regardless of score: %+v", report)
	}

	found := false
	for _, f := range report.Failures {
		if f.Rule == "no_cliche_phrases" && f.Severity == SeverityError {
			found = true
		}
	}
	if !found {
		t.Errorf("no_cliche_phrases error missing: %v", report.Failures)
	}
}

func TestScoreShortInterpretation(t *testing.T) {
	s := NewScorer()

	c := passingCanonical()
	c.Interpretation = "An owl, an archetype, a symbol of the psyche."

	report := s.Score(c)
	if report.Passed {
		t.Fatalf("under-length interpretation must fail: %+v", report)
	}
}

func TestScoreWarningsOnlyReduceScore(t *testing.T) {
	s := NewScorer()

	c := passingCanonical()
	c.Symbols = []string{"owl"}
	c.ReflectiveQuestion = ""

	report := s.Score(c)
	// symbols_present (8) + reflective_question_present (5) are warnings
	if report.Score != 87 {
		t.Errorf("Score = %f, want 87", report.Score)
	}
	if !report.Passed {
		t.Errorf("warning-only failures must still pass: %+v", report)
	}
	for _, f := range report.Failures {
		if f.Severity == SeverityError {
			t.Errorf("unexpected error-severity failure: %+v", f)
		}
	}
}

func TestScorePersonaVocabulary(t *testing.T) {
	s := NewScorer()

	c := passingCanonical()
	c.Persona = "neuroscientific"
	// Keep length but remove every neuroscientific register term
	c.Interpretation = strings.Repeat("The imagery is striking and the night scene holds attention throughout. ", 5)

	report := s.Score(c)

	found := false
	for _, f := range report.Failures {
		if f.Rule == "neuroscientific_vocabulary" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected neuroscientific_vocabulary warning, got %v", report.Failures)
	}
}

func TestScoreUnknownPersonaSkipsVocabularyRules(t *testing.T) {
	s := NewScorer()

	c := passingCanonical()
	c.Persona = "somatic"

	report := s.Score(c)
	for _, f := range report.Failures {
		if strings.HasSuffix(f.Rule, "_vocabulary") {
			t.Errorf("unknown persona got a vocabulary rule: %+v", f)
		}
	}
}
