package style

import (
	"strings"
	"testing"
)

func TestPickUniqueAvoidsRecent(t *testing.T) {
	tr := NewTracker(8)
	pool := []string{"a", "b", "c"}

	got := []string{
		tr.PickUnique(pool, "archetypal", KindOpening),
		tr.PickUnique(pool, "archetypal", KindOpening),
		tr.PickUnique(pool, "archetypal", KindOpening),
	}

	seen := make(map[string]bool)
	for _, pick := range got {
		if seen[pick] {
			t.Fatalf("pick %q repeated before pool exhaustion: %v", pick, got)
		}
		seen[pick] = true
	}
}

func TestPickUniqueNoConsecutiveRepeats(t *testing.T) {
	tr := NewTracker(8)
	pool := []string{"a", "b", "c"}

	prev := ""
	for i := 0; i < 16; i++ {
		pick := tr.PickUnique(pool, "archetypal", KindOpening)
		if pick == "" {
			t.Fatalf("pick %d returned empty", i)
		}
		if pick == prev {
			t.Fatalf("pick %d repeated %q consecutively", i, pick)
		}
		prev = pick
	}
}

func TestPickUniqueRecoversFromExhaustion(t *testing.T) {
	tr := NewTracker(8)
	pool := []string{"a", "b", "c"}

	for i := 0; i < 3; i++ {
		tr.PickUnique(pool, "devotional", KindOpening)
	}

	// Pool exhausted: the tracker forgets the oldest half instead of failing
	pick := tr.PickUnique(pool, "devotional", KindOpening)
	if pick == "" {
		t.Fatal("exhausted pool returned empty pick")
	}
}

func TestPickUniqueEmptyPool(t *testing.T) {
	tr := NewTracker(8)
	if pick := tr.PickUnique(nil, "archetypal", KindOpening); pick != "" {
		t.Errorf("empty pool pick = %q, want empty", pick)
	}
}

func TestPickUniqueIsolatesPersonas(t *testing.T) {
	tr := NewTracker(8)
	pool := []string{"a", "b"}

	tr.PickUnique(pool, "archetypal", KindOpening)
	tr.PickUnique(pool, "archetypal", KindOpening)

	// Another persona starts with a fresh history
	if pick := tr.PickUnique(pool, "neuroscientific", KindOpening); pick == "" {
		t.Error("fresh persona got empty pick")
	}
	if len(tr.ForbiddenOpenings("neuroscientific")) != 1 {
		t.Error("persona histories are not isolated")
	}
}

func TestTrackOpeningCapacity(t *testing.T) {
	tr := NewTracker(2)

	tr.TrackOpening("psychoanalytic", "first opening")
	tr.TrackOpening("psychoanalytic", "second opening")
	tr.TrackOpening("psychoanalytic", "third opening")

	recent := tr.ForbiddenOpenings("psychoanalytic")
	if len(recent) != 2 {
		t.Fatalf("history length = %d, want capacity 2", len(recent))
	}
	if recent[0] != "second opening" || recent[1] != "third opening" {
		t.Errorf("expected oldest entry evicted, got %v", recent)
	}
}

func TestForbiddenOpeningsClause(t *testing.T) {
	tr := NewTracker(8)

	if clause := tr.ForbiddenOpeningsClause("archetypal"); clause != "" {
		t.Errorf("empty history clause = %q, want empty", clause)
	}

	tr.TrackOpening("archetypal", "The owl arrives first")
	clause := tr.ForbiddenOpeningsClause("archetypal")
	if !strings.Contains(clause, `"The owl arrives first"`) {
		t.Errorf("clause missing tracked opening: %q", clause)
	}
	if !strings.Contains(clause, "Do not begin") {
		t.Errorf("clause missing instruction: %q", clause)
	}
}

func TestTrackIgnoresEmpty(t *testing.T) {
	tr := NewTracker(8)
	tr.Track("archetypal", KindOpening, "")
	if got := tr.ForbiddenOpenings("archetypal"); len(got) != 0 {
		t.Errorf("empty value was tracked: %v", got)
	}
}
