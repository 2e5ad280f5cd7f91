// Package style biases stylistic variety across requests. It keeps a short
// per-persona history of previously chosen variants (openings, structures,
// vocabulary anchors) so consecutive interpretations do not read like the
// same template. The history is advisory: losing it degrades variety, never
// correctness. Process-wide state, guarded by a mutex.
package style

import (
	"fmt"
	"sync"
)

// Variant kinds tracked per persona.
const (
	KindOpening    = "opening"
	KindStructure  = "structure"
	KindVocabulary = "vocabulary"
)

const DefaultCapacity = 8

type Tracker struct {
	mu       sync.Mutex
	capacity int
	history  map[string][]string // personaKey:kind -> recent variants, oldest first
	picks    map[string]int      // rotation counter per key
}

func NewTracker(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Tracker{
		capacity: capacity,
		history:  make(map[string][]string),
		picks:    make(map[string]int),
	}
}

func historyKey(personaKey, kind string) string {
	return personaKey + ":" + kind
}

// PickUnique prefers a candidate absent from the persona's recent history.
// When every candidate is exhausted it clears the oldest half of the history
// and retries instead of failing. Empty candidate lists return "".
func (t *Tracker) PickUnique(candidates []string, personaKey, kind string) string {
	if len(candidates) == 0 {
		return ""
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := historyKey(personaKey, kind)
	offset := t.picks[key]
	t.picks[key] = offset + 1

	pick := t.pickLocked(candidates, key, offset)
	t.trackLocked(key, pick)
	return pick
}

func (t *Tracker) pickLocked(candidates []string, key string, offset int) string {
	recent := t.history[key]

	// Rotate the starting point so repeated calls with the same pool walk it
	for i := 0; i < len(candidates); i++ {
		candidate := candidates[(offset+i)%len(candidates)]
		if !contains(recent, candidate) {
			return candidate
		}
	}

	// Pool exhausted: forget the oldest half and try again
	half := len(recent) / 2
	t.history[key] = append([]string(nil), recent[half:]...)
	recent = t.history[key]

	for i := 0; i < len(candidates); i++ {
		candidate := candidates[(offset+i)%len(candidates)]
		if !contains(recent, candidate) {
			return candidate
		}
	}

	// Still exhausted (pool smaller than remaining history): rotate anyway
	return candidates[offset%len(candidates)]
}

// Track records a used variant without picking.
func (t *Tracker) Track(personaKey, kind, value string) {
	if value == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trackLocked(historyKey(personaKey, kind), value)
}

// TrackOpening records the opening phrase of a produced interpretation.
func (t *Tracker) TrackOpening(personaKey, opening string) {
	t.Track(personaKey, KindOpening, opening)
}

// ForbiddenOpenings returns the recent openings for a persona, usable as
// natural-language negative constraints in the next prompt.
func (t *Tracker) ForbiddenOpenings(personaKey string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	recent := t.history[historyKey(personaKey, KindOpening)]
	out := make([]string, len(recent))
	copy(out, recent)
	return out
}

// ForbiddenOpeningsClause renders the negative constraint for prompt use, or
// "" when there is no history.
func (t *Tracker) ForbiddenOpeningsClause(personaKey string) string {
	openings := t.ForbiddenOpenings(personaKey)
	if len(openings) == 0 {
		return ""
	}
	clause := "Do not begin the interpretation with any of these recently used openings:"
	for _, o := range openings {
		clause += fmt.Sprintf("\n- %q", o)
	}
	return clause
}

func (t *Tracker) trackLocked(key, value string) {
	recent := append(t.history[key], value)
	if len(recent) > t.capacity {
		recent = recent[len(recent)-t.capacity:]
	}
	t.history[key] = recent
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
