// Package themes holds the static dream-theme taxonomy and maps theme codes
// to interpretive concepts. Unknown theme codes are legal everywhere: the
// mapper returns empty results, never errors.
package themes

import (
	"strings"
)

// Concept is a single interpretive handle attached to a theme.
type Concept struct {
	Name              string
	Description       string
	RelatedArchetypes []string
}

type themeMapping struct {
	concepts []Concept
	approach string
}

// Mapper answers concept lookups over the fixed taxonomy.
type Mapper struct {
	mappings map[string]themeMapping
	// reverse index, concept name (lowercased) -> theme codes
	byConcept map[string][]string
}

func NewMapper() *Mapper {
	m := &Mapper{
		mappings:  defaultMappings(),
		byConcept: make(map[string][]string),
	}
	for code, mapping := range m.mappings {
		for _, c := range mapping.concepts {
			key := strings.ToLower(c.Name)
			m.byConcept[key] = append(m.byConcept[key], code)
		}
	}
	return m
}

// ConceptsFor returns the ordered concepts for a theme code, or nil for an
// unknown code.
func (m *Mapper) ConceptsFor(themeCode string) []Concept {
	mapping, ok := m.mappings[themeCode]
	if !ok {
		return nil
	}
	out := make([]Concept, len(mapping.concepts))
	copy(out, mapping.concepts)
	return out
}

// ApproachFor returns the human-readable interpretive-approach hint for a
// theme code, empty for unknown codes.
func (m *Mapper) ApproachFor(themeCode string) string {
	return m.mappings[themeCode].approach
}

// ThemesForConcept is the reverse lookup: which theme codes carry a concept.
func (m *Mapper) ThemesForConcept(conceptName string) []string {
	codes := m.byConcept[strings.ToLower(conceptName)]
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}

// MapThemesToConcepts resolves a theme-code list into a deduplicated concept
// set plus the approach hints of every known theme, preserving input order.
func (m *Mapper) MapThemesToConcepts(themeCodes []string) ([]Concept, []string) {
	var concepts []Concept
	var hints []string
	seen := make(map[string]bool)

	for _, code := range themeCodes {
		mapping, ok := m.mappings[code]
		if !ok {
			continue
		}
		for _, c := range mapping.concepts {
			key := strings.ToLower(c.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			concepts = append(concepts, c)
		}
		if mapping.approach != "" {
			hints = append(hints, mapping.approach)
		}
	}
	return concepts, hints
}

// InferThemes sniffs fragment text against a fixed per-theme vocabulary. It
// backfills applicable theme codes for fragments ingested without explicit
// tags. Best effort only; an empty result is normal.
func (m *Mapper) InferThemes(text string) []string {
	lower := strings.ToLower(text)

	var codes []string
	for _, entry := range sniffVocabulary {
		hits := 0
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				hits++
			}
		}
		if hits >= entry.minHits {
			codes = append(codes, entry.code)
		}
	}
	return codes
}

// KnownCodes lists every code in the taxonomy, in no particular order.
func (m *Mapper) KnownCodes() []string {
	codes := make([]string, 0, len(m.mappings))
	for code := range m.mappings {
		codes = append(codes, code)
	}
	return codes
}

type sniffEntry struct {
	code    string
	words   []string
	minHits int
}

var sniffVocabulary = []sniffEntry{
	{"falling", []string{"falling", "fell", "plummet", "dropped from", "losing ground"}, 1},
	{"flying", []string{"flying", "soaring", "levitat", "weightless", "above the ground"}, 1},
	{"water", []string{"water", "ocean", "sea", "river", "flood", "drowning", "waves"}, 2},
	{"forest", []string{"forest", "woods", "trees", "wilderness", "undergrowth"}, 1},
	{"owl", []string{"owl", "night bird", "nocturnal bird"}, 1},
	{"snake", []string{"snake", "serpent", "viper", "coiled"}, 1},
	{"death", []string{"death", "dying", "funeral", "corpse", "grave"}, 2},
	{"teeth", []string{"teeth", "tooth", "crumbling teeth", "losing teeth"}, 1},
	{"chase", []string{"chased", "pursued", "running from", "escape", "fleeing"}, 2},
	{"house", []string{"house", "rooms", "attic", "basement", "childhood home"}, 2},
	{"wisdom", []string{"wisdom", "wise", "inner knowing", "guidance", "sage", "elder"}, 2},
	{"shadow_figure", []string{"shadow", "dark figure", "stranger", "faceless"}, 2},
	{"birth", []string{"birth", "pregnan", "newborn", "infant"}, 2},
	{"journey", []string{"journey", "path", "road", "travel", "crossroads"}, 2},
	{"exam", []string{"exam", "test", "unprepared", "failing a test"}, 2},
}
