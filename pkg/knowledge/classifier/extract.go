package classifier

import (
	"regexp"
	"sort"
	"strings"
)

// topicGroup is a named vocabulary; a topic fires when enough of its terms
// appear in the text. The threshold scales with group size so large groups do
// not fire on a single stray word.
type topicGroup struct {
	name  string
	terms []string
}

var topicGroups = []topicGroup{
	{"jungian_psychology", []string{
		"jung", "archetype", "collective unconscious", "anima", "animus",
		"shadow", "individuation", "self", "persona", "amplification",
	}},
	{"freudian_psychology", []string{
		"freud", "wish fulfillment", "latent", "manifest", "repression",
		"libido", "oedipus", "censorship", "condensation", "displacement",
	}},
	{"neuroscience", []string{
		"rem", "non-rem", "cortex", "amygdala", "hippocampus", "memory consolidation",
		"neural", "eeg", "fmri", "neurotransmitter", "sleep cycle",
	}},
	{"spiritual_tradition", []string{
		"soul", "divine", "sacred", "prayer", "scripture", "prophetic",
		"meditation", "mystic", "blessing", "revelation",
	}},
	{"emotions", []string{
		"fear", "anxiety", "grief", "joy", "anger", "shame",
		"longing", "loneliness", "love", "dread",
	}},
	{"symbolism", []string{
		"symbol", "motif", "image", "metaphor", "represents", "archetypal image",
		"water", "serpent", "labyrinth", "threshold",
	}},
	{"sleep_science", []string{
		"sleep", "insomnia", "circadian", "hypnagogic", "lucid",
		"sleep paralysis", "nightmare disorder", "dream recall",
	}},
}

// technicalVocabulary terms are harvested as keywords when they co-occur with
// at least one other technical term, which filters out incidental mentions.
var technicalVocabulary = []string{
	"individuation", "amplification", "transference", "countertransference",
	"compensation", "wish fulfillment", "latent content", "manifest content",
	"collective unconscious", "active imagination", "memory consolidation",
	"threat simulation", "continuity hypothesis", "lucid dreaming",
	"free association", "dreamwork", "anima", "animus", "numinous",
}

var (
	capitalizedPhraseRe = regexp.MustCompile(`\b[A-Z][a-z]{2,}(?: [A-Z][a-z]{2,}){0,2}\b`)
	quotedTermRe        = regexp.MustCompile(`"([^"]{3,40})"|'([^']{3,40})'`)
	definedTermRe       = regexp.MustCompile(`(?i)(?:known as|referred to as|called|termed) (?:the )?([a-zA-Z][a-zA-Z -]{2,40}?)[.,;)]`)
)

// sentence starters that capitalized-phrase harvesting must ignore
var stopStarters = map[string]bool{
	"The": true, "This": true, "That": true, "These": true, "Those": true,
	"When": true, "Where": true, "While": true, "There": true, "Here": true,
	"After": true, "Before": true, "During": true, "Then": true, "Thus": true,
	"However": true, "Although": true, "Because": true, "Since": true,
	"What": true, "Which": true, "With": true, "Without": true,
	"And": true, "But": true, "For": true, "Not": true, "Its": true,
	"They": true, "She": true, "Some": true, "Many": true, "Most": true,
	"Each": true, "Every": true, "Such": true, "Other": true, "Both": true,
	"First": true, "Second": true, "Third": true, "Finally": true, "Next": true,
	"One": true, "Two": true, "Three": true, "Now": true, "Yet": true,
	"From": true, "Into": true, "Over": true, "Under": true, "Upon": true,
	"Even": true, "Only": true, "Also": true, "Once": true, "Still": true,
}

// extractTopics returns the names of every topic group whose term hit count
// meets the group-size-scaled threshold, in declaration order.
func extractTopics(text string) []string {
	lower := strings.ToLower(text)

	var topics []string
	for _, group := range topicGroups {
		hits := 0
		for _, term := range group.terms {
			if strings.Contains(lower, term) {
				hits++
			}
		}

		threshold := len(group.terms) / 5
		if threshold < 2 {
			threshold = 2
		}
		if hits >= threshold {
			topics = append(topics, group.name)
		}
	}
	return topics
}

// extractKeywords harvests candidate keywords from four sources, then
// deduplicates and length-filters them. The result order is deterministic:
// harvest order, first occurrence wins.
func extractKeywords(text string) []string {
	var candidates []string

	// 1. Capitalized phrases (proper nouns, named concepts)
	for _, m := range capitalizedPhraseRe.FindAllString(text, -1) {
		first := strings.SplitN(m, " ", 2)[0]
		if stopStarters[first] && !strings.Contains(m, " ") {
			continue
		}
		candidates = append(candidates, m)
	}

	// 2. Quoted terms
	for _, m := range quotedTermRe.FindAllStringSubmatch(text, -1) {
		term := m[1]
		if term == "" {
			term = m[2]
		}
		candidates = append(candidates, term)
	}

	// 3. Defined terms ("known as X", "called X")
	for _, m := range definedTermRe.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}

	// 4. Technical terms, only when at least two co-occur
	lower := strings.ToLower(text)
	var technical []string
	for _, term := range technicalVocabulary {
		if strings.Contains(lower, term) {
			technical = append(technical, term)
		}
	}
	if len(technical) >= 2 {
		candidates = append(candidates, technical...)
	}

	return dedupeKeywords(candidates)
}

func dedupeKeywords(candidates []string) []string {
	seen := make(map[string]bool, len(candidates))
	var keywords []string
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if len(c) < 3 || len(c) > 40 {
			continue
		}
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		keywords = append(keywords, c)
	}
	return keywords
}

// TopicNames returns all known topic group names, for diagnostics.
func TopicNames() []string {
	names := make([]string, len(topicGroups))
	for i, g := range topicGroups {
		names[i] = g.name
	}
	sort.Strings(names)
	return names
}
