// Package persona provides the four interpretive voices. Every persona is a
// profile-driven instance of the same three-stage machinery: the profile
// carries the voice, prompt framing, core schema and validation accents; the
// shared base runs the stages through the model fallback chain.
package persona

import (
	"log"
	"regexp"

	"dream-insight-be/pkg/interpret"
)

// Voice is the personality descriptor injected into every prompt.
type Voice struct {
	Tone             string
	Register         string
	SignaturePhrases []string
}

type profile struct {
	key   string
	meta  interpret.PersonaMeta
	voice Voice

	// framing is the persona's interpretive stance paragraph, prepended to
	// the stage prompts after the voice block.
	framing string

	// coreAliases are the nested keys models tend to emit instead of the
	// canonical "core" field; stage 3 reconciles them.
	coreAliases   []string
	coreStructure map[string]any

	openingStyles   []string
	structureStyles []string

	guidanceStyle   string
	defaultQuestion string
	authenticity    []string

	relevanceTemperature float64
	proseTemperature     float64
	formatTemperature    float64

	// symbolPattern overrides the default symbol-harvesting heuristic when
	// set; nil keeps the shared motif scan.
	symbolPattern *regexp.Regexp
}

// base implements interpret.Interpreter for any profile.
type base struct {
	profile profile
	chain   interpret.Chain
	logger  *log.Logger
}

var _ interpret.Interpreter = (*base)(nil)

func newBase(p profile, chain interpret.Chain, logger *log.Logger) *base {
	if p.relevanceTemperature == 0 {
		p.relevanceTemperature = 0.1
	}
	if p.proseTemperature == 0 {
		p.proseTemperature = 0.8
	}
	if p.formatTemperature == 0 {
		p.formatTemperature = 0.2
	}
	return &base{profile: p, chain: chain, logger: logger}
}

func (b *base) Key() string                 { return b.profile.key }
func (b *base) Meta() interpret.PersonaMeta { return b.profile.meta }
func (b *base) OpeningStyles() []string     { return b.profile.openingStyles }
func (b *base) StructureStyles() []string   { return b.profile.structureStyles }

// CoreStructure returns a copy of the persona-specific canonical core shape.
func (b *base) CoreStructure() map[string]any {
	out := make(map[string]any, len(b.profile.coreStructure))
	for k, v := range b.profile.coreStructure {
		out[k] = v
	}
	return out
}
