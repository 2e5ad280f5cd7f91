package themes

// defaultMappings is the static theme -> concept taxonomy. Codes are stable
// keys shared with the themes reference table; concepts carry the archetypes
// the archetypal persona leans on, but every persona reads the same map.
func defaultMappings() map[string]themeMapping {
	return map[string]themeMapping{
		"falling": {
			concepts: []Concept{
				{Name: "loss of control", Description: "fear of losing grip on a life situation", RelatedArchetypes: []string{"the Fool"}},
				{Name: "surrender", Description: "an invitation to stop resisting an inevitable change"},
			},
			approach: "Explore where waking life feels unsupported; distinguish panic from release.",
		},
		"flying": {
			concepts: []Concept{
				{Name: "transcendence", Description: "rising above a conflict or constraint", RelatedArchetypes: []string{"the Hero"}},
				{Name: "inflation", Description: "overestimation of one's position, a warning when flight feels forced"},
			},
			approach: "Ask whether the flight is joyful or escapist before reading it as freedom.",
		},
		"water": {
			concepts: []Concept{
				{Name: "the unconscious", Description: "emotional depths; clarity and turbulence mirror inner state", RelatedArchetypes: []string{"the Great Mother"}},
				{Name: "emotional overwhelm", Description: "floods and drowning point at unprocessed feeling"},
				{Name: "renewal", Description: "washing, rain and springs carry purification imagery"},
			},
			approach: "Attend to the water's condition: depth, clarity and motion carry the message.",
		},
		"forest": {
			concepts: []Concept{
				{Name: "the unknown", Description: "entering unmapped psychic territory", RelatedArchetypes: []string{"the Wanderer"}},
				{Name: "initiation", Description: "dark woods as threshold of a rite of passage", RelatedArchetypes: []string{"the Seeker"}},
				{Name: "natural instinct", Description: "reconnection with the untamed, pre-social self"},
			},
			approach: "Treat the forest as a threshold; what the dreamer meets inside is the material.",
		},
		"owl": {
			concepts: []Concept{
				{Name: "hidden wisdom", Description: "sight in darkness; knowledge not available to daytime thinking", RelatedArchetypes: []string{"the Wise Old Man", "the Crone"}},
				{Name: "messenger", Description: "a guide figure delivering what the dreamer already senses", RelatedArchetypes: []string{"the Psychopomp"}},
			},
			approach: "Ask what the dreamer already knows but has not admitted to knowing.",
		},
		"snake": {
			concepts: []Concept{
				{Name: "transformation", Description: "shedding of an outgrown identity", RelatedArchetypes: []string{"the Ouroboros"}},
				{Name: "instinctual energy", Description: "raw vitality, healing or threatening by context"},
			},
			approach: "Resist the reflexive fear reading; check for renewal imagery first.",
		},
		"death": {
			concepts: []Concept{
				{Name: "ending and renewal", Description: "death in dreams closes a chapter rather than a life", RelatedArchetypes: []string{"the Reaper"}},
				{Name: "transformation threshold", Description: "the psyche rehearsing a major transition"},
			},
			approach: "Name what is ending in waking life before addressing mortality fear.",
		},
		"teeth": {
			concepts: []Concept{
				{Name: "loss of face", Description: "anxiety about appearance, competence or aging"},
				{Name: "powerless speech", Description: "inability to bite back; words failing the dreamer"},
			},
			approach: "Link to current situations where the dreamer feels unheard or exposed.",
		},
		"chase": {
			concepts: []Concept{
				{Name: "avoidance", Description: "a feeling or task the dreamer keeps outrunning", RelatedArchetypes: []string{"the Shadow"}},
				{Name: "confrontation call", Description: "the pursuer usually wants to be faced, not escaped"},
			},
			approach: "Identify the pursuer precisely; it is the center of the dream, not the run.",
		},
		"house": {
			concepts: []Concept{
				{Name: "the self's structure", Description: "rooms as aspects of the personality; floors as levels of awareness"},
				{Name: "discovered capacity", Description: "new rooms point to unlived potential"},
			},
			approach: "Map rooms to life domains; note which are locked, flooded or newly found.",
		},
		"wisdom": {
			concepts: []Concept{
				{Name: "inner guidance", Description: "contact with the knowing part of the psyche", RelatedArchetypes: []string{"the Wise Old Man", "the Self"}},
				{Name: "integration", Description: "previously split-off insight becoming available"},
			},
			approach: "The message usually restates something the dreamer has dismissed; find it.",
		},
		"shadow_figure": {
			concepts: []Concept{
				{Name: "the shadow", Description: "disowned qualities personified", RelatedArchetypes: []string{"the Shadow"}},
				{Name: "projection", Description: "traits the dreamer condemns in others knocking at the door"},
			},
			approach: "What repels the dreamer about the figure is the working material.",
		},
		"birth": {
			concepts: []Concept{
				{Name: "new beginning", Description: "a project, identity or relationship gestating", RelatedArchetypes: []string{"the Child"}},
				{Name: "creative emergence", Description: "something demanding to be brought into the world"},
			},
			approach: "Ask what is being born and what care it requires now.",
		},
		"journey": {
			concepts: []Concept{
				{Name: "individuation path", Description: "the long arc of becoming oneself", RelatedArchetypes: []string{"the Seeker"}},
				{Name: "transition", Description: "movement between life stages; vehicles and obstacles qualify it"},
			},
			approach: "Where the journey stalls is where the waking-life work sits.",
		},
		"exam": {
			concepts: []Concept{
				{Name: "self-judgment", Description: "internalized evaluation anxiety, rarely about actual tests"},
				{Name: "readiness doubt", Description: "feeling unprepared for a role already being performed"},
			},
			approach: "Locate the real-life audience the dreamer feels graded by.",
		},
	}
}
