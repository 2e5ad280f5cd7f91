package persona

import (
	"log"

	"dream-insight-be/pkg/interpret"
)

// BuildRegistry wires every shipped persona against the given model chain.
// Keys are the persona identifiers accepted in requests.
func BuildRegistry(chain interpret.Chain, logger *log.Logger) map[string]interpret.Interpreter {
	interpreters := []interpret.Interpreter{
		NewPsychoanalytic(chain, logger),
		NewArchetypal(chain, logger),
		NewNeuroscientific(chain, logger),
		NewDevotional(chain, logger),
	}

	registry := make(map[string]interpret.Interpreter, len(interpreters))
	for _, it := range interpreters {
		registry[it.Key()] = it
	}
	return registry
}
