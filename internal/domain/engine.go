package domain

import "math"

// Engine scores readings against a registry. It holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	registry *Registry
}

// NewEngine returns an engine over r. A nil registry selects DefaultRegistry.
func NewEngine(r *Registry) *Engine {
	if r == nil {
		r = defaultRegistry
	}
	return &Engine{registry: r}
}

// Registry returns the model the engine evaluates against.
func (e *Engine) Registry() *Registry { return e.registry }

// Assess evaluates every registered factor present in the reading and
// combines their crisp risks into a weighted, normalized score.
func (e *Engine) Assess(reading Reading) Assessment {
	factors := make([]FactorResult, 0, len(e.registry.entries))
	var total float64

	for _, entry := range e.registry.entries {
		value, ok := reading.Value(entry.Model.Name)
		if !ok {
			continue
		}
		m := entry.Model.Evaluate(value)
		risk := m.Crisp()
		total += risk * entry.Weight

		factors = append(factors, FactorResult{
			Name:        entry.Model.Name,
			Value:       value,
			Risk:        risk,
			Weight:      entry.Weight,
			Description: entry.Description,
			Memberships: m,
			Dominant:    entry.Model.dominant(value, m),
		})
	}

	score := int(math.Round(total * 100))
	return Assessment{
		Score:   score,
		Level:   Classify(score),
		factors: factors,
	}
}

var defaultEngine = NewEngine(defaultRegistry)

// Assess scores a reading with the default registry.
func Assess(reading Reading) Assessment {
	return defaultEngine.Assess(reading)
}
