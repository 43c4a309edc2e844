package domain

import (
	"errors"
	"fmt"
	"math"
)

// Entry is one row of the risk model: a factor model with its contribution
// weight and a human-readable description.
type Entry struct {
	Model       FactorModel
	Weight      float64
	Description string
}

// Registry is an ordered, read-only table of factor entries.
type Registry struct {
	entries []Entry
	index   map[Factor]int
}

// NewRegistry builds a registry from entries in iteration order. A later
// entry for the same factor replaces the earlier one in place.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[Factor]int, len(entries)),
	}
	for _, e := range entries {
		if i, ok := r.index[e.Model.Name]; ok {
			r.entries[i] = e
			continue
		}
		r.index[e.Model.Name] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r
}

// Lookup returns the entry for f.
func (r *Registry) Lookup(f Factor) (Entry, bool) {
	i, ok := r.index[f]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Entries returns a copy of the entries in iteration order.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Factors returns the registered factor names in iteration order.
func (r *Registry) Factors() []Factor {
	out := make([]Factor, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Model.Name
	}
	return out
}

// weightTolerance absorbs float error when summing decimal weights.
const weightTolerance = 1e-9

// Validate checks every factor model and that the weights sum to 1.
func (r *Registry) Validate() error {
	if len(r.entries) == 0 {
		return errors.New("registry has no factors")
	}
	var errs []error
	var sum float64
	for _, e := range r.entries {
		if err := e.Model.Validate(); err != nil {
			errs = append(errs, err)
		}
		if e.Weight < 0 {
			errs = append(errs, fmt.Errorf("%s: negative weight %g", e.Model.Name, e.Weight))
		}
		sum += e.Weight
	}
	if math.Abs(sum-1) > weightTolerance {
		errs = append(errs, fmt.Errorf("weights sum to %g, want 1", sum))
	}
	return errors.Join(errs...)
}

var defaultRegistry = NewRegistry(
	Entry{
		Model: FactorModel{
			Name:   Speed,
			Low:    Triangle{0, 400, 500},
			Medium: Triangle{400, 550, 600},
			High:   Triangle{550, 600, 1000},
		},
		Weight:      0.30,
		Description: "Aircraft speed in knots",
	},
	Entry{
		Model: FactorModel{
			Name:   Acceleration,
			Low:    Triangle{-5, -0.5, 0},
			Medium: Triangle{-0.5, 0, 2},
			High:   Triangle{0, 2, 5},
		},
		Weight:      0.10,
		Description: "Rate of speed change",
	},
	Entry{
		Model: FactorModel{
			Name:   Temperature,
			Low:    Triangle{-20, 0, 15},
			Medium: Triangle{5, 15, 25},
			High:   Triangle{15, 35, 50},
		},
		Weight:      0.15,
		Description: "Outside air temperature",
	},
	Entry{
		Model: FactorModel{
			Name:   Humidity,
			Low:    Triangle{0, 20, 40},
			Medium: Triangle{30, 50, 70},
			High:   Triangle{60, 80, 100},
		},
		Weight:      0.05,
		Description: "Air humidity percentage",
	},
	Entry{
		Model: FactorModel{
			Name:   WindSpeed,
			Low:    Triangle{0, 5, 15},
			Medium: Triangle{10, 20, 30},
			High:   Triangle{25, 35, 50},
		},
		Weight:      0.25,
		Description: "Current wind speed",
	},
	Entry{
		Model: FactorModel{
			Name:   Visibility,
			Low:    Triangle{0, 2, 5},
			Medium: Triangle{3, 7, 10},
			High:   Triangle{8, 15, 20},
		},
		Weight:      0.15,
		Description: "Visibility distance in km",
	},
)

// DefaultRegistry returns the process-wide flight risk model. It must not be modified.
func DefaultRegistry() *Registry { return defaultRegistry }
