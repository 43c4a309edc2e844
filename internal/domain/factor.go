package domain

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// FactorModel binds a factor to its low, medium, and high fuzzy sets.
type FactorModel struct {
	Name   Factor
	Low    Triangle
	Medium Triangle
	High   Triangle
}

// Evaluate returns the degrees of x in each of the model's sets.
func (m FactorModel) Evaluate(x float64) Memberships {
	return Memberships{
		Low:    m.Low.Degree(x),
		Medium: m.Medium.Degree(x),
		High:   m.High.Degree(x),
	}
}

// Universe returns the interval spanned by the outermost breakpoints.
func (m FactorModel) Universe() (lo, hi float64) {
	lo = math.Min(m.Low.A, math.Min(m.Medium.A, m.High.A))
	hi = math.Max(m.Low.C, math.Max(m.Medium.C, m.High.C))
	return lo, hi
}

// Dominant returns the set that best describes x. Where no set has
// membership, the half of the universe x falls in decides, so values at or
// past the upper bound read as high and values at or below the lower bound
// read as low.
func (m FactorModel) Dominant(x float64) Level {
	return m.dominant(x, m.Evaluate(x))
}

func (m FactorModel) dominant(x float64, ms Memberships) Level {
	if ms.Low > 0 || ms.Medium > 0 || ms.High > 0 {
		return ms.Dominant()
	}
	lo, hi := m.Universe()
	if x >= lo+(hi-lo)/2 {
		return LevelHigh
	}
	return LevelLow
}

// Validate checks breakpoint ordering and that every interior point of the
// universe has nonzero membership in at least one set.
func (m FactorModel) Validate() error {
	sets := []namedSet{{"low", m.Low}, {"medium", m.Medium}, {"high", m.High}}

	for _, s := range sets {
		if !(s.t.A <= s.t.B && s.t.B <= s.t.C) {
			return fmt.Errorf("%s/%s: breakpoints out of order (%g, %g, %g)", m.Name, s.name, s.t.A, s.t.B, s.t.C)
		}
		if s.t.A == s.t.C {
			return fmt.Errorf("%s/%s: empty support at %g", m.Name, s.name, s.t.A)
		}
	}

	slices.SortFunc(sets, func(x, y namedSet) int { return cmp.Compare(x.t.A, y.t.A) })

	reach := sets[0].t.C
	for _, s := range sets[1:] {
		if s.t.A >= reach {
			return fmt.Errorf("%s: coverage gap between %g and %g", m.Name, reach, s.t.A)
		}
		reach = math.Max(reach, s.t.C)
	}
	return nil
}

type namedSet struct {
	name string
	t    Triangle
}
