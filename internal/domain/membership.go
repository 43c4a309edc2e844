package domain

// Triangle is a triangular membership function with breakpoints A ≤ B ≤ C.
type Triangle struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// Degree returns the membership of x in [0, 1]. The peak B always evaluates
// to 1, which makes A == B or B == C a step edge.
func (t Triangle) Degree(x float64) float64 {
	switch {
	case x == t.B:
		return 1
	case x <= t.A || x >= t.C:
		return 0
	case x < t.B:
		return (x - t.A) / (t.B - t.A)
	default:
		return (t.C - x) / (t.C - t.B)
	}
}

// Memberships holds the degrees of one value in a factor's three sets.
type Memberships struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// Centroid risk of each linguistic class.
const (
	LowAnchor    = 0.2
	MediumAnchor = 0.5
	HighAnchor   = 0.8
)

// Crisp collapses the memberships into a single risk value.
func (m Memberships) Crisp() float64 {
	return m.Low*LowAnchor + m.Medium*MediumAnchor + m.High*HighAnchor
}

// Dominant returns the set with the strongest membership, preferring the
// riskier set on ties. With no membership at all it reports Low; use
// FactorModel.Dominant when the value's position in the universe is known.
func (m Memberships) Dominant() Level {
	switch {
	case m.Low == 0 && m.Medium == 0 && m.High == 0:
		return LevelLow
	case m.High >= m.Medium && m.High >= m.Low:
		return LevelHigh
	case m.Medium >= m.Low:
		return LevelMedium
	default:
		return LevelLow
	}
}
