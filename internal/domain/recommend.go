package domain

import (
	"cmp"
	"encoding/json"
	"slices"
	"time"
)

// Recommendation is advisory text for one factor based on its dominant set.
type Recommendation struct {
	Factor   Factor  `json:"factor"`
	Level    Level   `json:"level"`
	Message  string  `json:"message"`
	Priority float64 `json:"priority"`
}

var advice = map[Factor]map[Level]string{
	Speed: {
		LevelHigh:   "Reduce aircraft speed to safe levels immediately",
		LevelMedium: "Monitor speed closely and consider reduction",
		LevelLow:    "Speed is within safe parameters",
	},
	Acceleration: {
		LevelHigh:   "Reduce rate of speed change immediately",
		LevelMedium: "Smooth out acceleration/deceleration patterns",
		LevelLow:    "Acceleration is stable and safe",
	},
	Temperature: {
		LevelHigh:   "Monitor aircraft systems for high temperature effects",
		LevelMedium: "Temperature conditions are optimal for flight",
		LevelLow:    "Be aware of potential icing conditions in cold weather",
	},
	Humidity: {
		LevelHigh:   "Monitor for potential icing and condensation effects",
		LevelMedium: "Watch for minor condensation effects",
		LevelLow:    "Humidity levels are acceptable",
	},
	WindSpeed: {
		LevelHigh:   "Exercise extreme caution - consider postponing or diverting",
		LevelMedium: "Adjust flight path and speed for wind conditions",
		LevelLow:    "Wind conditions are favorable for safe flight",
	},
	Visibility: {
		LevelHigh:   "Visibility is excellent for safe flight operations",
		LevelMedium: "Maintain heightened visual monitoring",
		LevelLow:    "Consider alternative routes or delayed departure due to poor visibility",
	},
}

const defaultAdvice = "Monitor parameter within normal operational guidelines"

// Recommend returns one recommendation per assessed factor, most at risk
// first. Priority is the high membership plus half the medium membership;
// ties keep registry order.
func Recommend(a Assessment) []Recommendation {
	out := make([]Recommendation, 0, len(a.factors))
	for _, f := range a.factors {
		msg, ok := advice[f.Name][f.Dominant]
		if !ok {
			msg = defaultAdvice
		}
		out = append(out, Recommendation{
			Factor:   f.Name,
			Level:    f.Dominant,
			Message:  msg,
			Priority: f.Memberships.High + f.Memberships.Medium*0.5,
		})
	}
	slices.SortStableFunc(out, func(x, y Recommendation) int {
		return cmp.Compare(y.Priority, x.Priority)
	})
	return out
}

// Visualizations maps a figure name to its rendered JSON.
type Visualizations map[string]json.RawMessage

// Report is the transport envelope around an assessment.
type Report struct {
	Assessment      Assessment       `json:"risk_assessment"`
	Recommendations []Recommendation `json:"recommendations"`
	Rules           []string         `json:"fuzzy_rules"`
	Visualizations  Visualizations   `json:"visualizations,omitempty"`
	AssessedAt      time.Time        `json:"assessed_at"`
}

// NewReport wraps a with its recommendations, stamped with the package clock.
func NewReport(a Assessment) Report {
	return Report{
		Assessment:      a,
		Recommendations: Recommend(a),
		Rules:           AppliedRules(a),
		AssessedAt:      clock.Now().UTC(),
	}
}
