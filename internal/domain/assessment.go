package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Level is a risk band: low, medium, or high.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Classification thresholds on the 0-100 score.
const (
	LowMaxScore    = 30
	MediumMaxScore = 70
)

// Classify maps a score to its level.
func Classify(score int) Level {
	switch {
	case score <= LowMaxScore:
		return LevelLow
	case score <= MediumMaxScore:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// FactorResult is the contribution of one factor to an assessment.
type FactorResult struct {
	Name        Factor      `json:"-"`
	Value       float64     `json:"value"`
	Risk        float64     `json:"risk"`
	Weight      float64     `json:"weight"`
	Description string      `json:"description"`
	Memberships Memberships `json:"memberships"`
	Dominant    Level       `json:"dominant"`
}

// Assessment is the engine's result. Factor results keep registry order and
// are only exposed as copies.
type Assessment struct {
	Score   int
	Level   Level
	factors []FactorResult
}

// NewAssessment builds an assessment for score, classifying its level.
func NewAssessment(score int, factors ...FactorResult) Assessment {
	return Assessment{
		Score:   score,
		Level:   Classify(score),
		factors: append([]FactorResult(nil), factors...),
	}
}

// Factors returns a copy of the per-factor results.
func (a Assessment) Factors() []FactorResult {
	return append([]FactorResult(nil), a.factors...)
}

// Factor returns the result for f, if f was part of the reading.
func (a Assessment) Factor(f Factor) (FactorResult, bool) {
	for _, r := range a.factors {
		if r.Name == f {
			return r, true
		}
	}
	return FactorResult{}, false
}

// MarshalJSON encodes factors as an object keyed by factor name, in order.
func (a Assessment) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, `{"score":%d,"level":`, a.Score)
	level, err := json.Marshal(a.Level)
	if err != nil {
		return nil, err
	}
	b.Write(level)
	b.WriteString(`,"factors":{`)
	for i, f := range a.factors {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(string(f.Name))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("encode factor %s: %w", f.Name, err)
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteString("}}")
	return b.Bytes(), nil
}

// UnmarshalJSON decodes the form produced by MarshalJSON, keeping factor order.
func (a *Assessment) UnmarshalJSON(data []byte) error {
	var wire struct {
		Score   int             `json:"score"`
		Level   Level           `json:"level"`
		Factors json.RawMessage `json:"factors"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode assessment: %w", err)
	}
	factors, err := decodeOrderedFactors(wire.Factors)
	if err != nil {
		return err
	}
	*a = Assessment{Score: wire.Score, Level: wire.Level, factors: factors}
	return nil
}

func decodeOrderedFactors(data json.RawMessage) ([]FactorResult, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("decode assessment factors: expected object")
	}
	var out []FactorResult
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode assessment factors: %w", err)
		}
		name, _ := tok.(string)
		var r FactorResult
		if err := dec.Decode(&r); err != nil {
			return nil, fmt.Errorf("decode factor %s: %w", name, err)
		}
		r.Name = Factor(name)
		out = append(out, r)
	}
	return out, nil
}
