package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// Factor names one tracked flight parameter.
type Factor string

const (
	Speed        Factor = "speed"
	Acceleration Factor = "acceleration"
	Temperature  Factor = "temperature"
	Humidity     Factor = "humidity"
	WindSpeed    Factor = "wind_speed"
	Visibility   Factor = "visibility"
)

// Reading is an immutable set of flight-condition measurements.
// The zero value is an empty reading.
type Reading struct {
	values map[Factor]float64
}

// NewReading copies values into a new Reading.
func NewReading(values map[Factor]float64) Reading {
	r := Reading{values: make(map[Factor]float64, len(values))}
	for f, v := range values {
		r.values[f] = v
	}
	return r
}

// FlightData is the complete six-factor measurement set.
type FlightData struct {
	Speed        float64 `json:"speed" yaml:"speed"`
	Acceleration float64 `json:"acceleration" yaml:"acceleration"`
	Temperature  float64 `json:"temperature" yaml:"temperature"`
	Humidity     float64 `json:"humidity" yaml:"humidity"`
	WindSpeed    float64 `json:"wind_speed" yaml:"wind_speed"`
	Visibility   float64 `json:"visibility" yaml:"visibility"`
}

// Reading converts the data into a Reading with all six factors present.
func (d FlightData) Reading() Reading {
	return NewReading(map[Factor]float64{
		Speed:        d.Speed,
		Acceleration: d.Acceleration,
		Temperature:  d.Temperature,
		Humidity:     d.Humidity,
		WindSpeed:    d.WindSpeed,
		Visibility:   d.Visibility,
	})
}

// Value returns the measurement for f and whether it is present.
func (r Reading) Value(f Factor) (float64, bool) {
	v, ok := r.values[f]
	return v, ok
}

// Len reports how many measurements the reading holds.
func (r Reading) Len() int { return len(r.values) }

// With returns a copy of r with f set to v.
func (r Reading) With(f Factor, v float64) Reading {
	out := NewReading(r.values)
	out.values[f] = v
	return out
}

// Without returns a copy of r with f removed.
func (r Reading) Without(f Factor) Reading {
	out := NewReading(r.values)
	delete(out.values, f)
	return out
}

// Values returns a copy of the underlying measurements.
func (r Reading) Values() map[Factor]float64 {
	return NewReading(r.values).values
}

// Key returns a deterministic identity for the reading. Known factors come
// first in registry order, followed by any others in sorted order.
func (r Reading) Key() string {
	var b bytes.Buffer
	for _, f := range r.orderedFactors() {
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(string(f))
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(r.values[f], 'g', -1, 64))
	}
	return b.String()
}

func (r Reading) orderedFactors() []Factor {
	out := make([]Factor, 0, len(r.values))
	for _, f := range defaultRegistry.Factors() {
		if _, ok := r.values[f]; ok {
			out = append(out, f)
		}
	}
	var extra []Factor
	for f := range r.values {
		if _, known := defaultRegistry.Lookup(f); !known {
			extra = append(extra, f)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

// MarshalJSON encodes the reading as a flat object, known factors first.
func (r Reading) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range r.orderedFactors() {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(string(f))
		b.Write(key)
		b.WriteByte(':')
		val, err := json.Marshal(r.values[f])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f, err)
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON decodes a flat object of numbers. Non-numeric values are rejected.
func (r *Reading) UnmarshalJSON(data []byte) error {
	var raw map[string]json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode reading: %w", err)
	}
	values := make(map[Factor]float64, len(raw))
	for k, n := range raw {
		v, err := n.Float64()
		if err != nil {
			return fmt.Errorf("decode reading: %s: %w", k, err)
		}
		values[Factor(k)] = v
	}
	*r = NewReading(values)
	return nil
}
