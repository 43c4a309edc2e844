package main

import (
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/flight-risk-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// buildReading merges a reading file with flag values; flags win.
// Non-finite numbers are rejected here so the engine only sees real values.
func buildReading(path string, flags map[domain.Factor]float64) (domain.Reading, error) {
	values := make(map[domain.Factor]float64)

	if path != "" {
		fromFile, err := readReadingFile(path)
		if err != nil {
			return domain.Reading{}, err
		}
		for f, v := range fromFile {
			values[f] = v
		}
	}
	for f, v := range flags {
		values[f] = v
	}

	for f, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.Reading{}, fmt.Errorf("%s: value must be a finite number, got %v", f, v)
		}
	}
	return domain.NewReading(values), nil
}

// readReadingFile decodes a flat mapping of factor name to number. YAML is a
// superset of JSON, so both formats are accepted.
func readReadingFile(path string) (map[domain.Factor]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reading file: %w", err)
	}
	var raw map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse reading file %s: %w", path, err)
	}
	out := make(map[domain.Factor]float64, len(raw))
	for k, v := range raw {
		out[domain.Factor(k)] = v
	}
	return out, nil
}
