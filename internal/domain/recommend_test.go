package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend_OrderedByPriority(t *testing.T) {
	recs := Recommend(Assess(canonicalReading()))
	require.Len(t, recs, 6)

	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Priority, recs[i].Priority)
	}

	// speed, acceleration, and temperature all sit at the medium peak and
	// tie at 0.5; registry order breaks the tie.
	assert.Equal(t, Speed, recs[0].Factor)
	assert.Equal(t, Acceleration, recs[1].Factor)
	assert.Equal(t, Temperature, recs[2].Factor)
	assert.Equal(t, "Monitor speed closely and consider reduction", recs[0].Message)
}

func TestRecommend_MessagesByDominantSet(t *testing.T) {
	tests := []struct {
		factor Factor
		value  float64
		want   string
	}{
		{Speed, 600, "Reduce aircraft speed to safe levels immediately"},
		{Speed, 400, "Speed is within safe parameters"},
		{Temperature, 0, "Be aware of potential icing conditions in cold weather"},
		{WindSpeed, 35, "Exercise extreme caution - consider postponing or diverting"},
		{Visibility, 2, "Consider alternative routes or delayed departure due to poor visibility"},
		{Visibility, 7, "Maintain heightened visual monitoring"},
	}
	for _, tt := range tests {
		t.Run(string(tt.factor), func(t *testing.T) {
			recs := Recommend(Assess(NewReading(map[Factor]float64{tt.factor: tt.value})))
			require.Len(t, recs, 1)
			assert.Equal(t, tt.want, recs[0].Message)
		})
	}
}

func TestRecommend_UniverseEdges(t *testing.T) {
	tests := []struct {
		name   string
		factor Factor
		value  float64
		level  Level
		want   string
	}{
		{"speed at top", Speed, 1000, LevelHigh, "Reduce aircraft speed to safe levels immediately"},
		{"wind at top", WindSpeed, 50, LevelHigh, "Exercise extreme caution - consider postponing or diverting"},
		{"temperature at top", Temperature, 50, LevelHigh, "Monitor aircraft systems for high temperature effects"},
		{"visibility at top", Visibility, 20, LevelHigh, "Visibility is excellent for safe flight operations"},
		{"temperature at bottom", Temperature, -20, LevelLow, "Be aware of potential icing conditions in cold weather"},
		{"visibility at bottom", Visibility, 0, LevelLow, "Consider alternative routes or delayed departure due to poor visibility"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assess(NewReading(map[Factor]float64{tt.factor: tt.value}))
			f, ok := a.Factor(tt.factor)
			require.True(t, ok)
			assert.Zero(t, f.Risk)
			assert.Equal(t, tt.level, f.Dominant)

			recs := Recommend(a)
			require.Len(t, recs, 1)
			assert.Equal(t, tt.level, recs[0].Level)
			assert.Equal(t, tt.want, recs[0].Message)
		})
	}
}

func TestRecommend_UnknownFactorUsesDefault(t *testing.T) {
	r := NewRegistry(Entry{
		Model:  FactorModel{Name: "altitude", Low: Triangle{0, 0, 10}, Medium: Triangle{5, 10, 15}, High: Triangle{10, 20, 20}},
		Weight: 1,
	})
	recs := Recommend(NewEngine(r).Assess(NewReading(map[Factor]float64{"altitude": 10})))
	require.Len(t, recs, 1)
	assert.Equal(t, defaultAdvice, recs[0].Message)
}

func TestNewReport_UsesClock(t *testing.T) {
	at := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { SetClock(nil) })

	report := NewReport(Assess(canonicalReading()))
	assert.Equal(t, at, report.AssessedAt)
	assert.Len(t, report.Recommendations, 6)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var back Report
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, report.Assessment, back.Assessment)
	assert.Equal(t, report.Recommendations, back.Recommendations)
	assert.True(t, at.Equal(back.AssessedAt))
}
