package domain

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangle_Degree(t *testing.T) {
	tri := Triangle{550, 600, 1000}

	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"below support", 100, 0},
		{"at left foot", 550, 0},
		{"rising edge midpoint", 575, 0.5},
		{"peak", 600, 1},
		{"falling edge midpoint", 800, 0.5},
		{"falling edge quarter", 900, 0.25},
		{"at right foot", 1000, 0},
		{"beyond support", 1200, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tri.Degree(tt.x), 1e-12)
		})
	}
}

func TestTriangle_StepEdges(t *testing.T) {
	t.Run("left step", func(t *testing.T) {
		tri := Triangle{0, 0, 10}
		assert.Equal(t, 1.0, tri.Degree(0))
		assert.InDelta(t, 0.5, tri.Degree(5), 1e-12)
		assert.Equal(t, 0.0, tri.Degree(-0.001))
	})

	t.Run("right step", func(t *testing.T) {
		tri := Triangle{0, 10, 10}
		assert.Equal(t, 1.0, tri.Degree(10))
		assert.InDelta(t, 0.5, tri.Degree(5), 1e-12)
		assert.Equal(t, 0.0, tri.Degree(10.001))
	})
}

func TestTriangle_DegreeInUnitInterval(t *testing.T) {
	for _, e := range DefaultRegistry().Entries() {
		lo, hi := e.Model.Universe()
		for _, tri := range []Triangle{e.Model.Low, e.Model.Medium, e.Model.High} {
			for x := lo - 10; x <= hi+10; x += (hi - lo) / 500 {
				d := tri.Degree(x)
				assert.False(t, math.IsNaN(d), "%s at %g", e.Model.Name, x)
				assert.GreaterOrEqual(t, d, 0.0)
				assert.LessOrEqual(t, d, 1.0)
				if x > tri.A && x < tri.C && x != tri.B {
					assert.Greater(t, d, 0.0, "%s at %g", e.Model.Name, x)
					assert.Less(t, d, 1.0, "%s at %g", e.Model.Name, x)
				}
			}
		}
	}
}

func TestMemberships_Crisp(t *testing.T) {
	assert.InDelta(t, 0.2, Memberships{Low: 1}.Crisp(), 1e-12)
	assert.InDelta(t, 0.5, Memberships{Medium: 1}.Crisp(), 1e-12)
	assert.InDelta(t, 0.8, Memberships{High: 1}.Crisp(), 1e-12)
	assert.InDelta(t, 0.1+0.25, Memberships{Low: 0.5, Medium: 0.5}.Crisp(), 1e-12)
	assert.Equal(t, 0.0, Memberships{}.Crisp())
}

func TestMemberships_Dominant(t *testing.T) {
	tests := []struct {
		name string
		m    Memberships
		want Level
	}{
		{"low only", Memberships{Low: 0.7}, LevelLow},
		{"medium beats low", Memberships{Low: 0.3, Medium: 0.6}, LevelMedium},
		{"high beats medium", Memberships{Medium: 0.4, High: 0.5}, LevelHigh},
		{"tie prefers high", Memberships{Medium: 0.5, High: 0.5}, LevelHigh},
		{"tie prefers medium over low", Memberships{Low: 0.5, Medium: 0.5}, LevelMedium},
		{"outside every set", Memberships{}, LevelLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.Dominant())
		})
	}
}

func TestFactorModel_DominantAtUniverseEdges(t *testing.T) {
	tests := []struct {
		factor Factor
		x      float64
		want   Level
	}{
		{Speed, 1000, LevelHigh},
		{Speed, 1200, LevelHigh},
		{Speed, 0, LevelLow},
		{Speed, -50, LevelLow},
		{WindSpeed, 50, LevelHigh},
		{Temperature, 50, LevelHigh},
		{Temperature, -20, LevelLow},
		{Visibility, 20, LevelHigh},
		{Visibility, 0, LevelLow},
		{Speed, 600, LevelHigh},
		{Speed, 550, LevelMedium},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s=%g", tt.factor, tt.x), func(t *testing.T) {
			e, ok := DefaultRegistry().Lookup(tt.factor)
			require.True(t, ok)
			assert.Equal(t, tt.want, e.Model.Dominant(tt.x))
		})
	}
}
