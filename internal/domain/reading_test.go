package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReading_ImmutableCopies(t *testing.T) {
	src := map[Factor]float64{Speed: 500}
	r := NewReading(src)
	src[Speed] = 1

	v, ok := r.Value(Speed)
	require.True(t, ok)
	assert.Equal(t, 500.0, v)

	r2 := r.With(Speed, 600)
	v, _ = r.Value(Speed)
	assert.Equal(t, 500.0, v)
	v, _ = r2.Value(Speed)
	assert.Equal(t, 600.0, v)

	r3 := r2.Without(Speed)
	assert.Equal(t, 0, r3.Len())
	assert.Equal(t, 1, r2.Len())

	vals := r.Values()
	vals[Speed] = 2
	v, _ = r.Value(Speed)
	assert.Equal(t, 500.0, v)
}

func TestReading_Key(t *testing.T) {
	a := NewReading(map[Factor]float64{Visibility: 10, Speed: 550, "zeta": 1, "alpha": 2})
	b := NewReading(map[Factor]float64{"alpha": 2, Speed: 550, "zeta": 1, Visibility: 10})

	assert.Equal(t, "speed=550|visibility=10|alpha=2|zeta=1", a.Key())
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), a.With(Speed, 550.5).Key())
	assert.Empty(t, Reading{}.Key())
}

func TestReading_JSON(t *testing.T) {
	t.Run("round trip keeps values", func(t *testing.T) {
		data, err := json.Marshal(canonicalReading())
		require.NoError(t, err)
		assert.JSONEq(t, `{"speed":550,"acceleration":0,"temperature":15,"humidity":60,"wind_speed":10,"visibility":10}`, string(data))

		var r Reading
		require.NoError(t, json.Unmarshal(data, &r))
		assert.Equal(t, canonicalReading().Key(), r.Key())
	})

	t.Run("partial reading", func(t *testing.T) {
		var r Reading
		require.NoError(t, json.Unmarshal([]byte(`{"speed": 800.5}`), &r))
		assert.Equal(t, 1, r.Len())
		v, ok := r.Value(Speed)
		require.True(t, ok)
		assert.Equal(t, 800.5, v)
	})

	t.Run("non-numeric value", func(t *testing.T) {
		var r Reading
		err := json.Unmarshal([]byte(`{"speed": "fast"}`), &r)
		require.Error(t, err)
	})

	t.Run("null value", func(t *testing.T) {
		var r Reading
		err := json.Unmarshal([]byte(`{"speed": null}`), &r)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "speed")
	})

	t.Run("not an object", func(t *testing.T) {
		var r Reading
		require.Error(t, json.Unmarshal([]byte(`[1,2]`), &r))
	})
}

func TestAssessment_JSON(t *testing.T) {
	a := Assess(canonicalReading().Without(Visibility))

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.Equal(t, 31.0, generic["score"])
	assert.Equal(t, "medium", generic["level"])
	factors, ok := generic["factors"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, factors, 5)
	speed, ok := factors["speed"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 550.0, speed["value"])
	assert.Equal(t, 0.5, speed["risk"])
	assert.Equal(t, 0.3, speed["weight"])
	assert.Equal(t, "Aircraft speed in knots", speed["description"])
	assert.Equal(t, "medium", speed["dominant"])

	var back Assessment
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, a, back)
}

func TestAssessment_JSON_EmptyFactors(t *testing.T) {
	data, err := json.Marshal(Assess(Reading{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":0,"level":"low","factors":{}}`, string(data))
}
