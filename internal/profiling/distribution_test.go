package profiling

import (
	"testing"

	"wearprep/domain/sensor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{68, 70, 70, 72, 220})
	require.NoError(t, err)

	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 68.0, s.Min)
	assert.Equal(t, 70.0, s.Q25)
	assert.Equal(t, 70.0, s.Median)
	assert.Equal(t, 72.0, s.Q75)
	assert.Equal(t, 220.0, s.Max)
	assert.Equal(t, sensor.Bounds{Lower: 67, Upper: 75}, s.Fence)
	assert.Equal(t, 1, s.Outliers)
	assert.Greater(t, s.Skewness, 0.0)

	_, err = Summarize(nil)
	assert.Error(t, err)
}

func TestSummarizeConstantSignal(t *testing.T) {
	s, err := Summarize([]float64{36.5, 36.5, 36.5})
	require.NoError(t, err)
	assert.Zero(t, s.Skewness)
	assert.Zero(t, s.Outliers)
}

func TestGlobalRange(t *testing.T) {
	sigs := []*sensor.CleanedSignal{
		{Values: []float64{60, 80}},
		nil,
		{Values: nil},
		{Values: []float64{100, 70}},
	}
	r, err := GlobalRange(sigs)
	require.NoError(t, err)
	assert.InDelta(t, 58, r.Lower, 1e-9)
	assert.InDelta(t, 102, r.Upper, 1e-9)

	r, err = GlobalRange([]*sensor.CleanedSignal{{Values: []float64{5, 5}}})
	require.NoError(t, err)
	assert.InDelta(t, 4.9, r.Lower, 1e-12)
	assert.InDelta(t, 5.1, r.Upper, 1e-12)

	_, err = GlobalRange(nil)
	assert.Error(t, err)
}
