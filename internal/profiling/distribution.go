package profiling

import (
	"fmt"
	"math"
	"sort"

	"wearprep/domain/sensor"
	"wearprep/internal/signal"

	"github.com/montanaflynn/stats"
)

// Summary is the box-plot description of one cleaned signal
type Summary struct {
	Count    int           `json:"count"`
	Min      float64       `json:"min"`
	Q25      float64       `json:"q25"`
	Median   float64       `json:"median"`
	Q75      float64       `json:"q75"`
	Max      float64       `json:"max"`
	Mean     float64       `json:"mean"`
	StdDev   float64       `json:"std_dev"`
	Skewness float64       `json:"skewness"`
	Fence    sensor.Bounds `json:"fence"`
	// Outliers counts values outside Fence. After cleaning it is zero.
	Outliers int `json:"outliers"`
}

// Summarize computes the box-plot summary of data
func Summarize(data []float64) (Summary, error) {
	var s Summary
	if len(data) == 0 {
		return s, fmt.Errorf("summary of an empty signal")
	}

	var err error
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, err
	}
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if s.StdDev, err = stats.StandardDeviation(data); err != nil {
		return s, err
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	s.Q25 = signal.Quantile(sorted, 0.25)
	s.Q75 = signal.Quantile(sorted, 0.75)
	if s.Fence, err = signal.Fence(sorted); err != nil {
		return s, err
	}

	s.Count = len(data)
	s.Skewness = calculateSkewness(data, s.Mean, s.StdDev)
	s.Outliers = detectOutliers(data, s.Fence)
	return s, nil
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n
	return skewness * math.Sqrt(n*(n-1)) / (n - 2)
}

// detectOutliers counts values outside the fence
func detectOutliers(data []float64, fence sensor.Bounds) int {
	outlierCount := 0
	for _, x := range data {
		if !fence.Contains(x) {
			outlierCount++
		}
	}
	return outlierCount
}

// Range is a common value axis for comparing several signals side by side
type Range struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// rangeMargin widens a global range on each side, relative to its span.
const rangeMargin = 0.05

// GlobalRange spans the values of every signal, widened by 5% of the span on
// each side, or by 0.1 when all values are equal. Nil and empty signals are
// ignored; an error is returned when nothing remains.
func GlobalRange(signals []*sensor.CleanedSignal) (Range, error) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, sig := range signals {
		if sig.Len() == 0 {
			continue
		}
		mn, _ := stats.Min(sig.Values)
		mx, _ := stats.Max(sig.Values)
		lo, hi = math.Min(lo, mn), math.Max(hi, mx)
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return Range{}, fmt.Errorf("no values to scale")
	}

	margin := 0.1
	if span := hi - lo; span > 0 {
		margin = span * rangeMargin
	}
	return Range{Lower: lo - margin, Upper: hi + margin}, nil
}
