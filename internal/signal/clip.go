package signal

import (
	"fmt"
	"math"
	"sort"

	"wearprep/domain/sensor"
)

// IQRMultiplier scales the interquartile range into the outlier fence.
const IQRMultiplier = 1.5

// Quantile returns the p-quantile (0 <= p <= 1) of sorted data, linearly
// interpolating between the closest ranks at position (n-1)·p.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Fence returns [Q1 − 1.5·IQR, Q3 + 1.5·IQR] over values.
func Fence(values []float64) (sensor.Bounds, error) {
	if len(values) == 0 {
		return sensor.Bounds{}, fmt.Errorf("fence of an empty column")
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1
	return sensor.Bounds{Lower: q1 - IQRMultiplier*iqr, Upper: q3 + IQRMultiplier*iqr}, nil
}

// ClipHardLimits clamps the policy's target column into its physiological
// range. Kinds without a range are returned unchanged.
func ClipHardLimits(f Frame, policy sensor.Policy) (Frame, int) {
	if policy.HardLimit == nil {
		return f, 0
	}
	return clamp(f, policy.Target, *policy.HardLimit)
}

// ClipIQR clamps the named column into the IQR fence computed over the whole
// column, and reports the fence and how many values moved.
func ClipIQR(f Frame, column string) (Frame, sensor.Bounds, int, error) {
	col, ok := f.Column(column)
	if !ok {
		return Frame{}, sensor.Bounds{}, 0, fmt.Errorf("column %q not in frame %v", column, f.Names())
	}
	fence, err := Fence(col)
	if err != nil {
		return Frame{}, sensor.Bounds{}, 0, err
	}
	out, moved := clamp(f, column, fence)
	return out, fence, moved, nil
}

func clamp(f Frame, column string, b sensor.Bounds) (Frame, int) {
	moved := 0
	out := f.mapColumns(func(name string, col []float64) []float64 {
		if name != column {
			return col
		}
		for i, v := range col {
			if c := b.Clamp(v); c != v {
				col[i] = c
				moved++
			}
		}
		return col
	})
	return out, moved
}
