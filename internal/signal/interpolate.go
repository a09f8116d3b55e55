package signal

import "math"

// Interpolate fills missing samples of every column by linear interpolation
// over row position. Leading and trailing gaps take the nearest available
// value. A column with no values at all is left missing.
func Interpolate(f Frame) Frame {
	return f.mapColumns(func(_ string, col []float64) []float64 {
		return linearFill(col)
	})
}

func linearFill(col []float64) []float64 {
	prev := -1
	for i, v := range col {
		if math.IsNaN(v) {
			continue
		}
		switch {
		case prev < 0:
			for j := 0; j < i; j++ {
				col[j] = v
			}
		case i-prev > 1:
			span := float64(i - prev)
			for j := prev + 1; j < i; j++ {
				col[j] = col[prev] + float64(j-prev)/span*(v-col[prev])
			}
		}
		prev = i
	}
	if prev < 0 {
		return col
	}
	for j := prev + 1; j < len(col); j++ {
		col[j] = col[prev]
	}
	return col
}

// DropIncomplete removes every row that still has a missing cell.
func DropIncomplete(f Frame) Frame {
	keep := make([]bool, f.Len())
	for i := range keep {
		keep[i] = true
		for _, c := range f.cols {
			if math.IsNaN(c[i]) {
				keep[i] = false
				break
			}
		}
	}
	return f.mapColumns(func(_ string, col []float64) []float64 {
		out := col[:0]
		for i, v := range col {
			if keep[i] {
				out = append(out, v)
			}
		}
		return out
	})
}
