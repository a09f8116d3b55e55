// Package signal cleans one sensor capture of one participant: schema
// normalization, gap filling, magnitude derivation and two-layer outlier
// clipping. Every stage is a pure function from Frame to Frame.
package signal

import (
	"fmt"
	"math"
)

// Frame is an immutable column-oriented numeric table. A NaN cell is a
// missing sample.
type Frame struct {
	names []string
	cols  [][]float64
}

// NewFrame builds a frame from equally long columns. The slices are copied.
func NewFrame(names []string, cols [][]float64) (Frame, error) {
	if len(names) != len(cols) {
		return Frame{}, fmt.Errorf("frame has %d names but %d columns", len(names), len(cols))
	}
	f := Frame{names: append([]string(nil), names...), cols: make([][]float64, len(cols))}
	for i, c := range cols {
		if i > 0 && len(c) != len(cols[0]) {
			return Frame{}, fmt.Errorf("column %q has %d rows, want %d", names[i], len(c), len(cols[0]))
		}
		f.cols[i] = append([]float64(nil), c...)
	}
	return f, nil
}

// Len returns the row count.
func (f Frame) Len() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0])
}

// Names returns the column names in order.
func (f Frame) Names() []string {
	return append([]string(nil), f.names...)
}

// Column returns a copy of the named column.
func (f Frame) Column(name string) ([]float64, bool) {
	i := f.index(name)
	if i < 0 {
		return nil, false
	}
	return append([]float64(nil), f.cols[i]...), true
}

// MissingCount counts NaN cells over all columns.
func (f Frame) MissingCount() int {
	n := 0
	for _, c := range f.cols {
		for _, v := range c {
			if math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}

func (f Frame) index(name string) int {
	for i, n := range f.names {
		if n == name {
			return i
		}
	}
	return -1
}

// mapColumns returns a new frame with fn applied to every column.
func (f Frame) mapColumns(fn func(name string, col []float64) []float64) Frame {
	out := Frame{names: f.Names(), cols: make([][]float64, len(f.cols))}
	for i, c := range f.cols {
		out.cols[i] = fn(f.names[i], append([]float64(nil), c...))
	}
	return out
}
