// Package dataset holds raw tabular records as produced by the loaders.
package dataset

// Records is a header row plus data rows of unparsed cells.
type Records struct {
	Source  string
	Headers []string
	Rows    [][]string
}

// Len returns the number of data rows.
func (r *Records) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Column returns the cells of the named column, padding short rows with "".
func (r *Records) Column(name string) ([]string, bool) {
	idx := -1
	for i, h := range r.Headers {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, true
}
