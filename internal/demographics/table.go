// Package demographics cleans the participant attributes table: missing
// values are imputed per column type, categorical fields are encoded as
// numbers and experiment-condition columns are removed.
package demographics

import (
	"wearprep/adapters/datareadiness/coercer"
	"wearprep/domain/datareadiness/ingestion"
	"wearprep/domain/dataset"
)

// Column is one typed column of the table
type Column struct {
	Name    string
	Numeric bool
	Values  []ingestion.Value
}

func (c Column) clone() Column {
	c.Values = append([]ingestion.Value(nil), c.Values...)
	return c
}

// MissingCount counts missing cells
func (c Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing {
			n++
		}
	}
	return n
}

// Table is an ordered set of equally long columns. Transforms return a new
// Table and never modify their input.
type Table struct {
	columns []Column
	rows    int
}

// FromRecords types every column of rec with the coercer
func FromRecords(rec *dataset.Records, c *coercer.TypeCoercer) *Table {
	t := &Table{rows: rec.Len()}
	for _, h := range rec.Headers {
		cells, _ := rec.Column(h)
		values, numeric := c.CoerceColumn(cells)
		t.columns = append(t.columns, Column{Name: h, Numeric: numeric, Values: values})
	}
	return t
}

// Len returns the row count
func (t *Table) Len() int {
	return t.rows
}

// Names returns the column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column returns a copy of the named column
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.columns {
		if c.Name == name {
			return c.clone(), true
		}
	}
	return Column{}, false
}

// Rows returns the table row-wise: float64 for numbers, string for text and
// nil for missing cells.
func (t *Table) Rows() [][]interface{} {
	out := make([][]interface{}, t.rows)
	for i := range out {
		row := make([]interface{}, len(t.columns))
		for j, c := range t.columns {
			switch v := c.Values[i]; {
			case v.IsNumeric():
				row[j] = v.AsFloat64()
			case v.IsString():
				row[j] = v.AsString()
			}
		}
		out[i] = row
	}
	return out
}

func (t *Table) clone() *Table {
	out := &Table{rows: t.rows, columns: make([]Column, len(t.columns))}
	for i, c := range t.columns {
		out.columns[i] = c.clone()
	}
	return out
}

func (t *Table) without(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := &Table{rows: t.rows}
	for _, c := range t.columns {
		if !drop[c.Name] {
			out.columns = append(out.columns, c.clone())
		}
	}
	return out
}

func (t *Table) index(name string) int {
	for i, c := range t.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}
