package signal

import (
	"fmt"

	"wearprep/adapters/datareadiness/coercer"
	"wearprep/domain/core"
	"wearprep/domain/sensor"
)

// Normalize assigns the canonical column names of the table's kind and
// coerces every cell to a number. Cells that do not parse become missing; a
// short row is padded with missing cells. A row wider than the kind's layout
// is malformed.
func Normalize(raw sensor.RawTable, c *coercer.TypeCoercer) (Frame, error) {
	policy, err := sensor.PolicyFor(raw.Kind)
	if err != nil {
		return Frame{}, err
	}

	cols := make([][]float64, policy.Arity())
	for j := range cols {
		cols[j] = make([]float64, raw.Len())
	}

	for i, row := range raw.Rows {
		if len(row) > policy.Arity() {
			return Frame{}, core.NewMalformedError(policy.Name,
				fmt.Sprintf("row %d has %d cells, layout has %d", i, len(row), policy.Arity()))
		}
		for j := range cols {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			cols[j][i] = c.ParseNumeric(cell).AsFloat64()
		}
	}

	return NewFrame(policy.Columns, cols)
}
