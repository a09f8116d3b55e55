package demographics

import (
	"fmt"
	"sort"

	"wearprep/domain/datareadiness/ingestion"

	"github.com/montanaflynn/stats"
)

// ImputationRecord describes the fill applied to one column
type ImputationRecord struct {
	Column  string          `json:"column"`
	Numeric bool            `json:"numeric"`
	Value   ingestion.Value `json:"value"`
	Filled  int             `json:"filled"`
}

func (r ImputationRecord) String() string {
	if r.Numeric {
		return fmt.Sprintf("numeric column '%s': %d missing values filled with the mean (%.2f)",
			r.Column, r.Filled, r.Value.AsFloat64())
	}
	return fmt.Sprintf("categorical column '%s': %d missing values filled with the mode ('%s')",
		r.Column, r.Filled, r.Value.AsString())
}

// Impute fills the missing cells of every column: numeric columns with the
// column mean, categorical columns with the column mode. A column without any
// present value cannot be imputed and is left as is.
func Impute(t *Table) (*Table, []ImputationRecord) {
	out := t.clone()
	var records []ImputationRecord

	for i := range out.columns {
		col := &out.columns[i]
		missing := col.MissingCount()
		if missing == 0 || missing == len(col.Values) {
			continue
		}

		var fill ingestion.Value
		if col.Numeric {
			mean, err := stats.Mean(presentNumbers(col.Values))
			if err != nil {
				continue
			}
			fill = ingestion.NewNumericValue(mean)
		} else {
			fill = ingestion.NewStringValue(Mode(col.Values))
		}

		for j, v := range col.Values {
			if v.IsMissing {
				col.Values[j] = fill
			}
		}
		records = append(records, ImputationRecord{Column: col.Name, Numeric: col.Numeric, Value: fill, Filled: missing})
	}
	return out, records
}

func presentNumbers(values []ingestion.Value) stats.Float64Data {
	data := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if v.IsNumeric() {
			data = append(data, v.AsFloat64())
		}
	}
	return data
}

// Mode returns the most frequent category. Ties go to the lexicographically
// smallest category. Returns "" when no value is present.
func Mode(values []ingestion.Value) string {
	counts := make(map[string]int)
	for _, v := range values {
		if !v.IsMissing {
			counts[category(v)]++
		}
	}

	best, bestCount := "", 0
	for _, k := range sortedKeys(counts) {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

// MapYesNo replaces the from column by a numeric column named to holding 1
// for "Yes" and 0 for "No". Any other value becomes missing. The new column is
// appended at the end. ok is false when from is absent.
func MapYesNo(t *Table, from, to string) (out *Table, ok bool) {
	idx := t.index(from)
	if idx < 0 {
		return t.clone(), false
	}

	src := t.columns[idx]
	mapped := Column{Name: to, Numeric: true, Values: make([]ingestion.Value, len(src.Values))}
	for i, v := range src.Values {
		switch v.AsString() {
		case "Yes":
			mapped.Values[i] = ingestion.NewNumericValue(1)
		case "No":
			mapped.Values[i] = ingestion.NewNumericValue(0)
		default:
			mapped.Values[i] = ingestion.NewMissingValue()
		}
	}

	out = t.without(from)
	out.columns = append(out.columns, mapped)
	return out, true
}

// OneHot replaces each named column by k-1 indicator columns for its k
// categories, dropping the first category in sorted order. Indicators are
// named <column>_<category> and appended after the remaining columns. Missing
// cells encode as all zeros. Absent columns are skipped and reported.
func OneHot(t *Table, columns ...string) (out *Table, skipped []string) {
	var present []string
	var indicators []Column

	for _, name := range columns {
		idx := t.index(name)
		if idx < 0 {
			skipped = append(skipped, name)
			continue
		}
		present = append(present, name)

		src := t.columns[idx]
		seen := make(map[string]int)
		for _, v := range src.Values {
			if !v.IsMissing {
				seen[category(v)]++
			}
		}
		cats := sortedKeys(seen)
		if len(cats) > 0 {
			cats = cats[1:]
		}

		for _, cat := range cats {
			ind := Column{Name: name + "_" + cat, Numeric: true, Values: make([]ingestion.Value, len(src.Values))}
			for i, v := range src.Values {
				bit := 0.0
				if !v.IsMissing && category(v) == cat {
					bit = 1
				}
				ind.Values[i] = ingestion.NewNumericValue(bit)
			}
			indicators = append(indicators, ind)
		}
	}

	out = t.without(present...)
	out.columns = append(out.columns, indicators...)
	return out, skipped
}

// DropColumns removes the named columns. Absent names are ignored.
func DropColumns(t *Table, names ...string) *Table {
	return t.without(names...)
}

func category(v ingestion.Value) string {
	if v.IsString() {
		return v.AsString()
	}
	return v.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
