package demographics

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"wearprep/adapters/datareadiness/coercer"
	"wearprep/adapters/excel"
	"wearprep/domain/core"
	"wearprep/domain/datareadiness/ingestion"
	"wearprep/domain/dataset"
	"wearprep/internal"
	"wearprep/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersRecords() *dataset.Records {
	return &dataset.Records{
		Headers: []string{"Id", "Age", "Gender", "Weight", "Does physical activity regularly?",
			"Protocol", "Stress Inducement", "Aerobic Exercise", "Anaerobic Exercise"},
		Rows: [][]string{
			{"S01", "25", "M", "70", "Yes", "V1", "1", "0", "0"},
			{"S02", "-", "F", "-", "No", "V2", "0", "1", "0"},
			{"S03", "31", "F", "58", "-", "V1", "0", "0", "1"},
			{"S04", "28", "-", "64", "Yes", "V2", "-", "0", "0"},
		},
	}
}

func newTable(rec *dataset.Records) *Table {
	return FromRecords(rec, coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()))
}

func numbers(t *testing.T, tbl *Table, name string) []float64 {
	t.Helper()
	col, ok := tbl.Column(name)
	require.True(t, ok, "column %s", name)
	out := make([]float64, len(col.Values))
	for i, v := range col.Values {
		out[i] = v.AsFloat64()
	}
	return out
}

func TestFromRecordsTypesColumns(t *testing.T) {
	tbl := newTable(usersRecords())
	assert.Equal(t, 4, tbl.Len())

	age, _ := tbl.Column("Age")
	assert.True(t, age.Numeric)
	assert.Equal(t, 1, age.MissingCount())

	gender, _ := tbl.Column("Gender")
	assert.False(t, gender.Numeric)
}

func TestImpute(t *testing.T) {
	tbl := newTable(usersRecords())
	out, records := Impute(tbl)

	assert.Equal(t, []float64{25, 28, 31, 28}, numbers(t, out, "Age"))
	assert.Equal(t, []float64{70, 64, 58, 64}, numbers(t, out, "Weight"))

	gender, _ := out.Column("Gender")
	assert.Equal(t, "F", gender.Values[3].AsString())

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Column
	}
	assert.Equal(t, []string{"Age", "Gender", "Weight", "Does physical activity regularly?", "Stress Inducement"}, names)
	assert.Equal(t, "numeric column 'Age': 1 missing values filled with the mean (28.00)", records[0].String())
	assert.Equal(t, "categorical column 'Gender': 1 missing values filled with the mode ('F')", records[1].String())

	orig, _ := tbl.Column("Age")
	assert.Equal(t, 1, orig.MissingCount(), "input table is not modified")
}

func TestModeTieBreak(t *testing.T) {
	// Equal counts resolve to the lexicographically smallest category.
	vals := []ingestion.Value{
		ingestion.NewStringValue("M"),
		ingestion.NewStringValue("F"),
		ingestion.NewMissingValue(),
	}
	assert.Equal(t, "F", Mode(vals))
	assert.Equal(t, "", Mode([]ingestion.Value{ingestion.NewMissingValue()}))
}

func TestImputeSkipsEmptyColumn(t *testing.T) {
	rec := &dataset.Records{Headers: []string{"Note"}, Rows: [][]string{{"-"}, {"-"}}}
	out, records := Impute(newTable(rec))
	assert.Empty(t, records)
	col, _ := out.Column("Note")
	assert.Equal(t, 2, col.MissingCount())
}

func TestMapYesNo(t *testing.T) {
	rec := &dataset.Records{Headers: []string{"Id", "Active"}, Rows: [][]string{{"a", "Yes"}, {"b", "No"}, {"c", "maybe"}}}
	out, ok := MapYesNo(newTable(rec), "Active", "active")
	require.True(t, ok)
	assert.Equal(t, []string{"Id", "active"}, out.Names())

	col, _ := out.Column("active")
	assert.Equal(t, 1.0, col.Values[0].AsFloat64())
	assert.Equal(t, 0.0, col.Values[1].AsFloat64())
	assert.True(t, col.Values[2].IsMissing)

	_, ok = MapYesNo(out, "Active", "active")
	assert.False(t, ok)
}

func TestOneHotDropFirst(t *testing.T) {
	rec := &dataset.Records{Headers: []string{"Gender", "Age"}, Rows: [][]string{{"M", "20"}, {"F", "30"}, {"M", "40"}}}
	out, skipped := OneHot(newTable(rec), "Gender", "Protocol")

	assert.Equal(t, []string{"Protocol"}, skipped)
	assert.Equal(t, []string{"Age", "Gender_M"}, out.Names())
	assert.Equal(t, []float64{1, 0, 1}, numbers(t, out, "Gender_M"))
}

func TestOneHotThreeCategories(t *testing.T) {
	rec := &dataset.Records{Headers: []string{"Protocol"}, Rows: [][]string{{"V3"}, {"V1"}, {"V2"}, {"-"}}}
	out, _ := OneHot(newTable(rec), "Protocol")

	assert.Equal(t, []string{"Protocol_V2", "Protocol_V3"}, out.Names())
	assert.Equal(t, []float64{0, 0, 1, 0}, numbers(t, out, "Protocol_V2"))
	assert.Equal(t, []float64{1, 0, 0, 0}, numbers(t, out, "Protocol_V3"))
}

func TestDropColumnsIgnoresAbsent(t *testing.T) {
	out := DropColumns(newTable(usersRecords()), "Aerobic Exercise", "Not There")
	assert.NotContains(t, out.Names(), "Aerobic Exercise")
	assert.Len(t, out.Names(), 8)
}

func TestCleanEndToEnd(t *testing.T) {
	var buf bytes.Buffer
	c := NewCleaner(DefaultOptions(), excel.DefaultExcelConfig(), internal.NewLoggerTo(&buf, internal.LogLevelInfo))

	res := c.Clean(newTable(usersRecords()))
	tbl := res.Table

	assert.Equal(t, []string{"Id", "Age", "Weight", "activity_regularly", "Gender_M", "Protocol_V2"}, tbl.Names())
	assert.Equal(t, []float64{1, 0, 1, 1}, numbers(t, tbl, "activity_regularly"))
	assert.Equal(t, []float64{1, 0, 0, 0}, numbers(t, tbl, "Gender_M"))
	assert.Equal(t, []float64{0, 1, 0, 1}, numbers(t, tbl, "Protocol_V2"))
	assert.Len(t, res.Imputations, 5)

	assert.Contains(t, buf.String(), "filled with the mean (64.00)")

	rows := tbl.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, []interface{}{"S01", 25.0, 70.0, 1.0, 1.0, 0.0}, rows[0])
}

func TestCleanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users_info.txt")
	content := "Id,Age,Gender,Does physical activity regularly?,Protocol,Stress Inducement\n" +
		"S01,25,M,Yes,V1,1\n" +
		"S02,-,F,No,V2,0\n" +
		"\nFootnote one\nFootnote two\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	src := excel.DefaultExcelConfig()
	src.FooterRows = 2
	c := NewCleaner(DefaultOptions(), src, nil)

	res, err := c.CleanFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "Age", "activity_regularly", "Gender_M", "Protocol_V2"}, res.Table.Names())
	assert.Equal(t, []float64{25, 25}, numbers(t, res.Table, "Age"))

	_, err = c.CleanFile(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}
