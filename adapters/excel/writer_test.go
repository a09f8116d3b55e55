package excel

import (
	"path/filepath"
	"testing"

	"wearprep/domain/sensor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned.xlsx")

	hr := &sensor.CleanedSignal{Participant: "S01", Kind: sensor.HR, Values: []float64{70, 71.5}}
	ibi := &sensor.CleanedSignal{Participant: "S01", Kind: sensor.IBI, Values: []float64{0.8}, Timestamps: []float64{12.5}}
	demo := Sheet{Name: "demographics", Headers: []string{"Id", "Age"}, Rows: [][]interface{}{{"S01", 25.0}}}

	require.NoError(t, NewWriter(path, nil).Write([]Sheet{SignalSheet(hr), SignalSheet(ibi), demo}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"S01_HR", "S01_IBI", "demographics"}, f.GetSheetList())

	rows, err := f.GetRows("S01_HR")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"value"}, {"70"}, {"71.5"}}, rows)

	rows, err = f.GetRows("S01_IBI")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Timestamp", "Interval"}, {"12.5", "0.8"}}, rows)
}

func TestWriterRejectsDuplicatesAndEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.xlsx")
	assert.Error(t, NewWriter(path, nil).Write(nil))

	s := Sheet{Name: "a", Headers: []string{"v"}}
	assert.Error(t, NewWriter(path, nil).Write([]Sheet{s, s}))
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "S01_ACC", SheetName("S01_ACC"))
	assert.Equal(t, "a_b_c", SheetName("a/b:c"))
	assert.Len(t, SheetName("participant-with-a-very-long-name_TEMP"), 31)
}
