package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"wearprep/domain/sensor"
	"wearprep/internal/config"
	apperrors "wearprep/internal/errors"
	"wearprep/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data", "S01", "HR.csv"), "1495437325.0\n300\n70\n72\n\n68\n")
	writeFile(t, filepath.Join(dir, "data", "S01", "IBI.csv"), "1495437325.0, IBI\n1.0,0.80\n1.8,\n2.6,0.84\n")
	writeFile(t, filepath.Join(dir, "users_info.txt"),
		"Id,Age,Gender,Does physical activity regularly?,Protocol,Stress Inducement\n"+
			"S01,25,M,Yes,V1,1\n"+
			"S02,-,F,No,V2,0\n"+
			"Footnote one\n")

	return &config.Config{
		Data: config.DataConfig{
			Dir:          filepath.Join(dir, "data"),
			Participants: []string{"S01", "S02"},
			Sensors:      []string{"HR", "IBI"},
		},
		Demographics: config.DemographicsConfig{
			UsersInfoFile: filepath.Join(dir, "users_info.txt"),
			FooterRows:    1,
			NAPlaceholder: "-",
		},
		Batch: config.BatchConfig{Workers: 2},
		Output: config.OutputConfig{
			XLSXFile:   filepath.Join(dir, "cleaned.xlsx"),
			ReportHTML: filepath.Join(dir, "report.html"),
		},
	}
}

func TestPipelineRun(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	p, err := NewPipelineFromConfig(ctx, cfg, nil)
	require.NoError(t, err)
	defer p.Close()

	summary, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"ok": 2, "not_found": 2}, summary.Counts())

	ibi := summary.Outcomes[1].Signal
	require.NotNil(t, ibi)
	assert.Equal(t, sensor.IBI, ibi.Kind)
	// IBI keeps its header row; the text interval there is edge-filled.
	assert.InDeltaSlice(t, []float64{0.80, 0.80, 0.82, 0.84}, ibi.Values, 1e-9)
	assert.Equal(t, []float64{1495437325.0, 1.0, 1.8, 2.6}, ibi.Timestamps)

	require.NoError(t, summary.DemographicsErr)
	assert.Equal(t, []string{"Id", "Age", "activity_regularly", "Gender_M", "Protocol_V2"}, summary.Demographics.Table.Names())

	f, err := excelize.OpenFile(cfg.Output.XLSXFile)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"S01_HR", "S01_IBI", "demographics"}, f.GetSheetList())

	page, err := os.ReadFile(cfg.Output.ReportHTML)
	require.NoError(t, err)
	assert.Contains(t, string(page), summary.RunID.String())
	assert.Contains(t, string(page), "not_found")
}

func TestPipelineDemographicsFailureIsReported(t *testing.T) {
	cfg := testConfig(t)
	cfg.Demographics.UsersInfoFile = filepath.Join(t.TempDir(), "absent.txt")
	cfg.Output = config.OutputConfig{}
	ctx := context.Background()

	p, err := NewPipelineFromConfig(ctx, cfg, nil)
	require.NoError(t, err)
	summary, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Nil(t, summary.Demographics)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(summary.DemographicsErr))

	view := ReportView(summary)
	assert.NotEmpty(t, view.DemographicsErr)
	assert.Contains(t, view.Ranges, "HR")
}

func TestNewPipelineRejectsBadSelection(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Participants = nil
	_, err := NewPipelineFromConfig(context.Background(), cfg, nil)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))

	cfg = testConfig(t)
	cfg.Data.Sensors = []string{"GPS"}
	_, err = NewPipelineFromConfig(context.Background(), cfg, nil)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))

	cfg = testConfig(t)
	cfg.Data.Participants = []string{"../etc"}
	_, err = NewPipelineFromConfig(context.Background(), cfg, nil)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}

func TestSheetsEmptySummary(t *testing.T) {
	assert.Empty(t, Sheets(&RunSummary{}))
}

func TestPipelineGeneratedDataset(t *testing.T) {
	dir := t.TempDir()
	g := testkit.NewWearableDataGenerator(testkit.DefaultWearableConfig())
	require.NoError(t, g.WriteDataset(filepath.Join(dir, "data")))
	writeFile(t, filepath.Join(dir, "users_info.txt"), g.UsersInfo(10))

	cfg := &config.Config{
		Data:         config.DataConfig{Dir: filepath.Join(dir, "data"), Participants: []string{"S01", "S02", "S03"}},
		Demographics: config.DemographicsConfig{UsersInfoFile: filepath.Join(dir, "users_info.txt"), FooterRows: 10, NAPlaceholder: "-"},
		Batch:        config.BatchConfig{Workers: 4},
		Output:       config.OutputConfig{XLSXFile: filepath.Join(dir, "out.xlsx")},
	}
	ctx := context.Background()
	p, err := NewPipelineFromConfig(ctx, cfg, nil)
	require.NoError(t, err)

	summary, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{StatusOK: 18}, summary.Counts())
	require.NoError(t, summary.DemographicsErr)
	assert.Equal(t, 3, summary.Demographics.Table.Len())

	f, err := excelize.OpenFile(cfg.Output.XLSXFile)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 19)
}
