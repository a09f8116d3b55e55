package report

import (
	"strings"
	"testing"
	"time"

	"wearprep/domain/sensor"
	"wearprep/internal/profiling"

	"github.com/stretchr/testify/assert"
)

func sampleRun() Run {
	return Run{
		ID:        "run-42",
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Units: []Unit{
			{
				Participant: "S01", Kind: "HR", Status: "ok", InputRows: 5, Samples: 5,
				Stats:   sensor.CleaningStats{FilledCells: 1, HardClipped: 1, FenceClipped: 2, Fence: sensor.Bounds{Lower: 67, Upper: 75}},
				Profile: &profiling.Summary{Median: 70},
			},
			{Participant: "S01", Kind: "IBI", Status: "no_data", Error: "no usable data | IBI"},
		},
		Ranges:          map[string]profiling.Range{"HR": {Lower: 66.6, Upper: 75.4}},
		Imputations:     []string{"numeric column 'Age': 1 missing values filled with the mean (28.00)"},
		DemographicRows: 3,
		DemographicCols: []string{"Id", "Age"},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleRun())

	assert.True(t, strings.HasPrefix(md, "# Cleaning Run Report\n"))
	assert.Contains(t, md, "**Run ID:** run-42")
	assert.Contains(t, md, "**Started:** 2026-01-02T03:04:05Z")
	assert.Contains(t, md, "**Units:** 2 (no_data: 1, ok: 1)")
	assert.Contains(t, md, "| S01 | HR | ok | 5 | 5 | 1 | 1 | [67.000, 75.000] | 2 | 70.000 |")
	assert.Contains(t, md, `no usable data \| IBI`)
	assert.Contains(t, md, "| HR | 66.600 | 75.400 |")
	assert.Contains(t, md, "- numeric column 'Age'")
}

func TestMarkdownEmptyRun(t *testing.T) {
	md := Markdown(Run{ID: "empty"})

	assert.Contains(t, md, "No sensor files processed.")
	assert.Contains(t, md, "No ranges computed.")
	assert.Contains(t, md, "Demographics not processed.")
}

func TestMarkdownDemographicsError(t *testing.T) {
	md := Markdown(Run{ID: "x", DemographicsErr: "users info table not found"})
	assert.Contains(t, md, "Demographics cleaning failed: users info table not found")
}

func TestHTML(t *testing.T) {
	page := string(HTML(sampleRun()))

	assert.Contains(t, page, "<title>Cleaning Run run-42</title>")
	assert.Contains(t, page, "<h1")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<td>S01</td>")
}
