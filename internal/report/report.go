// Package report renders a cleaning run as a Markdown summary and as a
// standalone HTML page.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"wearprep/domain/sensor"
	"wearprep/internal/profiling"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Unit is the report view of one participant × sensor outcome
type Unit struct {
	Participant string
	Kind        string
	Status      string
	InputRows   int
	Samples     int
	Stats       sensor.CleaningStats
	Profile     *profiling.Summary
	Error       string
	Duration    time.Duration
}

// Run is the report view of a whole batch
type Run struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Units     []Unit
	// Ranges holds the common plotting range per sensor kind
	Ranges          map[string]profiling.Range
	Imputations     []string
	DemographicRows int
	DemographicCols []string
	DemographicsErr string
}

// Markdown renders the run summary
func Markdown(run Run) string {
	var md strings.Builder

	md.WriteString("# Cleaning Run Report\n\n")
	md.WriteString(fmt.Sprintf("**Run ID:** %s\n\n", run.ID))
	if !run.StartedAt.IsZero() {
		md.WriteString(fmt.Sprintf("**Started:** %s\n\n", run.StartedAt.UTC().Format(time.RFC3339)))
	}
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", run.Duration.Round(time.Millisecond)))

	counts := map[string]int{}
	for _, u := range run.Units {
		counts[u.Status]++
	}
	statuses := make([]string, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = fmt.Sprintf("%s: %d", s, counts[s])
	}
	md.WriteString(fmt.Sprintf("**Units:** %d (%s)\n\n", len(run.Units), strings.Join(parts, ", ")))

	md.WriteString("## Sensor Signals\n\n")
	if len(run.Units) == 0 {
		md.WriteString("No sensor files processed.\n\n")
	} else {
		md.WriteString("| Participant | Sensor | Status | Rows In | Samples | Filled | Hard Clipped | Fence | Fence Clipped | Median |\n")
		md.WriteString("|-------------|--------|--------|---------|---------|--------|--------------|-------|---------------|--------|\n")
		for _, u := range run.Units {
			if u.Status != "ok" {
				md.WriteString(fmt.Sprintf("| %s | %s | %s | | | | | | | %s |\n",
					u.Participant, u.Kind, u.Status, escape(u.Error)))
				continue
			}
			median := ""
			if u.Profile != nil {
				median = fmt.Sprintf("%.3f", u.Profile.Median)
			}
			md.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %d | %d | %d | [%.3f, %.3f] | %d | %s |\n",
				u.Participant, u.Kind, u.Status, u.InputRows, u.Samples, u.Stats.FilledCells,
				u.Stats.HardClipped, u.Stats.Fence.Lower, u.Stats.Fence.Upper, u.Stats.FenceClipped, median))
		}
		md.WriteString("\n")
	}

	md.WriteString("## Common Ranges\n\n")
	if len(run.Ranges) == 0 {
		md.WriteString("No ranges computed.\n\n")
	} else {
		kinds := make([]string, 0, len(run.Ranges))
		for k := range run.Ranges {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		md.WriteString("| Sensor | Lower | Upper |\n")
		md.WriteString("|--------|-------|-------|\n")
		for _, k := range kinds {
			r := run.Ranges[k]
			md.WriteString(fmt.Sprintf("| %s | %.3f | %.3f |\n", k, r.Lower, r.Upper))
		}
		md.WriteString("\n")
	}

	md.WriteString("## Demographics\n\n")
	switch {
	case run.DemographicsErr != "":
		md.WriteString(fmt.Sprintf("Demographics cleaning failed: %s\n\n", run.DemographicsErr))
	case len(run.DemographicCols) == 0:
		md.WriteString("Demographics not processed.\n\n")
	default:
		md.WriteString(fmt.Sprintf("**Rows:** %d\n\n", run.DemographicRows))
		md.WriteString(fmt.Sprintf("**Columns:** %s\n\n", strings.Join(run.DemographicCols, ", ")))
		if len(run.Imputations) == 0 {
			md.WriteString("No missing values imputed.\n\n")
		}
		for _, line := range run.Imputations {
			md.WriteString(fmt.Sprintf("- %s\n", line))
		}
		if len(run.Imputations) > 0 {
			md.WriteString("\n")
		}
	}

	return md.String()
}

// HTML renders the Markdown summary as a complete HTML page
func HTML(run Run) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Cleaning Run " + run.ID,
	})
	return markdown.ToHTML([]byte(Markdown(run)), p, renderer)
}

func escape(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
