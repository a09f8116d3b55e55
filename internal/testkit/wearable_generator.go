package testkit

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"wearprep/domain/core"
	"wearprep/domain/sensor"
)

// WearableGeneratorConfig configures the wearable data generator
type WearableGeneratorConfig struct {
	ParticipantCount int       `json:"participant_count"`
	Samples          int       `json:"samples"`
	MissingRate      float64   `json:"missing_rate"`
	SpikeRate        float64   `json:"spike_rate"`
	StartTime        time.Time `json:"start_time"`
	Seed             int64     `json:"seed"`
}

// DefaultWearableConfig returns sensible defaults for wearable data generation
func DefaultWearableConfig() WearableGeneratorConfig {
	return WearableGeneratorConfig{
		ParticipantCount: 3,
		Samples:          200,
		MissingRate:      0.03,
		SpikeRate:        0.02,
		StartTime:        time.Date(2022, 5, 22, 7, 15, 25, 0, time.UTC),
		Seed:             42,
	}
}

// signalShape is the mean, spread and sample rate of one sensor stream
type signalShape struct {
	mean, sd, rate float64
	spike          float64
}

var shapes = map[sensor.Kind]signalShape{
	sensor.ACC:  {mean: 0, sd: 30, rate: 32, spike: 500},
	sensor.HR:   {mean: 75, sd: 8, rate: 1, spike: 290},
	sensor.EDA:  {mean: 2, sd: 0.5, rate: 4, spike: 60},
	sensor.TEMP: {mean: 33, sd: 0.4, rate: 4, spike: 80},
	sensor.BVP:  {mean: 0, sd: 40, rate: 64, spike: 900},
	sensor.IBI:  {mean: 0.8, sd: 0.07, spike: 3.5},
}

// WearableDataGenerator generates device-style sensor files with gaps and spikes
type WearableDataGenerator struct {
	config WearableGeneratorConfig
	rng    *rand.Rand
}

// NewWearableDataGenerator creates a new wearable data generator
func NewWearableDataGenerator(config WearableGeneratorConfig) *WearableDataGenerator {
	return &WearableDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Participants returns S01, S02, ... up to ParticipantCount
func (g *WearableDataGenerator) Participants() []core.ParticipantID {
	out := make([]core.ParticipantID, g.config.ParticipantCount)
	for i := range out {
		out[i] = core.ParticipantID(fmt.Sprintf("S%02d", i+1))
	}
	return out
}

// FileRows returns the rows of one sensor file as the device writes them:
// a start timestamp row, then a sample-rate row, then samples. IBI files have
// a single "<start>, IBI" row followed by elapsed-time/interval pairs.
func (g *WearableDataGenerator) FileRows(kind sensor.Kind) [][]string {
	policy, _ := sensor.PolicyFor(kind)
	shape := shapes[kind]
	start := strconv.FormatFloat(float64(g.config.StartTime.Unix()), 'f', 1, 64)

	var rows [][]string
	if kind == sensor.IBI {
		rows = append(rows, []string{start, " IBI"})
		elapsed := 0.0
		for i := 0; i < g.config.Samples; i++ {
			interval := math.Abs(g.rng.NormFloat64()*shape.sd + shape.mean)
			elapsed += interval
			rows = append(rows, []string{format(elapsed), g.cell(interval, shape)})
		}
		return rows
	}

	rows = append(rows, repeat(start, policy.Arity()), repeat(format(shape.rate), policy.Arity()))
	for i := 0; i < g.config.Samples; i++ {
		row := make([]string, policy.Arity())
		for c := range row {
			row[c] = g.cell(g.rng.NormFloat64()*shape.sd+shape.mean, shape)
		}
		rows = append(rows, row)
	}
	return rows
}

// RawTable returns the data rows of one sensor file, header dropped as the
// loader would.
func (g *WearableDataGenerator) RawTable(participant core.ParticipantID, kind sensor.Kind) sensor.RawTable {
	rows := g.FileRows(kind)
	if policy, err := sensor.PolicyFor(kind); err == nil && policy.SkipHeaderRow {
		rows = rows[1:]
	}
	return sensor.RawTable{Participant: participant, Kind: kind, Rows: rows}
}

// WriteDataset writes <dir>/<participant>/<KIND>.csv for every participant
// and kind.
func (g *WearableDataGenerator) WriteDataset(dir string) error {
	for _, p := range g.Participants() {
		pdir := filepath.Join(dir, p.String())
		if err := os.MkdirAll(pdir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", pdir, err)
		}
		for _, kind := range sensor.AllKinds() {
			if err := writeCSV(filepath.Join(pdir, kind.FileName()), g.FileRows(kind)); err != nil {
				return err
			}
		}
	}
	return nil
}

// UsersInfo returns a users info table for the participants, with "-" for
// a few unanswered cells and footerRows trailing note lines.
func (g *WearableDataGenerator) UsersInfo(footerRows int) string {
	var b strings.Builder
	b.WriteString("Info,Gender,Age,Height,Weight,Does physical activity regularly?,Protocol,Stress Inducement,Aerobic Exercise,Anaerobic Exercise\n")
	genders := []string{"m", "f"}
	protocols := []string{"V1", "V2"}
	answers := []string{"Yes", "No"}
	for _, p := range g.Participants() {
		age := strconv.Itoa(20 + g.rng.Intn(15))
		if g.rng.Float64() < 0.2 {
			age = "-"
		}
		fmt.Fprintf(&b, "%s,%s,%s,%d,%d,%s,%s,%d,%d,%d\n",
			p, genders[g.rng.Intn(2)], age, 155+g.rng.Intn(40), 50+g.rng.Intn(40),
			answers[g.rng.Intn(2)], protocols[g.rng.Intn(2)],
			g.rng.Intn(2), g.rng.Intn(2), g.rng.Intn(2))
	}
	for i := 0; i < footerRows; i++ {
		fmt.Fprintf(&b, "Note %d: values marked \"-\" were not collected.\n", i+1)
	}
	return b.String()
}

// cell formats v, or returns an empty cell or a spike at the configured rates
func (g *WearableDataGenerator) cell(v float64, shape signalShape) string {
	r := g.rng.Float64()
	switch {
	case r < g.config.MissingRate:
		return ""
	case r < g.config.MissingRate+g.config.SpikeRate:
		return format(shape.spike)
	}
	return format(v)
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
