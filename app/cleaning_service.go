package app

import (
	"context"
	"time"

	"wearprep/domain/core"
	"wearprep/domain/sensor"
	"wearprep/internal"
	"wearprep/internal/demographics"
	"wearprep/ports"

	"golang.org/x/sync/errgroup"
)

// Unit status values
const (
	StatusOK        = "ok"
	StatusNoData    = "no_data"
	StatusNotFound  = "not_found"
	StatusMalformed = "malformed"
	StatusFailed    = "failed"
)

// SignalCleaner cleans one raw table
type SignalCleaner interface {
	Clean(raw sensor.RawTable) (*sensor.CleanedSignal, error)
}

// Outcome is the result of cleaning one participant × sensor unit
type Outcome struct {
	Participant core.ParticipantID
	Kind        sensor.Kind
	Signal      *sensor.CleanedSignal
	Err         error
	Duration    time.Duration
}

// Status classifies the outcome
func (o Outcome) Status() string {
	switch {
	case o.Err == nil:
		return StatusOK
	case core.IsNoData(o.Err):
		return StatusNoData
	case core.IsNotFoundError(o.Err):
		return StatusNotFound
	case core.IsMalformedError(o.Err):
		return StatusMalformed
	default:
		return StatusFailed
	}
}

// RunSummary collects every unit outcome of one run, in request order
type RunSummary struct {
	RunID           core.RunID
	StartedAt       time.Time
	Finished        time.Time
	Outcomes        []Outcome
	Demographics    *demographics.Result
	DemographicsErr error
}

// Counts returns the number of outcomes per status
func (s *RunSummary) Counts() map[string]int {
	counts := make(map[string]int)
	for _, o := range s.Outcomes {
		counts[o.Status()]++
	}
	return counts
}

// Signals returns the successfully cleaned signals
func (s *RunSummary) Signals() []*sensor.CleanedSignal {
	var out []*sensor.CleanedSignal
	for _, o := range s.Outcomes {
		if o.Signal != nil {
			out = append(out, o.Signal)
		}
	}
	return out
}

// CleaningService loads, cleans and optionally stores sensor files in parallel
type CleaningService struct {
	source  ports.SensorSource
	cleaner SignalCleaner
	store   ports.SignalStore
	workers int
	logger  *internal.Logger
}

// NewCleaningService creates a cleaning service. store may be nil.
func NewCleaningService(source ports.SensorSource, cleaner SignalCleaner, store ports.SignalStore, workers int, logger *internal.Logger) *CleaningService {
	if workers <= 0 {
		workers = 1
	}
	return &CleaningService{
		source:  source,
		cleaner: cleaner,
		store:   store,
		workers: workers,
		logger:  internal.OrDefault(logger).With("CleaningService"),
	}
}

// Run cleans every participant × kind unit. A failing unit is recorded in its
// outcome and does not affect the others; only cancellation of ctx fails Run.
func (s *CleaningService) Run(ctx context.Context, participants []core.ParticipantID, kinds []sensor.Kind) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:     core.NewRunID(),
		StartedAt: time.Now(),
		Outcomes:  make([]Outcome, 0, len(participants)*len(kinds)),
	}
	for _, p := range participants {
		for _, k := range kinds {
			summary.Outcomes = append(summary.Outcomes, Outcome{Participant: p, Kind: k})
		}
	}
	s.logger.Info("run %s: %d units with %d workers", summary.RunID, len(summary.Outcomes), s.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range summary.Outcomes {
		out := &summary.Outcomes[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.cleanUnit(gctx, summary.RunID, out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary.Finished = time.Now()
	s.logger.Info("run %s finished in %s: %v", summary.RunID, summary.Finished.Sub(summary.StartedAt).Round(time.Millisecond), summary.Counts())
	return summary, nil
}

func (s *CleaningService) cleanUnit(ctx context.Context, runID core.RunID, out *Outcome) {
	start := time.Now()
	defer func() { out.Duration = time.Since(start) }()

	raw, err := s.source.Load(ctx, out.Participant, out.Kind)
	if err != nil {
		out.Err = err
		s.logger.Warn("%s/%s: %v", out.Participant, out.Kind, err)
		return
	}

	sig, err := s.cleaner.Clean(raw)
	if err != nil {
		out.Err = err
		s.logger.Warn("%s/%s: %v", out.Participant, out.Kind, err)
		return
	}

	if s.store != nil {
		if err := s.store.Save(ctx, runID, sig); err != nil {
			out.Err = err
			s.logger.Error("%s/%s: %v", out.Participant, out.Kind, err)
			return
		}
	}
	out.Signal = sig
	s.logger.Debug("%s/%s: %d samples", out.Participant, out.Kind, sig.Len())
}
