package ports

import (
	"context"

	"wearprep/domain/core"
	"wearprep/domain/sensor"
)

// SignalStore persists cleaned signals, keyed by run, participant and kind
type SignalStore interface {
	Save(ctx context.Context, runID core.RunID, sig *sensor.CleanedSignal) error
	Load(ctx context.Context, runID core.RunID, participant core.ParticipantID, kind sensor.Kind) (*sensor.CleanedSignal, error)
}
