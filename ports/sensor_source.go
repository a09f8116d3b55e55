package ports

import (
	"context"

	"wearprep/domain/core"
	"wearprep/domain/sensor"
)

// SensorSource loads the raw rows of one sensor file of one participant
type SensorSource interface {
	Load(ctx context.Context, participant core.ParticipantID, kind sensor.Kind) (sensor.RawTable, error)
}
