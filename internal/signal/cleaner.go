package signal

import (
	"wearprep/adapters/datareadiness/coercer"
	"wearprep/domain/core"
	"wearprep/domain/sensor"
	"wearprep/internal"
)

// Cleaner runs the full cleaning pipeline on one raw sensor table.
type Cleaner struct {
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// NewCleaner creates a cleaner. A nil logger uses the default logger.
func NewCleaner(c *coercer.TypeCoercer, logger *internal.Logger) *Cleaner {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	return &Cleaner{coercer: c, logger: internal.OrDefault(logger).With("SignalCleaner")}
}

// Clean normalizes, gap-fills, derives and clips raw. It returns
// core.ErrNoData when no usable row survives, and never a partial signal.
//
// Stage order: normalize, interpolate, drop incomplete rows, magnitude (ACC),
// hard-limit clip, IQR fence clip.
func (c *Cleaner) Clean(raw sensor.RawTable) (*sensor.CleanedSignal, error) {
	policy, err := sensor.PolicyFor(raw.Kind)
	if err != nil {
		return nil, err
	}
	source := string(raw.Participant) + "/" + policy.Name

	if raw.Len() == 0 {
		c.logger.Warn("%s: empty table", source)
		return nil, core.NewNoDataError(source)
	}

	var stats sensor.CleaningStats

	frame, err := Normalize(raw, c.coercer)
	if err != nil {
		return nil, err
	}
	stats.MissingCells = frame.MissingCount()

	filled := Interpolate(frame)
	stats.FilledCells = stats.MissingCells - filled.MissingCount()

	frame = DropIncomplete(filled)
	if frame.Len() == 0 {
		c.logger.Warn("%s: no usable rows out of %d", source, raw.Len())
		return nil, core.NewNoDataError(source)
	}

	if raw.Kind == sensor.ACC {
		if frame, err = Magnitude(frame); err != nil {
			return nil, err
		}
	}

	frame, stats.HardClipped = ClipHardLimits(frame, policy)

	frame, stats.Fence, stats.FenceClipped, err = ClipIQR(frame, policy.Target)
	if err != nil {
		return nil, err
	}

	values, _ := frame.Column(policy.Target)
	out := &sensor.CleanedSignal{
		Participant: raw.Participant,
		Kind:        raw.Kind,
		Values:      values,
		InputRows:   raw.Len(),
		Stats:       stats,
	}
	if raw.Kind == sensor.IBI {
		out.Timestamps, _ = frame.Column(sensor.ColTimestamp)
	}

	c.logger.Debug("%s: %d/%d rows kept, %d filled, %d hard-clipped, %d fence-clipped [%.4g, %.4g]",
		source, out.Len(), raw.Len(), stats.FilledCells, stats.HardClipped, stats.FenceClipped,
		stats.Fence.Lower, stats.Fence.Upper)
	return out, nil
}
