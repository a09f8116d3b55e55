package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"wearprep/domain/core"
	"wearprep/domain/sensor"
	"wearprep/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// signalRow mirrors one row of cleaned_signals
type signalRow struct {
	RunID       string          `db:"run_id"`
	Participant string          `db:"participant"`
	Sensor      string          `db:"sensor"`
	InputRows   int             `db:"input_rows"`
	Samples     pq.Float64Array `db:"samples"`
	Timestamps  pq.Float64Array `db:"timestamps"`
	FenceLower  float64         `db:"fence_lower"`
	FenceUpper  float64         `db:"fence_upper"`
	Stats       []byte          `db:"stats"`
	CreatedAt   time.Time       `db:"created_at"`
}

// signalRepository implements ports.SignalStore
type signalRepository struct {
	db *sqlx.DB
}

// NewSignalRepository creates a new cleaned signal repository
func NewSignalRepository(db *sqlx.DB) ports.SignalStore {
	return &signalRepository{db: db}
}

// Save upserts a cleaned signal; re-running a unit within a run replaces it
func (r *signalRepository) Save(ctx context.Context, runID core.RunID, sig *sensor.CleanedSignal) error {
	row, err := toRow(runID, sig)
	if err != nil {
		return err
	}

	query := `INSERT INTO cleaned_signals (
		run_id, participant, sensor, input_rows, samples, timestamps,
		fence_lower, fence_upper, stats, created_at
	) VALUES (
		:run_id, :participant, :sensor, :input_rows, :samples, :timestamps,
		:fence_lower, :fence_upper, :stats, :created_at
	)
	ON CONFLICT (run_id, participant, sensor) DO UPDATE SET
		input_rows = EXCLUDED.input_rows,
		samples = EXCLUDED.samples,
		timestamps = EXCLUDED.timestamps,
		fence_lower = EXCLUDED.fence_lower,
		fence_upper = EXCLUDED.fence_upper,
		stats = EXCLUDED.stats,
		created_at = EXCLUDED.created_at`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to save cleaned signal %s/%s: %w", sig.Participant, sig.Kind, err)
	}
	return nil
}

// Load retrieves one cleaned signal of a run
func (r *signalRepository) Load(ctx context.Context, runID core.RunID, participant core.ParticipantID, kind sensor.Kind) (*sensor.CleanedSignal, error) {
	query := `SELECT
		run_id, participant, sensor, input_rows, samples, timestamps,
		fence_lower, fence_upper, stats, created_at
	FROM cleaned_signals WHERE run_id = $1 AND participant = $2 AND sensor = $3`

	var row signalRow
	err := r.db.GetContext(ctx, &row, query, runID.String(), participant.String(), kind.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("cleaned signal", fmt.Sprintf("%s/%s/%s", runID, participant, kind))
		}
		return nil, fmt.Errorf("failed to get cleaned signal: %w", err)
	}
	return fromRow(row)
}

func toRow(runID core.RunID, sig *sensor.CleanedSignal) (signalRow, error) {
	if sig == nil {
		return signalRow{}, fmt.Errorf("cannot save a nil signal")
	}
	stats, err := json.Marshal(sig.Stats)
	if err != nil {
		return signalRow{}, fmt.Errorf("failed to marshal cleaning stats: %w", err)
	}
	return signalRow{
		RunID:       runID.String(),
		Participant: sig.Participant.String(),
		Sensor:      sig.Kind.String(),
		InputRows:   sig.InputRows,
		Samples:     pq.Float64Array(sig.Values),
		Timestamps:  pq.Float64Array(sig.Timestamps),
		FenceLower:  sig.Stats.Fence.Lower,
		FenceUpper:  sig.Stats.Fence.Upper,
		Stats:       stats,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func fromRow(row signalRow) (*sensor.CleanedSignal, error) {
	kind, err := sensor.ParseKind(row.Sensor)
	if err != nil {
		return nil, err
	}
	sig := &sensor.CleanedSignal{
		Participant: core.ParticipantID(row.Participant),
		Kind:        kind,
		Values:      []float64(row.Samples),
		InputRows:   row.InputRows,
	}
	if row.Timestamps != nil {
		sig.Timestamps = []float64(row.Timestamps)
	}
	if len(row.Stats) > 0 {
		if err := json.Unmarshal(row.Stats, &sig.Stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cleaning stats: %w", err)
		}
	}
	sig.Stats.Fence = sensor.Bounds{Lower: row.FenceLower, Upper: row.FenceUpper}
	return sig, nil
}
