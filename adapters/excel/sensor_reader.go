package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"wearprep/domain/core"
	"wearprep/domain/sensor"
	apperrors "wearprep/internal/errors"
)

// SensorReader loads per-participant sensor files laid out as
// <baseDir>/<participant>/<KIND>.csv.
type SensorReader struct {
	baseDir string
}

// NewSensorReader creates a reader rooted at baseDir
func NewSensorReader(baseDir string) *SensorReader {
	return &SensorReader{baseDir: baseDir}
}

// Path returns the file holding kind's samples for participant
func (r *SensorReader) Path(participant core.ParticipantID, kind sensor.Kind) string {
	return filepath.Join(r.baseDir, participant.String(), kind.FileName())
}

// Load reads one sensor file. The device header in row 0 is dropped for every
// kind whose policy says so; IBI files keep all rows.
func (r *SensorReader) Load(ctx context.Context, participant core.ParticipantID, kind sensor.Kind) (sensor.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return sensor.RawTable{}, err
	}
	path := r.Path(participant, kind)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sensor.RawTable{}, apperrors.NotFound(path, core.ErrSensorFileNotFound)
		}
		return sensor.RawTable{}, apperrors.Malformed(path, fmt.Errorf("%w: %v", core.ErrMalformed, err))
	}
	defer f.Close()

	rows, err := ParseSensorCSV(f, kind)
	if err != nil {
		return sensor.RawTable{}, apperrors.Malformed(path, err)
	}
	return sensor.RawTable{Participant: participant, Kind: kind, Rows: rows}, nil
}

// ParseSensorCSV reads headerless sensor rows, dropping row 0 when the kind
// carries a device header there.
func ParseSensorCSV(r io.Reader, kind sensor.Kind) ([][]string, error) {
	policy, err := sensor.PolicyFor(kind)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformed, err)
	}
	if policy.SkipHeaderRow && len(rows) > 0 {
		rows = rows[1:]
	}
	return rows, nil
}
