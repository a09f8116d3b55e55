package sensor

import "wearprep/domain/core"

// RawTable holds the data rows of one sensor file for one participant, as
// loaded: no header, cells still unparsed. An empty cell is a missing value.
type RawTable struct {
	Participant core.ParticipantID
	Kind        Kind
	Rows        [][]string
}

// Len returns the number of raw rows.
func (t RawTable) Len() int {
	return len(t.Rows)
}

// CleanedSignal is the cleaned series of one sensor for one participant.
// Values are in original temporal order and contain no missing entries.
type CleanedSignal struct {
	Participant core.ParticipantID
	Kind        Kind
	// Values is the target quantity: magnitude for ACC, Interval for IBI,
	// the raw reading otherwise.
	Values []float64
	// Timestamps is parallel to Values for IBI and nil for every other kind.
	Timestamps []float64
	// InputRows is the raw row count the signal was cleaned from.
	InputRows int
	Stats     CleaningStats
}

// CleaningStats records what each cleaning stage did to one capture.
type CleaningStats struct {
	MissingCells int    `json:"missing_cells"`
	FilledCells  int    `json:"filled_cells"`
	HardClipped  int    `json:"hard_clipped"`
	FenceClipped int    `json:"fence_clipped"`
	Fence        Bounds `json:"fence"`
}

// Len returns the number of samples.
func (s *CleanedSignal) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Values)
}

// DroppedRows is how many raw rows could not be recovered.
func (s *CleanedSignal) DroppedRows() int {
	return s.InputRows - s.Len()
}
