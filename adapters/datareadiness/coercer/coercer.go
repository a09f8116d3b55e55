package coercer

import (
	"math"
	"strconv"
	"strings"

	"wearprep/domain/datareadiness/ingestion"
)

// TypeCoercer handles deterministic, never-failing type coercion
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	// MissingMarkers are literal cell contents that mean "no value" (for
	// example the "-" placeholder of the users info table).
	MissingMarkers []string `json:"missing_markers"`
	// NumericThreshold is the share of non-missing cells that must parse as
	// numbers for a column to be treated as numeric.
	NumericThreshold float64 `json:"numeric_threshold"`
	TrimStrings      bool    `json:"trim_strings"`
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		MissingMarkers:   []string{"", "-", "NaN", "nan", "NA", "N/A"},
		NumericThreshold: 1.0,
		TrimStrings:      true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// ParseNumeric coerces a raw cell to Numeric or Missing. Unparseable input
// becomes Missing; it is never an error.
func (c *TypeCoercer) ParseNumeric(raw string) ingestion.Value {
	s := strings.TrimSpace(raw)
	if c.isMissing(s) {
		return ingestion.NewMissingValue()
	}
	if v, ok := parseFloat(s); ok {
		return ingestion.NewNumericValue(v)
	}
	return ingestion.NewMissingValue()
}

// CoerceValue converts a raw cell to Numeric, String or Missing.
func (c *TypeCoercer) CoerceValue(raw string) ingestion.Value {
	s := raw
	if c.config.TrimStrings {
		s = strings.TrimSpace(s)
	}
	if c.isMissing(strings.TrimSpace(s)) {
		return ingestion.NewMissingValue()
	}
	if v, ok := parseFloat(strings.TrimSpace(s)); ok {
		return ingestion.NewNumericValue(v)
	}
	return ingestion.NewStringValue(s)
}

// CoerceColumn coerces a whole column. When the share of numeric cells among
// the non-missing ones reaches NumericThreshold every cell is parsed as a
// number (stragglers become Missing); otherwise every non-missing cell is kept
// as a string.
func (c *TypeCoercer) CoerceColumn(raw []string) ([]ingestion.Value, bool) {
	analysis := c.AnalyzeTypeDistribution(raw)
	numeric := analysis.ValidCount > 0 && analysis.NumericRatio >= c.config.NumericThreshold

	out := make([]ingestion.Value, len(raw))
	for i, cell := range raw {
		if numeric {
			out[i] = c.ParseNumeric(cell)
			continue
		}
		v := c.CoerceValue(cell)
		if v.IsNumeric() {
			s := cell
			if c.config.TrimStrings {
				s = strings.TrimSpace(s)
			}
			v = ingestion.NewStringValue(s)
		}
		out[i] = v
	}
	return out, numeric
}

// AnalyzeTypeDistribution counts how many cells of a column parse as numbers.
func (c *TypeCoercer) AnalyzeTypeDistribution(raw []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(raw)}
	for _, cell := range raw {
		s := strings.TrimSpace(cell)
		if c.isMissing(s) {
			continue
		}
		analysis.ValidCount++
		if _, ok := parseFloat(s); ok {
			analysis.NumericCount++
		}
	}
	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	}
	return analysis
}

func (c *TypeCoercer) isMissing(s string) bool {
	for _, m := range c.config.MissingMarkers {
		if s == m {
			return true
		}
	}
	return false
}

// parseFloat accepts plain and scientific notation and rejects inf/NaN.
func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount   int     `json:"total_count"`
	ValidCount   int     `json:"valid_count"`
	NumericCount int     `json:"numeric_count"`
	NumericRatio float64 `json:"numeric_ratio"`
}
