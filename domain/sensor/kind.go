// Package sensor defines the wearable sensor kinds and the per-kind cleaning
// policy: canonical column layout, physiological hard limit and the column
// that receives outlier treatment.
package sensor

import (
	"fmt"
	"strings"

	"wearprep/domain/core"
)

// Kind identifies a wearable sensor stream.
type Kind int

const (
	ACC Kind = iota
	IBI
	HR
	EDA
	TEMP
	BVP
)

// Canonical column names.
const (
	ColX         = "X"
	ColY         = "Y"
	ColZ         = "Z"
	ColTimestamp = "Timestamp"
	ColInterval  = "Interval"
	ColValue     = "value"
)

// Bounds is a closed interval [Lower, Upper].
type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Clamp pulls v into the interval.
func (b Bounds) Clamp(v float64) float64 {
	if v < b.Lower {
		return b.Lower
	}
	if v > b.Upper {
		return b.Upper
	}
	return v
}

// Contains reports whether v lies inside the interval.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// Policy is the cleaning policy for one Kind.
type Policy struct {
	Name string
	// Columns is the raw column layout, in file order.
	Columns []string
	// HardLimit is nil when the kind has no physiological range.
	HardLimit *Bounds
	// Target is the column clipped by both outlier layers.
	Target string
	// SkipHeaderRow is true when the device writes a header value in row 0.
	SkipHeaderRow bool
}

// Arity returns the number of raw columns.
func (p Policy) Arity() int {
	return len(p.Columns)
}

// ACC has no hard limit: a magnitude taken in arbitrary orientation has no
// device-independent plausible range.
var policies = map[Kind]Policy{
	ACC: {
		Name:          "ACC",
		Columns:       []string{ColX, ColY, ColZ},
		Target:        ColValue,
		SkipHeaderRow: true,
	},
	IBI: {
		Name:      "IBI",
		Columns:   []string{ColTimestamp, ColInterval},
		HardLimit: &Bounds{Lower: 0.27, Upper: 2.0},
		Target:    ColInterval,
	},
	HR: {
		Name:          "HR",
		Columns:       []string{ColValue},
		HardLimit:     &Bounds{Lower: 40, Upper: 220},
		Target:        ColValue,
		SkipHeaderRow: true,
	},
	EDA: {
		Name:          "EDA",
		Columns:       []string{ColValue},
		HardLimit:     &Bounds{Lower: 0.01, Upper: 30},
		Target:        ColValue,
		SkipHeaderRow: true,
	},
	TEMP: {
		Name:          "TEMP",
		Columns:       []string{ColValue},
		HardLimit:     &Bounds{Lower: 20, Upper: 42},
		Target:        ColValue,
		SkipHeaderRow: true,
	},
	BVP: {
		Name:          "BVP",
		Columns:       []string{ColValue},
		HardLimit:     &Bounds{Lower: -150, Upper: 150},
		Target:        ColValue,
		SkipHeaderRow: true,
	},
}

// AllKinds lists every supported kind in a stable order.
func AllKinds() []Kind {
	return []Kind{ACC, BVP, EDA, HR, IBI, TEMP}
}

// PolicyFor returns the cleaning policy of k.
func PolicyFor(k Kind) (Policy, error) {
	p, ok := policies[k]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %d", core.ErrUnknownSensor, int(k))
	}
	return p, nil
}

func (k Kind) String() string {
	if p, ok := policies[k]; ok {
		return p.Name
	}
	return "unknown"
}

// FileName is the per-participant file name holding this kind's samples.
func (k Kind) FileName() string {
	return k.String() + ".csv"
}

// ParseKind maps "HR", "hr" or "HR.csv" to a Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToUpper(strings.TrimSuffix(strings.TrimSpace(s), ".csv"))
	for k, p := range policies {
		if p.Name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", core.ErrUnknownSensor, s)
}
