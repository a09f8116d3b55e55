package demographics

import (
	"wearprep/adapters/datareadiness/coercer"
	"wearprep/adapters/excel"
	"wearprep/internal"
	"wearprep/internal/errors"
)

// Options names the designated columns of the users info table
type Options struct {
	// ActivityColumn holds Yes/No answers and is mapped to ActivityTarget.
	ActivityColumn string
	ActivityTarget string
	// OneHotColumns are encoded with drop-first indicators.
	OneHotColumns []string
	// ConditionColumns identify the experimental condition. They leak the
	// label and are always removed.
	ConditionColumns []string
}

// DefaultOptions returns the column names of the users info table
func DefaultOptions() Options {
	return Options{
		ActivityColumn:   "Does physical activity regularly?",
		ActivityTarget:   "activity_regularly",
		OneHotColumns:    []string{"Gender", "Protocol"},
		ConditionColumns: []string{"Stress Inducement", "Aerobic Exercise", "Anaerobic Exercise"},
	}
}

// Result is a cleaned table plus the imputation report
type Result struct {
	Table       *Table
	Imputations []ImputationRecord
}

// Cleaner runs the demographics cleaning steps
type Cleaner struct {
	opts    Options
	source  excel.ExcelConfig
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// NewCleaner creates a cleaner. source supplies the footer skip count and the
// missing-value placeholder used by CleanFile.
func NewCleaner(opts Options, source excel.ExcelConfig, logger *internal.Logger) *Cleaner {
	return &Cleaner{
		opts:    opts,
		source:  source,
		coercer: coercer.NewTypeCoercer(source.CoercionConfig),
		logger:  internal.OrDefault(logger).With("Demographics"),
	}
}

// CleanFile loads the table at path and cleans it. Load failures are returned
// as NOT_FOUND or MALFORMED errors with no partial table.
func (c *Cleaner) CleanFile(path string) (*Result, error) {
	cfg := c.source
	cfg.FilePath = path

	rec, err := excel.NewDataReader(cfg).ReadData()
	if err != nil {
		c.logger.Error("could not load %s: %v", path, err)
		return nil, errors.Wrap(err, "failed to load users info")
	}
	c.logger.Info("loaded %s (%d participants, %d columns)", path, rec.Len(), len(rec.Headers))

	return c.Clean(FromRecords(rec, c.coercer)), nil
}

// Clean imputes, encodes and drops condition columns
func (c *Cleaner) Clean(t *Table) *Result {
	imputed, records := Impute(t)
	for _, r := range records {
		c.logger.Info("%s", r)
	}

	out, ok := MapYesNo(imputed, c.opts.ActivityColumn, c.opts.ActivityTarget)
	if ok {
		c.logger.Info("column '%s' mapped to 0/1 as '%s'", c.opts.ActivityColumn, c.opts.ActivityTarget)
	}

	out, skipped := OneHot(out, c.opts.OneHotColumns...)
	for _, s := range skipped {
		c.logger.Warn("one-hot column '%s' not present", s)
	}

	out = DropColumns(out, c.opts.ConditionColumns...)
	c.logger.Info("cleaned table has %d rows and columns %v", out.Len(), out.Names())

	return &Result{Table: out, Imputations: records}
}
