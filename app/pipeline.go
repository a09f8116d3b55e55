package app

import (
	"context"
	"os"

	"wearprep/adapters/datareadiness/coercer"
	"wearprep/adapters/db/postgres/migrations"
	"wearprep/adapters/excel"
	"wearprep/adapters/postgres"
	"wearprep/domain/core"
	"wearprep/domain/sensor"
	"wearprep/internal"
	"wearprep/internal/config"
	"wearprep/internal/demographics"
	"wearprep/internal/errors"
	"wearprep/internal/profiling"
	"wearprep/internal/report"
	"wearprep/internal/signal"
	"wearprep/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Pipeline wires the configured adapters around the cleaning service and
// runs sensors, demographics and exports in one pass.
type Pipeline struct {
	cfg          *config.Config
	participants []core.ParticipantID
	kinds        []sensor.Kind
	service      *CleaningService
	demographics *demographics.Cleaner
	db           *sqlx.DB
	logger       *internal.Logger
}

// NewPipelineFromConfig validates the run selection and builds the adapters.
// When Database.URL is set the connection is opened and migrated.
func NewPipelineFromConfig(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*Pipeline, error) {
	logger = internal.OrDefault(logger)

	participants, err := parseParticipants(cfg.Data.Participants)
	if err != nil {
		return nil, err
	}
	kinds, err := parseKinds(cfg.Data.Sensors)
	if err != nil {
		return nil, err
	}

	coercion := coercer.DefaultCoercionConfig()
	if na := cfg.Demographics.NAPlaceholder; na != "" {
		coercion.MissingMarkers = appendMissing(coercion.MissingMarkers, na)
	}

	p := &Pipeline{
		cfg:          cfg,
		participants: participants,
		kinds:        kinds,
		logger:       logger.With("Pipeline"),
	}

	var store ports.SignalStore
	if cfg.Database.URL != "" {
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
		if err != nil {
			return nil, errors.DatabaseError("failed to connect", err)
		}
		if err := migrations.NewMigrator(db.DB, logger).Up(ctx); err != nil {
			db.Close()
			return nil, errors.DatabaseError("failed to migrate", err)
		}
		p.db = db
		store = postgres.NewSignalRepository(db)
	}

	cleaner := signal.NewCleaner(coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()), logger)
	p.service = NewCleaningService(excel.NewSensorReader(cfg.Data.Dir), cleaner, store, cfg.Batch.Workers, logger)

	if cfg.Demographics.UsersInfoFile != "" {
		source := excel.DefaultExcelConfig()
		source.FooterRows = cfg.Demographics.FooterRows
		source.CoercionConfig = coercion
		p.demographics = demographics.NewCleaner(demographics.DefaultOptions(), source, logger)
	}
	return p, nil
}

// Run cleans every configured unit, then the demographics table, then writes
// the configured exports. Unit and demographics failures are reported in the
// summary; export failures and cancellation are returned.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	summary, err := p.service.Run(ctx, p.participants, p.kinds)
	if err != nil {
		return nil, err
	}

	if p.demographics != nil {
		res, err := p.demographics.CleanFile(p.cfg.Demographics.UsersInfoFile)
		summary.Demographics, summary.DemographicsErr = res, err
	}

	if path := p.cfg.Output.XLSXFile; path != "" {
		sheets := Sheets(summary)
		if len(sheets) == 0 {
			p.logger.Warn("nothing to export to %s", path)
		} else if err := excel.NewWriter(path, p.logger).Write(sheets); err != nil {
			return summary, errors.Wrap(err, "failed to export workbook")
		}
	}
	if path := p.cfg.Output.ReportHTML; path != "" {
		if err := os.WriteFile(path, report.HTML(ReportView(summary)), 0o644); err != nil {
			return summary, errors.Wrap(err, "failed to write report")
		}
		p.logger.Info("report written to %s", path)
	}
	return summary, nil
}

// Close releases the database connection, if any
func (p *Pipeline) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// Sheets lays out every cleaned signal and the demographics table for export
func Sheets(summary *RunSummary) []excel.Sheet {
	var sheets []excel.Sheet
	for _, sig := range summary.Signals() {
		sheets = append(sheets, excel.SignalSheet(sig))
	}
	if d := summary.Demographics; d != nil {
		sheets = append(sheets, excel.Sheet{Name: "demographics", Headers: d.Table.Names(), Rows: d.Table.Rows()})
	}
	return sheets
}

// ReportView converts a summary into the report model, profiling each signal
// and computing a common range per sensor kind.
func ReportView(summary *RunSummary) report.Run {
	run := report.Run{
		ID:        summary.RunID.String(),
		StartedAt: summary.StartedAt,
		Duration:  summary.Finished.Sub(summary.StartedAt),
		Ranges:    make(map[string]profiling.Range),
	}

	byKind := make(map[sensor.Kind][]*sensor.CleanedSignal)
	for _, o := range summary.Outcomes {
		u := report.Unit{
			Participant: o.Participant.String(),
			Kind:        o.Kind.String(),
			Status:      o.Status(),
			Duration:    o.Duration,
		}
		if o.Err != nil {
			u.Error = o.Err.Error()
		}
		if sig := o.Signal; sig != nil {
			u.InputRows = sig.InputRows
			u.Samples = sig.Len()
			u.Stats = sig.Stats
			if prof, err := profiling.Summarize(sig.Values); err == nil {
				u.Profile = &prof
			}
			byKind[sig.Kind] = append(byKind[sig.Kind], sig)
		}
		run.Units = append(run.Units, u)
	}
	for kind, sigs := range byKind {
		if r, err := profiling.GlobalRange(sigs); err == nil {
			run.Ranges[kind.String()] = r
		}
	}

	if summary.DemographicsErr != nil {
		run.DemographicsErr = summary.DemographicsErr.Error()
	} else if d := summary.Demographics; d != nil {
		run.DemographicRows = d.Table.Len()
		run.DemographicCols = d.Table.Names()
		for _, rec := range d.Imputations {
			run.Imputations = append(run.Imputations, rec.String())
		}
	}
	return run
}

func parseParticipants(names []string) ([]core.ParticipantID, error) {
	if len(names) == 0 {
		return nil, errors.InvalidInput("no participants configured")
	}
	out := make([]core.ParticipantID, 0, len(names))
	for _, n := range names {
		id, err := core.ParseParticipantID(n)
		if err != nil {
			return nil, errors.InvalidInput(err.Error())
		}
		out = append(out, id)
	}
	return out, nil
}

func parseKinds(names []string) ([]sensor.Kind, error) {
	if len(names) == 0 {
		return sensor.AllKinds(), nil
	}
	out := make([]sensor.Kind, 0, len(names))
	for _, n := range names {
		k, err := sensor.ParseKind(n)
		if err != nil {
			return nil, errors.InvalidInput(err.Error())
		}
		out = append(out, k)
	}
	return out, nil
}

func appendMissing(markers []string, marker string) []string {
	for _, m := range markers {
		if m == marker {
			return markers
		}
	}
	return append(append([]string(nil), markers...), marker)
}
