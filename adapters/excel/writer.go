package excel

import (
	"fmt"
	"strings"

	"wearprep/domain/sensor"
	"wearprep/internal"

	"github.com/xuri/excelize/v2"
)

// maxSheetName is Excel's sheet name length limit
const maxSheetName = 31

// Sheet is one worksheet to export
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// SignalSheet lays out a cleaned signal as a worksheet named
// <participant>_<KIND>: a value column, preceded by Timestamp for IBI.
func SignalSheet(sig *sensor.CleanedSignal) Sheet {
	sh := Sheet{Name: SheetName(sig.Participant.String() + "_" + sig.Kind.String())}
	if sig.Timestamps != nil {
		sh.Headers = []string{sensor.ColTimestamp, sensor.ColInterval}
	} else {
		sh.Headers = []string{sensor.ColValue}
	}

	sh.Rows = make([][]interface{}, sig.Len())
	for i, v := range sig.Values {
		if sig.Timestamps != nil {
			sh.Rows[i] = []interface{}{sig.Timestamps[i], v}
		} else {
			sh.Rows[i] = []interface{}{v}
		}
	}
	return sh
}

// SheetName strips characters Excel forbids in sheet names and truncates.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

// Writer exports sheets to an .xlsx workbook
type Writer struct {
	filePath string
	logger   *internal.Logger
}

// NewWriter creates a writer for filePath
func NewWriter(filePath string, logger *internal.Logger) *Writer {
	return &Writer{filePath: filePath, logger: internal.OrDefault(logger).With("Writer")}
}

// Write saves all sheets into a new workbook, replacing any existing file.
func (w *Writer) Write(sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	seen := make(map[string]bool, len(sheets))
	for i, sh := range sheets {
		name := SheetName(sh.Name)
		if seen[name] {
			return fmt.Errorf("duplicate sheet name %q", name)
		}
		seen[name] = true

		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("failed to rename first sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}

		headers := sh.Headers
		if err := f.SetSheetRow(name, "A1", &headers); err != nil {
			return fmt.Errorf("failed to write header of %s: %w", name, err)
		}
		for r, row := range sh.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			row := row
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("failed to write row %d of %s: %w", r, name, err)
			}
		}
	}

	if err := f.SaveAs(w.filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	w.logger.Info("saved %d sheets to %s", len(sheets), w.filePath)
	return nil
}
