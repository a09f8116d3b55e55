package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wearprep/domain/core"
	"wearprep/internal"
	apperrors "wearprep/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading delimited text and Excel tables with a header
// row and a trailing non-data footer
type DataReader struct {
	config   ExcelConfig
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a reader for config.FilePath. ".xlsx" files are read
// as workbooks; every other extension (.csv, .txt) as comma-separated text.
func NewDataReader(config ExcelConfig) *DataReader {
	fileType := "csv"
	if strings.EqualFold(filepath.Ext(config.FilePath), ".xlsx") {
		fileType = "xlsx"
	}
	return &DataReader{config: config, fileType: fileType, logger: internal.DefaultLogger.With("DataReader")}
}

// ReadData loads the table. A missing file is a NOT_FOUND load error and an
// unparseable one a MALFORMED load error.
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.logger.Debug("starting to read %s file: %s", r.fileType, r.config.FilePath)

	if _, err := os.Stat(r.config.FilePath); os.IsNotExist(err) {
		return nil, apperrors.NotFound(r.config.FilePath, core.NewNotFoundError("table", r.config.FilePath))
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		rows, err = r.readCSVRows()
	}
	if err != nil {
		return nil, apperrors.Malformed(r.config.FilePath, err)
	}

	data, err := r.processRows(rows)
	if err != nil {
		return nil, apperrors.Malformed(r.config.FilePath, err)
	}
	return data, nil
}

// readExcelRows reads the configured sheet and drops the footer rows
func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %v", core.ErrMalformed, err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %v", core.ErrMalformed, sheet, err)
	}
	r.logger.Debug("sheet %s read in %.2fms (%d rows)", sheet,
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	for len(rows) > 0 && isBlank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return dropFooter(rows, r.config.FooterRows), nil
}

// readCSVRows drops the footer lines before parsing, so free-text footnotes
// never reach the CSV parser
func (r *DataReader) readCSVRows() ([][]string, error) {
	content, err := os.ReadFile(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformed, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	lines = dropFooter(lines, r.config.FooterRows)

	reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformed, err)
	}
	r.logger.Debug("CSV file read (%d rows, %d footer lines skipped)", len(rows), r.config.FooterRows)
	return rows, nil
}

// processRows converts raw string rows into ExcelData format
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", core.ErrMalformed)
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		if len(row) > len(headers) {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d",
				core.ErrMalformed, i, len(row), len(headers))
		}
		cells := make([]string, len(headers))
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		dataRows = append(dataRows, cells)
	}

	r.logger.Debug("%s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{
		Source:  r.config.FilePath,
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

func dropFooter[T any](rows []T, n int) []T {
	if n <= 0 {
		return rows
	}
	if n >= len(rows) {
		return rows[:0]
	}
	return rows[:len(rows)-n]
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
