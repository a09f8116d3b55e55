package excel

import "wearprep/adapters/datareadiness/coercer"

// ExcelConfig holds configuration for tabular data sources
type ExcelConfig struct {
	FilePath string `json:"file_path"`
	// FooterRows is the number of trailing non-data lines to drop.
	FooterRows int `json:"footer_rows"`
	// Sheet selects the XLSX sheet; empty means the first sheet.
	Sheet          string                 `json:"sheet"`
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultExcelConfig returns defaults for the users info table
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		FooterRows:     10,
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
