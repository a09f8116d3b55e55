package excel

import "wearprep/domain/dataset"

// ExcelData is the loaded header and rows of a table
type ExcelData = dataset.Records
