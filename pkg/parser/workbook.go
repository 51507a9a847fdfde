package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/series-forecast/pkg/dataset"
	"github.com/xuri/excelize/v2"
)

// WorkbookOptions holds options for reading an Excel workbook.
type WorkbookOptions struct {
	Options
	Sheet string // Sheet to read (default: first sheet)
}

// ParseWorkbook reads one sheet of an XLSX workbook using the same rules as
// ParseWithOptions. Line numbers in errors are sheet row numbers.
func ParseWorkbook(r io.Reader, opts *WorkbookOptions) (*dataset.Dataset, error) {
	if opts == nil {
		opts = &WorkbookOptions{Options: *DefaultOptions()}
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyInput
		}
		sheet = sheets[0]
	}

	// Raw values, so number formats such as "#,##0.00" do not reach the parser.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	records := make([]record, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		records = append(records, record{line: i + 1, fields: row})
	}

	return parseRecords(records, &opts.Options)
}
