// Package parser turns delimited text and Excel workbooks into datasets.
//
// The first non-blank line is the header. Its first column labels the period
// (an integer such as a year) and every other column names a series. Each data
// line must have exactly as many fields as the header. There is no quoting or
// escaping.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/series-forecast/pkg/constants"
	"github.com/iwvelando/series-forecast/pkg/dataset"
)

// Options holds options for parsing delimited text.
type Options struct {
	Delimiter   rune   // Field delimiter; 0 detects tab, comma or semicolon from the first line
	NoHeader    bool   // Every line is data; series names are generated
	PeriodLabel string // Period column label when NoHeader is set (default: "year")
	NameFormat  string // Series name format when NoHeader is set, given the 1-based column (default: "series%d")
}

// DefaultOptions returns default options for parsing.
func DefaultOptions() *Options {
	return &Options{
		PeriodLabel: constants.DefaultPeriodLabel,
		NameFormat:  constants.DefaultSeriesNameFormat,
	}
}

type record struct {
	line   int
	fields []string
}

// Parse parses raw delimited text whose first line is a header.
func Parse(raw string, delimiter rune) (*dataset.Dataset, error) {
	opts := DefaultOptions()
	opts.Delimiter = delimiter
	return ParseWithOptions(raw, opts)
}

// ParseWithOptions parses raw delimited text. Parsing is all-or-nothing: the
// first error aborts and no dataset is returned.
func ParseWithOptions(raw string, opts *Options) (*dataset.Dataset, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, ErrEmptyInput
	}

	lines := strings.Split(text, "\n")
	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = DetectDelimiter(lines[0])
	}

	records := make([]record, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, record{line: i + 1, fields: strings.Split(line, string(delimiter))})
	}

	return parseRecords(records, opts)
}

// DetectDelimiter picks the most frequent of tab, comma and semicolon in a
// line, preferring them in that order on ties. A line with none of them
// yields a comma.
func DetectDelimiter(line string) rune {
	best, bestCount := ',', 0
	for _, candidate := range []rune{'\t', ',', ';'} {
		if n := strings.Count(line, string(candidate)); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	return best
}

func parseRecords(records []record, opts *Options) (*dataset.Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	periodLabel, names, rows, err := splitHeader(records, opts)
	if err != nil {
		return nil, err
	}

	builder, err := dataset.NewBuilder(periodLabel, names)
	if err != nil {
		return nil, err
	}

	width := len(names) + 1
	values := make([]float64, len(names))
	for _, rec := range rows {
		if len(rec.fields) != width {
			return nil, &MalformedRowError{Line: rec.line, Fields: len(rec.fields), Expected: width}
		}

		periodField := strings.TrimSpace(rec.fields[0])
		period, err := strconv.Atoi(periodField)
		if err != nil {
			return nil, &InvalidValueError{Line: rec.line, Column: periodLabel, Value: periodField, Err: err}
		}

		for i, field := range rec.fields[1:] {
			field = strings.TrimSpace(field)
			v, err := strconv.ParseFloat(field, 64)
			if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
				err = errNonFinite
			}
			if err != nil {
				return nil, &InvalidValueError{Line: rec.line, Column: names[i], Value: field, Err: err}
			}
			values[i] = v
		}

		if err := builder.Add(period, values, false); err != nil {
			return nil, err
		}
	}

	return builder.Build(), nil
}

// splitHeader returns the period label, series names and the data records.
func splitHeader(records []record, opts *Options) (string, []string, []record, error) {
	if opts.NoHeader {
		width := len(records[0].fields)
		if width < 2 {
			return "", nil, nil, &MalformedRowError{Line: records[0].line, Fields: width, Expected: 2,
				Reason: "a row needs a period column and at least one series column"}
		}
		label := opts.PeriodLabel
		if label == "" {
			label = constants.DefaultPeriodLabel
		}
		format := opts.NameFormat
		if format == "" {
			format = constants.DefaultSeriesNameFormat
		}
		names := make([]string, width-1)
		for i := range names {
			names[i] = fmt.Sprintf(format, i+1)
		}
		return label, names, records, nil
	}

	header := records[0]
	if len(header.fields) < 2 {
		return "", nil, nil, &MalformedRowError{Line: header.line, Fields: len(header.fields), Expected: 2,
			Reason: "header needs a period column and at least one series column"}
	}

	label := strings.TrimSpace(header.fields[0])
	names := make([]string, len(header.fields)-1)
	for i, field := range header.fields[1:] {
		names[i] = strings.TrimSpace(field)
		if names[i] == "" {
			return "", nil, nil, &MalformedRowError{Line: header.line, Fields: len(header.fields), Expected: len(header.fields),
				Reason: fmt.Sprintf("header column %d is blank", i+2)}
		}
	}
	return label, names, records[1:], nil
}
