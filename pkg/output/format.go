// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/series-forecast/internal/forecast"
	"github.com/iwvelando/series-forecast/pkg/constants"
	"github.com/iwvelando/series-forecast/pkg/cost"
	"github.com/iwvelando/series-forecast/pkg/dataset"
	"github.com/iwvelando/series-forecast/pkg/format"
	"github.com/iwvelando/series-forecast/pkg/mathutil"
	"github.com/iwvelando/series-forecast/pkg/summary"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	dataSheet    = "Data"
	summarySheet = "Summary"
	forecastNote = "forecast"
)

// Write renders the report in the named output format.
func Write(w io.Writer, outputFormat string, report *forecast.Report, currencySymbol string) error {
	switch outputFormat {
	case "", constants.OutputFormatPretty:
		return PrettyFormat(w, report, currencySymbol)
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	case constants.OutputFormatXLSX:
		return XLSXFormat(w, report)
	}
	return fmt.Errorf("unsupported output format %q", outputFormat)
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, report *forecast.Report, currencySymbol string) error {
	p := message.NewPrinter(language.English)
	d := report.Extended
	names := d.SeriesNames()

	var b strings.Builder
	fmt.Fprintf(&b, "--- Forecast (window %d, horizon %d) ---\n", report.Settings.WindowSize, report.Settings.Horizon)
	fmt.Fprintf(&b, "%s | %s | Notes\n", d.PeriodLabel(), strings.Join(names, " | "))
	for _, point := range d.Points() {
		values := make([]string, len(names))
		for i, name := range names {
			values[i] = p.Sprintf("%.2f", point.Values[name])
		}
		note := ""
		if point.Synthetic {
			note = forecastNote
		}
		fmt.Fprintf(&b, "%d | %s | %s\n", point.Period, strings.Join(values, " | "), note)
	}

	b.WriteString("\n--- Change summary ---\n")
	b.WriteString("Series | Initial | Final | Delta\n")
	for _, change := range report.Changes {
		b.WriteString(p.Sprintf("%s | %.2f | %.2f | %s\n", change.Name, change.InitialValue, change.FinalValue, format.Delta(change.Delta)))
	}
	if len(report.Changes) > 1 {
		fmt.Fprintf(&b, "Largest rise: %s (%s)\n", report.LargestRise.Name, format.Delta(report.LargestRise.Delta))
		fmt.Fprintf(&b, "Largest fall: %s (%s)\n", report.LargestFall.Name, format.Delta(report.LargestFall.Delta))
	}

	projection := report.Cost
	growth := mathutil.CalculatePercentage(projection.FinalCost-projection.InitialCost, projection.InitialCost)
	fmt.Fprintf(&b, "\n--- Cost projection (%s, %s) ---\n", report.CostSeries, report.Settings.RateUnit)
	fmt.Fprintf(&b, "Initial cost: %s\n", format.CurrencyWithSymbol(projection.InitialCost, currencySymbol))
	b.WriteString(p.Sprintf("Growth factor: %.4f\n", projection.CompoundedGrowthFactor))
	fmt.Fprintf(&b, "Final cost: %s (%s)\n", format.CurrencyWithSymbol(projection.FinalCost, currencySymbol), format.Percent(growth))

	if len(report.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(&b, "  - %s\n", warning)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// quote wraps a CSV field in double quotes, doubling any embedded quote.
func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, report *forecast.Report) error {
	d := report.Extended
	names := d.SeriesNames()

	var b strings.Builder
	b.WriteString(quote(d.PeriodLabel()))
	for _, name := range names {
		b.WriteString("," + quote(name))
	}
	b.WriteString(`,"synthetic"` + "\n")
	for _, point := range d.Points() {
		fmt.Fprintf(&b, `"%d"`, point.Period)
		for _, name := range names {
			fmt.Fprintf(&b, `,"%s"`, strconv.FormatFloat(point.Values[name], 'f', -1, 64))
		}
		fmt.Fprintf(&b, `,"%t"`+"\n", point.Synthetic)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Row is one period of a Document.
type Row struct {
	Period    int                `json:"period"`
	Values    map[string]float64 `json:"values"`
	Synthetic bool               `json:"synthetic"`
}

// Document is the JSON form of a forecast report.
type Document struct {
	PeriodLabel     string            `json:"periodLabel"`
	Series          []string          `json:"series"`
	Rows            []Row             `json:"rows"`
	ObservedChanges []summary.Change  `json:"observedChanges,omitempty"`
	Changes         []summary.Change  `json:"changes"`
	LargestRise     summary.Change    `json:"largestRise"`
	LargestFall     summary.Change    `json:"largestFall"`
	CostSeries      string            `json:"costSeries"`
	CostRates       []float64         `json:"costRates"`
	Cost            cost.Projection   `json:"cost"`
	Settings        forecast.Settings `json:"settings"`
	Warnings        []string          `json:"warnings,omitempty"`
}

// NewDocument converts a report into its JSON document form.
func NewDocument(report *forecast.Report) Document {
	doc := Document{
		PeriodLabel:     report.Extended.PeriodLabel(),
		Series:          report.Extended.SeriesNames(),
		Rows:            rows(report.Extended),
		ObservedChanges: report.ObservedChanges,
		Changes:         report.Changes,
		LargestRise:     report.LargestRise,
		LargestFall:     report.LargestFall,
		CostSeries:      report.CostSeries,
		CostRates:       report.CostRates,
		Cost:            report.Cost,
		Settings:        report.Settings,
		Warnings:        report.Warnings,
	}
	if doc.CostRates == nil {
		doc.CostRates = []float64{}
	}
	return doc
}

func rows(d *dataset.Dataset) []Row {
	points := d.Points()
	out := make([]Row, len(points))
	for i, point := range points {
		out[i] = Row{Period: point.Period, Values: point.Values, Synthetic: point.Synthetic}
	}
	return out
}

// JSONFormat outputs the report as an indented JSON document.
func JSONFormat(w io.Writer, report *forecast.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewDocument(report))
}

// XLSXFormat writes the report as a workbook with a data sheet and a summary sheet.
func XLSXFormat(w io.Writer, report *forecast.Report) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return fmt.Errorf("failed to name data sheet: %w", err)
	}

	d := report.Extended
	names := d.SeriesNames()
	header := make([]interface{}, 0, len(names)+2)
	header = append(header, d.PeriodLabel())
	for _, name := range names {
		header = append(header, name)
	}
	header = append(header, "Synthetic")
	if err := setRow(f, dataSheet, 1, header); err != nil {
		return err
	}

	for i, point := range d.Points() {
		row := make([]interface{}, 0, len(names)+2)
		row = append(row, point.Period)
		for _, name := range names {
			row = append(row, point.Values[name])
		}
		row = append(row, point.Synthetic)
		if err := setRow(f, dataSheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	summaryRows := [][]interface{}{
		{"Series", "Initial", "Final", "Delta"},
	}
	for _, change := range report.Changes {
		summaryRows = append(summaryRows, []interface{}{change.Name, change.InitialValue, change.FinalValue, change.Delta})
	}
	summaryRows = append(summaryRows,
		[]interface{}{},
		[]interface{}{"Cost series", report.CostSeries},
		[]interface{}{"Initial cost", report.Cost.InitialCost},
		[]interface{}{"Growth factor", report.Cost.CompoundedGrowthFactor},
		[]interface{}{"Final cost", report.Cost.FinalCost},
	)
	for i, row := range summaryRows {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
