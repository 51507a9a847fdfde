// Package forecast defines the data structures related to a given forecast and
// includes functions for computing the forecasts.
package forecast

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/series-forecast/internal/config"
	"github.com/iwvelando/series-forecast/pkg/constants"
	"github.com/iwvelando/series-forecast/pkg/cost"
	"github.com/iwvelando/series-forecast/pkg/dataset"
	"github.com/iwvelando/series-forecast/pkg/extrapolate"
	"github.com/iwvelando/series-forecast/pkg/parser"
	"github.com/iwvelando/series-forecast/pkg/summary"
	"github.com/iwvelando/series-forecast/pkg/validation"
	"go.uber.org/zap"
)

// Settings holds the parameters of one forecast run.
type Settings struct {
	WindowSize  int           `json:"windowSize"`
	Horizon     int           `json:"horizon"`
	InitialCost float64       `json:"initialCost"`
	RateUnit    cost.RateUnit `json:"rateUnit"`
	CostSeries  string        `json:"costSeries,omitempty"`
}

// SettingsFromConfig converts the forecast section of a configuration.
func SettingsFromConfig(conf config.ForecastConfig) (Settings, error) {
	unit, err := conf.Unit()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		WindowSize:  conf.WindowSize,
		Horizon:     conf.Horizon,
		InitialCost: conf.InitialCost,
		RateUnit:    unit,
		CostSeries:  conf.CostSeries,
	}, nil
}

// Report holds all information related to a specific forecast.
type Report struct {
	Observed *dataset.Dataset
	Extended *dataset.Dataset

	// ObservedChanges summarizes the observed periods only. It is empty when
	// fewer than two periods were observed.
	ObservedChanges []summary.Change
	// Changes summarizes the extended dataset, forecasts included.
	Changes     []summary.Change
	LargestRise summary.Change
	LargestFall summary.Change

	CostSeries string
	CostRates  []float64
	Cost       cost.Projection

	Settings Settings
	Warnings []string
}

// LoadDataset reads the configured input file and parses it.
func LoadDataset(logger *zap.Logger, in config.InputConfig) (*dataset.Dataset, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if in.Path == "" {
		return nil, fmt.Errorf("no input path configured")
	}

	data, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input %s: %w", in.Path, err)
	}

	logger.Debug(fmt.Sprintf("read %d bytes from %s", len(data), in.Path),
		zap.String("op", "forecast.LoadDataset"),
	)
	return ParseInput(bytes.NewReader(data), in)
}

// ParseInput parses a text or xlsx payload according to the input config.
func ParseInput(r io.Reader, in config.InputConfig) (*dataset.Dataset, error) {
	format := in.Format
	if format == "" {
		format = constants.InputFormatText
	}
	if err := validation.ValidateInputFormat(format); err != nil {
		return nil, err
	}

	if format == constants.InputFormatXLSX {
		opts, err := in.WorkbookOptions()
		if err != nil {
			return nil, err
		}
		d, err := parser.ParseWorkbook(r, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse workbook: %w", err)
		}
		return d, nil
	}

	opts, err := in.ParserOptions()
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	d, err := parser.ParseWithOptions(string(raw), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	return d, nil
}

// GetForecast extrapolates the dataset, summarizes the change of every series
// and compounds the initial cost over the forecast values of the cost series.
func GetForecast(logger *zap.Logger, d *dataset.Dataset, settings Settings) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	report := &Report{
		Observed: d,
		Settings: settings,
		Warnings: validation.ValidateForecastSettings(d.ObservedLen(), settings.WindowSize, settings.Horizon),
	}

	extended, err := extrapolate.Extrapolate(d, settings.WindowSize, settings.Horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to extrapolate: %w", err)
	}
	report.Extended = extended
	logger.Debug(fmt.Sprintf("extrapolated %d period(s) from %d observed", extended.Len()-d.Len(), d.Len()),
		zap.String("op", "forecast.GetForecast"),
		zap.Int("windowSize", settings.WindowSize),
	)

	if d.Len() >= 2 {
		report.ObservedChanges, err = summary.Summarize(d)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize observed data: %w", err)
		}
	} else {
		report.Warnings = append(report.Warnings, "fewer than two observed periods; observed change summary skipped")
	}

	report.Changes, err = summary.Summarize(extended)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize forecast: %w", err)
	}
	report.LargestRise, report.LargestFall, _ = summary.Extremes(report.Changes)

	report.CostSeries = settings.CostSeries
	if report.CostSeries == "" {
		report.CostSeries = d.Primary()
	}
	if err := validation.ValidateCostSeries(report.CostSeries, d.SeriesNames()); err != nil {
		return nil, err
	}

	report.CostRates, err = extended.SyntheticValues(report.CostSeries)
	if err != nil {
		return nil, err
	}
	report.Cost, err = cost.Project(settings.InitialCost, report.CostRates, settings.RateUnit)
	if err != nil {
		return nil, fmt.Errorf("failed to project cost: %w", err)
	}

	for _, warning := range report.Warnings {
		logger.Debug("forecast warning: "+warning,
			zap.String("op", "forecast.GetForecast"),
		)
	}
	logger.Debug("forecast computed",
		zap.String("op", "forecast.GetForecast"),
		zap.Int("series", len(d.SeriesNames())),
		zap.Int("periods", extended.Len()),
		zap.String("costSeries", report.CostSeries),
		zap.Float64("finalCost", report.Cost.FinalCost),
	)

	return report, nil
}

// Run loads the configured input and computes its forecast.
func Run(logger *zap.Logger, conf config.Configuration) (*Report, error) {
	settings, err := SettingsFromConfig(conf.Forecast)
	if err != nil {
		return nil, err
	}
	d, err := LoadDataset(logger, conf.Input)
	if err != nil {
		return nil, err
	}
	return GetForecast(logger, d, settings)
}
