// Package constants provides shared constants for the series-forecast application.
package constants

import "time"

// Forecast defaults
const (
	// DefaultWindowSize is the number of trailing values averaged per forecast step
	DefaultWindowSize = 5

	// DefaultHorizon is the number of future periods to extrapolate
	DefaultHorizon = 5

	// DefaultInitialCost is the starting cost compounded over the forecast rates
	DefaultInitialCost = 100.0

	// DefaultPeriodLabel is the period column label used when the input has no header
	DefaultPeriodLabel = "year"

	// DefaultSeriesNameFormat names generated series columns for headerless input
	DefaultSeriesNameFormat = "series%d"
)

// Rate unit constants
const (
	// RateUnitPercent expresses growth rates as percentages, e.g. 7.5
	RateUnitPercent = "percent"

	// RateUnitFraction expresses growth rates as fractions, e.g. 0.075
	RateUnitFraction = "fraction"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatXLSX is the Excel workbook output format
	OutputFormatXLSX = "xlsx"
)

// Input format constants
const (
	// InputFormatText is delimited plain text
	InputFormatText = "text"

	// InputFormatXLSX is an Excel workbook
	InputFormatXLSX = "xlsx"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment variable overrides for the configuration
	EnvPrefix = "SERIESFORECAST"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for datasets (1 MB)
	DefaultMaxUploadSizeBytes int64 = 1024 * 1024

	// DefaultReadTimeout bounds how long the server waits for a request
	DefaultReadTimeout = 30 * time.Second

	// MaxPaletteSize caps the number of colors served by the palette endpoint
	MaxPaletteSize = 256
)

// Numeric constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// FloatTolerance is the tolerance used when comparing computed values
	FloatTolerance = 1e-9
)
