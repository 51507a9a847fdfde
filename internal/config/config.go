// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/series-forecast/pkg/constants"
	"github.com/iwvelando/series-forecast/pkg/cost"
	"github.com/iwvelando/series-forecast/pkg/parser"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for series-forecast.
type Configuration struct {
	Input    InputConfig    `yaml:"input"`
	Forecast ForecastConfig `yaml:"forecast"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty"`
}

// InputConfig describes where the dataset comes from and how to read it.
type InputConfig struct {
	Path       string `yaml:"path,omitempty"`
	Format     string `yaml:"format,omitempty" validate:"omitempty,oneof=text xlsx"` // text, xlsx
	Delimiter  string `yaml:"delimiter,omitempty"`                                    // auto, comma, tab, semicolon or a single character
	NoHeader   bool   `yaml:"noHeader,omitempty"`
	NameFormat string `yaml:"nameFormat,omitempty"` // series names for headerless input, e.g. room%dPrice
	Sheet      string `yaml:"sheet,omitempty"`      // workbook sheet for xlsx input
}

// ForecastConfig holds the extrapolation and cost projection parameters.
type ForecastConfig struct {
	WindowSize  int     `yaml:"windowSize" validate:"gte=1"`
	Horizon     int     `yaml:"horizon" validate:"gte=0"`
	InitialCost float64 `yaml:"initialCost" validate:"gte=0"`
	RateUnit    string  `yaml:"rateUnit" validate:"oneof=percent fraction"`
	CostSeries  string  `yaml:"costSeries,omitempty"` // defaults to the first series
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	Format     string `yaml:"format,omitempty" validate:"omitempty,oneof=json console"`
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format         string `yaml:"format,omitempty" validate:"omitempty,oneof=pretty csv json xlsx"`
	CurrencySymbol string `yaml:"currencySymbol,omitempty"`
	Path           string `yaml:"path,omitempty"` // file for xlsx output; stdout otherwise
}

// Default returns a configuration populated with the built-in defaults.
func Default() *Configuration {
	return &Configuration{
		Input: InputConfig{
			Format: constants.InputFormatText,
		},
		Forecast: ForecastConfig{
			WindowSize:  constants.DefaultWindowSize,
			Horizon:     constants.DefaultHorizon,
			InitialCost: constants.DefaultInitialCost,
			RateUnit:    constants.RateUnitPercent,
		},
		Output: OutputConfig{
			Format:         constants.OutputFormatPretty,
			CurrencySymbol: "$",
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	defaults := Default()

	v.SetDefault("input.format", defaults.Input.Format)
	v.SetDefault("input.delimiter", "")
	v.SetDefault("input.path", "")
	v.SetDefault("input.noheader", false)
	v.SetDefault("input.nameformat", "")
	v.SetDefault("input.sheet", "")
	v.SetDefault("forecast.windowsize", defaults.Forecast.WindowSize)
	v.SetDefault("forecast.horizon", defaults.Forecast.Horizon)
	v.SetDefault("forecast.initialcost", defaults.Forecast.InitialCost)
	v.SetDefault("forecast.rateunit", defaults.Forecast.RateUnit)
	v.SetDefault("forecast.costseries", "")
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputfile", "")
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.currencysymbol", defaults.Output.CurrencySymbol)
	v.SetDefault("output.path", "")

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate checks the configuration for values that cannot be used.
func (c *Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.Input.DelimiterRune(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := cost.ParseRateUnit(c.Forecast.RateUnit); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Forecast.InitialCost == 0 {
		warnings = append(warnings, "forecast.initialCost is 0; the projected cost will always be 0")
	}
	if c.Input.Format == constants.InputFormatXLSX && c.Input.Delimiter != "" {
		warnings = append(warnings, "input.delimiter is ignored for xlsx input")
	}
	if !c.Input.NoHeader && c.Input.NameFormat != "" {
		warnings = append(warnings, "input.nameFormat is only used when input.noHeader is set")
	}
	if c.Output.Format == constants.OutputFormatXLSX && c.Output.Path == "" {
		warnings = append(warnings, "output.path is empty; the xlsx workbook will be written to stdout")
	}

	return warnings
}

// DelimiterRune converts the configured delimiter to a rune. Zero means the
// delimiter is detected from the header line.
func (in InputConfig) DelimiterRune() (rune, error) {
	switch strings.ToLower(in.Delimiter) {
	case "", "auto":
		return 0, nil
	case "comma":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	case "semicolon":
		return ';', nil
	}
	if utf8.RuneCountInString(in.Delimiter) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", in.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(in.Delimiter)
	return r, nil
}

// ParserOptions returns the text parser options for this input.
func (in InputConfig) ParserOptions() (*parser.Options, error) {
	delimiter, err := in.DelimiterRune()
	if err != nil {
		return nil, err
	}

	opts := parser.DefaultOptions()
	opts.Delimiter = delimiter
	opts.NoHeader = in.NoHeader
	if in.NameFormat != "" {
		opts.NameFormat = in.NameFormat
	}
	return opts, nil
}

// WorkbookOptions returns the workbook parser options for this input.
func (in InputConfig) WorkbookOptions() (*parser.WorkbookOptions, error) {
	opts, err := in.ParserOptions()
	if err != nil {
		return nil, err
	}
	return &parser.WorkbookOptions{Options: *opts, Sheet: in.Sheet}, nil
}

// Unit returns the parsed cost rate unit.
func (f ForecastConfig) Unit() (cost.RateUnit, error) {
	return cost.ParseRateUnit(f.RateUnit)
}
