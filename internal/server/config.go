package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/series-forecast/internal/config"
	"github.com/iwvelando/series-forecast/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address       string               `yaml:"address"`
	MaxUploadSize string               `yaml:"maxUploadSize"`
	ReadTimeout   string               `yaml:"readTimeout,omitempty"`
	Logging       config.LoggingConfig `yaml:"logging"`
	// Forecast holds the parameters used when a request leaves them out.
	Forecast config.ForecastConfig `yaml:"forecast"`

	uploadSizeBytes int64
	readTimeout     time.Duration
}

// DefaultConfig returns the server configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Address:         constants.DefaultServerAddress,
		MaxUploadSize:   strconv.FormatInt(constants.DefaultMaxUploadSizeBytes, 10),
		ReadTimeout:     constants.DefaultReadTimeout.String(),
		Forecast:        config.Default().Forecast,
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
		readTimeout:     constants.DefaultReadTimeout,
	}
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the configured upload size.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = strconv.FormatInt(size, 10)
	}
}

// ReadTimeoutDuration returns the parsed read timeout.
func (c *Config) ReadTimeoutDuration() time.Duration {
	return c.readTimeout
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	size, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = size

	c.readTimeout = constants.DefaultReadTimeout
	if timeout := strings.TrimSpace(c.ReadTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid readTimeout %q: %w", c.ReadTimeout, err)
		}
		if d > 0 {
			c.readTimeout = d
		}
	}

	forecastDefaults := config.Configuration{
		Input:    config.InputConfig{Format: constants.InputFormatText},
		Forecast: c.Forecast,
	}
	if err := forecastDefaults.Validate(); err != nil {
		return fmt.Errorf("invalid server forecast defaults: %w", err)
	}
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(upper[:idx]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch strings.TrimSpace(upper[idx:]) {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1 << 10
	case "M", "MB":
		multiplier = 1 << 20
	case "G", "GB":
		multiplier = 1 << 30
	default:
		return 0, fmt.Errorf("unsupported size unit %q", upper[idx:])
	}

	result := n * multiplier
	if result < 0 || (n != 0 && result/multiplier != n) {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
