package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/iwvelando/series-forecast/internal/config"
	"github.com/iwvelando/series-forecast/internal/forecast"
	"github.com/iwvelando/series-forecast/internal/server"
	"github.com/iwvelando/series-forecast/pkg/constants"
	"github.com/iwvelando/series-forecast/pkg/output"
	"github.com/iwvelando/series-forecast/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	// Logs go to stderr so stdout stays clean for the report.
	zapConfig.OutputPaths = []string{"stderr"}
	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}

		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// loadConfiguration reads the config file. A missing file at the default
// location falls back to the built-in defaults.
func loadConfiguration(path string) (*config.Configuration, error) {
	conf, err := config.LoadConfiguration(path)
	if err == nil {
		return conf, nil
	}
	if path == constants.DefaultConfigFile {
		if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
			return config.Default(), nil
		}
	}
	return nil, err
}

func fatalf(msg string, err error) {
	fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": %q, \"error\": %q}\n", msg, fmt.Sprint(err))
	os.Exit(1)
}

func serve(serverConfigPath, logLevel string) {
	cfg, err := server.LoadConfig(serverConfigPath)
	if err != nil {
		fatalf(fmt.Sprintf("failed to load server configuration at %s", serverConfigPath), err)
	}

	logger, err := initializeLogger(cfg.Logging, logLevel)
	if err != nil {
		fatalf("failed to initialize logger", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, logger, cfg, version); err != nil {
		logger.Fatal("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	inputPath := flag.String("input", "", "dataset file override")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json, xlsx")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serveFlag := flag.Bool("serve", false, "run the HTTP API instead of a one-off forecast")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	flag.Parse()

	if *serveFlag {
		serve(*serverConfigLocation, *logLevel)
		return
	}

	conf, err := loadConfiguration(*configLocation)
	if err != nil {
		fatalf(fmt.Sprintf("failed to load configuration at %s", *configLocation), err)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fatalf("failed to initialize logger", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *inputPath != "" {
		conf.Input.Path = *inputPath
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	report, err := forecast.Run(logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute forecast",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	for _, warning := range report.Warnings {
		logger.Warn("Forecast warning: "+warning,
			zap.String("op", "main"),
		)
	}

	var w io.Writer = os.Stdout
	if conf.Output.Path != "" {
		file, err := os.Create(conf.Output.Path)
		if err != nil {
			logger.Fatal("failed to create output file",
				zap.String("op", "main"),
				zap.String("path", conf.Output.Path),
				zap.Error(err),
			)
		}
		defer func() {
			if err := file.Close(); err != nil {
				logger.Error("failed to close output file",
					zap.String("op", "main"),
					zap.Error(err),
				)
			}
		}()
		w = file
	}

	if err := output.Write(w, outputFormat, report, conf.Output.CurrencySymbol); err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
