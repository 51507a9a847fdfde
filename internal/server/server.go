// Package server exposes the forecast pipeline over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/series-forecast/internal/config"
	"github.com/iwvelando/series-forecast/internal/forecast"
	"github.com/iwvelando/series-forecast/pkg/constants"
	"github.com/iwvelando/series-forecast/pkg/output"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const shutdownTimeout = 5 * time.Second

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	defaults      config.ForecastConfig
	metrics       *metrics
}

// NewHandler constructs the HTTP handler that serves the forecast API and metrics.
func NewHandler(logger *zap.Logger, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	maxUploadSize := cfg.UploadSizeBytes()
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		defaults:      cfg.Forecast,
		metrics:       newMetrics(),
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(h.metrics.instrument)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/forecast", h.handleForecast)
		r.Post("/config/export", h.handleConfigExport)
		r.Get("/version", h.handleVersion)
		r.Get("/palette", h.handlePalette)
	})
	r.Handle("/metrics", promhttp.HandlerFor(h.metrics.registry, promhttp.HandlerOpts{}))

	return r
}

// Run serves the API on the configured address until ctx is cancelled.
func Run(ctx context.Context, logger *zap.Logger, cfg *Config, version string) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           NewHandler(logger, cfg, version),
		ReadTimeout:       cfg.ReadTimeoutDuration(),
		ReadHeaderTimeout: cfg.ReadTimeoutDuration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "server.Run"),
			zap.String("address", cfg.Address),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("server shutting down", zap.String("op", "server.Run"))
		return srv.Shutdown(shutdownCtx)
	}
}

type forecastResponse struct {
	output.Document
	Colors   []string `json:"colors"`
	CSV      string   `json:"csv"`
	Duration string   `json:"duration"`
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "missing dataset file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	conf, err := h.requestConfiguration(r, header.Filename)
	if err != nil {
		h.metrics.forecasts.WithLabelValues("rejected").Inc()
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}
	settings, err := forecast.SettingsFromConfig(conf.Forecast)
	if err != nil {
		h.metrics.forecasts.WithLabelValues("rejected").Inc()
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	d, err := forecast.ParseInput(file, conf.Input)
	if err != nil {
		h.metrics.forecasts.WithLabelValues("rejected").Inc()
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	report, err := forecast.GetForecast(h.logger, d, settings)
	if err != nil {
		h.metrics.forecasts.WithLabelValues("rejected").Inc()
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	var csv bytes.Buffer
	if err := output.CsvFormat(&csv, report); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render csv: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	response := forecastResponse{
		Document: output.NewDocument(report),
		Colors:   Palette(len(report.Extended.SeriesNames())),
		CSV:      csv.String(),
		Duration: elapsed.String(),
	}

	h.metrics.forecasts.WithLabelValues("ok").Inc()
	h.metrics.periods.Observe(float64(report.Extended.Len()))
	h.logger.Info("forecast computed",
		zap.String("op", op),
		zap.String("requestID", middleware.GetReqID(r.Context())),
		zap.Int("series", len(response.Series)),
		zap.Int("rows", len(response.Rows)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

// requestConfiguration merges the optional form fields over the server defaults.
func (h *handler) requestConfiguration(r *http.Request, filename string) (*config.Configuration, error) {
	conf := &config.Configuration{
		Input:    config.InputConfig{Format: constants.InputFormatText},
		Forecast: h.defaults,
	}
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		conf.Input.Format = constants.InputFormatXLSX
	}

	form := r.MultipartForm.Value
	value := func(key string) (string, bool) {
		values, ok := form[key]
		if !ok || len(values) == 0 || strings.TrimSpace(values[0]) == "" {
			return "", false
		}
		return strings.TrimSpace(values[0]), true
	}

	var err error
	if v, ok := value("windowSize"); ok {
		if conf.Forecast.WindowSize, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid windowSize %q", v)
		}
	}
	if v, ok := value("horizon"); ok {
		if conf.Forecast.Horizon, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid horizon %q", v)
		}
	}
	if v, ok := value("initialCost"); ok {
		if conf.Forecast.InitialCost, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("invalid initialCost %q", v)
		}
	}
	if v, ok := value("rateUnit"); ok {
		conf.Forecast.RateUnit = strings.ToLower(v)
	}
	if v, ok := value("costSeries"); ok {
		conf.Forecast.CostSeries = v
	}
	if v, ok := value("format"); ok {
		conf.Input.Format = strings.ToLower(v)
	}
	if v, ok := value("delimiter"); ok {
		conf.Input.Delimiter = v
	}
	if v, ok := value("noHeader"); ok {
		if conf.Input.NoHeader, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid noHeader %q", v)
		}
	}
	if v, ok := value("nameFormat"); ok {
		conf.Input.NameFormat = v
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handlePalette(w http.ResponseWriter, r *http.Request) {
	n := len(basePalette)
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > constants.MaxPaletteSize {
			h.respondError(w, r, http.StatusBadRequest,
				fmt.Sprintf("n must be an integer between 0 and %d", constants.MaxPaletteSize), "server.handlePalette")
			return
		}
		n = parsed
	}

	h.writeJSON(w, http.StatusOK, map[string][]string{
		"colors": Palette(n),
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	var payload map[string]interface{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadSize)).Decode(&payload); err != nil {
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	conf, err := config.LoadConfigurationFromReader(bytes.NewReader(yamlBytes))
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"configYaml": string(yamlBytes),
		"warnings":   conf.ValidateConfiguration(),
	})
}

// marshalOrderedConfigYAML writes the known sections in configuration file
// order, followed by any other keys sorted by name.
func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"input", "forecast", "logging", "output"} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.String("requestID", middleware.GetReqID(r.Context())),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
