// Package extrapolate projects datasets forward with a recursive moving
// average: every forecast value is the mean of the trailing window, and once
// produced it becomes part of the window for the next step.
package extrapolate

import (
	"math"

	"github.com/iwvelando/series-forecast/pkg/dataset"
	"github.com/iwvelando/series-forecast/pkg/mathutil"
)

// Extrapolate returns a new dataset holding every period of d followed by
// horizon synthetic periods. The effective window is windowSize capped at the
// number of observed periods; earlier synthetic periods still fill the window.
// A horizon of zero returns d itself.
func Extrapolate(d *dataset.Dataset, windowSize, horizon int) (*dataset.Dataset, error) {
	if windowSize <= 0 {
		return nil, &dataset.InvalidConfigurationError{Field: "window size", Reason: "must be positive"}
	}
	if horizon < 0 {
		return nil, &dataset.InvalidConfigurationError{Field: "horizon", Reason: "must not be negative"}
	}
	if horizon == 0 {
		return d, nil
	}

	observed := d.ObservedLen()
	if observed == 0 {
		return nil, &dataset.InsufficientDataError{Op: "extrapolation", Required: 1, Available: 0}
	}
	lastPeriod, _ := d.LastPeriod()
	if lastPeriod > math.MaxInt-horizon {
		return nil, &dataset.InvalidConfigurationError{Field: "horizon", Reason: "extends past the largest representable period"}
	}

	window := windowSize
	if observed < window {
		window = observed
	}

	names := d.SeriesNames()
	forecasts := make([][]float64, len(names))
	for i, name := range names {
		history, err := d.Series(name)
		if err != nil {
			return nil, err
		}
		forecasts[i] = Forecast(history, window, horizon)
	}

	builder := dataset.FromDataset(d)
	row := make([]float64, len(names))
	for step := 0; step < horizon; step++ {
		for i := range names {
			row[i] = forecasts[i][step]
		}
		if err := builder.Add(lastPeriod+step+1, row, true); err != nil {
			return nil, err
		}
	}
	return builder.Build(), nil
}

// Forecast returns horizon values continuing history, each the mean of the
// last window values including earlier forecasts. window must be between 1
// and len(history).
func Forecast(history []float64, window, horizon int) []float64 {
	values := make([]float64, len(history), len(history)+horizon)
	copy(values, history)
	for step := 0; step < horizon; step++ {
		values = append(values, mathutil.Mean(values[len(values)-window:]))
	}
	return values[len(history):]
}
