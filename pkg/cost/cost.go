// Package cost projects a cost forward by compounding a sequence of growth
// rates, e.g. a basket price under forecast inflation.
package cost

import (
	"fmt"
	"strings"

	"github.com/iwvelando/series-forecast/pkg/constants"
	"github.com/iwvelando/series-forecast/pkg/dataset"
	"github.com/iwvelando/series-forecast/pkg/mathutil"
)

// RateUnit states how growth rates are expressed.
type RateUnit string

const (
	// Percent rates are divided by 100 before compounding.
	Percent RateUnit = constants.RateUnitPercent
	// Fraction rates are used as given.
	Fraction RateUnit = constants.RateUnitFraction
)

// ParseRateUnit converts a configuration string to a RateUnit.
func ParseRateUnit(value string) (RateUnit, error) {
	switch unit := RateUnit(strings.ToLower(strings.TrimSpace(value))); unit {
	case Percent, Fraction:
		return unit, nil
	default:
		return "", &dataset.InvalidConfigurationError{
			Field:  "rate unit",
			Reason: fmt.Sprintf("expected %s or %s, got %q", Percent, Fraction, value),
		}
	}
}

// Projection is the result of compounding an initial cost.
type Projection struct {
	InitialCost            float64 `json:"initialCost"`
	CompoundedGrowthFactor float64 `json:"compoundedGrowthFactor"`
	FinalCost              float64 `json:"finalCost"`
}

// InvalidRateError is returned for a NaN or infinite growth rate.
type InvalidRateError struct {
	Index int
	Rate  float64
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("growth rate %d is not finite: %v", e.Index, e.Rate)
}

// Project compounds initialCost over rates: the factor is the product of
// (1 + r) for every rate. No rates means no growth.
func Project(initialCost float64, rates []float64, unit RateUnit) (Projection, error) {
	if unit != Percent && unit != Fraction {
		return Projection{}, &dataset.InvalidConfigurationError{
			Field:  "rate unit",
			Reason: fmt.Sprintf("expected %s or %s, got %q", Percent, Fraction, unit),
		}
	}

	factor := 1.0
	for i, rate := range rates {
		if !mathutil.IsFinite(rate) {
			return Projection{}, &InvalidRateError{Index: i, Rate: rate}
		}
		if unit == Percent {
			rate = mathutil.PercentToFraction(rate)
		}
		factor *= 1 + rate
	}

	return Projection{
		InitialCost:            initialCost,
		CompoundedGrowthFactor: factor,
		FinalCost:              initialCost * factor,
	}, nil
}
