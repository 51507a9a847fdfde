package cost

import (
	"math"
	"testing"

	"github.com/iwvelando/series-forecast/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name          string
		initial       float64
		rates         []float64
		unit          RateUnit
		expectFactor  float64
		expectedFinal float64
	}{
		{"Two ten percent years", 100, []float64{10, 10}, Percent, 1.21, 121},
		{"Fractions", 100, []float64{0.1, 0.1}, Fraction, 1.21, 121},
		{"No rates", 250, nil, Percent, 1, 250},
		{"Deflation", 200, []float64{-50}, Percent, 0.5, 100},
		{"Mixed", 1000, []float64{2, -1, 3.5}, Percent, 1.02 * 0.99 * 1.035, 1000 * 1.02 * 0.99 * 1.035},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Project(tt.initial, tt.rates, tt.unit)
			require.NoError(t, err)
			assert.Equal(t, tt.initial, p.InitialCost)
			assert.InDelta(t, tt.expectFactor, p.CompoundedGrowthFactor, 1e-9)
			assert.InDelta(t, tt.expectedFinal, p.FinalCost, 1e-9)
		})
	}
}

func TestProjectRejectsNonFiniteRates(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Project(100, []float64{1, bad}, Percent)
		var rateErr *InvalidRateError
		require.ErrorAs(t, err, &rateErr)
		assert.Equal(t, 1, rateErr.Index)
	}
}

func TestProjectRejectsUnknownUnit(t *testing.T) {
	_, err := Project(100, []float64{1}, RateUnit("basis points"))
	var cfg *dataset.InvalidConfigurationError
	assert.ErrorAs(t, err, &cfg)
}

func TestParseRateUnit(t *testing.T) {
	tests := []struct {
		input     string
		expected  RateUnit
		expectErr bool
	}{
		{"percent", Percent, false},
		{" Fraction ", Fraction, false},
		{"PERCENT", Percent, false},
		{"", "", true},
		{"ratio", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			unit, err := ParseRateUnit(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, unit)
		})
	}
}
