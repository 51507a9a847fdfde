package validation

import (
	"fmt"
)

// ValidateForecastSettings returns warnings for settings that are accepted but
// probably not what the user meant. observed is the number of observed periods.
func ValidateForecastSettings(observed, windowSize, horizon int) []string {
	var warnings []string

	if windowSize > observed && observed > 0 {
		warnings = append(warnings, fmt.Sprintf("window size %d exceeds the %d observed period(s); averaging over %d",
			windowSize, observed, observed))
	}

	if horizon == 0 {
		warnings = append(warnings, "horizon is 0; no periods will be extrapolated")
	} else if observed > 0 && horizon > observed {
		warnings = append(warnings, fmt.Sprintf("horizon %d is longer than the %d observed period(s)", horizon, observed))
	}

	return warnings
}

// ValidateCostSeries checks that the series used for cost projection exists.
func ValidateCostSeries(name string, available []string) error {
	for _, candidate := range available {
		if candidate == name {
			return nil
		}
	}
	return fmt.Errorf("cost series %q not found in dataset (available: %v)", name, available)
}
