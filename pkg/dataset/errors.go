package dataset

import "fmt"

// UnknownPeriodError is returned when a period is not present in a dataset.
type UnknownPeriodError struct {
	Period int
}

func (e *UnknownPeriodError) Error() string {
	return fmt.Sprintf("unknown period %d", e.Period)
}

// UnknownSeriesError is returned when a series name is not present in a dataset.
type UnknownSeriesError struct {
	Name string
}

func (e *UnknownSeriesError) Error() string {
	return fmt.Sprintf("unknown series %q", e.Name)
}

// DuplicatePeriodError is returned when the same period is added twice.
type DuplicatePeriodError struct {
	Period int
}

func (e *DuplicatePeriodError) Error() string {
	return fmt.Sprintf("duplicate period %d", e.Period)
}

// DuplicateSeriesError is returned when two series share a name.
type DuplicateSeriesError struct {
	Name string
}

func (e *DuplicateSeriesError) Error() string {
	return fmt.Sprintf("duplicate series name %q", e.Name)
}

// InsufficientDataError is returned when an operation needs more periods than
// the dataset holds.
type InsufficientDataError struct {
	Op        string
	Required  int
	Available int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s requires at least %d period(s), dataset has %d", e.Op, e.Required, e.Available)
}

// InvalidConfigurationError is returned for out-of-range settings such as a
// non-positive window size.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
