// Package summary computes how much each series of a dataset changed between
// its first and last period.
package summary

import (
	"sort"

	"github.com/iwvelando/series-forecast/pkg/dataset"
)

// Change describes the net change of one series.
type Change struct {
	Name         string  `json:"name"`
	InitialValue float64 `json:"initialValue"`
	FinalValue   float64 `json:"finalValue"`
	Delta        float64 `json:"delta"`
}

// Summarize returns one Change per series, ordered by Delta descending. Ties
// keep series order. Synthetic periods count like observed ones, so the final
// value of an extrapolated dataset is its last forecast.
func Summarize(d *dataset.Dataset) ([]Change, error) {
	periods := d.Periods()
	if len(periods) < 2 {
		return nil, &dataset.InsufficientDataError{Op: "change summary", Required: 2, Available: len(periods)}
	}
	first, last := periods[0], periods[len(periods)-1]

	names := d.SeriesNames()
	changes := make([]Change, 0, len(names))
	for _, name := range names {
		initial, err := d.ValueAt(first, name)
		if err != nil {
			return nil, err
		}
		final, err := d.ValueAt(last, name)
		if err != nil {
			return nil, err
		}
		changes = append(changes, Change{
			Name:         name,
			InitialValue: initial,
			FinalValue:   final,
			Delta:        final - initial,
		})
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Delta > changes[j].Delta
	})
	return changes, nil
}

// Extremes returns the largest rise and the largest fall of a ranked summary.
// With a single series both are the same entry. ok is false for an empty summary.
func Extremes(changes []Change) (rise, fall Change, ok bool) {
	if len(changes) == 0 {
		return Change{}, Change{}, false
	}
	return changes[0], changes[len(changes)-1], true
}

// Find returns the change for the named series, or nil.
func Find(changes []Change, name string) *Change {
	for i := range changes {
		if changes[i].Name == name {
			return &changes[i]
		}
	}
	return nil
}
