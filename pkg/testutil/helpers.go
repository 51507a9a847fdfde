// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/series-forecast/pkg/dataset"
)

// MustDataset builds a dataset from rows keyed by period, failing the test on
// error. Each row holds one value per name, in name order.
func MustDataset(tb testing.TB, periodLabel string, names []string, rows map[int][]float64) *dataset.Dataset {
	tb.Helper()
	b, err := dataset.NewBuilder(periodLabel, names)
	if err != nil {
		tb.Fatalf("NewBuilder() error = %v", err)
	}
	for period, values := range rows {
		if err := b.Add(period, values, false); err != nil {
			tb.Fatalf("Add(%d) error = %v", period, err)
		}
	}
	return b.Build()
}

// FindPoint finds a point by period in the points slice.
// Returns a pointer to the point if found, nil otherwise.
func FindPoint(points []dataset.Point, period int) *dataset.Point {
	for i := range points {
		if points[i].Period == period {
			return &points[i]
		}
	}
	return nil
}
