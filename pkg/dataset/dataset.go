// Package dataset defines the in-memory model of a parsed time-series table:
// ordered integer periods, each holding one value for every named series.
//
// A Dataset is immutable once built. Parsers and extrapolators assemble new
// datasets through a Builder; accessors always return copies.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Point is one period of a dataset with a value per series.
type Point struct {
	Period    int
	Values    map[string]float64
	Synthetic bool
}

// Dataset holds ordered periods and named series values.
type Dataset struct {
	periodLabel string
	names       []string
	nameIndex   map[string]int
	periods     []int
	periodIndex map[int]int
	values      [][]float64
	synthetic   []bool
}

// Len returns the number of periods.
func (d *Dataset) Len() int {
	return len(d.periods)
}

// PeriodLabel returns the header of the period column, e.g. "Year".
func (d *Dataset) PeriodLabel() string {
	return d.periodLabel
}

// Periods returns the periods in ascending order.
func (d *Dataset) Periods() []int {
	return append([]int(nil), d.periods...)
}

// SeriesNames returns the series names in source column order.
func (d *Dataset) SeriesNames() []string {
	return append([]string(nil), d.names...)
}

// Primary returns the first series name, or "" for a dataset without series.
func (d *Dataset) Primary() string {
	if len(d.names) == 0 {
		return ""
	}
	return d.names[0]
}

// HasSeries reports whether the named series exists.
func (d *Dataset) HasSeries(name string) bool {
	_, ok := d.nameIndex[name]
	return ok
}

// LastPeriod returns the largest period, or false when the dataset is empty.
func (d *Dataset) LastPeriod() (int, bool) {
	if len(d.periods) == 0 {
		return 0, false
	}
	return d.periods[len(d.periods)-1], true
}

// ValueAt returns the value of a series at a period.
func (d *Dataset) ValueAt(period int, name string) (float64, error) {
	row, ok := d.periodIndex[period]
	if !ok {
		return 0, &UnknownPeriodError{Period: period}
	}
	col, ok := d.nameIndex[name]
	if !ok {
		return 0, &UnknownSeriesError{Name: name}
	}
	return d.values[row][col], nil
}

// Series returns every value of the named series in period order.
func (d *Dataset) Series(name string) ([]float64, error) {
	col, ok := d.nameIndex[name]
	if !ok {
		return nil, &UnknownSeriesError{Name: name}
	}
	out := make([]float64, len(d.values))
	for i, row := range d.values {
		out[i] = row[col]
	}
	return out, nil
}

// IsSynthetic reports whether a period was produced by extrapolation.
// Unknown periods are reported as not synthetic.
func (d *Dataset) IsSynthetic(period int) bool {
	row, ok := d.periodIndex[period]
	return ok && d.synthetic[row]
}

// ObservedLen returns the number of periods that were not extrapolated.
func (d *Dataset) ObservedLen() int {
	n := 0
	for _, s := range d.synthetic {
		if !s {
			n++
		}
	}
	return n
}

// SyntheticValues returns the extrapolated values of the named series in
// period order.
func (d *Dataset) SyntheticValues(name string) ([]float64, error) {
	col, ok := d.nameIndex[name]
	if !ok {
		return nil, &UnknownSeriesError{Name: name}
	}
	var out []float64
	for i, row := range d.values {
		if d.synthetic[i] {
			out = append(out, row[col])
		}
	}
	return out, nil
}

// Points returns every period of the dataset.
func (d *Dataset) Points() []Point {
	return d.SliceLast(len(d.periods))
}

// SliceLast returns the last k periods in ascending order. A k larger than
// the dataset returns every period; k <= 0 returns nothing.
func (d *Dataset) SliceLast(k int) []Point {
	if k <= 0 {
		return []Point{}
	}
	if k > len(d.periods) {
		k = len(d.periods)
	}
	start := len(d.periods) - k
	points := make([]Point, 0, k)
	for i := start; i < len(d.periods); i++ {
		values := make(map[string]float64, len(d.names))
		for j, name := range d.names {
			values[name] = d.values[i][j]
		}
		points = append(points, Point{
			Period:    d.periods[i],
			Values:    values,
			Synthetic: d.synthetic[i],
		})
	}
	return points
}

// Equal reports whether two datasets have the same labels, periods, series
// names, synthetic tags and values within tolerance.
func (d *Dataset) Equal(other *Dataset, tolerance float64) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.periodLabel != other.periodLabel ||
		len(d.names) != len(other.names) ||
		len(d.periods) != len(other.periods) {
		return false
	}
	for i := range d.names {
		if d.names[i] != other.names[i] {
			return false
		}
	}
	for i := range d.periods {
		if d.periods[i] != other.periods[i] || d.synthetic[i] != other.synthetic[i] {
			return false
		}
		for j := range d.names {
			if math.Abs(d.values[i][j]-other.values[i][j]) > tolerance {
				return false
			}
		}
	}
	return true
}

// String renders a compact description, mostly for test failures.
func (d *Dataset) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%s]", d.periodLabel, strings.Join(d.names, ","))
	for i, p := range d.periods {
		fmt.Fprintf(&b, " %d:%v", p, d.values[i])
		if d.synthetic[i] {
			b.WriteString("*")
		}
	}
	return b.String()
}

// Builder assembles a Dataset. The zero value is not usable; call NewBuilder.
type Builder struct {
	d *Dataset
}

// NewBuilder starts a dataset with the given period label and series names.
// Names must be non-empty and unique.
func NewBuilder(periodLabel string, names []string) (*Builder, error) {
	d := &Dataset{
		periodLabel: periodLabel,
		names:       make([]string, 0, len(names)),
		nameIndex:   make(map[string]int, len(names)),
		periodIndex: make(map[int]int),
	}
	for _, name := range names {
		if name == "" {
			return nil, &InvalidConfigurationError{Field: "series name", Reason: "must not be empty"}
		}
		if _, exists := d.nameIndex[name]; exists {
			return nil, &DuplicateSeriesError{Name: name}
		}
		d.nameIndex[name] = len(d.names)
		d.names = append(d.names, name)
	}
	return &Builder{d: d}, nil
}

// FromDataset returns a builder seeded with a copy of an existing dataset.
func FromDataset(src *Dataset) *Builder {
	b, _ := NewBuilder(src.periodLabel, src.names)
	for i, p := range src.periods {
		// Periods of a built dataset are unique and rows are full width.
		_ = b.Add(p, src.values[i], src.synthetic[i])
	}
	return b
}

// Add appends one period. values must hold one entry per series, in series
// name order.
func (b *Builder) Add(period int, values []float64, synthetic bool) error {
	if len(values) != len(b.d.names) {
		return &InvalidConfigurationError{
			Field:  "row width",
			Reason: fmt.Sprintf("period %d has %d value(s), expected %d", period, len(values), len(b.d.names)),
		}
	}
	if _, exists := b.d.periodIndex[period]; exists {
		return &DuplicatePeriodError{Period: period}
	}
	b.d.periodIndex[period] = len(b.d.periods)
	b.d.periods = append(b.d.periods, period)
	b.d.values = append(b.d.values, append([]float64(nil), values...))
	b.d.synthetic = append(b.d.synthetic, synthetic)
	return nil
}

// Build sorts the periods ascending and returns the finished dataset. The
// builder must not be used afterwards.
func (b *Builder) Build() *Dataset {
	d := b.d
	b.d = nil

	order := make([]int, len(d.periods))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return d.periods[order[i]] < d.periods[order[j]]
	})

	periods := make([]int, len(order))
	values := make([][]float64, len(order))
	synthetic := make([]bool, len(order))
	for i, src := range order {
		periods[i] = d.periods[src]
		values[i] = d.values[src]
		synthetic[i] = d.synthetic[src]
		d.periodIndex[periods[i]] = i
	}
	d.periods = periods
	d.values = values
	d.synthetic = synthetic
	return d
}
