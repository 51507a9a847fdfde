package parser

import (
	"strconv"
	"strings"

	"github.com/iwvelando/series-forecast/pkg/dataset"
)

// Format serializes a dataset in the layout Parse reads: a header line and
// one line per period. Values keep full precision. Synthetic tags are not
// represented in the text.
func Format(d *dataset.Dataset, delimiter rune) string {
	sep := string(delimiter)
	names := d.SeriesNames()

	var b strings.Builder
	b.WriteString(d.PeriodLabel())
	for _, name := range names {
		b.WriteString(sep)
		b.WriteString(name)
	}
	b.WriteString("\n")

	for _, point := range d.Points() {
		b.WriteString(strconv.Itoa(point.Period))
		for _, name := range names {
			b.WriteString(sep)
			b.WriteString(strconv.FormatFloat(point.Values[name], 'f', -1, 64))
		}
		b.WriteString("\n")
	}
	return b.String()
}
