package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/series-forecast/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCommaSeparated(t *testing.T) {
	raw := "Year,room1Price,room2Price\n2022,150,210\n2020,100,200\n2021,80,205\n"

	d, err := Parse(raw, ',')
	require.NoError(t, err)

	assert.Equal(t, "Year", d.PeriodLabel())
	assert.Equal(t, []string{"room1Price", "room2Price"}, d.SeriesNames())
	assert.Equal(t, []int{2020, 2021, 2022}, d.Periods())

	v, err := d.ValueAt(2021, "room2Price")
	require.NoError(t, err)
	assert.Equal(t, 205.0, v)
	assert.Equal(t, 0, d.Len()-d.ObservedLen())
}

func TestParseTabSeparatedWithPadding(t *testing.T) {
	raw := "\n\n Year \t Inflation \r\n2019\t 3.0\r\n\n2020\t4.2 \r\n2021\t8.4\r\n\n"

	d, err := Parse(raw, '\t')
	require.NoError(t, err)

	assert.Equal(t, []string{"Inflation"}, d.SeriesNames())
	series, err := d.Series("Inflation")
	require.NoError(t, err)
	assert.Equal(t, []float64{3.0, 4.2, 8.4}, series)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, err error)
	}{
		{
			name: "empty input",
			raw:  "",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyInput)
			},
		},
		{
			name: "whitespace only",
			raw:  " \n\t\n ",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyInput)
			},
		},
		{
			name: "row wider than header",
			raw:  "a,b\n1,2,3",
			check: func(t *testing.T, err error) {
				var malformed *MalformedRowError
				require.ErrorAs(t, err, &malformed)
				assert.Equal(t, 2, malformed.Line)
				assert.Equal(t, 3, malformed.Fields)
				assert.Equal(t, 2, malformed.Expected)
			},
		},
		{
			name: "row narrower than header",
			raw:  "Year,a,b\n2020,1,2\n2021,1",
			check: func(t *testing.T, err error) {
				var malformed *MalformedRowError
				require.ErrorAs(t, err, &malformed)
				assert.Equal(t, 3, malformed.Line)
			},
		},
		{
			name: "blank lines count toward line numbers",
			raw:  "Year,a\n2020,1\n\n2021,1,2",
			check: func(t *testing.T, err error) {
				var malformed *MalformedRowError
				require.ErrorAs(t, err, &malformed)
				assert.Equal(t, 4, malformed.Line)
			},
		},
		{
			name: "header without series",
			raw:  "Year\n2020",
			check: func(t *testing.T, err error) {
				var malformed *MalformedRowError
				require.ErrorAs(t, err, &malformed)
				assert.Equal(t, 1, malformed.Line)
			},
		},
		{
			name: "blank series name",
			raw:  "Year,,b\n2020,1,2",
			check: func(t *testing.T, err error) {
				var malformed *MalformedRowError
				require.ErrorAs(t, err, &malformed)
				assert.Equal(t, 1, malformed.Line)
			},
		},
		{
			name: "non-numeric value",
			raw:  "Year,a,b\n2020,1,2\n2021,x,2",
			check: func(t *testing.T, err error) {
				var invalid *InvalidValueError
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, 3, invalid.Line)
				assert.Equal(t, "a", invalid.Column)
				assert.Equal(t, "x", invalid.Value)
			},
		},
		{
			name: "non-integer period",
			raw:  "Year,a\n2020.5,1",
			check: func(t *testing.T, err error) {
				var invalid *InvalidValueError
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, 2, invalid.Line)
				assert.Equal(t, "Year", invalid.Column)
			},
		},
		{
			name: "non-finite value",
			raw:  "Year,a\n2020,NaN",
			check: func(t *testing.T, err error) {
				var invalid *InvalidValueError
				require.ErrorAs(t, err, &invalid)
				assert.True(t, errors.Is(err, errNonFinite))
			},
		},
		{
			name: "duplicate period",
			raw:  "Year,a\n2020,1\n2021,2\n2020,3",
			check: func(t *testing.T, err error) {
				var dup *dataset.DuplicatePeriodError
				require.ErrorAs(t, err, &dup)
				assert.Equal(t, 2020, dup.Period)
			},
		},
		{
			name: "duplicate series name",
			raw:  "Year,a,a\n2020,1,2",
			check: func(t *testing.T, err error) {
				var dup *dataset.DuplicateSeriesError
				require.ErrorAs(t, err, &dup)
				assert.Equal(t, "a", dup.Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.raw, ',')
			require.Error(t, err)
			assert.Nil(t, d)
			tt.check(t, err)
		})
	}
}

func TestParseHeaderOnly(t *testing.T) {
	d, err := Parse("Year,a,b", ',')
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, []string{"a", "b"}, d.SeriesNames())
}

func TestParseWithoutHeader(t *testing.T) {
	opts := DefaultOptions()
	opts.NoHeader = true
	opts.NameFormat = "room%dPrice"

	d, err := ParseWithOptions("2018,100,150,200\n2019,110,160,190\n", opts)
	require.NoError(t, err)

	assert.Equal(t, "year", d.PeriodLabel())
	assert.Equal(t, []string{"room1Price", "room2Price", "room3Price"}, d.SeriesNames())
	assert.Equal(t, []int{2018, 2019}, d.Periods())
}

func TestParseDetectsDelimiter(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"comma", "Year,a,b\n2020,1,2"},
		{"tab", "Year\ta\tb\n2020\t1\t2"},
		{"semicolon", "Year;a;b\n2020;1;2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseWithOptions(tt.raw, nil)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, d.SeriesNames())
		})
	}

	assert.Equal(t, ',', DetectDelimiter("single"))
	assert.Equal(t, '\t', DetectDelimiter("a,b\tc\td"))
}

func TestFormatRoundTrip(t *testing.T) {
	b, err := dataset.NewBuilder("Year", []string{"Inflation", "Wages"})
	require.NoError(t, err)
	require.NoError(t, b.Add(2019, []float64{3.04, 1.0 / 3.0}, false))
	require.NoError(t, b.Add(2020, []float64{4.91, -2.5}, false))
	require.NoError(t, b.Add(2021, []float64{8.39, 1e6}, false))
	original := b.Build()

	for _, delimiter := range []rune{',', '\t', ';'} {
		parsed, err := Parse(Format(original, delimiter), delimiter)
		require.NoError(t, err)
		assert.True(t, original.Equal(parsed, 1e-12), "round trip with %q: got %s", delimiter, parsed)
	}
}

func TestParseWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	rows := [][]interface{}{
		{"Year", "Inflation", "Rent"},
		{2021, 8.4, 1200},
		{2020, 4.9, 1150.5},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	d, err := ParseWorkbook(buf, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2020, 2021}, d.Periods())

	v, err := d.ValueAt(2020, "Rent")
	require.NoError(t, err)
	assert.Equal(t, 1150.5, v)
}

func TestParseWorkbookIgnoresNumberFormats(t *testing.T) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	rows := [][]interface{}{
		{"Year", "Rent", "Inflation"},
		{2020, 1150.5, 0.049},
		{2021, 1200.5, 0.084},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	require.NoError(t, err)
	year, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	require.NoError(t, err)
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 10}) // 0.00%
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A2", "A3", year))
	require.NoError(t, f.SetCellStyle("Sheet1", "B2", "B3", thousands))
	require.NoError(t, f.SetCellStyle("Sheet1", "C2", "C3", percent))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	d, err := ParseWorkbook(buf, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2020, 2021}, d.Periods())

	rent, err := d.ValueAt(2020, "Rent")
	require.NoError(t, err)
	assert.Equal(t, 1150.5, rent)

	rate, err := d.ValueAt(2021, "Inflation")
	require.NoError(t, err)
	assert.InDelta(t, 0.084, rate, 1e-12)
}

func TestParseWorkbookRejectsGarbage(t *testing.T) {
	_, err := ParseWorkbook(strings.NewReader("not a workbook"), nil)
	assert.Error(t, err)
}
