package report

import "github.com/shopspring/decimal"

// Palette is the fixed pie chart palette. Colors repeat when there are more
// categories than entries.
var Palette = []string{
	"#4E79A7",
	"#F28E2B",
	"#E15759",
	"#76B7B2",
	"#59A14F",
	"#EDC948",
	"#B07AA1",
	"#FF9DA7",
}

// Series is the pie chart input. Labels[i], Values[i] and Colors[i] describe
// the same slice.
type Series struct {
	Labels []string
	Values []decimal.Decimal
	Colors []string
}

// BuildChartSeries flattens the aggregate into parallel sequences in
// aggregate order.
func BuildChartSeries(agg *Aggregate) Series {
	n := agg.Len()
	s := Series{
		Labels: make([]string, 0, n),
		Values: make([]decimal.Decimal, 0, n),
		Colors: make([]string, 0, n),
	}
	agg.Each(func(category string, sum decimal.Decimal) {
		s.Labels = append(s.Labels, category)
		s.Values = append(s.Values, sum)
	})
	s.Colors = ColorsFor(n)
	return s
}

// ColorsFor returns n palette colors, cycling through Palette.
func ColorsFor(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = Palette[i%len(Palette)]
	}
	return out
}

// Floats converts the values for JSON chart consumers.
func (s Series) Floats() []float64 {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		out[i] = v.InexactFloat64()
	}
	return out
}

// Len returns the number of slices in the series.
func (s Series) Len() int {
	return len(s.Labels)
}
