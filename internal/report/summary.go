package report

import (
	"github.com/shopspring/decimal"

	"inventory/internal/core"
)

// Summary bundles the views one dashboard refresh needs.
type Summary struct {
	Records        int
	Total          decimal.Decimal
	FormattedTotal string
	Aggregate      *Aggregate
	Series         Series
}

// Summarize computes every view of records in a single pass per view.
func Summarize(records core.RecordSet, f *Formatter) Summary {
	if f == nil {
		f = DefaultFormatter()
	}
	total := ComputeTotal(records)
	agg := ComputeCategoryAggregate(records)
	return Summary{
		Records:        len(records),
		Total:          total,
		FormattedTotal: f.Format(total),
		Aggregate:      agg,
		Series:         BuildChartSeries(agg),
	}
}
