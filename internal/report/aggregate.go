// Package report computes the dashboard views of a record set: the total
// value, its display string, the per-category sums and the chart series.
//
// Every function here is pure. Nothing is cached between calls; each
// dashboard refresh rebuilds its views from the current record set.
package report

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/shopspring/decimal"

	"inventory/internal/core"
)

// Aggregate maps category to summed value. Iteration follows the order in
// which each category first appeared in the source records.
type Aggregate struct {
	sums *orderedmap.OrderedMap[string, decimal.Decimal]
}

// NewAggregate returns an empty aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{sums: orderedmap.NewOrderedMap[string, decimal.Decimal]()}
}

// ComputeTotal sums the value of every record. An empty set totals zero.
func ComputeTotal(records core.RecordSet) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Value)
	}
	return total
}

// ComputeCategoryAggregate groups records by category and sums their values.
// Records without a category are grouped under the empty string.
func ComputeCategoryAggregate(records core.RecordSet) *Aggregate {
	agg := NewAggregate()
	for _, r := range records {
		agg.Add(r.Category, r.Value)
	}
	return agg
}

// Add accumulates v into category. A new category goes to the end.
func (a *Aggregate) Add(category string, v decimal.Decimal) {
	if cur, ok := a.sums.Get(category); ok {
		a.sums.Set(category, cur.Add(v))
		return
	}
	a.sums.Set(category, v)
}

// Get returns the sum for category.
func (a *Aggregate) Get(category string) (decimal.Decimal, bool) {
	if a == nil || a.sums == nil {
		return decimal.Zero, false
	}
	return a.sums.Get(category)
}

// Len returns the number of distinct categories.
func (a *Aggregate) Len() int {
	if a == nil || a.sums == nil {
		return 0
	}
	return a.sums.Len()
}

// Categories returns the category keys in insertion order.
func (a *Aggregate) Categories() []string {
	if a.Len() == 0 {
		return []string{}
	}
	return a.sums.Keys()
}

// Sum adds up every category sum.
func (a *Aggregate) Sum() decimal.Decimal {
	total := decimal.Zero
	a.Each(func(_ string, v decimal.Decimal) {
		total = total.Add(v)
	})
	return total
}

// Each calls fn for every category in insertion order.
func (a *Aggregate) Each(fn func(category string, sum decimal.Decimal)) {
	if a.Len() == 0 {
		return
	}
	for el := a.sums.Front(); el != nil; el = el.Next() {
		fn(el.Key, el.Value)
	}
}

// Map returns the sums as a plain map, losing order.
func (a *Aggregate) Map() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, a.Len())
	a.Each(func(k string, v decimal.Decimal) {
		out[k] = v
	})
	return out
}
