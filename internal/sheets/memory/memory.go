package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"inventory/internal/core"
	ports "inventory/internal/sheets"
)

// Store serves a fixed record set, used as the demo data source.
type Store struct {
	mu    sync.Mutex
	items core.RecordSet
}

var _ ports.RecordSource = (*Store)(nil)

func New(items core.RecordSet) *Store {
	return &Store{items: items.Clone()}
}

// NewDemo returns a store seeded with DemoRecords.
func NewDemo() *Store {
	return New(DemoRecords())
}

// Records returns a copy of the stored records.
func (s *Store) Records(_ context.Context) (core.RecordSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.items.Clone()
	if out == nil {
		out = core.RecordSet{}
	}
	return out, nil
}

// DemoRecords is the seeded inventory shown when no file is uploaded.
func DemoRecords() core.RecordSet {
	return core.RecordSet{
		{ID: "INV-001", Name: "Laptop", Category: "Equipment", Condition: "Good", Value: decimal.NewFromInt(2500)},
		{ID: "INV-002", Name: "Office desk", Category: "Furniture", Condition: "Fair", Value: decimal.NewFromInt(800)},
		{ID: "INV-003", Name: "Delivery van", Category: "Vehicles", Condition: "Excellent", Value: decimal.NewFromInt(150000)},
		{ID: "INV-004", Name: "Desk chair", Category: "Furniture", Condition: "Worn", Value: decimal.NewFromInt(300)},
		{ID: "INV-005", Name: "Server rack", Category: "Equipment", Condition: "New", Value: decimal.NewFromInt(5000)},
	}
}
