package cart

import (
	"context"
	"sync"

	"github.com/aarogyam-agencies/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store holds the lines of a single cart. It is built explicitly with its
// collaborators and keeps one line per product id, in insertion order.
//
// Every mutation persists synchronously through the storage port; a failed
// save is warn-logged and never surfaced, so the in-memory cart stays usable
// even when the backing store is down.
type Store struct {
	mu      sync.Mutex
	storage Storage
	logg    *logger.Logger
	lines   []Line
}

// NewStore builds a store seeded from previously persisted lines. Seed lines
// with a non-positive quantity or a duplicate product id are dropped.
func NewStore(storage Storage, logg *logger.Logger, seed []Line) *Store {
	store := &Store{storage: storage, logg: logg}
	seen := map[uuid.UUID]struct{}{}
	for _, line := range seed {
		if line.Quantity < 1 {
			continue
		}
		if _, ok := seen[line.Snapshot.ProductID]; ok {
			continue
		}
		seen[line.Snapshot.ProductID] = struct{}{}
		store.lines = append(store.lines, line)
	}
	return store
}

// AddItem increments the quantity of an existing line by one, or appends a
// new line with quantity one. It never fails.
func (s *Store) AddItem(ctx context.Context, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Snapshot.ProductID == snap.ProductID {
			s.lines[i].Quantity++
			s.save(ctx)
			return
		}
	}
	s.lines = append(s.lines, Line{Snapshot: snap, Quantity: 1})
	s.save(ctx)
}

// RemoveItem deletes the line for the product. Absent product is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Snapshot.ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.save(ctx)
			return
		}
	}
}

// UpdateQuantity sets the absolute quantity of an existing line. A quantity
// of zero or less removes the line. Absent product is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID uuid.UUID, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Snapshot.ProductID != productID {
			continue
		}
		if qty <= 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		} else {
			s.lines[i].Quantity = qty
		}
		s.save(ctx)
		return
	}
}

// Clear removes every line.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) == 0 {
		return
	}
	s.lines = nil
	s.save(ctx)
}

// TotalItems returns the summed quantity across all lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice returns the summed line totals.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Total())
	}
	return total
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Quantity returns the quantity held for the product, zero when absent.
func (s *Store) Quantity(productID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.lines {
		if line.Snapshot.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

func (s *Store) save(ctx context.Context) {
	if s.storage == nil {
		return
	}
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	if err := s.storage.Save(ctx, lines); err != nil && s.logg != nil {
		ctx = s.logg.WithField(ctx, "error", err.Error())
		s.logg.Warn(ctx, "cart save failed, keeping in-memory state")
	}
}
