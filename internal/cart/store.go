package cart

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Line is one product entry in a cart. UnitPriceCents is the price at the
// moment the line was added; checkout snapshots it into the order.
type Line struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	Image          string    `json:"image,omitempty"`
}

// LineTotalCents returns unit price times quantity.
func (l Line) LineTotalCents() int {
	return l.UnitPriceCents * l.Quantity
}

// Store holds the line items for a single storefront session. At most one
// line exists per product; adding the same product again merges quantities.
type Store struct {
	mu    sync.Mutex
	lines map[uuid.UUID]Line
}

// NewStore builds an empty cart store.
func NewStore() *Store {
	return &Store{lines: make(map[uuid.UUID]Line)}
}

// AddItem inserts the line or, when the product is already present, adds the
// quantities together. The name, price, and image of an existing line are
// kept; the storefront always sends the current catalog values anyway.
func (s *Store) AddItem(line Line) {
	if line.ProductID == uuid.Nil || line.Quantity <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.lines[line.ProductID]; ok {
		existing.Quantity += line.Quantity
		s.lines[line.ProductID] = existing
		return
	}
	s.lines[line.ProductID] = line
}

// RemoveItem deletes the line for the product. Removing an absent product is
// a no-op, so retried removals stay safe.
func (s *Store) RemoveItem(productID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lines, productID)
}

// UpdateQuantity replaces the quantity for an existing line. A zero or
// negative quantity removes the line; a cart never carries non-positive
// quantities. Unknown products are ignored.
func (s *Store) UpdateQuantity(productID uuid.UUID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		delete(s.lines, productID)
		return
	}
	if existing, ok := s.lines[productID]; ok {
		existing.Quantity = quantity
		s.lines[productID] = existing
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = make(map[uuid.UUID]Line)
}

// Lines returns the cart contents in a stable product-id order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, 0, len(s.lines))
	for _, line := range s.lines {
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	return out
}

// TotalCents sums unit price times quantity across all lines.
func (s *Store) TotalCents() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int
	for _, line := range s.lines {
		total += line.UnitPriceCents * line.Quantity
	}
	return total
}

// Len reports how many distinct products the cart holds.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}
