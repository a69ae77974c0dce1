// Package cart holds buyer carts in memory for the lifetime of the process.
package cart

import (
	"errors"
	"strconv"
	"sync"

	"giftyy-backend/internal/models"
	"giftyy-backend/internal/pricing"
)

var ErrItemNotFound = errors.New("cart item not found")

// BadgeCap is the largest count the cart badge shows before switching to "99+"
const BadgeCap = 99

// Store is one buyer's cart. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	items []models.CartItem
}

func NewStore() *Store {
	return &Store{}
}

// AddItem adds an item or, when an item with the same ID is already in the
// cart, increments its quantity.
func (s *Store) AddItem(item models.CartItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += item.Quantity
			return
		}
	}
	s.items = append(s.items, item)
}

// UpdateQuantity sets an item's quantity; zero or less removes it
func (s *Store) UpdateQuantity(id string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrItemNotFound
	}
	if quantity <= 0 {
		s.removeAt(i)
		return nil
	}
	s.items[i].Quantity = quantity
	return nil
}

func (s *Store) RemoveItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrItemNotFound
	}
	s.removeAt(i)
	return nil
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// Items returns a copy of the cart lines in insertion order
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

func (s *Store) Subtotal() float64 {
	return pricing.Subtotal(s.Items())
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.items = append(s.items[:i], s.items[i+1:]...)
}

// BadgeLabel renders a quantity for the cart badge. The cap is display-only;
// the stored quantities are never truncated.
func BadgeLabel(count int) string {
	if count > BadgeCap {
		return strconv.Itoa(BadgeCap) + "+"
	}
	return strconv.Itoa(count)
}
