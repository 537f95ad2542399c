// Package cart holds the visitor's cart as a durably persisted snapshot.
package cart

import (
	"fmt"

	"github.com/onepctclub/storefront/internal/profile"
)

// Item is a single cart line. Price is whole rupees, never minor units.
type Item struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

func effectiveQuantity(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}

// Store reads and writes the cart snapshot. Writes always replace the whole
// snapshot; totals are recomputed on every read.
type Store struct {
	profile *profile.Store
}

func NewStore(p *profile.Store) *Store {
	return &Store{profile: p}
}

// Items returns the current snapshot. Unset or malformed content reads as an
// empty cart.
func (s *Store) Items() ([]Item, error) {
	var items []Item
	ok, err := s.profile.GetJSON(profile.KeyCart, &items)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return items, nil
}

// Replace persists items as the full new snapshot.
func (s *Store) Replace(items []Item) error {
	if items == nil {
		items = []Item{}
	}
	return s.profile.PutJSON(profile.KeyCart, items)
}

// Add merges the item into the snapshot: an existing line with the same id,
// color and size gains its quantity, anything else is appended.
func (s *Store) Add(item Item) error {
	items, err := s.Items()
	if err != nil {
		return err
	}
	item.Quantity = effectiveQuantity(item.Quantity)
	for i := range items {
		if items[i].ID == item.ID && items[i].Color == item.Color && items[i].Size == item.Size {
			items[i].Quantity = effectiveQuantity(items[i].Quantity) + item.Quantity
			return s.Replace(items)
		}
	}
	return s.Replace(append(items, item))
}

// Remove drops every line with the given id.
func (s *Store) Remove(id int) error {
	items, err := s.Items()
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	return s.Replace(kept)
}

// SetQuantity updates every line with the given id. Quantities below one are
// rejected; removal is a separate operation.
func (s *Store) SetQuantity(id, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}
	items, err := s.Items()
	if err != nil {
		return err
	}
	found := false
	for i := range items {
		if items[i].ID == id {
			items[i].Quantity = quantity
			found = true
		}
	}
	if !found {
		return fmt.Errorf("no cart line with id %d", id)
	}
	return s.Replace(items)
}

// Clear empties the cart.
func (s *Store) Clear() error {
	return s.Replace(nil)
}

// TotalPrice folds price*quantity over the snapshot.
func (s *Store) TotalPrice() (int, error) {
	items, err := s.Items()
	if err != nil {
		return 0, err
	}
	return TotalPrice(items), nil
}

// TotalItems folds quantity over the snapshot.
func (s *Store) TotalItems() (int, error) {
	items, err := s.Items()
	if err != nil {
		return 0, err
	}
	return TotalItems(items), nil
}

// TotalPrice sums price times quantity, quantity defaulting to one.
func TotalPrice(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.Price * effectiveQuantity(it.Quantity)
	}
	return total
}

// TotalItems sums quantities, quantity defaulting to one.
func TotalItems(items []Item) int {
	total := 0
	for _, it := range items {
		total += effectiveQuantity(it.Quantity)
	}
	return total
}
