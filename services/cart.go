package services

import (
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"daebak/restapi/models"
)

// AddResult is returned to the client for every add-to-cart attempt.
type AddResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CartStore holds the ephemeral per-user carts. Carts live only in server
// memory for the duration of a session: they are dropped on logout and on a
// successful order, and are not persisted anywhere.
type CartStore struct {
	mu    sync.Mutex
	carts map[string][]models.CartLine
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string][]models.CartLine)}
}

// AddToCart validates the requested quantity against the given stock
// snapshot and, on success, merges into an existing line for the same item
// or appends a new one. The stock check is advisory: inventory itself is
// untouched here and is not re-validated at order time.
func (s *CartStore) AddToCart(uid string, item models.MenuItem, quantity int64, notes string, stock int64) AddResult {
	if quantity < 1 {
		return AddResult{Success: false, Message: "수량은 1개 이상이어야 합니다."}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[uid]
	var inCart int64
	idx := -1
	for i, l := range lines {
		if l.MenuItem.ID == item.ID {
			inCart = l.Quantity
			idx = i
			break
		}
	}

	if stock-inCart < quantity {
		return AddResult{Success: false, Message: fmt.Sprintf("죄송합니다. %s 재고가 부족합니다.", item.Name)}
	}

	if idx >= 0 {
		lines[idx].Quantity += quantity
		if notes != "" {
			lines[idx].Notes = notes
		}
	} else {
		lines = append(lines, models.CartLine{MenuItem: item, Quantity: quantity, Notes: notes})
	}
	s.carts[uid] = lines

	return AddResult{Success: true, Message: fmt.Sprintf("%s %d개를 장바구니에 담았습니다.", item.Name, quantity)}
}

// RemoveFromCart drops the whole line for the item. Partial-quantity
// removal is not exposed.
func (s *CartStore) RemoveFromCart(uid string, itemID primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[uid]
	kept := lines[:0]
	for _, l := range lines {
		if l.MenuItem.ID != itemID {
			kept = append(kept, l)
		}
	}
	s.carts[uid] = kept
}

func (s *CartStore) ClearCart(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, uid)
}

// Lines returns a deep copy of the user's cart, safe to snapshot into an
// order document.
func (s *CartStore) Lines(uid string) []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[uid]
	out := make([]models.CartLine, len(lines))
	for i, l := range lines {
		out[i] = l
		out[i].MenuItem.Tags = append([]string(nil), l.MenuItem.Tags...)
	}
	return out
}

// QuantityOf reports how much of an item is already in the user's cart.
func (s *CartStore) QuantityOf(uid string, itemID primitive.ObjectID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.carts[uid] {
		if l.MenuItem.ID == itemID {
			return l.Quantity
		}
	}
	return 0
}
