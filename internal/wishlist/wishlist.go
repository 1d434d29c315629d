// Package wishlist keeps the saved-for-later product ids of a session.
package wishlist

import "github.com/AliakbarCal15/Internship-Task-39/internal/cart"

// List holds unique product ids in the order they were saved.
// Like the cart ledger it relies on the owning session for locking.
type List struct {
	items []string
}

func New() *List {
	return &List{}
}

// Add reports whether the id was newly saved.
func (w *List) Add(productID string) bool {
	if w.Contains(productID) {
		return false
	}
	w.items = append(w.items, productID)
	return true
}

func (w *List) Remove(productID string) bool {
	for i, id := range w.items {
		if id == productID {
			w.items = append(w.items[:i], w.items[i+1:]...)
			return true
		}
	}
	return false
}

func (w *List) Contains(productID string) bool {
	for _, id := range w.items {
		if id == productID {
			return true
		}
	}
	return false
}

func (w *List) Items() []string {
	return append([]string(nil), w.items...)
}

func (w *List) Len() int {
	return len(w.items)
}

func (w *List) Clear() {
	w.items = nil
}

// MoveToCart adds one unit to the ledger and drops the id from the list.
// It reports false, touching nothing, when the id was not saved.
func (w *List) MoveToCart(productID string, ledger *cart.Ledger) bool {
	if !w.Remove(productID) {
		return false
	}
	ledger.Add(productID, 1)
	return true
}
