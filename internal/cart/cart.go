// Package cart holds the transient in-memory aggregation of lines before
// checkout. Nothing here touches the database; the cart is rebuilt from
// the ledger's current catalog whenever products are listed for sale.
package cart

import (
	"sync"

	"vetclinic/m/domain"
)

// Cart accumulates lines for one session. Safe for concurrent use so the
// HTTP surface can share a cart across requests.
type Cart struct {
	mu    sync.Mutex
	lines []domain.CartLine
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add merges the quantity into an existing line for the same item id, or
// appends a new line.
func (c *Cart) Add(itemID int64, name string, price float64, qty int64, category string) {
	if qty < 1 {
		qty = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity += qty
			return
		}
	}
	c.lines = append(c.lines, domain.CartLine{ItemID: itemID, Name: name, Price: price, Quantity: qty, Category: category})
}

// Remove drops the line for itemID, if present.
func (c *Cart) Remove(itemID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(itemID)
}

// SetQuantity replaces the quantity for itemID; a quantity of zero or
// less removes the line.
func (c *Cart) SetQuantity(itemID, qty int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if qty <= 0 {
		c.remove(itemID)
		return
	}
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity = qty
			return
		}
	}
}

func (c *Cart) remove(itemID int64) {
	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.ItemID != itemID {
			kept = append(kept, line)
		}
	}
	c.lines = kept
}

// Clear discards every line.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Total is the sum of line subtotals.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, line := range c.lines {
		total += line.Subtotal()
	}
	return total
}

// ItemCount is the sum of line quantities.
func (c *Cart) ItemCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var count int64
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Lines returns a copy of the current lines for checkout.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}
