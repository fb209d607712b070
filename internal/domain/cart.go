package domain

import (
	"math"
	"strings"
)

// CartItem is one live cart line during a grocer session. Lines with the
// same name but different notes ("extra spicy") stay separate.
type CartItem struct {
	Name     string
	Price    float64
	Quantity int
	Notes    string
	Category string
}

// Cart accumulates line items for one session. All mutations keep the
// merge invariant: at most one line per (name, notes) pair, quantities
// folded together. The total is recomputed from the lines on every call,
// never cached.
type Cart struct {
	items []CartItem
}

// Add merges the item into an existing line matching by name
// (case-insensitive) and notes (exact), incrementing its quantity, or
// appends a new line. It returns the resulting line and whether a merge
// happened.
func (c *Cart) Add(item CartItem) (CartItem, bool) {
	for i := range c.items {
		if strings.EqualFold(c.items[i].Name, item.Name) && c.items[i].Notes == item.Notes {
			c.items[i].Quantity += item.Quantity
			return c.items[i], true
		}
	}
	c.items = append(c.items, item)
	return item, false
}

// Remove drops every line whose name matches, regardless of notes, and
// reports whether anything was removed.
func (c *Cart) Remove(name string) bool {
	q := strings.ToLower(strings.TrimSpace(name))
	kept := c.items[:0]
	removed := false
	for _, it := range c.items {
		if strings.ToLower(it.Name) == q {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	c.items = kept
	return removed
}

// SetQuantity replaces the quantity of the first line matching by name and
// returns the updated line. The second return is false when no line
// matches. Callers must reject non-positive quantities before calling.
func (c *Cart) SetQuantity(name string, quantity int) (CartItem, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	for i := range c.items {
		if strings.ToLower(c.items[i].Name) == q {
			c.items[i].Quantity = quantity
			return c.items[i], true
		}
	}
	return CartItem{}, false
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int { return len(c.items) }

// Total sums price times quantity over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Lines converts the cart into order lines with per-line totals, rounding
// money to two decimals.
func (c *Cart) Lines() []OrderLine {
	lines := make([]OrderLine, 0, len(c.items))
	for _, it := range c.items {
		lines = append(lines, OrderLine{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
			LineTotal: round2(it.Price * float64(it.Quantity)),
			Notes:     it.Notes,
			Category:  it.Category,
		})
	}
	return lines
}

// Order assembles the durable record for the cart as it stands. The caller
// stamps the id and placement time.
func (c *Cart) Order(name, address string) Order {
	return Order{
		CustomerName:    name,
		CustomerAddress: address,
		Items:           c.Lines(),
		Total:           round2(c.Total()),
		Currency:        "INR",
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
