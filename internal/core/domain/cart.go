package domain

// CartTotals is the local preview of the money math. After line items are
// submitted the authoritative numbers come back from the order store; these
// exist so the operator sees a running total before that point.
type CartTotals struct {
	Gross          float64 `json:"gross"`
	DiscountPct    float64 `json:"discount_pct"`
	DiscountAmount float64 `json:"discount_amount"`
	Final          float64 `json:"final"`
}

// Cart is the ordered collection of line items for the order being built.
// Insertion order is display order. Not safe for concurrent use; the session
// serializes access.
type Cart struct {
	items []LineItem
}

func NewCart() *Cart {
	return &Cart{}
}

// Items returns a copy of the cart's lines in display order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Add appends an item. Identical configurations stay separate lines; they
// may be annotated differently downstream (ticket/retouch numbers), so there
// is no merging.
func (c *Cart) Add(item LineItem) {
	c.items = append(c.items, item)
}

// Update replaces the item with the given local ID in place, preserving its
// position. Silent no-op when the ID is gone (e.g. removed mid-edit).
func (c *Cart) Update(localID string, item LineItem) {
	for i := range c.items {
		if c.items[i].LocalID == localID {
			item.LocalID = localID
			c.items[i] = item
			return
		}
	}
}

// Remove deletes the item with the given local ID, if present.
func (c *Cart) Remove(localID string) {
	for i := range c.items {
		if c.items[i].LocalID == localID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Get returns the item with the given local ID.
func (c *Cart) Get(localID string) (LineItem, bool) {
	for _, it := range c.items {
		if it.LocalID == localID {
			return it, true
		}
	}
	return LineItem{}, false
}

// AnyUrgent reports whether any line is flagged urgent; an urgent line makes
// the whole order urgent and overrides the delivery schedule.
func (c *Cart) AnyUrgent() bool {
	for _, it := range c.items {
		if it.Urgent {
			return true
		}
	}
	return false
}

// Replace swaps the whole contents, used when rebuilding from remote rows.
func (c *Cart) Replace(items []LineItem) {
	c.items = make([]LineItem, len(items))
	copy(c.items, items)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// ClampDiscount collapses an out-of-range discount to the nearest bound.
// Bad input is corrected, not rejected.
func ClampDiscount(pct float64) float64 {
	switch {
	case pct < 0 || pct != pct: // NaN compares false to itself
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

// Totals recomputes the money preview on every call. The cart holds tens of
// items at most; recomputing is cheaper than keeping a cache honest.
func (c *Cart) Totals(discountPct float64) CartTotals {
	var gross float64
	for _, it := range c.items {
		gross += SanitizeAmount(it.Subtotal)
	}
	pct := ClampDiscount(discountPct)
	discount := gross * pct / 100
	final := gross - discount
	if final < 0 {
		final = 0
	}
	return CartTotals{
		Gross:          gross,
		DiscountPct:    pct,
		DiscountAmount: discount,
		Final:          final,
	}
}
