package domain

import (
	"sort"
	"strings"
)

// CatalogEntry is one row of the price list: a (size, quantity) pair mapped
// to its base package price and the two surcharge amounts.
type CatalogEntry struct {
	Size             string
	Quantity         int
	BasePrice        float64
	UrgentSurcharge  float64
	PremiumSurcharge float64
}

type catalogKey struct {
	size     string
	quantity int
}

// Catalog is an in-memory index over the price list, built once per session
// and reloadable on demand. Lookups are exact-match on the normalized pair;
// no fuzzy matching, so an unlisted combination forces the operator to pick a
// listed pair or switch to a manual line.
type Catalog struct {
	entries map[catalogKey]CatalogEntry
	order   []CatalogEntry
}

// NormalizeSize uppercases and trims a size label the same way the price list
// stores it.
func NormalizeSize(size string) string {
	return strings.ToUpper(strings.TrimSpace(size))
}

// NewCatalog builds the index. Later duplicates of a (size, quantity) pair
// overwrite earlier ones; the store enforces uniqueness so this only matters
// for hand-built test fixtures.
func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{entries: make(map[catalogKey]CatalogEntry, len(entries))}
	for _, e := range entries {
		e.Size = NormalizeSize(e.Size)
		c.entries[catalogKey{e.Size, e.Quantity}] = e
		c.order = append(c.order, e)
	}
	return c
}

// Len reports how many entries the index holds. An empty catalog is valid; it
// just answers not-found on every lookup.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup returns the entry for the normalized (size, quantity) pair.
func (c *Catalog) Lookup(size string, quantity int) (CatalogEntry, bool) {
	e, ok := c.entries[catalogKey{NormalizeSize(size), quantity}]
	return e, ok
}

// Sizes returns the distinct sizes in the catalog, sorted.
func (c *Catalog) Sizes() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range c.order {
		if _, dup := seen[e.Size]; dup {
			continue
		}
		seen[e.Size] = struct{}{}
		out = append(out, e.Size)
	}
	sort.Strings(out)
	return out
}

// QuantitiesFor returns the sorted quantities valid for a size. The line
// builder uses it to keep the quantity selector consistent with the chosen
// size.
func (c *Catalog) QuantitiesFor(size string) []int {
	norm := NormalizeSize(size)
	var out []int
	for k := range c.entries {
		if k.size == norm {
			out = append(out, k.quantity)
		}
	}
	sort.Ints(out)
	return out
}

// SnapQuantity keeps a selected quantity valid after a size change: if the
// current quantity does not exist for the size, the smallest valid quantity
// for that size is returned instead. Sizes with no entries leave the
// selection untouched.
func (c *Catalog) SnapQuantity(size string, quantity int) int {
	opts := c.QuantitiesFor(size)
	if len(opts) == 0 {
		return quantity
	}
	for _, q := range opts {
		if q == quantity {
			return quantity
		}
	}
	return opts[0]
}
