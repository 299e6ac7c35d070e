package inventory

import (
	"strings"

	"github.com/yardpilot/yardpilot/internal/store"
)

// Catalog is an in-memory view of the inventory table: insertion order
// preserved for rendering, plus a map keyed by folded name for O(1) identity
// lookup. Row position is never used as identity; the name index is.
type Catalog struct {
	items []*store.InventoryItem
	index map[string]int
}

// NewCatalog builds the indexed view from store rows. When duplicate
// identities slip in (the invariant the duplicate detector exists to catch),
// the first row wins the index slot and the later one remains visible in
// iteration order for the detector to flag.
func NewCatalog(items []*store.InventoryItem) *Catalog {
	c := &Catalog{
		items: items,
		index: make(map[string]int, len(items)),
	}
	for i, it := range items {
		key := foldName(it.Name)
		if _, ok := c.index[key]; !ok {
			c.index[key] = i
		}
	}
	return c
}

// Get looks an item up by case-insensitive name, or nil.
func (c *Catalog) Get(name string) *store.InventoryItem {
	i, ok := c.index[foldName(name)]
	if !ok {
		return nil
	}
	return c.items[i]
}

// Add appends a new row and indexes it, unless the identity is already
// taken.
func (c *Catalog) Add(it *store.InventoryItem) {
	c.items = append(c.items, it)
	key := foldName(it.Name)
	if _, ok := c.index[key]; !ok {
		c.index[key] = len(c.items) - 1
	}
}

// Items returns the rows in insertion order.
func (c *Catalog) Items() []*store.InventoryItem {
	return c.items
}

// Len returns the number of rows.
func (c *Catalog) Len() int {
	return len(c.items)
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
