package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/yardpilot/yardpilot/internal/match"
	"github.com/yardpilot/yardpilot/internal/quantity"
	"github.com/yardpilot/yardpilot/internal/store"
	"github.com/yardpilot/yardpilot/internal/text"
)

// searchInventory resolves a query against the stock catalog. Returns "" for
// no match or on any store failure.
func (o *Orchestrator) searchInventory(ctx context.Context, query string) string {
	return o.cached(ctx, "inventory", query, func() string {
		items, err := o.store.ListInventory(ctx)
		if err != nil {
			return ""
		}
		return formatInventoryAnswer(query, items)
	})
}

func formatInventoryAnswer(query string, items []*store.InventoryItem) string {
	records := make([]match.Record, len(items))
	for i, it := range items {
		records[i] = match.Record{
			Primary: it.Name,
			Extra:   []string{it.Location, it.Notes, it.Unit},
		}
	}

	// The quantity phrase is request metadata, not item identity: strip it
	// before ranking so "need 5 yards mulch" searches for "mulch".
	req := quantity.Parse(query)
	ranked := match.Rank(quantity.Strip(query), records, recordThreshold, match.Options{Normalize: true})
	if len(ranked) == 0 {
		return ""
	}

	lines := make([]string, 0, len(ranked))
	for _, r := range ranked {
		lines = append(lines, formatInventoryLine(items[r.Index], req))
	}
	return strings.Join(lines, "\n")
}

// formatInventoryLine renders one stock row. When the query carried a parsed
// quantity whose unit matches the row's, the line leads with an availability
// judgment; a row under its reorder floor is flagged either way.
func formatInventoryLine(it *store.InventoryItem, req *quantity.Request) string {
	var b strings.Builder

	if req != nil && text.UnitsMatch(req.Unit, it.Unit) {
		if it.Quantity >= req.Quantity {
			fmt.Fprintf(&b, "Have enough %s: %d %s on hand, requested %d", it.Name, it.Quantity, it.Unit, req.Quantity)
		} else {
			fmt.Fprintf(&b, "Short on %s: %d %s on hand, requested %d", it.Name, it.Quantity, it.Unit, req.Quantity)
		}
	} else {
		fmt.Fprintf(&b, "%s: %d %s", it.Name, it.Quantity, it.Unit)
	}

	if it.Location != "" && it.Location != "Unspecified" {
		fmt.Fprintf(&b, " at %s", it.Location)
	}
	if it.Notes != "" {
		fmt.Fprintf(&b, " (%s)", it.Notes)
	}
	if it.LowStock() {
		fmt.Fprintf(&b, " [LOW STOCK: %d below min %d]", it.Quantity, it.MinStock)
	}
	return b.String()
}
