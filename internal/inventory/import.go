package inventory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yardpilot/yardpilot/internal/store"
)

// ImportRow is one parsed batch-import line.
type ImportRow struct {
	Name     string
	Quantity int
	Unit     string
	Location string
	Notes    string
	MinStock int
}

// ImportSummary reports what a batch import did.
type ImportSummary struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors,omitempty"`
}

// ParseCSV reads import rows as name,quantity,unit[,location,notes,minStock].
// A header line starting with "name" is skipped.
func ParseCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows []ImportRow
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line+1, err)
		}
		line++
		if len(record) < 2 {
			return nil, fmt.Errorf("csv line %d: need at least name,quantity", line)
		}
		name := strings.TrimSpace(record[0])
		if line == 1 && strings.EqualFold(name, "name") {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: bad quantity %q", line, record[1])
		}
		row := ImportRow{Name: name, Quantity: qty}
		if len(record) > 2 {
			row.Unit = strings.TrimSpace(record[2])
		}
		if len(record) > 3 {
			row.Location = strings.TrimSpace(record[3])
		}
		if len(record) > 4 {
			row.Notes = strings.TrimSpace(record[4])
		}
		if len(record) > 5 {
			ms, err := strconv.Atoi(strings.TrimSpace(record[5]))
			if err != nil {
				return nil, fmt.Errorf("csv line %d: bad min stock %q", line, record[5])
			}
			row.MinStock = ms
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Import applies batch rows with add-or-create semantics. The catalog is
// loaded once and addressed through its name index, so rows later in the
// batch see the items earlier rows created. The whole batch commits as one
// mutation: one audit record per row but a single cache invalidation at the
// end.
func (s *Service) Import(ctx context.Context, rows []ImportRow) (*ImportSummary, error) {
	items, err := s.store.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	cat := NewCatalog(items)

	summary := &ImportSummary{}
	for _, row := range rows {
		if strings.TrimSpace(row.Name) == "" {
			summary.Errors = append(summary.Errors, "row with blank name skipped")
			continue
		}
		if row.Quantity < 0 {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: negative quantity skipped", row.Name))
			continue
		}

		if it := cat.Get(row.Name); it != nil {
			it.Quantity += row.Quantity
			if row.Unit != "" {
				it.Unit = row.Unit
			}
			if row.Location != "" {
				it.Location = row.Location
			}
			if err := s.store.UpdateItem(ctx, it); err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", row.Name, err))
				continue
			}
			s.audit.Record(ctx, OpImport.action(false), it.Name, row.Quantity, it.Unit, it.Quantity, "batch import")
			summary.Updated++
			continue
		}

		it := &store.InventoryItem{
			Name:     row.Name,
			Quantity: row.Quantity,
			Unit:     row.Unit,
			Location: row.Location,
			Notes:    row.Notes,
			MinStock: row.MinStock,
		}
		if err := s.store.CreateItem(ctx, it); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", row.Name, err))
			continue
		}
		cat.Add(it)
		s.audit.Record(ctx, OpImport.action(true), it.Name, row.Quantity, it.Unit, it.Quantity, "batch import")
		summary.Created++
	}

	if s.cache != nil {
		if err := s.cache.ClearAll(ctx); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("cache invalidation: %v", err))
		}
	}
	return summary, nil
}
