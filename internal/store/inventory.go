package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// nameKey folds an item name to its identity form. Name is the sole row
// identity; the UNIQUE constraint on name_key enforces the catalog invariant
// at the storage layer.
func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ListInventory returns all catalog rows in insertion order.
func (s *SQLiteStore) ListInventory(ctx context.Context) ([]*InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, quantity, unit, location, notes, min_stock, created_at, updated_at
		 FROM inventory ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	defer rows.Close()

	var items []*InventoryItem
	for rows.Next() {
		it := &InventoryItem{}
		if err := rows.Scan(&it.ID, &it.Name, &it.Quantity, &it.Unit, &it.Location,
			&it.Notes, &it.MinStock, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning inventory row: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetItem retrieves a catalog row by case-insensitive name. Returns
// ErrNotFound when no row matches.
func (s *SQLiteStore) GetItem(ctx context.Context, name string) (*InventoryItem, error) {
	it := &InventoryItem{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, quantity, unit, location, notes, min_stock, created_at, updated_at
		 FROM inventory WHERE name_key = ?`, nameKey(name),
	).Scan(&it.ID, &it.Name, &it.Quantity, &it.Unit, &it.Location,
		&it.Notes, &it.MinStock, &it.CreatedAt, &it.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting item %q: %w", name, err)
	}
	return it, nil
}

// CreateItem inserts a new catalog row, applying the documented defaults.
func (s *SQLiteStore) CreateItem(ctx context.Context, it *InventoryItem) error {
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("item name is required")
	}
	if it.Location == "" {
		it.Location = "Unspecified"
	}
	if it.MinStock == 0 {
		it.MinStock = 10
	}
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO inventory (name, name_key, quantity, unit, location, notes, min_stock, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.Name, nameKey(it.Name), it.Quantity, it.Unit, it.Location, it.Notes, it.MinStock, now, now)
	if err != nil {
		return fmt.Errorf("inserting item %q: %w", it.Name, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	it.ID = id
	it.CreatedAt = now
	it.UpdatedAt = now
	return nil
}

// UpdateItem writes quantity, unit, location, notes and min_stock back onto
// the row addressed by the item's name. Returns ErrNotFound when the row no
// longer exists.
func (s *SQLiteStore) UpdateItem(ctx context.Context, it *InventoryItem) error {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`UPDATE inventory SET quantity = ?, unit = ?, location = ?, notes = ?, min_stock = ?, updated_at = ?
		 WHERE name_key = ?`,
		it.Quantity, it.Unit, it.Location, it.Notes, it.MinStock, now, nameKey(it.Name))
	if err != nil {
		return fmt.Errorf("updating item %q: %w", it.Name, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of %q: %w", it.Name, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	it.UpdatedAt = now
	return nil
}

// DeleteItem removes a catalog row by name. Returns ErrNotFound when the row
// is already gone (a merge racing a concurrent delete hits this).
func (s *SQLiteStore) DeleteItem(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM inventory WHERE name_key = ?`, nameKey(name))
	if err != nil {
		return fmt.Errorf("deleting item %q: %w", name, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete of %q: %w", name, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
