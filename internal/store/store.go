// Package store provides the SQLite storage layer for yardpilot.
//
// All operational data lives in a single SQLite database file:
// - the stock catalog (inventory)
// - the vehicle fleet roster
// - the question/answer knowledge base
// - the append-only transaction audit trail
//
// The rest of the system treats Store as an abstract tabular collaborator;
// row identity for inventory is the case-insensitive item name.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultDBPath is the default database location.
const DefaultDBPath = "~/.yardpilot/yardpilot.db"

// ErrNotFound is returned when a row addressed by name does not exist.
var ErrNotFound = errors.New("not found")

// InventoryItem is one stocked material. Name is the sole identity,
// case-insensitive; two rows with equal folded names violate the catalog
// invariant and are surfaced by the duplicate detector, not silently fixed.
type InventoryItem struct {
	ID        int64
	Name      string
	Quantity  int
	Unit      string
	Location  string
	Notes     string
	MinStock  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LowStock reports whether the on-hand quantity is under the reorder floor.
func (it *InventoryItem) LowStock() bool {
	return it.Quantity < it.MinStock
}

// FleetRecord is one vehicle. Read-mostly; written through external
// maintenance workflows, read here for query resolution.
type FleetRecord struct {
	ID        int64
	Name      string
	Model     string
	Year      int
	Plate     string
	Status    string
	LastMaint string
	NextMaint string
	Notes     string
}

// KnowledgeEntry is one canned question/answer pair.
type KnowledgeEntry struct {
	ID       int64
	Question string
	Answer   string
}

// Transaction is one audit-trail row. Append-only; never read by the query
// resolution path.
type Transaction struct {
	ID        string
	Timestamp time.Time
	Action    string
	Item      string
	Delta     int
	Unit      string
	Total     int
	Note      string
}

// Store is the tabular collaborator contract.
type Store interface {
	// Inventory
	ListInventory(ctx context.Context) ([]*InventoryItem, error)
	GetItem(ctx context.Context, name string) (*InventoryItem, error)
	CreateItem(ctx context.Context, it *InventoryItem) error
	UpdateItem(ctx context.Context, it *InventoryItem) error
	DeleteItem(ctx context.Context, name string) error

	// Fleet
	ListFleet(ctx context.Context) ([]*FleetRecord, error)
	AddFleetRecord(ctx context.Context, r *FleetRecord) error

	// Knowledge base
	ListKnowledge(ctx context.Context) ([]*KnowledgeEntry, error)
	AddKnowledge(ctx context.Context, e *KnowledgeEntry) error

	// Audit trail
	AppendTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, limit int) ([]*Transaction, error)

	Close() error
}

// Config holds configuration for Open.
type Config struct {
	DBPath string
}

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// Open creates a SQLite-backed Store, running migrations as needed.
// Pass ":memory:" for throwaway databases in tests.
func Open(cfg Config) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		cfg.DBPath = expandPath(DefaultDBPath)
	}

	if cfg.DBPath != ":memory:" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, dbPath: cfg.DBPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
