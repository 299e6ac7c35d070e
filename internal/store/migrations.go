package store

import "fmt"

// migrate creates all tables if they don't exist. Idempotent; safe to run on
// every open.
func (s *SQLiteStore) migrate() error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS inventory (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			name_key TEXT NOT NULL UNIQUE,
			quantity INTEGER NOT NULL DEFAULT 0,
			unit TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT 'Unspecified',
			notes TEXT NOT NULL DEFAULT '',
			min_stock INTEGER NOT NULL DEFAULT 10,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS fleet (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			model TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			plate TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			last_maint TEXT NOT NULL DEFAULT '',
			next_maint TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS knowledge (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question TEXT NOT NULL,
			answer TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			ts TIMESTAMP NOT NULL,
			action TEXT NOT NULL,
			item TEXT NOT NULL,
			delta INTEGER NOT NULL DEFAULT 0,
			unit TEXT NOT NULL DEFAULT '',
			total INTEGER NOT NULL DEFAULT 0,
			note TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_ts ON transactions(ts DESC)`,
	}

	for _, stmt := range ddl {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
