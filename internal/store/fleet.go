package store

import (
	"context"
	"fmt"
)

// ListFleet returns every vehicle in insertion order.
func (s *SQLiteStore) ListFleet(ctx context.Context) ([]*FleetRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, model, year, plate, status, last_maint, next_maint, notes
		 FROM fleet ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing fleet: %w", err)
	}
	defer rows.Close()

	var records []*FleetRecord
	for rows.Next() {
		r := &FleetRecord{}
		if err := rows.Scan(&r.ID, &r.Name, &r.Model, &r.Year, &r.Plate,
			&r.Status, &r.LastMaint, &r.NextMaint, &r.Notes); err != nil {
			return nil, fmt.Errorf("scanning fleet row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// AddFleetRecord inserts a vehicle row. Maintenance workflows own fleet
// writes; this exists for seeding and import.
func (s *SQLiteStore) AddFleetRecord(ctx context.Context, r *FleetRecord) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO fleet (name, model, year, plate, status, last_maint, next_maint, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.Model, r.Year, r.Plate, r.Status, r.LastMaint, r.NextMaint, r.Notes)
	if err != nil {
		return fmt.Errorf("inserting fleet record %q: %w", r.Name, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	r.ID = id
	return nil
}

// ListKnowledge returns every knowledge entry in insertion order.
func (s *SQLiteStore) ListKnowledge(ctx context.Context) ([]*KnowledgeEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, answer FROM knowledge ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing knowledge: %w", err)
	}
	defer rows.Close()

	var entries []*KnowledgeEntry
	for rows.Next() {
		e := &KnowledgeEntry{}
		if err := rows.Scan(&e.ID, &e.Question, &e.Answer); err != nil {
			return nil, fmt.Errorf("scanning knowledge row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AddKnowledge inserts a question/answer pair.
func (s *SQLiteStore) AddKnowledge(ctx context.Context, e *KnowledgeEntry) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO knowledge (question, answer) VALUES (?, ?)`, e.Question, e.Answer)
	if err != nil {
		return fmt.Errorf("inserting knowledge entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	e.ID = id
	return nil
}
