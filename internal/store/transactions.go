package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AppendTransaction writes one audit row. IDs are assigned here when the
// caller leaves them blank.
func (s *SQLiteStore) AppendTransaction(ctx context.Context, tx *Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, ts, action, item, delta, unit, total, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Timestamp, tx.Action, tx.Item, tx.Delta, tx.Unit, tx.Total, tx.Note)
	if err != nil {
		return fmt.Errorf("appending transaction: %w", err)
	}
	return nil
}

// ListTransactions returns the most recent audit rows, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, limit int) ([]*Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, action, item, delta, unit, total, note
		 FROM transactions ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*Transaction
	for rows.Next() {
		tx := &Transaction{}
		if err := rows.Scan(&tx.ID, &tx.Timestamp, &tx.Action, &tx.Item,
			&tx.Delta, &tx.Unit, &tx.Total, &tx.Note); err != nil {
			return nil, fmt.Errorf("scanning transaction row: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
