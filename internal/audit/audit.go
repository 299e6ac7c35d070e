// Package audit writes the append-only transaction trail. The trail is for
// external reporting only; nothing in query resolution reads it, and a
// failed audit write must never fail the mutation that triggered it.
package audit

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/yardpilot/yardpilot/internal/store"
)

// Action tags one audit row.
type Action string

const (
	ActionAdd    Action = "ADD"
	ActionNew    Action = "NEW"
	ActionRemove Action = "REMOVE"
	ActionUpdate Action = "UPDATE"
	ActionMerge  Action = "MERGE"
)

// Sink records inventory mutations.
type Sink interface {
	Record(ctx context.Context, action Action, item string, delta int, unit string, total int, note string)
}

// StoreSink appends transactions to the tabular store.
type StoreSink struct {
	store store.Store
}

// NewStoreSink creates a Sink backed by the given store.
func NewStoreSink(s store.Store) *StoreSink {
	return &StoreSink{store: s}
}

// Record appends one transaction. Fire-and-forget: failures are reported to
// stderr and swallowed.
func (s *StoreSink) Record(ctx context.Context, action Action, item string, delta int, unit string, total int, note string) {
	tx := &store.Transaction{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Action:    string(action),
		Item:      item,
		Delta:     delta,
		Unit:      unit,
		Total:     total,
		Note:      note,
	}
	if err := s.store.AppendTransaction(ctx, tx); err != nil {
		fmt.Fprintf(os.Stderr, "[audit] dropping %s transaction for %q: %v\n", action, item, err)
	}
}

// Discard is a Sink that drops every record. Useful in tests.
type Discard struct{}

func (Discard) Record(context.Context, Action, string, int, string, int, string) {}
