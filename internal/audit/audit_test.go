package audit

import (
	"context"
	"testing"

	"github.com/yardpilot/yardpilot/internal/store"
)

func TestStoreSinkRecordsTransaction(t *testing.T) {
	st, err := store.Open(store.Config{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer st.Close()

	sink := NewStoreSink(st)
	ctx := context.Background()
	sink.Record(ctx, ActionAdd, "Mulch - Red", 5, "yards", 13, "restock")

	txs, err := st.ListTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("listing transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	tx := txs[0]
	if tx.Action != string(ActionAdd) || tx.Item != "Mulch - Red" || tx.Delta != 5 || tx.Total != 13 {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if tx.ID == "" || tx.Timestamp.IsZero() {
		t.Fatal("sink must assign id and timestamp")
	}
}

func TestStoreSinkSwallowsFailures(t *testing.T) {
	st, err := store.Open(store.Config{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	st.Close()

	// Closed store: the write fails but Record must not panic or surface it.
	sink := NewStoreSink(st)
	sink.Record(context.Background(), ActionRemove, "Topsoil", -2, "yards", 8, "")
}

func TestDiscardSink(t *testing.T) {
	Discard{}.Record(context.Background(), ActionMerge, "x", 0, "", 0, "")
}
