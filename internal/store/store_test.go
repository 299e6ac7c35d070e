package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(Config{DBPath: filepath.Join(t.TempDir(), "yardpilot.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInventoryCreateGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	it := &InventoryItem{Name: "Boxwood - 3gal", Quantity: 12, Unit: "gallons", MinStock: 20}
	if err := s.CreateItem(ctx, it); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if it.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}
	if it.Location != "Unspecified" {
		t.Fatalf("default location = %q, want Unspecified", it.Location)
	}

	got, err := s.GetItem(ctx, "BOXWOOD - 3GAL")
	if err != nil {
		t.Fatalf("GetItem (case-insensitive): %v", err)
	}
	if got.Name != "Boxwood - 3gal" || got.Quantity != 12 {
		t.Fatalf("unexpected row: %+v", got)
	}
	if !got.LowStock() {
		t.Fatal("12 < min 20 should be low stock")
	}
}

func TestInventoryMinStockDefault(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	it := &InventoryItem{Name: "Pea Gravel", Quantity: 40, Unit: "tons"}
	if err := s.CreateItem(ctx, it); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if it.MinStock != 10 {
		t.Fatalf("default min stock = %d, want 10", it.MinStock)
	}
}

func TestInventoryNameIdentityUnique(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateItem(ctx, &InventoryItem{Name: "Mulch - Red"}); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	// Same name modulo case is the same identity; the store rejects it.
	if err := s.CreateItem(ctx, &InventoryItem{Name: "mulch - red"}); err == nil {
		t.Fatal("expected unique constraint violation for case-folded duplicate")
	}
}

func TestInventoryUpdateDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	it := &InventoryItem{Name: "Topsoil", Quantity: 5, Unit: "bags"}
	if err := s.CreateItem(ctx, it); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	it.Quantity = 30
	it.Location = "Yard B"
	if err := s.UpdateItem(ctx, it); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	got, err := s.GetItem(ctx, "topsoil")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Quantity != 30 || got.Location != "Yard B" {
		t.Fatalf("update not persisted: %+v", got)
	}

	if err := s.DeleteItem(ctx, "Topsoil"); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if _, err := s.GetItem(ctx, "Topsoil"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteItem(ctx, "Topsoil"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete should be ErrNotFound, got %v", err)
	}
}

func TestInventoryInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	names := []string{"Zebra Grass", "Arborvitae", "Mulch - Red"}
	for _, n := range names {
		if err := s.CreateItem(ctx, &InventoryItem{Name: n}); err != nil {
			t.Fatalf("CreateItem %q: %v", n, err)
		}
	}
	items, err := s.ListInventory(ctx)
	if err != nil {
		t.Fatalf("ListInventory: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, n := range names {
		if items[i].Name != n {
			t.Fatalf("row %d = %q, want %q (insertion order)", i, items[i].Name, n)
		}
	}
}

func TestFleetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := &FleetRecord{Name: "Truck 1", Model: "F-250", Year: 2019, Plate: "ABC-123", Status: "active"}
	if err := s.AddFleetRecord(ctx, r); err != nil {
		t.Fatalf("AddFleetRecord: %v", err)
	}
	records, err := s.ListFleet(ctx)
	if err != nil {
		t.Fatalf("ListFleet: %v", err)
	}
	if len(records) != 1 || records[0].Model != "F-250" {
		t.Fatalf("unexpected fleet rows: %+v", records)
	}
}

func TestKnowledgeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := &KnowledgeEntry{Question: "Do you deliver?", Answer: "Yes, within 30 miles."}
	if err := s.AddKnowledge(ctx, e); err != nil {
		t.Fatalf("AddKnowledge: %v", err)
	}
	entries, err := s.ListKnowledge(ctx)
	if err != nil {
		t.Fatalf("ListKnowledge: %v", err)
	}
	if len(entries) != 1 || entries[0].Answer != "Yes, within 30 miles." {
		t.Fatalf("unexpected knowledge rows: %+v", entries)
	}
}

func TestTransactionsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, action := range []string{"NEW", "ADD", "REMOVE"} {
		if err := s.AppendTransaction(ctx, &Transaction{Action: action, Item: "Mulch - Red", Delta: 1, Total: 1}); err != nil {
			t.Fatalf("AppendTransaction %s: %v", action, err)
		}
	}
	txs, err := s.ListTransactions(ctx, 2)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("limit not applied, got %d rows", len(txs))
	}
	for _, tx := range txs {
		if tx.ID == "" {
			t.Fatal("transaction ID should be assigned")
		}
	}
}
