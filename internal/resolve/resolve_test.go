package resolve

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yardpilot/yardpilot/internal/cache"
	"github.com/yardpilot/yardpilot/internal/store"
)

// fakeStore is an in-memory Store with fault injection for tier-degradation
// tests.
type fakeStore struct {
	items     []*store.InventoryItem
	fleet     []*store.FleetRecord
	knowledge []*store.KnowledgeEntry

	invErr    error
	fleetErr  error
	knowErr   error
	invPanics bool
}

func (f *fakeStore) ListInventory(context.Context) ([]*store.InventoryItem, error) {
	if f.invPanics {
		panic("inventory backend exploded")
	}
	return f.items, f.invErr
}

func (f *fakeStore) GetItem(_ context.Context, name string) (*store.InventoryItem, error) {
	for _, it := range f.items {
		if strings.EqualFold(it.Name, name) {
			return it, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) CreateItem(_ context.Context, it *store.InventoryItem) error {
	f.items = append(f.items, it)
	return nil
}

func (f *fakeStore) UpdateItem(context.Context, *store.InventoryItem) error { return nil }
func (f *fakeStore) DeleteItem(context.Context, string) error               { return nil }

func (f *fakeStore) ListFleet(context.Context) ([]*store.FleetRecord, error) {
	return f.fleet, f.fleetErr
}
func (f *fakeStore) AddFleetRecord(_ context.Context, r *store.FleetRecord) error {
	f.fleet = append(f.fleet, r)
	return nil
}

func (f *fakeStore) ListKnowledge(context.Context) ([]*store.KnowledgeEntry, error) {
	return f.knowledge, f.knowErr
}
func (f *fakeStore) AddKnowledge(_ context.Context, e *store.KnowledgeEntry) error {
	f.knowledge = append(f.knowledge, e)
	return nil
}

func (f *fakeStore) AppendTransaction(context.Context, *store.Transaction) error { return nil }
func (f *fakeStore) ListTransactions(context.Context, int) ([]*store.Transaction, error) {
	return nil, nil
}
func (f *fakeStore) Close() error { return nil }

type fakeAssistant struct {
	answer string
	err    error
	asked  bool
}

func (f *fakeAssistant) Ask(context.Context, string, string) (string, error) {
	f.asked = true
	return f.answer, f.err
}
func (f *fakeAssistant) Name() string { return "fake/assistant" }

func seededStore() *fakeStore {
	return &fakeStore{
		items: []*store.InventoryItem{
			{Name: "Boxwood - 3gal", Quantity: 12, Unit: "gallons", MinStock: 20},
			{Name: "Mulch - Red", Quantity: 8, Unit: "yards", Location: "Yard A", MinStock: 5},
			{Name: "Pea Gravel", Quantity: 100, Unit: "tons", MinStock: 10},
		},
		fleet: []*store.FleetRecord{
			{Name: "Truck 1", Model: "F-250", Year: 2019, Plate: "ABC-123", Status: "active"},
			{Name: "Truck 2", Model: "F-350", Year: 2021, Plate: "XYZ-987", Status: "in maintenance"},
		},
		knowledge: []*store.KnowledgeEntry{
			{Question: "What are your delivery hours?", Answer: "Deliveries run 7am-3pm weekdays."},
			{Question: "Do you deliver mulch?", Answer: "Yes, within 30 miles."},
		},
	}
}

func newTestOrchestrator(fs *fakeStore) *Orchestrator {
	return New(Config{Store: fs, Cache: cache.NewMemoryCache(0)})
}

func TestResolveEmptyQuery(t *testing.T) {
	o := newTestOrchestrator(seededStore())
	for _, q := range []string{"", "   ", "\t\n"} {
		a := o.Resolve(context.Background(), q)
		if a.Source != SourceError {
			t.Fatalf("Resolve(%q).Source = %s, want error", q, a.Source)
		}
		if a.Text == "" {
			t.Fatal("answer text must never be empty")
		}
	}
}

func TestResolveLowStockScenario(t *testing.T) {
	o := newTestOrchestrator(seededStore())
	a := o.Resolve(context.Background(), "boxwood")
	if a.Source != SourceInventory {
		t.Fatalf("source = %s, want inventory", a.Source)
	}
	if strings.Contains(a.Text, "\n") {
		t.Fatalf("expected a single result line, got %q", a.Text)
	}
	if !strings.Contains(a.Text, "Boxwood - 3gal") || !strings.Contains(a.Text, "LOW STOCK") {
		t.Fatalf("expected low-stock flagged boxwood line, got %q", a.Text)
	}
}

func TestResolveAvailabilityScenario(t *testing.T) {
	o := newTestOrchestrator(seededStore())
	a := o.Resolve(context.Background(), "need 5 yards mulch")
	if a.Source != SourceInventory {
		t.Fatalf("source = %s, want inventory", a.Source)
	}
	if !strings.Contains(a.Text, "Have enough") || !strings.Contains(a.Text, "requested 5") {
		t.Fatalf("expected availability phrasing, got %q", a.Text)
	}
}

func TestResolveShortAvailability(t *testing.T) {
	o := newTestOrchestrator(seededStore())
	a := o.Resolve(context.Background(), "need 20 yards mulch")
	if a.Source != SourceInventory {
		t.Fatalf("source = %s, want inventory", a.Source)
	}
	if !strings.Contains(a.Text, "Short on Mulch - Red") || !strings.Contains(a.Text, "requested 20") {
		t.Fatalf("expected short phrasing, got %q", a.Text)
	}
}

func TestResolveUnitMismatchNoAnnotation(t *testing.T) {
	o := newTestOrchestrator(seededStore())
	a := o.Resolve(context.Background(), "need 5 bags mulch")
	if a.Source != SourceInventory {
		t.Fatalf("source = %s, want inventory", a.Source)
	}
	if strings.Contains(a.Text, "Have enough") || strings.Contains(a.Text, "Short on") {
		t.Fatalf("unit mismatch must not annotate availability, got %q", a.Text)
	}
}

func TestResolveFleetKeywordRouting(t *testing.T) {
	o := newTestOrchestrator(seededStore())
	a := o.Resolve(context.Background(), "truck 1")
	if a.Source != SourceTrucks {
		t.Fatalf("source = %s, want trucks", a.Source)
	}
	if !strings.Contains(a.Text, "F-250") || !strings.Contains(a.Text, "ABC-123") {
		t.Fatalf("expected truck details, got %q", a.Text)
	}
}

func TestResolveFleetSummaryOnMultipleMatches(t *testing.T) {
	o := newTestOrchestrator(seededStore())
	a := o.Resolve(context.Background(), "truck")
	if a.Source != SourceTrucks {
		t.Fatalf("source = %s, want trucks", a.Source)
	}
	if !strings.Contains(a.Text, "Fleet summary: 1 active, 1 in maintenance") {
		t.Fatalf("expected fleet summary line, got %q", a.Text)
	}
}

func TestResolveFleetFallbackForUnclassifiedQuery(t *testing.T) {
	fs := seededStore()
	// No fleet keyword, no inventory match; plate text still finds the
	// vehicle on the fallback fleet tier.
	o := newTestOrchestrator(fs)
	a := o.Resolve(context.Background(), "XYZ-987")
	if a.Source != SourceTrucks {
		t.Fatalf("source = %s, want trucks (fallback tier), text %q", a.Source, a.Text)
	}
}

func TestResolveFleetDisabled(t *testing.T) {
	fs := seededStore()
	o := New(Config{Store: fs, Cache: cache.NewMemoryCache(0), FleetDisabled: true})
	a := o.Resolve(context.Background(), "truck 1")
	if a.Source == SourceTrucks {
		t.Fatal("fleet tier should be skipped when disabled")
	}
}

func TestResolveKnowledgeTier(t *testing.T) {
	o := newTestOrchestrator(seededStore())
	a := o.Resolve(context.Background(), "what are your delivery hours")
	if a.Source != SourceKnowledge {
		t.Fatalf("source = %s, want knowledge (text %q)", a.Source, a.Text)
	}
	if a.Text != "Deliveries run 7am-3pm weekdays." {
		t.Fatalf("expected the stored answer verbatim, got %q", a.Text)
	}
}

func TestResolveNothingFound(t *testing.T) {
	o := newTestOrchestrator(seededStore())
	a := o.Resolve(context.Background(), "quarterly tax filing deadline")
	if a.Source != SourceNone {
		t.Fatalf("source = %s, want none (text %q)", a.Source, a.Text)
	}
	if a.Text == "" {
		t.Fatal("nothing-found answer must still carry text")
	}
}

func TestResolveAITier(t *testing.T) {
	fs := seededStore()
	fa := &fakeAssistant{answer: "Try the supplier up on Route 9."}
	o := New(Config{Store: fs, Cache: cache.NewMemoryCache(0), Assistant: fa})
	a := o.Resolve(context.Background(), "quarterly tax filing deadline")
	if a.Source != SourceAI {
		t.Fatalf("source = %s, want ai", a.Source)
	}
	if a.Text != "Try the supplier up on Route 9." {
		t.Fatalf("unexpected AI answer %q", a.Text)
	}
	if !fa.asked {
		t.Fatal("assistant should have been consulted")
	}
}

func TestResolveAINotConsultedWhenLocalTierAnswers(t *testing.T) {
	fs := seededStore()
	fa := &fakeAssistant{answer: "should not be used"}
	o := New(Config{Store: fs, Cache: cache.NewMemoryCache(0), Assistant: fa})
	a := o.Resolve(context.Background(), "boxwood")
	if a.Source != SourceInventory {
		t.Fatalf("source = %s, want inventory", a.Source)
	}
	if fa.asked {
		t.Fatal("assistant must only be the last tier")
	}
}

func TestResolveAIFailureIsApology(t *testing.T) {
	fs := seededStore()
	fa := &fakeAssistant{err: errors.New("upstream down")}
	o := New(Config{Store: fs, Cache: cache.NewMemoryCache(0), Assistant: fa})
	a := o.Resolve(context.Background(), "quarterly tax filing deadline")
	if a.Source != SourceError {
		t.Fatalf("source = %s, want error", a.Source)
	}
	if a.Text == "" {
		t.Fatal("apology answer must carry text")
	}
}

func TestResolveDegradesPastFailingTier(t *testing.T) {
	fs := seededStore()
	fs.invErr = errors.New("sheet backend offline")
	o := newTestOrchestrator(fs)
	a := o.Resolve(context.Background(), "what are your delivery hours")
	if a.Source != SourceKnowledge {
		t.Fatalf("expected degrade to knowledge, got %s (%q)", a.Source, a.Text)
	}
}

func TestResolveContainsPanic(t *testing.T) {
	fs := seededStore()
	fs.invPanics = true
	o := newTestOrchestrator(fs)
	a := o.Resolve(context.Background(), "what are your delivery hours")
	if a.Source != SourceKnowledge {
		t.Fatalf("panic in a tier must degrade, got %s (%q)", a.Source, a.Text)
	}
}

func TestResolveCacheIdempotence(t *testing.T) {
	fs := seededStore()
	c := cache.NewMemoryCache(0)
	o := New(Config{Store: fs, Cache: c})
	ctx := context.Background()

	first := o.Resolve(ctx, "boxwood")
	// Mutate the backing slice without invalidating: the cached answer keeps
	// serving until a mutation clears it.
	fs.items[0].Quantity = 999
	second := o.Resolve(ctx, "boxwood")
	if first.Text != second.Text {
		t.Fatalf("identical queries within TTL should be byte-identical:\n%q\n%q", first.Text, second.Text)
	}

	if err := c.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	third := o.Resolve(ctx, "boxwood")
	if third.Text == first.Text {
		t.Fatal("after invalidation the recomputed answer should reflect the new quantity")
	}
}

func TestResolveKnowledgeBestOnly(t *testing.T) {
	fs := &fakeStore{
		knowledge: []*store.KnowledgeEntry{
			{Question: "Do you deliver mulch?", Answer: "Yes, within 30 miles."},
			{Question: "Do you deliver gravel?", Answer: "Gravel delivery is Tuesdays."},
		},
	}
	o := newTestOrchestrator(fs)
	a := o.Resolve(context.Background(), "do you deliver gravel")
	if a.Source != SourceKnowledge {
		t.Fatalf("source = %s, want knowledge", a.Source)
	}
	if a.Text != "Gravel delivery is Tuesdays." {
		t.Fatalf("knowledge tier must return only the single best answer, got %q", a.Text)
	}
}

func TestResolveAlwaysReturnsDefinedSource(t *testing.T) {
	o := newTestOrchestrator(seededStore())
	valid := map[Source]bool{
		SourceTrucks: true, SourceInventory: true, SourceKnowledge: true,
		SourceAI: true, SourceNone: true, SourceError: true,
	}
	queries := []string{"", "boxwood", "truck", "delivery hours", "zzzz qqqq", "need 3 yd mulch"}
	for _, q := range queries {
		a := o.Resolve(context.Background(), q)
		if !valid[a.Source] {
			t.Fatalf("Resolve(%q) produced undefined source %q", q, a.Source)
		}
		if a.Text == "" {
			t.Fatalf("Resolve(%q) produced empty text", q)
		}
	}
}
