// Package inventory implements the mutating side of the stock catalog:
// add, subtract, update, merge and batch import, each committing through a
// single path that writes the audit trail and invalidates the answer cache.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yardpilot/yardpilot/internal/audit"
	"github.com/yardpilot/yardpilot/internal/cache"
	"github.com/yardpilot/yardpilot/internal/dedup"
	"github.com/yardpilot/yardpilot/internal/store"
)

var (
	// ErrInsufficientStock means a subtraction would leave the quantity
	// negative. The store is left untouched.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrMissingFields means a mutation lacked a required field.
	ErrMissingFields = errors.New("missing required fields")
)

// Op is the closed set of mutating operations. Routing happens over this
// enum, never over operation-name strings.
type Op int

const (
	OpAdd Op = iota
	OpSubtract
	OpUpdate
	OpMerge
	OpImport
)

func (op Op) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpUpdate:
		return "update"
	case OpMerge:
		return "merge"
	case OpImport:
		return "import"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// action maps the operation to its audit-trail tag. Add-style operations
// split on whether the row was created or accumulated into.
func (op Op) action(created bool) audit.Action {
	switch op {
	case OpAdd, OpImport:
		if created {
			return audit.ActionNew
		}
		return audit.ActionAdd
	case OpSubtract:
		return audit.ActionRemove
	case OpUpdate:
		return audit.ActionUpdate
	case OpMerge:
		return audit.ActionMerge
	default:
		return audit.Action(op.String())
	}
}

// Service carries out inventory mutations against the store, recording every
// commit in the audit trail and clearing the answer cache.
type Service struct {
	store store.Store
	cache cache.AnswerCache
	audit audit.Sink
}

// NewService wires a mutation service. A nil sink discards audit records.
func NewService(st store.Store, c cache.AnswerCache, sink audit.Sink) *Service {
	if sink == nil {
		sink = audit.Discard{}
	}
	return &Service{store: st, cache: c, audit: sink}
}

// commit is the single mutation-commit path: one audit record, one bulk
// cache invalidation. Every successful mutation funnels through here.
func (s *Service) commit(ctx context.Context, op Op, created bool, item string, delta int, unit string, total int, note string) {
	s.audit.Record(ctx, op.action(created), item, delta, unit, total, note)
	if s.cache != nil {
		if err := s.cache.ClearAll(ctx); err != nil {
			// A stale cache answer is acceptable for up to the TTL; the
			// mutation itself has already committed.
			return
		}
	}
}

// Add increases stock for an existing item, or creates the row when no
// case-insensitive name matches.
func (s *Service) Add(ctx context.Context, name string, qty int, unit, location, notes string) (*store.InventoryItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingFields)
	}
	if qty < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrMissingFields)
	}

	it, err := s.store.GetItem(ctx, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		it = &store.InventoryItem{
			Name:     strings.TrimSpace(name),
			Quantity: qty,
			Unit:     unit,
			Location: location,
			Notes:    notes,
		}
		if err := s.store.CreateItem(ctx, it); err != nil {
			return nil, fmt.Errorf("creating %q: %w", name, err)
		}
		s.commit(ctx, OpAdd, true, it.Name, qty, it.Unit, it.Quantity, notes)
		return it, nil
	case err != nil:
		return nil, fmt.Errorf("looking up %q: %w", name, err)
	}

	it.Quantity += qty
	if unit != "" {
		it.Unit = unit
	}
	if err := s.store.UpdateItem(ctx, it); err != nil {
		return nil, fmt.Errorf("adding to %q: %w", name, err)
	}
	s.commit(ctx, OpAdd, false, it.Name, qty, it.Unit, it.Quantity, notes)
	return it, nil
}

// Subtract removes stock. Over-subtraction leaves the store unchanged and
// returns ErrInsufficientStock; a committed row is never negative.
func (s *Service) Subtract(ctx context.Context, name string, qty int, note string) (*store.InventoryItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingFields)
	}
	if qty < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrMissingFields)
	}

	it, err := s.store.GetItem(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("looking up %q: %w", name, err)
	}
	if qty > it.Quantity {
		return nil, fmt.Errorf("%w: %q has %d, requested %d", ErrInsufficientStock, it.Name, it.Quantity, qty)
	}

	it.Quantity -= qty
	if err := s.store.UpdateItem(ctx, it); err != nil {
		return nil, fmt.Errorf("subtracting from %q: %w", name, err)
	}
	s.commit(ctx, OpSubtract, false, it.Name, -qty, it.Unit, it.Quantity, note)
	return it, nil
}

// UpdateFields carries the optional fields of an update mutation. Nil means
// "leave unchanged".
type UpdateFields struct {
	Quantity *int
	Unit     *string
	Location *string
	Notes    *string
	MinStock *int
}

// Update rewrites catalog fields in place.
func (s *Service) Update(ctx context.Context, name string, fields UpdateFields) (*store.InventoryItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingFields)
	}

	it, err := s.store.GetItem(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("looking up %q: %w", name, err)
	}

	delta := 0
	if fields.Quantity != nil {
		if *fields.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must not be negative", ErrMissingFields)
		}
		delta = *fields.Quantity - it.Quantity
		it.Quantity = *fields.Quantity
	}
	if fields.Unit != nil {
		it.Unit = *fields.Unit
	}
	if fields.Location != nil {
		it.Location = *fields.Location
	}
	if fields.Notes != nil {
		it.Notes = *fields.Notes
	}
	if fields.MinStock != nil {
		it.MinStock = *fields.MinStock
	}

	if err := s.store.UpdateItem(ctx, it); err != nil {
		return nil, fmt.Errorf("updating %q: %w", name, err)
	}
	s.commit(ctx, OpUpdate, false, it.Name, delta, it.Unit, it.Quantity, "")
	return it, nil
}

// Merge folds two near-duplicate rows into one. The survivor (keepA selects
// which) takes the summed quantity; the other row is deleted. Fails with
// store.ErrNotFound when either row disappeared since the duplicate scan.
func (s *Service) Merge(ctx context.Context, nameA, nameB string, keepA bool) (*store.InventoryItem, error) {
	a, err := s.store.GetItem(ctx, nameA)
	if err != nil {
		return nil, fmt.Errorf("merge source %q: %w", nameA, err)
	}
	b, err := s.store.GetItem(ctx, nameB)
	if err != nil {
		return nil, fmt.Errorf("merge source %q: %w", nameB, err)
	}

	keep, drop := a, b
	if !keepA {
		keep, drop = b, a
	}

	sum := a.Quantity + b.Quantity
	keep.Quantity = sum
	if err := s.store.UpdateItem(ctx, keep); err != nil {
		return nil, fmt.Errorf("writing merged quantity onto %q: %w", keep.Name, err)
	}
	if err := s.store.DeleteItem(ctx, drop.Name); err != nil {
		return nil, fmt.Errorf("removing merged row %q: %w", drop.Name, err)
	}

	note := fmt.Sprintf("merged %q into %q", drop.Name, keep.Name)
	s.commit(ctx, OpMerge, false, keep.Name, drop.Quantity, keep.Unit, sum, note)
	return keep, nil
}

// FindDuplicates scans all catalog names for near-duplicate pairs. Pass
// threshold <= 0 for the default (0.8).
func (s *Service) FindDuplicates(ctx context.Context, threshold float64) ([]dedup.Pair, error) {
	items, err := s.store.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning catalog for duplicates: %w", err)
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return dedup.FindPairs(names, threshold), nil
}

// LowStock returns the items whose quantity sits under their reorder floor,
// in catalog order.
func (s *Service) LowStock(ctx context.Context) ([]*store.InventoryItem, error) {
	items, err := s.store.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	var low []*store.InventoryItem
	for _, it := range items {
		if it.LowStock() {
			low = append(low, it)
		}
	}
	return low, nil
}
