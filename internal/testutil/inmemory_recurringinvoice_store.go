package testutil

import (
	"context"
	"time"

	"github.com/billhive/billhive/internal/domain/recurringinvoice"
	ierr "github.com/billhive/billhive/internal/errors"
	"github.com/billhive/billhive/internal/types"
	"github.com/samber/lo"
)

// InMemoryRecurringInvoiceStore implements recurringinvoice.Repository
type InMemoryRecurringInvoiceStore struct {
	*InMemoryStore[*recurringinvoice.RecurringInvoice]

	// ListDueError, when set, makes ListDue fail; used to exercise the
	// top-level batch failure path in tests.
	ListDueError error
}

// NewInMemoryRecurringInvoiceStore creates a new in-memory recurring invoice store
func NewInMemoryRecurringInvoiceStore() *InMemoryRecurringInvoiceStore {
	return &InMemoryRecurringInvoiceStore{
		InMemoryStore: NewInMemoryStore[*recurringinvoice.RecurringInvoice](),
	}
}

// Helper to deep copy a recurring invoice so callers never share cursor state
func copyRecurringInvoice(ri *recurringinvoice.RecurringInvoice) *recurringinvoice.RecurringInvoice {
	if ri == nil {
		return nil
	}

	copied := *ri
	copied.LineItems = append([]recurringinvoice.LineItem(nil), ri.LineItems...)
	copied.GeneratedInvoiceIDs = append([]string(nil), ri.GeneratedInvoiceIDs...)
	if ri.EndDate != nil {
		copied.EndDate = lo.ToPtr(*ri.EndDate)
	}
	if ri.LastGeneratedDate != nil {
		copied.LastGeneratedDate = lo.ToPtr(*ri.LastGeneratedDate)
	}
	if ri.LastInvoiceNumber != nil {
		copied.LastInvoiceNumber = lo.ToPtr(*ri.LastInvoiceNumber)
	}
	if ri.PausedUntil != nil {
		copied.PausedUntil = lo.ToPtr(*ri.PausedUntil)
	}
	return &copied
}

func (s *InMemoryRecurringInvoiceStore) Create(ctx context.Context, ri *recurringinvoice.RecurringInvoice) error {
	return s.InMemoryStore.Create(ctx, ri.ID, copyRecurringInvoice(ri))
}

func (s *InMemoryRecurringInvoiceStore) Get(ctx context.Context, id string) (*recurringinvoice.RecurringInvoice, error) {
	ri, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyRecurringInvoice(ri), nil
}

func (s *InMemoryRecurringInvoiceStore) GetByScope(ctx context.Context, id string, ownerID string, scope types.Scope) (*recurringinvoice.RecurringInvoice, error) {
	ri, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ri.OwnerID != ownerID || !ri.Scope.Equal(scope) {
		return nil, ierr.NewError("recurring invoice not found").
			WithHintf("Recurring invoice %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyRecurringInvoice(ri), nil
}

func recurringInvoiceFilterFn(_ context.Context, ri *recurringinvoice.RecurringInvoice, filter interface{}) bool {
	f, ok := filter.(*types.RecurringInvoiceFilter)
	if !ok || f == nil {
		return true
	}

	if f.OwnerID != "" && ri.OwnerID != f.OwnerID {
		return false
	}
	if f.Scope != nil && !ri.Scope.Equal(*f.Scope) {
		return false
	}
	if f.CustomerID != "" && ri.CustomerID != f.CustomerID {
		return false
	}
	if f.IsActive != nil && ri.IsActive != *f.IsActive {
		return false
	}
	if f.DueBefore != nil && ri.NextGenerationDate.After(*f.DueBefore) {
		return false
	}
	return true
}

func recurringInvoiceSortFn(i, j *recurringinvoice.RecurringInvoice) bool {
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryRecurringInvoiceStore) List(ctx context.Context, filter *types.RecurringInvoiceFilter) ([]*recurringinvoice.RecurringInvoice, error) {
	items, err := s.InMemoryStore.List(ctx, filter, recurringInvoiceFilterFn, recurringInvoiceSortFn)
	if err != nil {
		return nil, err
	}

	return lo.Map(items, func(ri *recurringinvoice.RecurringInvoice, _ int) *recurringinvoice.RecurringInvoice {
		return copyRecurringInvoice(ri)
	}), nil
}

func (s *InMemoryRecurringInvoiceStore) Count(ctx context.Context, filter *types.RecurringInvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, recurringInvoiceFilterFn)
}

// ListDue mirrors the production due-query semantics: only active records
// whose next generation date has come due, ordered by due date.
func (s *InMemoryRecurringInvoiceStore) ListDue(ctx context.Context, now time.Time) ([]*recurringinvoice.RecurringInvoice, error) {
	if s.ListDueError != nil {
		return nil, s.ListDueError
	}

	filter := &types.RecurringInvoiceFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		IsActive:    lo.ToPtr(true),
		DueBefore:   lo.ToPtr(now),
	}

	items, err := s.InMemoryStore.List(ctx, filter, recurringInvoiceFilterFn, func(i, j *recurringinvoice.RecurringInvoice) bool {
		return i.NextGenerationDate.Before(j.NextGenerationDate)
	})
	if err != nil {
		return nil, err
	}

	return lo.Map(items, func(ri *recurringinvoice.RecurringInvoice, _ int) *recurringinvoice.RecurringInvoice {
		return copyRecurringInvoice(ri)
	}), nil
}

func (s *InMemoryRecurringInvoiceStore) Update(ctx context.Context, ri *recurringinvoice.RecurringInvoice) error {
	return s.InMemoryStore.Update(ctx, ri.ID, copyRecurringInvoice(ri))
}

func (s *InMemoryRecurringInvoiceStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}
