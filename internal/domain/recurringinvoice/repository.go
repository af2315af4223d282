package recurringinvoice

import (
	"context"
	"time"

	"github.com/billhive/billhive/internal/types"
)

// Repository defines the interface for recurring invoice data access.
//
// ListDue backs the scheduled batch loop: it must return only records with
// is_active = true and next_generation_date <= now. Pause and end-date rules
// are re-evaluated by the orchestrator, so the query stays cheap and the
// eligibility decision stays in one place.
type Repository interface {
	Create(ctx context.Context, ri *RecurringInvoice) error
	Get(ctx context.Context, id string) (*RecurringInvoice, error)
	GetByScope(ctx context.Context, id string, ownerID string, scope types.Scope) (*RecurringInvoice, error)
	List(ctx context.Context, filter *types.RecurringInvoiceFilter) ([]*RecurringInvoice, error)
	Count(ctx context.Context, filter *types.RecurringInvoiceFilter) (int, error)
	ListDue(ctx context.Context, now time.Time) ([]*RecurringInvoice, error)
	Update(ctx context.Context, ri *RecurringInvoice) error
	Delete(ctx context.Context, id string) error
}
