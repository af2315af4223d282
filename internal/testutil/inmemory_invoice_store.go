package testutil

import (
	"context"

	"github.com/billhive/billhive/internal/domain/invoice"
	ierr "github.com/billhive/billhive/internal/errors"
	"github.com/billhive/billhive/internal/types"
	"github.com/shopspring/decimal"
)

// InMemoryInvoiceStore implements invoice.Repository, standing in for the
// external invoice-creation collaborator: Create assigns the id and computes
// subtotal, tax and total exactly like the production operation.
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]

	// CreateError, when set, makes Create fail; used to exercise per-record
	// failure isolation in batch tests.
	CreateError error
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	copied := *inv
	copied.LineItems = append([]invoice.LineItem(nil), inv.LineItems...)
	if inv.RecurringInvoiceID != nil {
		id := *inv.RecurringInvoiceID
		copied.RecurringInvoiceID = &id
	}
	return &copied
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) (*invoice.Invoice, error) {
	if s.CreateError != nil {
		return nil, s.CreateError
	}
	if inv.InvoiceNumber == "" {
		return nil, ierr.NewError("invoice number is required").
			WithHint("Invoice numbering settings are missing a prefix").
			Mark(ierr.ErrValidation)
	}

	created := copyInvoice(inv)
	if created.ID == "" {
		created.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE)
	}

	subtotal := decimal.Zero
	for _, item := range created.LineItems {
		subtotal = subtotal.Add(item.Amount)
	}
	created.Subtotal = subtotal
	created.TaxAmount = subtotal.Mul(created.TaxRate).Div(decimal.NewFromInt(100))
	created.Total = created.Subtotal.Add(created.TaxAmount)

	if err := s.InMemoryStore.Create(ctx, created.ID, created); err != nil {
		return nil, err
	}
	return copyInvoice(created), nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyInvoice(inv), nil
}
