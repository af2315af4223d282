package recurringinvoice

import (
	"time"

	ierr "github.com/billhive/billhive/internal/errors"
	"github.com/billhive/billhive/internal/types"
	"github.com/shopspring/decimal"
)

// RecurringInvoice is the persisted template describing a repeating invoice
// and its generation cursor.
type RecurringInvoice struct {
	// ID is the unique identifier for the recurring invoice
	ID string `db:"id" json:"id"`

	// OwnerID is the owning account
	OwnerID string `db:"owner_id" json:"owner_id"`

	// Scope partitions the record between the owner's personal scope and a
	// single business profile
	Scope types.Scope `db:"scope" json:"scope"`

	// Customer snapshot captured at creation/update time, not live-joined
	CustomerID    string `db:"customer_id" json:"customer_id"`
	CustomerName  string `db:"customer_name" json:"customer_name"`
	CustomerEmail string `db:"customer_email" json:"customer_email"`

	// Invoice template payload
	LineItems    []LineItem      `db:"line_items" json:"line_items"`
	TaxRate      decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	Notes        string          `db:"notes" json:"notes"`
	PaymentTerms string          `db:"payment_terms" json:"payment_terms"`

	// Numbering
	InvoicePrefix     string `db:"invoice_prefix" json:"invoice_prefix"`
	NextInvoiceNumber int    `db:"next_invoice_number" json:"next_invoice_number"`
	LastInvoiceNumber *int   `db:"last_invoice_number" json:"last_invoice_number,omitempty"`

	// Cadence
	Frequency           types.BillingFrequency `db:"frequency" json:"frequency"`
	StartDate           time.Time              `db:"start_date" json:"start_date"`
	EndDate             *time.Time             `db:"end_date" json:"end_date,omitempty"`
	DueDateDurationDays int                    `db:"due_date_duration_days" json:"due_date_duration_days"`

	// Generation cursor
	NextGenerationDate  time.Time  `db:"next_generation_date" json:"next_generation_date"`
	LastGeneratedDate   *time.Time `db:"last_generated_date" json:"last_generated_date,omitempty"`
	GeneratedInvoiceIDs []string   `db:"generated_invoice_ids" json:"generated_invoice_ids"`
	TotalGenerated      int        `db:"total_generated" json:"total_generated"`

	// Lifecycle
	IsActive    bool       `db:"is_active" json:"is_active"`
	PausedUntil *time.Time `db:"paused_until" json:"paused_until,omitempty"`

	types.BaseModel
}

// LineItem is a single templated line of the recurring invoice. Description
// may carry period placeholders expanded at generation time.
type LineItem struct {
	Description string          `db:"description" json:"description"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	Rate        decimal.Decimal `db:"rate" json:"rate"`
}

// IsEligibleAt reports whether the record is due for generation at the given
// instant. Inactive records, records paused into the future, records past
// their end date and records whose cursor has not yet come due are all
// ineligible and must be left completely untouched by the batch loop.
func (r *RecurringInvoice) IsEligibleAt(now time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.PausedUntil != nil && r.PausedUntil.After(now) {
		return false
	}
	if r.EndDate != nil && r.EndDate.Before(now) {
		return false
	}
	return !r.NextGenerationDate.After(now)
}

// SkipReason names why a record was skipped by the batch loop; empty when
// the record is eligible.
func (r *RecurringInvoice) SkipReason(now time.Time) string {
	switch {
	case !r.IsActive:
		return "recurring invoice is inactive"
	case r.PausedUntil != nil && r.PausedUntil.After(now):
		return "recurring invoice is paused"
	case r.EndDate != nil && r.EndDate.Before(now):
		return "recurring invoice end date has passed"
	case r.NextGenerationDate.After(now):
		return "recurring invoice is not yet due"
	default:
		return ""
	}
}

// RecordGeneration advances the generation cursor after a successful invoice
// creation. The next generation date is always derived from the invoice date
// just used, never set to an arbitrary value.
func (r *RecurringInvoice) RecordGeneration(invoiceID string, invoiceDate time.Time, usedNumber int) error {
	next, err := types.NextOccurrence(invoiceDate, r.Frequency)
	if err != nil {
		return err
	}

	r.NextGenerationDate = next
	r.LastGeneratedDate = &invoiceDate
	r.GeneratedInvoiceIDs = append(r.GeneratedInvoiceIDs, invoiceID)
	r.TotalGenerated = len(r.GeneratedInvoiceIDs)
	r.LastInvoiceNumber = &usedNumber
	r.NextInvoiceNumber = usedNumber + 1
	return nil
}

// Validate checks the structural invariants of the record
func (r *RecurringInvoice) Validate() error {
	if err := r.Frequency.Validate(); err != nil {
		return err
	}
	if r.OwnerID == "" {
		return ierr.NewError("owner id is required").
			WithHint("Recurring invoice must belong to an account").
			Mark(ierr.ErrValidation)
	}
	if r.CustomerID == "" {
		return ierr.NewError("customer id is required").
			WithHint("Recurring invoice must reference a customer").
			Mark(ierr.ErrValidation)
	}
	if len(r.LineItems) == 0 {
		return ierr.NewError("line items are required").
			WithHint("Recurring invoice must have at least one line item").
			Mark(ierr.ErrValidation)
	}
	if r.StartDate.IsZero() {
		return ierr.NewError("start date is required").
			WithHint("Recurring invoice must have a start date").
			Mark(ierr.ErrValidation)
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return ierr.NewError("end date before start date").
			WithHint("End date must not precede the start date").
			Mark(ierr.ErrValidation)
	}
	if len(r.GeneratedInvoiceIDs) != r.TotalGenerated {
		return ierr.NewError("generation cursor out of sync").
			WithHintf("Generated invoice count %d does not match total %d", len(r.GeneratedInvoiceIDs), r.TotalGenerated).
			Mark(ierr.ErrInvalidOperation)
	}
	if r.LastInvoiceNumber != nil && r.NextInvoiceNumber != *r.LastInvoiceNumber+1 {
		return ierr.NewError("invoice numbering out of sync").
			WithHintf("Next invoice number %d must follow last invoice number %d", r.NextInvoiceNumber, *r.LastInvoiceNumber).
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}
