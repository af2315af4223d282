package dto

import (
	"time"

	"github.com/billhive/billhive/internal/domain/recurringinvoice"
	ierr "github.com/billhive/billhive/internal/errors"
	"github.com/billhive/billhive/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// LineItemRequest is a single templated line item of a recurring invoice
type LineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Rate        decimal.Decimal `json:"rate" binding:"required"`
}

func (r *LineItemRequest) Validate() error {
	if r.Description == "" {
		return ierr.NewError("line item description is required").
			WithHint("Each line item needs a description").
			Mark(ierr.ErrValidation)
	}
	if r.Quantity.IsNegative() {
		return ierr.NewError("line item quantity must not be negative").
			WithHint("Quantity must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *LineItemRequest) ToLineItem() recurringinvoice.LineItem {
	return recurringinvoice.LineItem{
		Description: r.Description,
		Quantity:    r.Quantity,
		Rate:        r.Rate,
	}
}

// CreateRecurringInvoiceRequest creates a recurring invoice from a blank
// template. Seeding from an existing invoice goes through
// CreateRecurringInvoiceFromInvoiceRequest instead.
type CreateRecurringInvoiceRequest struct {
	CustomerID          string                 `json:"customer_id" binding:"required"`
	ProfileID           *string                `json:"profile_id,omitempty"`
	LineItems           []LineItemRequest      `json:"line_items" binding:"required"`
	TaxRate             decimal.Decimal        `json:"tax_rate"`
	Notes               string                 `json:"notes,omitempty"`
	PaymentTerms        string                 `json:"payment_terms,omitempty"`
	InvoicePrefix       string                 `json:"invoice_prefix,omitempty"`
	NextInvoiceNumber   int                    `json:"next_invoice_number,omitempty"`
	Frequency           types.BillingFrequency `json:"frequency" binding:"required"`
	StartDate           time.Time              `json:"start_date" binding:"required"`
	EndDate             *time.Time             `json:"end_date,omitempty"`
	DueDateDurationDays int                    `json:"due_date_duration_days,omitempty"`
}

func (r *CreateRecurringInvoiceRequest) Validate() error {
	if err := r.Frequency.Validate(); err != nil {
		return err
	}
	if r.CustomerID == "" {
		return ierr.NewError("customer id is required").
			WithHint("Please provide a customer for the recurring invoice").
			Mark(ierr.ErrValidation)
	}
	if len(r.LineItems) == 0 {
		return ierr.NewError("line items are required").
			WithHint("Recurring invoice must have at least one line item").
			Mark(ierr.ErrValidation)
	}
	for _, item := range r.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if r.StartDate.IsZero() {
		return ierr.NewError("start date is required").
			WithHint("Please provide a start date").
			Mark(ierr.ErrValidation)
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return ierr.NewError("end date before start date").
			WithHint("End date must not precede the start date").
			Mark(ierr.ErrValidation)
	}
	if r.NextInvoiceNumber < 0 {
		return ierr.NewError("next invoice number must not be negative").
			WithHint("Invoice numbering starts at 1").
			Mark(ierr.ErrValidation)
	}
	if r.DueDateDurationDays < 0 {
		return ierr.NewError("due date duration must not be negative").
			WithHint("Due date duration is a number of days after the invoice date").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CreateRecurringInvoiceFromInvoiceRequest seeds a recurring invoice from an
// existing invoice: customer, line items, tax rate, notes and terms are
// copied, and numbering continues from the source invoice's number.
type CreateRecurringInvoiceFromInvoiceRequest struct {
	InvoiceID           string                 `json:"invoice_id" binding:"required"`
	Frequency           types.BillingFrequency `json:"frequency" binding:"required"`
	StartDate           time.Time              `json:"start_date" binding:"required"`
	EndDate             *time.Time             `json:"end_date,omitempty"`
	DueDateDurationDays int                    `json:"due_date_duration_days,omitempty"`
}

func (r *CreateRecurringInvoiceFromInvoiceRequest) Validate() error {
	if err := r.Frequency.Validate(); err != nil {
		return err
	}
	if r.InvoiceID == "" {
		return ierr.NewError("invoice id is required").
			WithHint("Please provide the source invoice").
			Mark(ierr.ErrValidation)
	}
	if r.StartDate.IsZero() {
		return ierr.NewError("start date is required").
			WithHint("Please provide a start date").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// UpdateRecurringInvoiceRequest is a partial patch; nil fields are untouched.
// Changing the frequency or start date recomputes the generation cursor.
type UpdateRecurringInvoiceRequest struct {
	LineItems           []LineItemRequest       `json:"line_items,omitempty"`
	TaxRate             *decimal.Decimal        `json:"tax_rate,omitempty"`
	Notes               *string                 `json:"notes,omitempty"`
	PaymentTerms        *string                 `json:"payment_terms,omitempty"`
	InvoicePrefix       *string                 `json:"invoice_prefix,omitempty"`
	Frequency           *types.BillingFrequency `json:"frequency,omitempty"`
	StartDate           *time.Time              `json:"start_date,omitempty"`
	EndDate             *time.Time              `json:"end_date,omitempty"`
	DueDateDurationDays *int                    `json:"due_date_duration_days,omitempty"`
}

func (r *UpdateRecurringInvoiceRequest) Validate() error {
	if r.Frequency != nil {
		if err := r.Frequency.Validate(); err != nil {
			return err
		}
	}
	for _, item := range r.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if r.DueDateDurationDays != nil && *r.DueDateDurationDays < 0 {
		return ierr.NewError("due date duration must not be negative").
			WithHint("Due date duration is a number of days after the invoice date").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PauseRecurringInvoiceRequest pauses generation. A nil PausedUntil means
// paused indefinitely until an explicit resume.
type PauseRecurringInvoiceRequest struct {
	PausedUntil *time.Time `json:"paused_until,omitempty"`
}

// RecurringInvoiceResponse is the API shape of a recurring invoice
type RecurringInvoiceResponse struct {
	*recurringinvoice.RecurringInvoice
	ProfileID *string `json:"profile_id,omitempty"`
}

func NewRecurringInvoiceResponse(ri *recurringinvoice.RecurringInvoice) *RecurringInvoiceResponse {
	return &RecurringInvoiceResponse{
		RecurringInvoice: ri,
		ProfileID:        ri.Scope.ProfileIDOrNil(),
	}
}

// ListRecurringInvoicesResponse is a paginated listing
type ListRecurringInvoicesResponse struct {
	Items []*RecurringInvoiceResponse `json:"items"`
	Total int                         `json:"total"`
}

func NewListRecurringInvoicesResponse(items []*recurringinvoice.RecurringInvoice, total int) *ListRecurringInvoicesResponse {
	return &ListRecurringInvoicesResponse{
		Items: lo.Map(items, func(ri *recurringinvoice.RecurringInvoice, _ int) *RecurringInvoiceResponse {
			return NewRecurringInvoiceResponse(ri)
		}),
		Total: total,
	}
}
