package invoice

import (
	"time"

	"github.com/billhive/billhive/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice is a generated invoice document. Invoice creation (computing
// subtotal/tax/total and persisting the record) is an external collaborator;
// the recurring billing engine only holds the contract and the resulting id.
type Invoice struct {
	ID      string      `db:"id" json:"id"`
	OwnerID string      `db:"owner_id" json:"owner_id"`
	Scope   types.Scope `db:"scope" json:"scope"`

	// Customer snapshot
	CustomerID    string `db:"customer_id" json:"customer_id"`
	CustomerName  string `db:"customer_name" json:"customer_name"`
	CustomerEmail string `db:"customer_email" json:"customer_email"`

	// InvoiceNumber is the formatted display number, e.g. INV-00042
	InvoiceNumber string `db:"invoice_number" json:"invoice_number"`

	LineItems    []LineItem      `db:"line_items" json:"line_items"`
	TaxRate      decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	Subtotal     decimal.Decimal `db:"subtotal" json:"subtotal"`
	TaxAmount    decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	Total        decimal.Decimal `db:"total" json:"total"`
	Notes        string          `db:"notes" json:"notes"`
	PaymentTerms string          `db:"payment_terms" json:"payment_terms"`

	InvoiceDate time.Time           `db:"invoice_date" json:"invoice_date"`
	DueDate     time.Time           `db:"due_date" json:"due_date"`
	Status      types.InvoiceStatus `db:"status" json:"status"`

	// RecurringInvoiceID back-references the recurring invoice that generated
	// this document. Weak reference: used for lookup and history only.
	RecurringInvoiceID *string `db:"recurring_invoice_id" json:"recurring_invoice_id,omitempty"`

	types.BaseModel
}

// LineItem is a single concrete (already expanded) line of an invoice
type LineItem struct {
	Description string          `db:"description" json:"description"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	Rate        decimal.Decimal `db:"rate" json:"rate"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
}
