package account

import (
	"github.com/billhive/billhive/internal/types"
)

// Account is the owner of recurring invoices, customers and generated
// invoices. Authentication and profile resolution are external; the engine
// only reads settings and bumps the per-scope numbering counter.
type Account struct {
	// ID is the unique identifier for the account
	ID string `db:"id" json:"id"`

	// Name is the display name of the account
	Name string `db:"name" json:"name"`

	// Email is the account owner's email
	Email string `db:"email" json:"email"`

	// Settings for the personal/default scope
	Settings InvoiceSettings `db:"settings" json:"settings"`

	types.BaseModel
}

// BusinessProfile is a named sub-profile of an account with its own invoice
// settings. Records scoped to a profile resolve settings from the profile
// first, then the account, then the configured defaults.
type BusinessProfile struct {
	// ID is the unique identifier for the profile
	ID string `db:"id" json:"id"`

	// AccountID is the owning account
	AccountID string `db:"account_id" json:"account_id"`

	// Name is the business name
	Name string `db:"name" json:"name"`

	// Settings overrides for this profile; empty fields fall back to the
	// account settings
	Settings InvoiceSettings `db:"settings" json:"settings"`

	types.BaseModel
}

// InvoiceSettings are the per-scope invoicing preferences consulted at
// generation time.
type InvoiceSettings struct {
	// Timezone is an IANA zone identifier used for period label formatting
	Timezone string `db:"timezone" json:"timezone"`

	// InvoicePrefix prefixes formatted invoice numbers, e.g. INV
	InvoicePrefix string `db:"invoice_prefix" json:"invoice_prefix"`

	// NextInvoiceSequence is the counter used for manually created invoices.
	// It is independent of each recurring invoice's own numbering and is
	// advanced through Repository.IncrementInvoiceSequence.
	NextInvoiceSequence int `db:"next_invoice_sequence" json:"next_invoice_sequence"`
}
