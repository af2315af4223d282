package types

// GenerationOutcomeKind tags the result of a single-record generation attempt
type GenerationOutcomeKind string

const (
	GenerationOutcomeSuccess GenerationOutcomeKind = "success"
	GenerationOutcomeSkipped GenerationOutcomeKind = "skipped"
	GenerationOutcomeFailed  GenerationOutcomeKind = "failed"
)

// GenerationOutcome is the tagged result of processing one recurring invoice
// in a batch run. Exactly the fields for its kind are populated; the batch
// summary is an aggregation of these, never ad hoc error objects.
type GenerationOutcome struct {
	Kind               GenerationOutcomeKind `json:"kind"`
	RecurringInvoiceID string                `json:"recurring_invoice_id"`

	// Success
	InvoiceID     string `json:"invoice_id,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`

	// Skipped
	SkipReason string `json:"skip_reason,omitempty"`

	// Failed
	Cause string `json:"cause,omitempty"`
}

func NewSuccessOutcome(recordID, invoiceID, invoiceNumber string) GenerationOutcome {
	return GenerationOutcome{
		Kind:               GenerationOutcomeSuccess,
		RecurringInvoiceID: recordID,
		InvoiceID:          invoiceID,
		InvoiceNumber:      invoiceNumber,
	}
}

func NewSkippedOutcome(recordID, reason string) GenerationOutcome {
	return GenerationOutcome{
		Kind:               GenerationOutcomeSkipped,
		RecurringInvoiceID: recordID,
		SkipReason:         reason,
	}
}

func NewFailedOutcome(recordID string, err error) GenerationOutcome {
	cause := ""
	if err != nil {
		cause = err.Error()
	}
	return GenerationOutcome{
		Kind:               GenerationOutcomeFailed,
		RecurringInvoiceID: recordID,
		Cause:              cause,
	}
}
