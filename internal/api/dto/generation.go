package dto

import (
	"time"

	"github.com/billhive/billhive/internal/types"
)

// GenerationResponse describes the invoice produced by a single generation
type GenerationResponse struct {
	InvoiceID     string    `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	InvoiceDate   time.Time `json:"invoice_date"`
	DueDate       time.Time `json:"due_date"`
}

// BatchGenerationResponse summarizes a scheduled batch run. Per-record
// failures are isolated into Outcomes; only a failure of the due-records
// query itself aborts the run and is returned as a top-level error instead.
type BatchGenerationResponse struct {
	RunID        string                    `json:"run_id"`
	StartAt      time.Time                 `json:"start_at"`
	CompletedAt  time.Time                 `json:"completed_at"`
	TotalSuccess int                       `json:"total_success"`
	TotalFailed  int                       `json:"total_failed"`
	TotalSkipped int                       `json:"total_skipped"`
	Outcomes     []types.GenerationOutcome `json:"outcomes"`
}

// Record aggregates one outcome into the batch summary
func (r *BatchGenerationResponse) Record(outcome types.GenerationOutcome) {
	switch outcome.Kind {
	case types.GenerationOutcomeSuccess:
		r.TotalSuccess++
	case types.GenerationOutcomeSkipped:
		r.TotalSkipped++
	case types.GenerationOutcomeFailed:
		r.TotalFailed++
	}
	r.Outcomes = append(r.Outcomes, outcome)
}

// Failures returns only the failed outcomes for operator visibility
func (r *BatchGenerationResponse) Failures() []types.GenerationOutcome {
	failures := make([]types.GenerationOutcome, 0)
	for _, outcome := range r.Outcomes {
		if outcome.Kind == types.GenerationOutcomeFailed {
			failures = append(failures, outcome)
		}
	}
	return failures
}
