package service

import (
	"context"
	"time"

	"github.com/billhive/billhive/internal/api/dto"
	"github.com/billhive/billhive/internal/cache"
	"github.com/billhive/billhive/internal/domain/account"
	"github.com/billhive/billhive/internal/domain/invoice"
	"github.com/billhive/billhive/internal/domain/recurringinvoice"
	ierr "github.com/billhive/billhive/internal/errors"
	"github.com/billhive/billhive/internal/period"
	"github.com/billhive/billhive/internal/types"
)

// GenerationService is the orchestrator behind the scheduled batch loop and
// manual generation. Per-record processing is strictly sequential: each
// record's cursor writes and the owning account's counter bump must stay
// internally consistent, and the due-records query is not transactional
// across concurrent writers.
type GenerationService interface {
	// ProcessDueRecurringInvoices runs one batch pass over all due records.
	// Per-record failures are isolated into the response; only a failure of
	// the due-records query itself returns a top-level error.
	ProcessDueRecurringInvoices(ctx context.Context) (*dto.BatchGenerationResponse, error)

	// GenerateForRecurringInvoice runs the single-record generation procedure
	// outside the scheduled loop, surfacing its error directly to the caller.
	GenerateForRecurringInvoice(ctx context.Context, id string) (*dto.GenerationResponse, error)
}

type generationService struct {
	ServiceParams
}

func NewGenerationService(params ServiceParams) GenerationService {
	return &generationService{
		ServiceParams: params,
	}
}

func (s *generationService) ProcessDueRecurringInvoices(ctx context.Context) (*dto.BatchGenerationResponse, error) {
	now := time.Now().UTC()
	runID := types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_GENERATION_RUN)

	s.Logger.Infow("starting recurring invoice generation run",
		"run_id", runID,
		"current_time", now)

	response := &dto.BatchGenerationResponse{
		RunID:    runID,
		StartAt:  now,
		Outcomes: make([]types.GenerationOutcome, 0),
	}

	due, err := s.RecurringInvoiceRepo.ListDue(ctx, now)
	if err != nil {
		// The run never started; this is a single top-level failure, not a
		// per-record one.
		return nil, ierr.WithError(err).
			WithHint("Failed to query due recurring invoices").
			Mark(ierr.ErrDatabase)
	}

	for _, ri := range due {
		// Eligibility is re-evaluated per record; skipped records are left
		// completely untouched.
		if reason := ri.SkipReason(now); reason != "" {
			response.Record(types.NewSkippedOutcome(ri.ID, reason))
			continue
		}

		generated, err := s.generateOne(ctx, ri)
		if err != nil {
			s.Logger.Errorw("failed to generate recurring invoice",
				"run_id", runID,
				"recurring_invoice_id", ri.ID,
				"owner_id", ri.OwnerID,
				"customer_id", ri.CustomerID,
				"error", err)

			response.Record(types.NewFailedOutcome(ri.ID, err))
			continue
		}

		response.Record(types.NewSuccessOutcome(ri.ID, generated.InvoiceID, generated.InvoiceNumber))
	}

	response.CompletedAt = time.Now().UTC()

	s.Logger.Infow("completed recurring invoice generation run",
		"run_id", runID,
		"total_success", response.TotalSuccess,
		"total_failed", response.TotalFailed,
		"total_skipped", response.TotalSkipped,
		"duration", response.CompletedAt.Sub(response.StartAt))

	return response, nil
}

func (s *generationService) GenerateForRecurringInvoice(ctx context.Context, id string) (*dto.GenerationResponse, error) {
	ri, err := s.RecurringInvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Manual generation may run ahead of the cursor, but the lifecycle rules
	// still apply: an inactive, paused or ended record never generates.
	now := time.Now().UTC()
	if !ri.IsActive {
		return nil, ierr.NewError("recurring invoice is not active").
			WithHint("Resume the recurring invoice before generating an invoice").
			Mark(ierr.ErrInvalidOperation)
	}
	if ri.PausedUntil != nil && ri.PausedUntil.After(now) {
		return nil, ierr.NewError("recurring invoice is paused").
			WithHintf("Recurring invoice is paused until %s", ri.PausedUntil.Format(time.RFC3339)).
			Mark(ierr.ErrInvalidOperation)
	}
	if ri.EndDate != nil && ri.EndDate.Before(now) {
		return nil, ierr.NewError("recurring invoice end date has passed").
			WithHintf("Recurring invoice ended on %s", ri.EndDate.Format(time.RFC3339)).
			Mark(ierr.ErrInvalidOperation)
	}

	return s.generateOne(ctx, ri)
}

// generateOne runs the single-record generation procedure: resolve owner and
// customer, derive the invoice date and number, expand the line items,
// create the invoice, then advance the cursor. The cursor is advanced only
// after a successful creation; a crash in between risks one duplicate on the
// next run, which is accepted over a distributed transaction.
func (s *generationService) generateOne(ctx context.Context, ri *recurringinvoice.RecurringInvoice) (*dto.GenerationResponse, error) {
	owner, err := s.getAccount(ctx, ri.OwnerID)
	if err != nil {
		return nil, err
	}

	profileSettings := account.InvoiceSettings{}
	if profileID, ok := ri.Scope.ProfileID(); ok {
		profile, err := s.getProfile(ctx, profileID, ri.OwnerID)
		if err != nil {
			return nil, err
		}
		profileSettings = profile.Settings
	}

	// Exact scope match; a customer in another scope is not found.
	cust, err := s.CustomerRepo.GetByScope(ctx, ri.CustomerID, ri.OwnerID, ri.Scope)
	if err != nil {
		return nil, err
	}

	invoiceDate, number := s.deriveDateAndNumber(ctx, ri)

	// Settings resolve record first, then profile, then account, then the
	// configured defaults.
	timezone := types.Resolve(profileSettings.Timezone, owner.Settings.Timezone, s.Config.Billing.DefaultTimezone)
	prefix := ri.InvoicePrefix
	if prefix == "" {
		prefix = types.Resolve(profileSettings.InvoicePrefix, owner.Settings.InvoicePrefix, s.Config.Billing.DefaultInvoicePrefix)
	}

	lineItems := make([]invoice.LineItem, 0, len(ri.LineItems))
	for _, item := range ri.LineItems {
		description, err := period.Expand(item.Description, invoiceDate, ri.Frequency, timezone)
		if err != nil {
			return nil, err
		}
		if description == "" {
			// Markup-corrupted or blank template; neutralized rather than
			// propagated into the generated invoice.
			continue
		}
		lineItems = append(lineItems, invoice.LineItem{
			Description: description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Quantity.Mul(item.Rate),
		})
	}

	if len(lineItems) == 0 {
		return nil, ierr.NewError("no valid line items to invoice").
			WithHint("All line item descriptions expanded to empty values").
			Mark(ierr.ErrValidation)
	}

	created, err := s.InvoiceRepo.Create(ctx, &invoice.Invoice{
		OwnerID:            ri.OwnerID,
		Scope:              ri.Scope,
		CustomerID:         cust.ID,
		CustomerName:       ri.CustomerName,
		CustomerEmail:      ri.CustomerEmail,
		InvoiceNumber:      invoice.FormatNumber(prefix, number),
		LineItems:          lineItems,
		TaxRate:            ri.TaxRate,
		Notes:              ri.Notes,
		PaymentTerms:       ri.PaymentTerms,
		InvoiceDate:        invoiceDate,
		DueDate:            invoiceDate.AddDate(0, 0, ri.DueDateDurationDays),
		Status:             types.InvoiceStatusPending,
		RecurringInvoiceID: &ri.ID,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	})
	if err != nil {
		return nil, err
	}

	if err := ri.RecordGeneration(created.ID, invoiceDate, number); err != nil {
		return nil, err
	}

	if err := s.RecurringInvoiceRepo.Update(ctx, ri); err != nil {
		return nil, err
	}

	// The account's own sequence for manually created invoices advances in
	// step, as an explicit collaborator operation.
	if err := s.AccountRepo.IncrementInvoiceSequence(ctx, ri.OwnerID, ri.Scope); err != nil {
		return nil, err
	}

	s.Logger.Infow("generated invoice from recurring invoice",
		"recurring_invoice_id", ri.ID,
		"invoice_id", created.ID,
		"invoice_number", created.InvoiceNumber,
		"invoice_date", created.InvoiceDate,
		"next_generation_date", ri.NextGenerationDate)

	return &dto.GenerationResponse{
		InvoiceID:     created.ID,
		InvoiceNumber: created.InvoiceNumber,
		InvoiceDate:   created.InvoiceDate,
		DueDate:       created.DueDate,
	}, nil
}

// deriveDateAndNumber determines the next invoice's date and number. With
// prior generations the prior invoice is the source of truth: its date steps
// forward one cadence and its trailing numeric suffix increments, so the
// sequence self-heals even when the stored counter has drifted. When the
// prior invoice cannot be fetched or parsed, the record's stored cursor is
// the fallback; that fallback never aborts generation.
func (s *generationService) deriveDateAndNumber(ctx context.Context, ri *recurringinvoice.RecurringInvoice) (time.Time, int) {
	invoiceDate := ri.NextGenerationDate
	number := ri.NextInvoiceNumber

	if ri.TotalGenerated == 0 || len(ri.GeneratedInvoiceIDs) == 0 {
		return invoiceDate, number
	}

	lastInvoiceID := ri.GeneratedInvoiceIDs[len(ri.GeneratedInvoiceIDs)-1]
	prior, err := s.InvoiceRepo.Get(ctx, lastInvoiceID)
	if err != nil {
		s.Logger.Warnw("could not fetch prior invoice, falling back to stored cursor",
			"recurring_invoice_id", ri.ID,
			"invoice_id", lastInvoiceID,
			"error", err)
		return invoiceDate, number
	}

	if next, err := types.NextOccurrence(prior.InvoiceDate, ri.Frequency); err == nil {
		invoiceDate = next
	}

	if n, ok := invoice.ParseNumericSuffix(prior.InvoiceNumber); ok {
		number = n + 1
	} else {
		s.Logger.Warnw("could not parse prior invoice number, falling back to stored cursor",
			"recurring_invoice_id", ri.ID,
			"invoice_number", prior.InvoiceNumber)
	}

	return invoiceDate, number
}

func (s *generationService) getAccount(ctx context.Context, id string) (*account.Account, error) {
	key := cache.GenerateKey(cache.PrefixAccount, id)
	if cached, found := s.Cache.Get(ctx, key); found {
		if acc, ok := cached.(*account.Account); ok {
			return acc, nil
		}
	}

	acc, err := s.AccountRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, acc, cache.DefaultExpiration)
	return acc, nil
}

func (s *generationService) getProfile(ctx context.Context, profileID, accountID string) (*account.BusinessProfile, error) {
	key := cache.GenerateKey(cache.PrefixProfile, accountID, profileID)
	if cached, found := s.Cache.Get(ctx, key); found {
		if profile, ok := cached.(*account.BusinessProfile); ok {
			return profile, nil
		}
	}

	profile, err := s.AccountRepo.GetProfile(ctx, profileID, accountID)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, profile, cache.DefaultExpiration)
	return profile, nil
}
