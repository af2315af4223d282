package service

import (
	"context"
	"time"

	"github.com/billhive/billhive/internal/api/dto"
	"github.com/billhive/billhive/internal/domain/invoice"
	"github.com/billhive/billhive/internal/domain/recurringinvoice"
	ierr "github.com/billhive/billhive/internal/errors"
	"github.com/billhive/billhive/internal/types"
	"github.com/samber/lo"
)

// RecurringInvoiceService owns the recurring invoice lifecycle: creation,
// edits, pause/resume/stop and manual generation outside the scheduled loop.
type RecurringInvoiceService interface {
	CreateRecurringInvoice(ctx context.Context, req dto.CreateRecurringInvoiceRequest) (*dto.RecurringInvoiceResponse, error)
	CreateFromInvoice(ctx context.Context, req dto.CreateRecurringInvoiceFromInvoiceRequest) (*dto.RecurringInvoiceResponse, error)
	GetRecurringInvoice(ctx context.Context, id string) (*dto.RecurringInvoiceResponse, error)
	ListRecurringInvoices(ctx context.Context, filter *types.RecurringInvoiceFilter) (*dto.ListRecurringInvoicesResponse, error)
	UpdateRecurringInvoice(ctx context.Context, id string, req dto.UpdateRecurringInvoiceRequest) (*dto.RecurringInvoiceResponse, error)
	PauseRecurringInvoice(ctx context.Context, id string, req dto.PauseRecurringInvoiceRequest) (*dto.RecurringInvoiceResponse, error)
	ResumeRecurringInvoice(ctx context.Context, id string) (*dto.RecurringInvoiceResponse, error)
	StopRecurringInvoice(ctx context.Context, id string) error
	ManualGenerate(ctx context.Context, id string) (*dto.GenerationResponse, error)
}

type recurringInvoiceService struct {
	ServiceParams
}

func NewRecurringInvoiceService(params ServiceParams) RecurringInvoiceService {
	return &recurringInvoiceService{
		ServiceParams: params,
	}
}

func (s *recurringInvoiceService) CreateRecurringInvoice(ctx context.Context, req dto.CreateRecurringInvoiceRequest) (*dto.RecurringInvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ownerID := types.GetAccountID(ctx)
	scope := types.ScopeFromProfileID(req.ProfileID)

	// Snapshot the customer at creation time; later renames do not flow into
	// the template.
	cust, err := s.CustomerRepo.GetByScope(ctx, req.CustomerID, ownerID, scope)
	if err != nil {
		return nil, err
	}

	nextNumber := req.NextInvoiceNumber
	if nextNumber == 0 {
		nextNumber = 1
	}

	firstGeneration, err := types.NextOccurrence(req.StartDate, req.Frequency)
	if err != nil {
		return nil, err
	}

	ri := &recurringinvoice.RecurringInvoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RECURRING_INVOICE),
		OwnerID:       ownerID,
		Scope:         scope,
		CustomerID:    cust.ID,
		CustomerName:  cust.Name,
		CustomerEmail: cust.Email,
		LineItems: lo.Map(req.LineItems, func(item dto.LineItemRequest, _ int) recurringinvoice.LineItem {
			return item.ToLineItem()
		}),
		TaxRate:             req.TaxRate,
		Notes:               req.Notes,
		PaymentTerms:        req.PaymentTerms,
		InvoicePrefix:       req.InvoicePrefix,
		NextInvoiceNumber:   nextNumber,
		Frequency:           req.Frequency,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		DueDateDurationDays: req.DueDateDurationDays,
		NextGenerationDate:  firstGeneration,
		GeneratedInvoiceIDs: []string{},
		IsActive:            true,
		BaseModel:           types.GetDefaultBaseModel(ctx),
	}
	if ri.DueDateDurationDays == 0 {
		ri.DueDateDurationDays = s.Config.Billing.DefaultDueDays
	}

	if err := ri.Validate(); err != nil {
		return nil, err
	}

	if err := s.RecurringInvoiceRepo.Create(ctx, ri); err != nil {
		return nil, err
	}

	s.Logger.Infow("created recurring invoice",
		"recurring_invoice_id", ri.ID,
		"customer_id", ri.CustomerID,
		"frequency", ri.Frequency,
		"next_generation_date", ri.NextGenerationDate)

	return dto.NewRecurringInvoiceResponse(ri), nil
}

func (s *recurringInvoiceService) CreateFromInvoice(ctx context.Context, req dto.CreateRecurringInvoiceFromInvoiceRequest) (*dto.RecurringInvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	source, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	// Continue the source invoice's numbering; an unparseable number starts a
	// fresh sequence rather than blocking the copy.
	nextNumber := 1
	if n, ok := invoice.ParseNumericSuffix(source.InvoiceNumber); ok {
		nextNumber = n + 1
	}

	createReq := dto.CreateRecurringInvoiceRequest{
		CustomerID: source.CustomerID,
		ProfileID:  source.Scope.ProfileIDOrNil(),
		LineItems: lo.Map(source.LineItems, func(item invoice.LineItem, _ int) dto.LineItemRequest {
			return dto.LineItemRequest{
				Description: item.Description,
				Quantity:    item.Quantity,
				Rate:        item.Rate,
			}
		}),
		TaxRate:             source.TaxRate,
		Notes:               source.Notes,
		PaymentTerms:        source.PaymentTerms,
		NextInvoiceNumber:   nextNumber,
		Frequency:           req.Frequency,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		DueDateDurationDays: req.DueDateDurationDays,
	}

	return s.CreateRecurringInvoice(ctx, createReq)
}

func (s *recurringInvoiceService) GetRecurringInvoice(ctx context.Context, id string) (*dto.RecurringInvoiceResponse, error) {
	ri, err := s.RecurringInvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewRecurringInvoiceResponse(ri), nil
}

func (s *recurringInvoiceService) ListRecurringInvoices(ctx context.Context, filter *types.RecurringInvoiceFilter) (*dto.ListRecurringInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewRecurringInvoiceFilter()
	}
	if filter.OwnerID == "" {
		filter.OwnerID = types.GetAccountID(ctx)
	}

	items, err := s.RecurringInvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.RecurringInvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewListRecurringInvoicesResponse(items, total), nil
}

func (s *recurringInvoiceService) UpdateRecurringInvoice(ctx context.Context, id string, req dto.UpdateRecurringInvoiceRequest) (*dto.RecurringInvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ri, err := s.RecurringInvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cadenceChanged := false

	if len(req.LineItems) > 0 {
		ri.LineItems = lo.Map(req.LineItems, func(item dto.LineItemRequest, _ int) recurringinvoice.LineItem {
			return item.ToLineItem()
		})
	}
	if req.TaxRate != nil {
		ri.TaxRate = *req.TaxRate
	}
	if req.Notes != nil {
		ri.Notes = *req.Notes
	}
	if req.PaymentTerms != nil {
		ri.PaymentTerms = *req.PaymentTerms
	}
	if req.InvoicePrefix != nil {
		ri.InvoicePrefix = *req.InvoicePrefix
	}
	if req.Frequency != nil && *req.Frequency != ri.Frequency {
		ri.Frequency = *req.Frequency
		cadenceChanged = true
	}
	if req.StartDate != nil && !req.StartDate.Equal(ri.StartDate) {
		ri.StartDate = *req.StartDate
		cadenceChanged = true
	}
	if req.EndDate != nil {
		ri.EndDate = req.EndDate
	}
	if req.DueDateDurationDays != nil {
		ri.DueDateDurationDays = *req.DueDateDurationDays
	}

	// A cadence change must never leave a stale cursor: recompute from the
	// last generated date, or the start date when nothing was generated yet.
	if cadenceChanged {
		base := ri.StartDate
		if ri.LastGeneratedDate != nil {
			base = *ri.LastGeneratedDate
		}
		next, err := types.NextOccurrence(base, ri.Frequency)
		if err != nil {
			return nil, err
		}
		ri.NextGenerationDate = next
	}

	ri.UpdatedAt = time.Now().UTC()
	ri.UpdatedBy = types.GetUserID(ctx)

	if err := ri.Validate(); err != nil {
		return nil, err
	}

	if err := s.RecurringInvoiceRepo.Update(ctx, ri); err != nil {
		return nil, err
	}

	return dto.NewRecurringInvoiceResponse(ri), nil
}

func (s *recurringInvoiceService) PauseRecurringInvoice(ctx context.Context, id string, req dto.PauseRecurringInvoiceRequest) (*dto.RecurringInvoiceResponse, error) {
	ri, err := s.RecurringInvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !ri.IsActive {
		return nil, ierr.NewError("recurring invoice is already paused").
			WithHint("Resume the recurring invoice before pausing it again").
			Mark(ierr.ErrInvalidOperation)
	}

	ri.IsActive = false
	ri.PausedUntil = req.PausedUntil
	ri.UpdatedAt = time.Now().UTC()
	ri.UpdatedBy = types.GetUserID(ctx)

	if err := s.RecurringInvoiceRepo.Update(ctx, ri); err != nil {
		return nil, err
	}

	s.Logger.Infow("paused recurring invoice",
		"recurring_invoice_id", ri.ID,
		"paused_until", ri.PausedUntil)

	return dto.NewRecurringInvoiceResponse(ri), nil
}

func (s *recurringInvoiceService) ResumeRecurringInvoice(ctx context.Context, id string) (*dto.RecurringInvoiceResponse, error) {
	ri, err := s.RecurringInvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Recompute the cursor from today so a long pause does not release a
	// burst of catch-up invoices.
	next, err := types.NextOccurrence(time.Now().UTC(), ri.Frequency)
	if err != nil {
		return nil, err
	}

	ri.IsActive = true
	ri.PausedUntil = nil
	ri.NextGenerationDate = next
	ri.UpdatedAt = time.Now().UTC()
	ri.UpdatedBy = types.GetUserID(ctx)

	if err := s.RecurringInvoiceRepo.Update(ctx, ri); err != nil {
		return nil, err
	}

	s.Logger.Infow("resumed recurring invoice",
		"recurring_invoice_id", ri.ID,
		"next_generation_date", ri.NextGenerationDate)

	return dto.NewRecurringInvoiceResponse(ri), nil
}

func (s *recurringInvoiceService) StopRecurringInvoice(ctx context.Context, id string) error {
	ri, err := s.RecurringInvoiceRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	// Hard delete of the template only; generated invoices keep existing.
	if err := s.RecurringInvoiceRepo.Delete(ctx, ri.ID); err != nil {
		return err
	}

	s.Logger.Infow("stopped recurring invoice",
		"recurring_invoice_id", ri.ID,
		"total_generated", ri.TotalGenerated)

	return nil
}

func (s *recurringInvoiceService) ManualGenerate(ctx context.Context, id string) (*dto.GenerationResponse, error) {
	generationService := NewGenerationService(s.ServiceParams)
	return generationService.GenerateForRecurringInvoice(ctx, id)
}
