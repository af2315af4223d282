package service

import (
	"testing"
	"time"

	"github.com/billhive/billhive/internal/domain/account"
	"github.com/billhive/billhive/internal/domain/customer"
	"github.com/billhive/billhive/internal/domain/invoice"
	"github.com/billhive/billhive/internal/domain/recurringinvoice"
	ierr "github.com/billhive/billhive/internal/errors"
	"github.com/billhive/billhive/internal/testutil"
	"github.com/billhive/billhive/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type GenerationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service GenerationService
}

func TestGenerationService(t *testing.T) {
	suite.Run(t, new(GenerationServiceSuite))
}

func (s *GenerationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.service = NewGenerationService(ServiceParams{
		Logger:               s.GetLogger(),
		Config:               s.GetConfig(),
		Cache:                s.GetCache(),
		RecurringInvoiceRepo: stores.RecurringInvoiceRepo,
		CustomerRepo:         stores.CustomerRepo,
		InvoiceRepo:          stores.InvoiceRepo,
		AccountRepo:          stores.AccountRepo,
	})

	err := stores.AccountRepo.Create(s.GetContext(), &account.Account{
		ID:    testutil.TestAccountID,
		Name:  "Test Owner",
		Email: "owner@example.com",
		Settings: account.InvoiceSettings{
			Timezone:            "UTC",
			InvoicePrefix:       "INV",
			NextInvoiceSequence: 1,
		},
	})
	s.Require().NoError(err)
}

func (s *GenerationServiceSuite) seedCustomer(id string) {
	err := s.GetStores().CustomerRepo.Create(s.GetContext(), &customer.Customer{
		ID:      id,
		OwnerID: testutil.TestAccountID,
		Scope:   types.ScopePersonal(),
		Name:    "Customer " + id,
		Email:   id + "@example.com",
	})
	s.Require().NoError(err)
}

// seedDueRecord stores a recurring invoice whose cursor came due yesterday.
func (s *GenerationServiceSuite) seedDueRecord(id string, customerID string, mutate func(ri *recurringinvoice.RecurringInvoice)) *recurringinvoice.RecurringInvoice {
	now := s.GetNow()
	ri := &recurringinvoice.RecurringInvoice{
		ID:            id,
		OwnerID:       testutil.TestAccountID,
		Scope:         types.ScopePersonal(),
		CustomerID:    customerID,
		CustomerName:  "Customer " + customerID,
		CustomerEmail: customerID + "@example.com",
		LineItems: []recurringinvoice.LineItem{
			{
				Description: "Retainer for {{MONTH_NAME}} {{YEAR}}",
				Quantity:    decimal.NewFromInt(1),
				Rate:        decimal.NewFromInt(250),
			},
		},
		TaxRate:             decimal.NewFromInt(10),
		NextInvoiceNumber:   1,
		Frequency:           types.BillingFrequencyMonthly,
		StartDate:           now.AddDate(0, -2, 0),
		DueDateDurationDays: 15,
		NextGenerationDate:  now.AddDate(0, 0, -1),
		GeneratedInvoiceIDs: []string{},
		IsActive:            true,
		BaseModel:           types.GetDefaultBaseModel(s.GetContext()),
	}
	if mutate != nil {
		mutate(ri)
	}
	s.Require().NoError(s.GetStores().RecurringInvoiceRepo.Create(s.GetContext(), ri))
	return ri
}

func (s *GenerationServiceSuite) outcomeFor(resp []types.GenerationOutcome, recordID string) *types.GenerationOutcome {
	for i := range resp {
		if resp[i].RecurringInvoiceID == recordID {
			return &resp[i]
		}
	}
	return nil
}

func (s *GenerationServiceSuite) TestBatchIsolatesPerRecordFailures() {
	s.seedCustomer("cust_a")
	s.seedCustomer("cust_c")

	s.seedDueRecord("rec_a", "cust_a", nil)
	// cust_b was never created; this record must fail alone.
	s.seedDueRecord("rec_b", "cust_b", nil)
	s.seedDueRecord("rec_c", "cust_c", nil)

	resp, err := s.service.ProcessDueRecurringInvoices(s.GetContext())
	s.NoError(err)
	s.Require().NotNil(resp)

	s.Equal(2, resp.TotalSuccess)
	s.Equal(1, resp.TotalFailed)
	s.Equal(0, resp.TotalSkipped)
	s.Len(resp.Outcomes, 3)
	s.NotEmpty(resp.RunID)

	failures := resp.Failures()
	s.Require().Len(failures, 1)
	s.Equal("rec_b", failures[0].RecurringInvoiceID)
	s.NotEmpty(failures[0].Cause)

	// Successful records advanced their cursors.
	for _, id := range []string{"rec_a", "rec_c"} {
		ri, err := s.GetStores().RecurringInvoiceRepo.Get(s.GetContext(), id)
		s.Require().NoError(err)
		s.Equal(1, ri.TotalGenerated)
		s.Len(ri.GeneratedInvoiceIDs, 1)
		s.Require().NotNil(ri.LastGeneratedDate)
		s.True(ri.NextGenerationDate.After(*ri.LastGeneratedDate))
		s.Equal(2, ri.NextInvoiceNumber)

		outcome := s.outcomeFor(resp.Outcomes, id)
		s.Require().NotNil(outcome)
		s.Equal(types.GenerationOutcomeSuccess, outcome.Kind)
		s.Equal("INV-00001", outcome.InvoiceNumber)

		inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), outcome.InvoiceID)
		s.Require().NoError(err)
		s.Equal(types.InvoiceStatusPending, inv.Status)
		s.Require().NotNil(inv.RecurringInvoiceID)
		s.Equal(id, *inv.RecurringInvoiceID)
		s.True(inv.DueDate.Equal(inv.InvoiceDate.AddDate(0, 0, 15)))
		s.True(inv.Total.Equal(decimal.NewFromInt(275)))
	}

	// The failed record is left completely untouched.
	ri, err := s.GetStores().RecurringInvoiceRepo.Get(s.GetContext(), "rec_b")
	s.Require().NoError(err)
	s.Zero(ri.TotalGenerated)
	s.Empty(ri.GeneratedInvoiceIDs)
	s.Nil(ri.LastGeneratedDate)
	s.Equal(1, ri.NextInvoiceNumber)

	// The numbering side channel was bumped once per generated invoice.
	s.Equal(2, s.GetStores().AccountRepo.SequenceBumps(testutil.TestAccountID, types.ScopePersonal()))
}

func (s *GenerationServiceSuite) TestBatchSkipsPausedRecord() {
	s.seedCustomer("cust_a")
	tomorrow := s.GetNow().AddDate(0, 0, 1)

	// Due yesterday but paused until tomorrow.
	s.seedDueRecord("rec_paused", "cust_a", func(ri *recurringinvoice.RecurringInvoice) {
		ri.IsActive = false
		ri.PausedUntil = &tomorrow
	})

	resp, err := s.service.ProcessDueRecurringInvoices(s.GetContext())
	s.NoError(err)
	s.Zero(resp.TotalSuccess)
	s.Zero(resp.TotalFailed)
	s.Zero(resp.TotalSkipped)
	s.Empty(resp.Outcomes)

	// Inactive records never surface from the due query, so nothing was
	// written anywhere.
	ri, err := s.GetStores().RecurringInvoiceRepo.Get(s.GetContext(), "rec_paused")
	s.Require().NoError(err)
	s.Zero(ri.TotalGenerated)
	s.Zero(s.GetStores().AccountRepo.SequenceBumps(testutil.TestAccountID, types.ScopePersonal()))
}

func (s *GenerationServiceSuite) TestBatchSkipsRecordPastEndDate() {
	s.seedCustomer("cust_a")
	yesterday := s.GetNow().AddDate(0, 0, -1)

	s.seedDueRecord("rec_ended", "cust_a", func(ri *recurringinvoice.RecurringInvoice) {
		ri.NextGenerationDate = s.GetNow().AddDate(0, 0, -2)
		ri.EndDate = &yesterday
	})

	resp, err := s.service.ProcessDueRecurringInvoices(s.GetContext())
	s.NoError(err)
	s.Zero(resp.TotalSuccess)
	s.Zero(resp.TotalFailed)
	s.Equal(1, resp.TotalSkipped)

	outcome := s.outcomeFor(resp.Outcomes, "rec_ended")
	s.Require().NotNil(outcome)
	s.Equal(types.GenerationOutcomeSkipped, outcome.Kind)
	s.Equal("recurring invoice end date has passed", outcome.SkipReason)

	ri, err := s.GetStores().RecurringInvoiceRepo.Get(s.GetContext(), "rec_ended")
	s.Require().NoError(err)
	s.Zero(ri.TotalGenerated)
}

func (s *GenerationServiceSuite) TestPriorInvoiceDrivesDateAndNumber() {
	s.seedCustomer("cust_a")

	priorDate := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	prior, err := s.GetStores().InvoiceRepo.Create(s.GetContext(), &invoice.Invoice{
		OwnerID:       testutil.TestAccountID,
		Scope:         types.ScopePersonal(),
		CustomerID:    "cust_a",
		InvoiceNumber: "INV-00042",
		LineItems: []invoice.LineItem{
			{Description: "Retainer", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(250), Amount: decimal.NewFromInt(250)},
		},
		InvoiceDate: priorDate,
		Status:      types.InvoiceStatusPaid,
	})
	s.Require().NoError(err)

	// The stored cursor has drifted away from the prior invoice; the prior
	// invoice wins on both date and number.
	s.seedDueRecord("rec_a", "cust_a", func(ri *recurringinvoice.RecurringInvoice) {
		ri.NextGenerationDate = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
		ri.NextInvoiceNumber = 7
		ri.GeneratedInvoiceIDs = []string{prior.ID}
		ri.TotalGenerated = 1
		ri.LastGeneratedDate = &priorDate
	})

	resp, err := s.service.GenerateForRecurringInvoice(s.GetContext(), "rec_a")
	s.NoError(err)
	s.Require().NotNil(resp)

	s.Equal("INV-00043", resp.InvoiceNumber)
	s.True(resp.InvoiceDate.Equal(time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)))

	ri, err := s.GetStores().RecurringInvoiceRepo.Get(s.GetContext(), "rec_a")
	s.Require().NoError(err)
	s.Equal(44, ri.NextInvoiceNumber)
	s.Require().NotNil(ri.LastInvoiceNumber)
	s.Equal(43, *ri.LastInvoiceNumber)
	s.True(ri.NextGenerationDate.Equal(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))
	s.Equal(2, ri.TotalGenerated)
}

func (s *GenerationServiceSuite) TestUnparseablePriorNumberFallsBackToCursor() {
	s.seedCustomer("cust_a")

	prior, err := s.GetStores().InvoiceRepo.Create(s.GetContext(), &invoice.Invoice{
		OwnerID:       testutil.TestAccountID,
		Scope:         types.ScopePersonal(),
		CustomerID:    "cust_a",
		InvoiceNumber: "LEGACY-FINAL",
		LineItems: []invoice.LineItem{
			{Description: "Retainer", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(250), Amount: decimal.NewFromInt(250)},
		},
		InvoiceDate: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		Status:      types.InvoiceStatusPaid,
	})
	s.Require().NoError(err)

	s.seedDueRecord("rec_a", "cust_a", func(ri *recurringinvoice.RecurringInvoice) {
		ri.NextInvoiceNumber = 7
		ri.GeneratedInvoiceIDs = []string{prior.ID}
		ri.TotalGenerated = 1
	})

	// The fallback warns and continues; generation is never aborted over a
	// numbering parse failure.
	resp, err := s.service.GenerateForRecurringInvoice(s.GetContext(), "rec_a")
	s.NoError(err)
	s.Equal("INV-00007", resp.InvoiceNumber)
}

func (s *GenerationServiceSuite) TestGenerateRefusesEndedRecord() {
	s.seedCustomer("cust_a")
	ended := s.GetNow().AddDate(0, 0, -10)

	s.seedDueRecord("rec_ended", "cust_a", func(ri *recurringinvoice.RecurringInvoice) {
		ri.StartDate = s.GetNow().AddDate(0, -6, 0)
		ri.EndDate = &ended
	})

	_, err := s.service.GenerateForRecurringInvoice(s.GetContext(), "rec_ended")
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	// No invoice was created and the cursor did not move.
	ri, err := s.GetStores().RecurringInvoiceRepo.Get(s.GetContext(), "rec_ended")
	s.Require().NoError(err)
	s.Zero(ri.TotalGenerated)
	s.Zero(s.GetStores().AccountRepo.SequenceBumps(testutil.TestAccountID, types.ScopePersonal()))
}

func (s *GenerationServiceSuite) TestGenerateRefusesPausedRecord() {
	s.seedCustomer("cust_a")
	until := s.GetNow().AddDate(0, 0, 1)

	// Still flagged active but paused into the future; the pause wins.
	s.seedDueRecord("rec_paused", "cust_a", func(ri *recurringinvoice.RecurringInvoice) {
		ri.PausedUntil = &until
	})

	_, err := s.service.GenerateForRecurringInvoice(s.GetContext(), "rec_paused")
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *GenerationServiceSuite) TestDueQueryFailureAbortsRun() {
	s.GetStores().RecurringInvoiceRepo.ListDueError = ierr.NewError("connection refused").
		Mark(ierr.ErrDatabase)

	resp, err := s.service.ProcessDueRecurringInvoices(s.GetContext())
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsDatabase(err))
}

func (s *GenerationServiceSuite) TestMarkupOnlyLineItemsFailRecord() {
	s.seedCustomer("cust_a")

	s.seedDueRecord("rec_a", "cust_a", func(ri *recurringinvoice.RecurringInvoice) {
		ri.LineItems = []recurringinvoice.LineItem{
			{
				Description: "<!DOCTYPE html><html><body>Payment reminder</body></html>",
				Quantity:    decimal.NewFromInt(1),
				Rate:        decimal.NewFromInt(250),
			},
		}
	})

	resp, err := s.service.ProcessDueRecurringInvoices(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.TotalFailed)

	outcome := s.outcomeFor(resp.Outcomes, "rec_a")
	s.Require().NotNil(outcome)
	s.Equal(types.GenerationOutcomeFailed, outcome.Kind)
	s.Contains(outcome.Cause, "no valid line items")

	// Nothing was created and the record is unmodified.
	ri, err := s.GetStores().RecurringInvoiceRepo.Get(s.GetContext(), "rec_a")
	s.Require().NoError(err)
	s.Zero(ri.TotalGenerated)
	s.Zero(s.GetStores().AccountRepo.SequenceBumps(testutil.TestAccountID, types.ScopePersonal()))
}

func (s *GenerationServiceSuite) TestMarkupLineItemIsDroppedAmongValidOnes() {
	s.seedCustomer("cust_a")

	s.seedDueRecord("rec_a", "cust_a", func(ri *recurringinvoice.RecurringInvoice) {
		ri.LineItems = []recurringinvoice.LineItem{
			{Description: "<html><body>oops</body></html>", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(999)},
			{Description: "Monthly retainer", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(250)},
		}
	})

	resp, err := s.service.GenerateForRecurringInvoice(s.GetContext(), "rec_a")
	s.NoError(err)

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), resp.InvoiceID)
	s.Require().NoError(err)
	s.Require().Len(inv.LineItems, 1)
	s.Equal("Monthly retainer", inv.LineItems[0].Description)
	s.True(inv.Subtotal.Equal(decimal.NewFromInt(250)))
}

func (s *GenerationServiceSuite) TestProfileSettingsOverrideAccount() {
	stores := s.GetStores()
	err := stores.AccountRepo.CreateProfile(s.GetContext(), &account.BusinessProfile{
		ID:        "prof_1",
		AccountID: testutil.TestAccountID,
		Name:      "Side Business",
		Settings: account.InvoiceSettings{
			Timezone:      "America/New_York",
			InvoicePrefix: "",
		},
	})
	s.Require().NoError(err)

	err = stores.CustomerRepo.Create(s.GetContext(), &customer.Customer{
		ID:      "cust_biz",
		OwnerID: testutil.TestAccountID,
		Scope:   types.ScopeBusiness("prof_1"),
		Name:    "Biz Customer",
		Email:   "biz@example.com",
	})
	s.Require().NoError(err)

	s.seedDueRecord("rec_biz", "cust_biz", func(ri *recurringinvoice.RecurringInvoice) {
		ri.Scope = types.ScopeBusiness("prof_1")
		ri.InvoicePrefix = "ACME"
	})

	resp, err := s.service.GenerateForRecurringInvoice(s.GetContext(), "rec_biz")
	s.NoError(err)

	// The record's own prefix beats the account prefix; the profile's empty
	// prefix falls through the settings chain.
	s.Equal("ACME-00001", resp.InvoiceNumber)
}

func (s *GenerationServiceSuite) TestRepeatedRunsAdvanceThroughCadence() {
	s.seedCustomer("cust_a")
	s.seedDueRecord("rec_a", "cust_a", func(ri *recurringinvoice.RecurringInvoice) {
		ri.Frequency = types.BillingFrequencyMonthly
		ri.NextGenerationDate = s.GetNow().AddDate(0, -2, 0)
	})

	// First run generates for the overdue date and moves the cursor one
	// month forward, which is still in the past, so the second run generates
	// again. No catch-up burst inside a single run.
	first, err := s.service.ProcessDueRecurringInvoices(s.GetContext())
	s.NoError(err)
	s.Equal(1, first.TotalSuccess)

	second, err := s.service.ProcessDueRecurringInvoices(s.GetContext())
	s.NoError(err)
	s.Equal(1, second.TotalSuccess)

	ri, err := s.GetStores().RecurringInvoiceRepo.Get(s.GetContext(), "rec_a")
	s.Require().NoError(err)
	s.Equal(2, ri.TotalGenerated)
	s.Equal(3, ri.NextInvoiceNumber)

	numbers := lo.Map(ri.GeneratedInvoiceIDs, func(id string, _ int) string {
		inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), id)
		s.Require().NoError(err)
		return inv.InvoiceNumber
	})
	s.Equal([]string{"INV-00001", "INV-00002"}, numbers)
}

func (s *GenerationServiceSuite) TestInvoiceCreationFailureLeavesCursorUntouched() {
	s.seedCustomer("cust_a")
	s.seedDueRecord("rec_a", "cust_a", nil)

	s.GetStores().InvoiceRepo.CreateError = ierr.NewError("invoice service unavailable").
		Mark(ierr.ErrSystem)

	resp, err := s.service.ProcessDueRecurringInvoices(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.TotalFailed)

	ri, err := s.GetStores().RecurringInvoiceRepo.Get(s.GetContext(), "rec_a")
	s.Require().NoError(err)
	s.Zero(ri.TotalGenerated)
	s.Equal(1, ri.NextInvoiceNumber)
	s.Zero(s.GetStores().AccountRepo.SequenceBumps(testutil.TestAccountID, types.ScopePersonal()))

	// Once the collaborator recovers the same record generates cleanly.
	s.GetStores().InvoiceRepo.CreateError = nil

	resp, err = s.service.ProcessDueRecurringInvoices(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.TotalSuccess)
}
