package service

import (
	"github.com/billhive/billhive/internal/cache"
	"github.com/billhive/billhive/internal/config"
	"github.com/billhive/billhive/internal/domain/account"
	"github.com/billhive/billhive/internal/domain/customer"
	"github.com/billhive/billhive/internal/domain/invoice"
	"github.com/billhive/billhive/internal/domain/recurringinvoice"
	"github.com/billhive/billhive/internal/logger"
)

// ServiceParams is the common dependency bag injected into every service.
// The repositories are the engine's external collaborator contracts; their
// production implementations live with the host application.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	// Repositories
	RecurringInvoiceRepo recurringinvoice.Repository
	CustomerRepo         customer.Repository
	InvoiceRepo          invoice.Repository
	AccountRepo          account.Repository
}

// NewServiceParams assembles the common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cache cache.Cache,
	recurringInvoiceRepo recurringinvoice.Repository,
	customerRepo customer.Repository,
	invoiceRepo invoice.Repository,
	accountRepo account.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:               logger,
		Config:               config,
		Cache:                cache,
		RecurringInvoiceRepo: recurringInvoiceRepo,
		CustomerRepo:         customerRepo,
		InvoiceRepo:          invoiceRepo,
		AccountRepo:          accountRepo,
	}
}
