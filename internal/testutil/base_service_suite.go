package testutil

import (
	"context"
	"time"

	"github.com/billhive/billhive/internal/cache"
	"github.com/billhive/billhive/internal/config"
	"github.com/billhive/billhive/internal/logger"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository implementations for testing
type Stores struct {
	RecurringInvoiceRepo *InMemoryRecurringInvoiceStore
	CustomerRepo         *InMemoryCustomerStore
	InvoiceRepo          *InMemoryInvoiceStore
	AccountRepo          *InMemoryAccountStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	cache  cache.Cache
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	cfg := config.GetDefaultConfig()
	s.config = cfg

	var err error
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.cache = cache.NewInMemoryCache(s.config.Cache.Enabled)
	s.stores = Stores{
		RecurringInvoiceRepo: NewInMemoryRecurringInvoiceStore(),
		CustomerRepo:         NewInMemoryCustomerStore(),
		InvoiceRepo:          NewInMemoryInvoiceStore(),
		AccountRepo:          NewInMemoryAccountStore(),
	}
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.RecurringInvoiceRepo.Clear()
	s.stores.CustomerRepo.Clear()
	s.stores.InvoiceRepo.Clear()
	s.stores.AccountRepo.Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the test suite's reference time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
