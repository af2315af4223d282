package testutil

import (
	"context"
	"sync"

	"github.com/billhive/billhive/internal/domain/account"
	ierr "github.com/billhive/billhive/internal/errors"
	"github.com/billhive/billhive/internal/types"
)

// InMemoryAccountStore implements account.Repository, including the
// per-scope invoice numbering side channel.
type InMemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account
	profiles map[string]*account.BusinessProfile

	// counters tracks IncrementInvoiceSequence calls per owner+scope key so
	// tests can assert the side channel was bumped.
	counters map[string]int
}

// NewInMemoryAccountStore creates a new in-memory account store
func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		accounts: make(map[string]*account.Account),
		profiles: make(map[string]*account.BusinessProfile),
		counters: make(map[string]int),
	}
}

func (s *InMemoryAccountStore) Create(ctx context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[a.ID]; exists {
		return ierr.NewError("account already exists").
			WithHintf("Account %s already exists", a.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	copied := *a
	s.accounts[a.ID] = &copied
	return nil
}

func (s *InMemoryAccountStore) CreateProfile(ctx context.Context, p *account.BusinessProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[p.ID]; exists {
		return ierr.NewError("profile already exists").
			WithHintf("Business profile %s already exists", p.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	copied := *p
	s.profiles[p.ID] = &copied
	return nil
}

func (s *InMemoryAccountStore) Get(ctx context.Context, id string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.accounts[id]
	if !exists {
		return nil, ierr.NewError("account not found").
			WithHintf("Account %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	copied := *a
	return &copied, nil
}

func (s *InMemoryAccountStore) GetProfile(ctx context.Context, profileID string, accountID string) (*account.BusinessProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.profiles[profileID]
	if !exists || p.AccountID != accountID {
		return nil, ierr.NewError("business profile not found").
			WithHintf("Business profile %s was not found", profileID).
			Mark(ierr.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (s *InMemoryAccountStore) IncrementInvoiceSequence(ctx context.Context, ownerID string, scope types.Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[ownerID]; !exists {
		return ierr.NewError("account not found").
			WithHintf("Account %s was not found", ownerID).
			Mark(ierr.ErrNotFound)
	}

	s.counters[ownerID+":"+scope.String()]++
	return nil
}

// SequenceBumps reports how many times the numbering side channel was bumped
// for the given owner and scope.
func (s *InMemoryAccountStore) SequenceBumps(ownerID string, scope types.Scope) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[ownerID+":"+scope.String()]
}

// Clear removes all accounts, profiles and counters
func (s *InMemoryAccountStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = make(map[string]*account.Account)
	s.profiles = make(map[string]*account.BusinessProfile)
	s.counters = make(map[string]int)
}
