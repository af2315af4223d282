package account

import (
	"context"

	"github.com/billhive/billhive/internal/types"
)

// Repository defines the account and profile resolution contract plus the
// numbering side channel. IncrementInvoiceSequence bumps the per-scope
// counter used for manually created invoices; it is an explicit collaborator
// operation, never shared in-process mutable state.
type Repository interface {
	Get(ctx context.Context, id string) (*Account, error)
	GetProfile(ctx context.Context, profileID string, accountID string) (*BusinessProfile, error)
	IncrementInvoiceSequence(ctx context.Context, ownerID string, scope types.Scope) error

	Create(ctx context.Context, a *Account) error
	CreateProfile(ctx context.Context, p *BusinessProfile) error
}
