package customer

import (
	"context"

	"github.com/billhive/billhive/internal/types"
)

// Repository defines the customer lookup contract. A customer belonging to a
// different owner or scope is treated as not found, never as a partial match.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Get(ctx context.Context, id string) (*Customer, error)
	GetByScope(ctx context.Context, id string, ownerID string, scope types.Scope) (*Customer, error)
}
