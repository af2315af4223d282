package invoice

import (
	"context"
)

// Repository defines the invoice creation and lookup contract consumed by
// the recurring billing engine. Create assigns the id, computes the amounts
// and persists the document; it may fail on invalid numbering settings. The
// engine does not implement retries around it.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) (*Invoice, error)
	Get(ctx context.Context, id string) (*Invoice, error)
}
