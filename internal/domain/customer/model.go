package customer

import (
	"github.com/billhive/billhive/internal/types"
)

// Customer represents a billable customer owned by an account under a single
// scope. Customer resolution is an external collaborator of the recurring
// billing engine; only the lookup contract lives here.
type Customer struct {
	// ID is the unique identifier for the customer
	ID string `db:"id" json:"id"`

	// OwnerID is the owning account
	OwnerID string `db:"owner_id" json:"owner_id"`

	// Scope the customer was created under; lookups never cross scopes
	Scope types.Scope `db:"scope" json:"scope"`

	// Name is the name of the customer
	Name string `db:"name" json:"name"`

	// Email is the email of the customer
	Email string `db:"email" json:"email"`

	types.BaseModel
}
