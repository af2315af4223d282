package types

import (
	"time"

	"github.com/samber/lo"
)

const (
	defaultFilterLimit = 50
	maxFilterLimit     = 1000
)

// QueryFilter carries common pagination and status filtering options
type QueryFilter struct {
	Limit  *int    `json:"limit,omitempty" form:"limit"`
	Offset *int    `json:"offset,omitempty" form:"offset"`
	Status *Status `json:"status,omitempty" form:"status"`
}

func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  lo.ToPtr(defaultFilterLimit),
		Offset: lo.ToPtr(0),
		Status: lo.ToPtr(StatusActive),
	}
}

// NewNoLimitQueryFilter returns an unbounded filter for internal batch scans
func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{
		Offset: lo.ToPtr(0),
		Status: lo.ToPtr(StatusActive),
	}
}

func (f *QueryFilter) GetLimit() int {
	if f == nil || f.Limit == nil {
		return defaultFilterLimit
	}
	if *f.Limit > maxFilterLimit {
		return maxFilterLimit
	}
	return *f.Limit
}

func (f *QueryFilter) GetOffset() int {
	if f == nil || f.Offset == nil {
		return 0
	}
	return *f.Offset
}

func (f *QueryFilter) GetStatus() Status {
	if f == nil || f.Status == nil {
		return StatusActive
	}
	return *f.Status
}

// IsUnlimited reports whether pagination should be skipped entirely
func (f *QueryFilter) IsUnlimited() bool {
	return f == nil || f.Limit == nil
}

// RecurringInvoiceFilter narrows recurring invoice queries. OwnerID plus
// Scope selects "by owner"; DueBefore selects records whose generation
// cursor has come due.
type RecurringInvoiceFilter struct {
	*QueryFilter

	OwnerID    string     `json:"owner_id,omitempty" form:"owner_id"`
	Scope      *Scope     `json:"-"`
	CustomerID string     `json:"customer_id,omitempty" form:"customer_id"`
	IsActive   *bool      `json:"is_active,omitempty" form:"is_active"`
	DueBefore  *time.Time `json:"due_before,omitempty" form:"due_before"`
}

func NewRecurringInvoiceFilter() *RecurringInvoiceFilter {
	return &RecurringInvoiceFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}
