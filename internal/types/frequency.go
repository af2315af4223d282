package types

import (
	ierr "github.com/billhive/billhive/internal/errors"
	"github.com/samber/lo"
)

// BillingFrequency is the named repetition interval of a recurring invoice
type BillingFrequency string

const (
	BillingFrequencyWeekly    BillingFrequency = "weekly"
	BillingFrequencyBiweekly  BillingFrequency = "biweekly"
	BillingFrequencyMonthly   BillingFrequency = "monthly"
	BillingFrequencyQuarterly BillingFrequency = "quarterly"
	BillingFrequencyYearly    BillingFrequency = "yearly"
)

func (f BillingFrequency) String() string {
	return string(f)
}

func (f BillingFrequency) Validate() error {
	allowed := []BillingFrequency{
		BillingFrequencyWeekly,
		BillingFrequencyBiweekly,
		BillingFrequencyMonthly,
		BillingFrequencyQuarterly,
		BillingFrequencyYearly,
	}
	if !lo.Contains(allowed, f) {
		return ierr.NewError("invalid billing frequency").
			WithHint("Please provide a valid billing frequency").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
