package types

import (
	"time"

	ierr "github.com/billhive/billhive/internal/errors"
)

// NextOccurrence calculates the next generation date for the given billing
// frequency. Weekly and biweekly advance by whole days; monthly, quarterly
// and yearly use calendar-aware addition so that the day-of-month is clamped
// to the shorter month (Jan 31 + 1 month lands on Feb 28/29, not Mar 3).
func NextOccurrence(date time.Time, frequency BillingFrequency) (time.Time, error) {
	switch frequency {
	case BillingFrequencyWeekly:
		return AddClampedDate(date, 0, 0, 7), nil
	case BillingFrequencyBiweekly:
		return AddClampedDate(date, 0, 0, 14), nil
	case BillingFrequencyMonthly:
		return AddClampedDate(date, 0, 1, 0), nil
	case BillingFrequencyQuarterly:
		return AddClampedDate(date, 0, 3, 0), nil
	case BillingFrequencyYearly:
		return AddClampedDate(date, 1, 0, 0), nil
	default:
		return date, ierr.NewError("invalid billing frequency").
			WithHintf("Unknown billing frequency %s", frequency).
			Mark(ierr.ErrValidation)
	}
}

// PeriodBounds returns the inclusive [start, end] billing period that an
// invoice dated invoiceDate covers.
//
// Weekly and biweekly are rolling windows ending on the invoice date.
// Quarterly and yearly are calendar-aware windows ending on the invoice date.
// Monthly is special-cased to the full previous calendar month relative to
// the invoice date, so a monthly invoice reads as "for the month of X"; a
// January invoice date yields the previous December.
func PeriodBounds(invoiceDate time.Time, frequency BillingFrequency) (time.Time, time.Time, error) {
	switch frequency {
	case BillingFrequencyWeekly:
		return AddClampedDate(invoiceDate, 0, 0, -6), invoiceDate, nil
	case BillingFrequencyBiweekly:
		return AddClampedDate(invoiceDate, 0, 0, -13), invoiceDate, nil
	case BillingFrequencyMonthly:
		firstOfMonth := time.Date(invoiceDate.Year(), invoiceDate.Month(), 1, 0, 0, 0, 0, invoiceDate.Location())
		start := AddClampedDate(firstOfMonth, 0, -1, 0)
		end := firstOfMonth.AddDate(0, 0, -1)
		return start, end, nil
	case BillingFrequencyQuarterly:
		start := AddClampedDate(AddClampedDate(invoiceDate, 0, -3, 0), 0, 0, 1)
		return start, invoiceDate, nil
	case BillingFrequencyYearly:
		start := AddClampedDate(AddClampedDate(invoiceDate, -1, 0, 0), 0, 0, 1)
		return start, invoiceDate, nil
	default:
		return invoiceDate, invoiceDate, ierr.NewError("invalid billing frequency").
			WithHintf("Unknown billing frequency %s", frequency).
			Mark(ierr.ErrValidation)
	}
}

// AddClampedDate adds the given years, months and days to t, clamping the
// day-of-month to the last valid day of the resulting month instead of
// letting it spill into the next month the way time.AddDate does.
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	newY := y + years
	newM := time.Month(int(m) + months)

	// Normalize the month into [1, 12], carrying into the year in either
	// direction (adding 2 months to November lands on January next year).
	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	// Find the last valid day of the new month
	firstOfNextMonth := time.Date(newY, newM+1, 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfNextMonth.AddDate(0, 0, -1).Day()

	newD := d
	if newD > lastDay {
		newD = lastDay
	}

	result := time.Date(newY, newM, newD, h, min, sec, t.Nanosecond(), t.Location())
	if days != 0 {
		result = result.AddDate(0, 0, days)
	}
	return result
}
