// Package period expands calendar-derived placeholders in line-item
// description templates at generation time.
package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/billhive/billhive/internal/types"
)

// Recognized placeholders. Anything else between braces is left untouched.
const (
	PlaceholderPeriodStart = "{{PERIOD_START}}"
	PlaceholderPeriodEnd   = "{{PERIOD_END}}"
	PlaceholderMonthName   = "{{MONTH_NAME}}"
	PlaceholderMonthShort  = "{{MONTH_SHORT}}"
	PlaceholderYear        = "{{YEAR}}"
	PlaceholderWeekNumber  = "{{WEEK_NUMBER}}"
	PlaceholderQuarter     = "{{QUARTER}}"
)

// dateLayout is locale-invariant: Go's time formatting always emits English
// month names regardless of the host locale.
const dateLayout = "Jan 2, 2006"

// Expand substitutes every recognized placeholder in template using the
// billing period that an invoice dated invoiceDate covers. The timezone is
// display-only: it shifts how the period bounds are rendered, never the
// underlying instants.
//
// Strings without a "{{" are returned unchanged with no formatting cost.
// Markup that leaked in from a corrupted upstream value (a literal <!DOCTYPE
// or <html prefix) is neutralized to an empty string instead of being
// propagated into a generated invoice.
func Expand(template string, invoiceDate time.Time, frequency types.BillingFrequency, timezone string) (string, error) {
	if IsMarkup(template) {
		return "", nil
	}

	if !strings.Contains(template, "{{") {
		return template, nil
	}

	start, end, err := types.PeriodBounds(invoiceDate, frequency)
	if err != nil {
		return "", err
	}

	loc := loadLocation(timezone)
	start = start.In(loc)
	end = end.In(loc)

	// A monthly invoice covering December should say "December" even though
	// its invoice date falls in January, so monthly labels come from the
	// period start. Every other cadence labels by the period end.
	labelDate := end
	if frequency == types.BillingFrequencyMonthly {
		labelDate = start
	}

	_, week := end.ISOWeek()
	quarter := int(labelDate.Month()-1)/3 + 1

	replacer := strings.NewReplacer(
		PlaceholderPeriodStart, start.Format(dateLayout),
		PlaceholderPeriodEnd, end.Format(dateLayout),
		PlaceholderMonthName, labelDate.Format("January"),
		PlaceholderMonthShort, labelDate.Format("Jan"),
		PlaceholderYear, labelDate.Format("2006"),
		PlaceholderWeekNumber, fmt.Sprintf("%d", week),
		PlaceholderQuarter, fmt.Sprintf("Q%d", quarter),
	)

	return replacer.Replace(template), nil
}

// IsMarkup detects HTML document prefixes from corrupted upstream values.
// This is a display-safety valve, not a general HTML sanitizer.
func IsMarkup(s string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html")
}

func loadLocation(timezone string) *time.Location {
	if timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
