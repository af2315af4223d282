package invoice

import (
	"fmt"
	"regexp"
	"strconv"
)

var trailingNumber = regexp.MustCompile(`(\d+)\s*$`)

// FormatNumber renders a sequence number with its prefix, e.g. INV-00042
func FormatNumber(prefix string, number int) string {
	return fmt.Sprintf("%s-%05d", prefix, number)
}

// ParseNumericSuffix extracts the trailing numeric suffix of a formatted
// invoice number. It reports false for numbers it cannot parse; callers fall
// back to their stored sequence instead of failing generation.
func ParseNumericSuffix(invoiceNumber string) (int, bool) {
	match := trailingNumber.FindStringSubmatch(invoiceNumber)
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
