package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV-00001", FormatNumber("INV", 1))
	assert.Equal(t, "INV-00043", FormatNumber("INV", 43))
	assert.Equal(t, "ACME-12345", FormatNumber("ACME", 12345))
	assert.Equal(t, "INV-123456", FormatNumber("INV", 123456))
}

func TestParseNumericSuffix(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"INV-00042", 42, true},
		{"INV-2024-0001", 1, true},
		{"42", 42, true},
		{"ACME-7 ", 7, true},
		{"INV-", 0, false},
		{"draft", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseNumericSuffix(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
