package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "PKR 0.00"},
		{"two decimals always shown", 100, "PKR 100.00"},
		{"thousands grouping", 1234.5, "PKR 1,234.50"},
		{"millions grouping", 1234567.891, "PKR 1,234,567.89"},
		{"negative amount", -36, "PKR -36.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.amount))
		})
	}
}
