package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"plain decimal", "1234.56", 1234.56, true},
		{"integer", "1234", 1234, true},
		{"german locale", "1.234,56", 1234.56, true},
		{"english thousands", "1,234.56", 1234.56, true},
		{"comma decimal", "1234,56", 1234.56, true},
		{"comma groups only", "1,234,567", 1234567, true},
		{"surrounding space", " 42.5 ", 42.5, true},
		{"negative", "-12.30", -12.3, true},
		{"empty", "", 0, false},
		{"garbage", "n/a", 0, false},
		{"mixed garbage", "12x4", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1500.00", FormatAmount(1500))
	assert.Equal(t, "100.10", FormatAmount(100.1))
	assert.Equal(t, "0.00", FormatAmount(0))
}

func TestRoundFloat(t *testing.T) {
	assert.InDelta(t, 100.13, RoundFloat(100.125, 2), 1e-9)
	assert.InDelta(t, 33.33, RoundFloat(100.0/3.0, 2), 1e-9)
}

func TestHasValue(t *testing.T) {
	assert.False(t, HasValue(""))
	assert.False(t, HasValue("NA"))
	assert.True(t, HasValue("0"))
	assert.True(t, HasValue("Bielefeld U"))
}
