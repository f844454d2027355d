package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateToYear(t *testing.T) {
	assert.Equal(t, "2021", TruncateToYear("2021"))
	assert.Equal(t, "2021", TruncateToYear("2021-05"))
	assert.Equal(t, "2021", TruncateToYear("2021-05-17"))
	// Non-matching text is kept verbatim.
	assert.Equal(t, "May 2021", TruncateToYear("May 2021"))
	assert.Equal(t, "2021/05/17", TruncateToYear("2021/05/17"))
	assert.Equal(t, "21-05-17", TruncateToYear("21-05-17"))
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"10.1000/xyz123", "10.1000/xyz123", true},
		{"https://doi.org/10.1000/XYZ123", "10.1000/xyz123", true},
		{"http://dx.doi.org/10.1000/xyz123", "10.1000/xyz123", true},
		{"doi:10.1000/xyz123", "10.1000/xyz123", true},
		{"  10.1000/xyz123  ", "10.1000/xyz123", true},
		{"urn:nbn:de:hbz:123", "", false},
		{"NA", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeDOI(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
