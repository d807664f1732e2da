package roomcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		code := Generate()
		assert.Len(t, code, Length)
		assert.True(t, Valid(code), "generated code should be valid: %q", code)
		seen[code] = true
	}
	// 500 draws from 36^6 should not collide into a handful of values.
	assert.Greater(t, len(seen), 490)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "AB12CD", Normalize("  ab12cd "))
	assert.Equal(t, "AB12CD", Normalize("AB12CD"))
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{name: "valid uppercase", code: "AB12CD", want: true},
		{name: "valid lowercase input", code: "ab12cd", want: true},
		{name: "too short", code: "AB12C", want: false},
		{name: "too long", code: "AB12CDE", want: false},
		{name: "punctuation", code: "AB-2CD", want: false},
		{name: "empty", code: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.code))
		})
	}
}
