package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"plain address", "anna@example.com", true},
		{"subaddress", "anna+conf@example.lv", true},
		{"empty", "", false},
		{"missing at", "anna.example.com", false},
		{"missing domain dot", "anna@localhost", false},
		{"trailing dot", "anna@example.", false},
		{"display name", "Anna <anna@example.com>", false},
		{"surrounding whitespace", " anna@example.com ", false},
		{"two addresses", "a@example.com, b@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.input))
		})
	}
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "noreply@example.lv", FormatAddress("", "noreply@example.lv"))
	assert.Equal(t, `"Registration" <noreply@example.lv>`, FormatAddress("Registration", "noreply@example.lv"))

	encoded := FormatAddress("Reģistrācija", "noreply@example.lv")
	assert.Contains(t, encoded, "=?utf-8?")
	assert.Contains(t, encoded, "<noreply@example.lv>")
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "example.lv", Domain("a@example.lv"))
	assert.Equal(t, "", Domain("nope"))
}
