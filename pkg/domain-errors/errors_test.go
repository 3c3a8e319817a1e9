package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code     Code
		expected int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeBadRequest, http.StatusBadRequest},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeBadGateway, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
		{Code("unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, ToHTTPStatus(tt.code))
		})
	}
}

func TestHasCodeThroughWrapping(t *testing.T) {
	base := Field("email", "Nederīga e-pasta adrese")
	wrapped := fmt.Errorf("validate: %w", base)

	assert.True(t, HasCode(wrapped, CodeValidation))
	assert.False(t, HasCode(wrapped, CodeInternal))
	assert.False(t, HasCode(errors.New("plain"), CodeValidation))

	de, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "email", de.Field)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(cause, CodeInternal, "failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "dial tcp: refused")
}
