package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "registrar/pkg/domain-errors"
)

func TestParseAbout(t *testing.T) {
	t.Run("accepts every channel", func(t *testing.T) {
		for _, a := range AllAbout {
			got, err := ParseAbout(string(a))
			require.NoError(t, err)
			assert.Equal(t, a, got)
		}
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		got, err := ParseAbout("  Social ")
		require.NoError(t, err)
		assert.Equal(t, AboutSocial, got)
	})

	t.Run("rejects empty and unknown", func(t *testing.T) {
		for _, in := range []string{"", "   ", "radio", "other!"} {
			_, err := ParseAbout(in)
			require.Error(t, err, in)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		}
	})
}

func TestAboutPhrase(t *testing.T) {
	t.Run("every channel has a phrase", func(t *testing.T) {
		for _, a := range AllAbout {
			p, err := a.Phrase("x")
			require.NoError(t, err)
			assert.NotEmpty(t, p)
		}
	})

	t.Run("other interpolates free text", func(t *testing.T) {
		p, err := AboutOther.Phrase("Radio")
		require.NoError(t, err)
		assert.Equal(t, "Cits: Radio", p)
	})

	t.Run("unknown value is an error not an empty phrase", func(t *testing.T) {
		_, err := About("radio").Phrase("")
		require.Error(t, err)
	})
}
