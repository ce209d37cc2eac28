package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cardfreezer/internal/card/domain"
	apperrors "github.com/allisson/cardfreezer/internal/errors"
)

func TestParseEncryptedValue(t *testing.T) {
	t.Run("ValidInput", func(t *testing.T) {
		ev, err := domain.ParseEncryptedValue("aXYtYnl0ZXM=|Y2lwaGVydGV4dA==")

		require.NoError(t, err)
		assert.Equal(t, []byte("iv-bytes"), ev.IV)
		assert.Equal(t, []byte("ciphertext"), ev.Ciphertext)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		original := domain.EncryptedValue{IV: []byte{0, 1, 2, 255}, Ciphertext: []byte("data")}

		parsed, err := domain.ParseEncryptedValue(original.String())

		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})

	malformed := map[string]string{
		"MissingSeparator": "bad text",
		"EmptyIV":          "|Y2lwaGVydGV4dA==",
		"EmptyCiphertext":  "aXYtYnl0ZXM=|",
		"InvalidIVBase64":  "!!!|Y2lwaGVydGV4dA==",
		"InvalidCTBase64":  "aXYtYnl0ZXM=|***",
		"ExtraSeparator":   "aXYtYnl0ZXM=|Y2lw|aGVy",
		"EmptyString":      "",
	}
	for name, input := range malformed {
		t.Run(name, func(t *testing.T) {
			_, err := domain.ParseEncryptedValue(input)

			assert.ErrorIs(t, err, domain.ErrMalformedEncryptedValue)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		})
	}
}
