package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackSecureStore(t *testing.T) {
	t.Run("pads month and year", func(t *testing.T) {
		packed, err := PackSecureStore("3", "10", "4111111111111111")
		require.NoError(t, err)
		assert.Equal(t, "0300104111111111111111", packed)
	})

	t.Run("already padded", func(t *testing.T) {
		packed, err := PackSecureStore("12", "2010", "1234123412341234")
		require.NoError(t, err)
		assert.Equal(t, "1220101234123412341234", packed)
	})

	t.Run("missing month", func(t *testing.T) {
		_, err := PackSecureStore("", "2010", "1234")
		assert.ErrorIs(t, err, ErrSecureStoreIncomplete)
	})

	t.Run("non numeric year", func(t *testing.T) {
		_, err := PackSecureStore("12", "20x0", "1234")
		assert.ErrorIs(t, err, ErrSecureStoreIncomplete)
	})

	t.Run("fields wider than their slots", func(t *testing.T) {
		tests := []struct {
			name, month, year string
		}{
			{"three digit month", "123", "2010"},
			{"five digit year", "12", "20100"},
			{"negative month", "-1", "2010"},
			{"negative year", "12", "-2010"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := PackSecureStore(tt.month, tt.year, "4111111111111111")
				assert.ErrorIs(t, err, ErrSecureStoreIncomplete)
			})
		}
	})
}

func TestUnpackSecureStore(t *testing.T) {
	month, year, number, err := UnpackSecureStore("1220101234123412341234")
	require.NoError(t, err)
	assert.Equal(t, "12", month)
	assert.Equal(t, "2010", year)
	assert.Equal(t, "1234123412341234", number)

	for _, bad := range []string{"", "bad text", "12", "1a2010123", "12201"} {
		_, _, _, err := UnpackSecureStore(bad)
		assert.ErrorIs(t, err, ErrSecureStoreDecode, bad)
	}
}
