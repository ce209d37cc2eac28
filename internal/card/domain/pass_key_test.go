package domain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePassKey(t *testing.T) {
	t.Run("empty key uses deterministic default", func(t *testing.T) {
		key := NormalizePassKey(nil)
		assert.Len(t, key, KeyLength)
		assert.Equal(t, key, NormalizePassKey([]byte{}))
		assert.Equal(t, key, DefaultPassKey())
	})

	t.Run("long key truncates", func(t *testing.T) {
		raw := bytes.Repeat([]byte("X"), KeyLength*2)
		key := NormalizePassKey(raw)
		assert.Len(t, key, KeyLength)
		assert.Equal(t, raw[:KeyLength], key)
	})

	t.Run("short key expands by hashing", func(t *testing.T) {
		raw := []byte("12345678")
		key := NormalizePassKey(raw)
		assert.Len(t, key, KeyLength)
		assert.Equal(t, raw, key[:len(raw)])
		assert.Equal(t, hexDigest(raw)[:KeyLength-len(raw)], key[len(raw):])
	})

	t.Run("exact length is kept", func(t *testing.T) {
		raw := bytes.Repeat([]byte("k"), KeyLength)
		assert.Equal(t, raw, NormalizePassKey(raw))
	})

	t.Run("does not alias the input", func(t *testing.T) {
		raw := bytes.Repeat([]byte("a"), KeyLength)
		key := NormalizePassKey(raw)
		key[0] = 'b'
		assert.Equal(t, byte('a'), raw[0])
	})

	t.Run("different short keys differ", func(t *testing.T) {
		assert.NotEqual(t, NormalizePassKey([]byte("one")), NormalizePassKey([]byte("two")))
	})
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3}
	Zero(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
	Zero(nil)
}
