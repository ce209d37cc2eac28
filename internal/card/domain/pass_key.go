package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// defaultPassKeySeed derives the development fallback key. Production callers must always
// supply their own pass key; anything encrypted under the default is only as secret as
// this source file.
const defaultPassKeySeed = "cardfreezer/default-pass-key/v1"

// NormalizePassKey turns a raw pass key of any length into a KeyLength key.
//
// An empty key is replaced by a deterministic default. A longer key is truncated. A
// shorter key is extended by appending the hex SHA-256 digest of the current key until it
// reaches KeyLength, then truncated. The result is a fresh slice; raw is not modified.
func NormalizePassKey(raw []byte) []byte {
	key := make([]byte, len(raw), max(len(raw), KeyLength)+2*sha256.Size)
	copy(key, raw)

	if len(key) == 0 {
		key = append(key, hexDigest([]byte(defaultPassKeySeed))...)
	}

	for len(key) < KeyLength {
		key = append(key, hexDigest(key)...)
	}

	return key[:KeyLength:KeyLength]
}

// DefaultPassKey returns the normalized development fallback key.
func DefaultPassKey() []byte {
	return NormalizePassKey(nil)
}

func hexDigest(b []byte) []byte {
	sum := sha256.Sum256(b)
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum[:])
	return out
}

// Zero overwrites a byte slice with zeros to clear key material from memory.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
