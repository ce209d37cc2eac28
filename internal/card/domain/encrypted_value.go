package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncryptedValue is the durable form of an encrypted attribute.
//
// It serializes to "base64(iv)|base64(ciphertext)", the only persisted format defined for
// card data. The string must round-trip unchanged through any text column or JSON field.
type EncryptedValue struct {
	IV         []byte
	Ciphertext []byte
}

// ParseEncryptedValue decodes a wire value.
//
// Returns ErrMalformedEncryptedValue when the separator is missing, when either half is
// empty or when either half is not valid standard base64. Callers decrypting untrusted
// input must check for it explicitly.
func ParseEncryptedValue(content string) (EncryptedValue, error) {
	ivPart, ctPart, ok := strings.Cut(content, Separator)
	if !ok || ivPart == "" || ctPart == "" {
		return EncryptedValue{}, ErrMalformedEncryptedValue
	}

	iv, err := base64.StdEncoding.DecodeString(ivPart)
	if err != nil {
		return EncryptedValue{}, fmt.Errorf("%w: iv: %v", ErrMalformedEncryptedValue, err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(ctPart)
	if err != nil {
		return EncryptedValue{}, fmt.Errorf("%w: ciphertext: %v", ErrMalformedEncryptedValue, err)
	}

	return EncryptedValue{IV: iv, Ciphertext: ciphertext}, nil
}

// String serializes the value to "base64(iv)|base64(ciphertext)".
func (ev EncryptedValue) String() string {
	return base64.StdEncoding.EncodeToString(ev.IV) + Separator +
		base64.StdEncoding.EncodeToString(ev.Ciphertext)
}
