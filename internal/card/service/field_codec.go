package service

import (
	"encoding/base64"
	"fmt"
	"strings"

	cardDomain "github.com/allisson/cardfreezer/internal/card/domain"
)

// padTrimSet matches the characters removed from the end of a decrypted value. Trailing
// whitespace in the original input cannot be told apart from padding and is lost.
const padTrimSet = " \t\n\r\x00\x0b"

// FieldCodec encrypts short attribute values in fixed-size chunks.
//
// Every plaintext is space padded to ChunkSize bytes and base64 encoded before sealing,
// so all wire values of a codec have the same length. The base64 layer only scrambles
// digit patterns and is kept for wire compatibility; it is not a security boundary.
type FieldCodec struct {
	aead AEAD
}

// NewFieldCodec creates a codec around an AEAD cipher built from a normalized pass key.
func NewFieldCodec(aead AEAD) *FieldCodec {
	return &FieldCodec{aead: aead}
}

// Encrypt returns the wire value of plaintext.
// Returns ErrValueTooLarge when plaintext is longer than ChunkSize bytes.
func (c *FieldCodec) Encrypt(plaintext string) (string, error) {
	if len(plaintext) > cardDomain.ChunkSize {
		return "", fmt.Errorf(
			"%w: %d bytes, limit is %d",
			cardDomain.ErrValueTooLarge,
			len(plaintext),
			cardDomain.ChunkSize,
		)
	}

	padded := plaintext + strings.Repeat(" ", cardDomain.ChunkSize-len(plaintext))
	scrambled := base64.StdEncoding.EncodeToString([]byte(padded))

	ciphertext, nonce, err := c.aead.Encrypt([]byte(scrambled), nil)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt value: %w", err)
	}

	return cardDomain.EncryptedValue{IV: nonce, Ciphertext: ciphertext}.String(), nil
}

// Decrypt returns the plaintext of a wire value.
//
// Returns ErrMalformedEncryptedValue when wire is not a wire value and ErrDecryptionFailed
// when it does not open under the current key.
func (c *FieldCodec) Decrypt(wire string) (string, error) {
	ev, err := cardDomain.ParseEncryptedValue(wire)
	if err != nil {
		return "", err
	}

	scrambled, err := c.aead.Decrypt(ev.Ciphertext, ev.IV, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", cardDomain.ErrDecryptionFailed, err)
	}

	padded, err := base64.StdEncoding.DecodeString(string(scrambled))
	if err != nil {
		return "", fmt.Errorf("%w: %v", cardDomain.ErrDecryptionFailed, err)
	}

	return strings.TrimRight(string(padded), padTrimSet), nil
}

// EncodeSecureStore packs month, year and number and encrypts them as one chunk.
func (c *FieldCodec) EncodeSecureStore(month, year, number string) (string, error) {
	packed, err := cardDomain.PackSecureStore(month, year, number)
	if err != nil {
		return "", err
	}
	return c.Encrypt(packed)
}

// DecodeSecureStore decrypts and unpacks a secure-store value.
//
// Any failure, including a malformed wire value or a wrong key, is reported as
// ErrSecureStoreDecode so the caller never receives partially decoded fields.
func (c *FieldCodec) DecodeSecureStore(wire string) (month, year, number string, err error) {
	plain, err := c.Decrypt(wire)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", cardDomain.ErrSecureStoreDecode, err)
	}
	return cardDomain.UnpackSecureStore(plain)
}
