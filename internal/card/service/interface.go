// Package service provides the cryptographic services behind card attribute storage:
// AEAD ciphers, the fixed-chunk field codec and pass-key loading.
package service

import (
	"context"
	"io"

	cardDomain "github.com/allisson/cardfreezer/internal/card/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher for the algorithm. Nonces are read from random.
	CreateCipher(key []byte, alg cardDomain.Algorithm, random io.Reader) (AEAD, error)
}

// Codec encrypts and decrypts single attribute values in the wire format.
type Codec interface {
	// Encrypt pads plaintext to the fixed chunk size and returns its wire value.
	Encrypt(plaintext string) (string, error)

	// Decrypt recovers the plaintext of a wire value with trailing padding removed.
	Decrypt(wire string) (string, error)

	// EncodeSecureStore packs month, year and number into one wire value.
	EncodeSecureStore(month, year, number string) (string, error)

	// DecodeSecureStore unpacks a secure-store wire value.
	DecodeSecureStore(wire string) (month, year, number string, err error)
}

// KMSKeeper is the subset of *secrets.Keeper used to wrap and unwrap pass keys.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens KMS keepers.
type KMSService interface {
	// OpenKeeper opens a keeper for the key URI.
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}
