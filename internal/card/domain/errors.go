package domain

import (
	"github.com/allisson/cardfreezer/internal/errors"
)

// Card data error definitions.
//
// These domain-specific errors wrap the sentinels from internal/errors so callers can
// branch on the category (invalid input vs. unrecoverable stored data) or on the exact
// failure.
var (
	// ErrValueTooLarge indicates a plaintext exceeds ChunkSize bytes. The caller must
	// shorten the input; it is never truncated.
	ErrValueTooLarge = errors.Wrap(errors.ErrInvalidInput, "value exceeds encryption chunk size")

	// ErrMalformedEncryptedValue indicates a wire value is not "base64(iv)|base64(ciphertext)".
	ErrMalformedEncryptedValue = errors.Wrap(errors.ErrInvalidInput, "malformed encrypted value")

	// ErrDecryptionFailed indicates a well-formed wire value could not be opened with the
	// current pass key. For security reasons the specific cause is not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrIntegrity, "decryption failed")

	// ErrSecureStoreDecode indicates a secure-store value did not decrypt to the packed
	// month, year and number. This typically means the pass key changed since the value
	// was written.
	ErrSecureStoreDecode = errors.Wrap(
		errors.ErrIntegrity,
		"secure store value does not decrypt to the expected values, the pass key may have changed",
	)

	// ErrSecureStoreIncomplete indicates the card number or expiration date is missing
	// when a secure-store value is requested.
	ErrSecureStoreIncomplete = errors.Wrap(
		errors.ErrInvalidInput,
		"secure store requires card number, expiration month and expiration year",
	)

	// ErrUnknownAttribute indicates a text reference matches no attribute label.
	ErrUnknownAttribute = errors.Wrap(errors.ErrNotFound, "unknown attribute")

	// ErrUnsupportedAlgorithm indicates the requested cipher algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a cipher key is not exactly KeyLength bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")
)
