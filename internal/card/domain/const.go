package domain

const (
	// ChunkSize is the fixed plaintext size in bytes. Every value is space padded to this
	// size before encryption, so ciphertext length does not leak value length.
	ChunkSize = 24

	// KeyLength is the size in bytes of a normalized pass key.
	KeyLength = 32

	// StorageSize is the column width that always fits a wire value produced from a
	// ChunkSize plaintext.
	StorageSize = 90

	// Separator splits the IV and ciphertext halves of a wire value.
	Separator = "|"
)

// Algorithm represents the AEAD cipher used to encrypt attribute values.
//
// Both algorithms take a 32-byte key and a 12-byte nonce, and keep the two-part
// (iv, ciphertext) wire shape.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. It is the default.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305, for hosts without AES hardware acceleration.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts an algorithm name to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
