package service

import (
	"io"

	cardDomain "github.com/allisson/cardfreezer/internal/card/domain"
)

// AEADManagerService implements the AEADManager interface for creating AEAD cipher instances.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher creates an AEAD cipher instance for the specified algorithm.
// Returns ErrInvalidKeySize if key is not 32 bytes or ErrUnsupportedAlgorithm if algorithm is unknown.
func (am *AEADManagerService) CreateCipher(
	key []byte,
	alg cardDomain.Algorithm,
	random io.Reader,
) (AEAD, error) {
	if len(key) != cardDomain.KeyLength {
		return nil, cardDomain.ErrInvalidKeySize
	}

	switch alg {
	case cardDomain.AESGCM:
		return NewAESGCM(key, random)
	case cardDomain.ChaCha20:
		return NewChaCha20Poly1305(key, random)
	default:
		return nil, cardDomain.ErrUnsupportedAlgorithm
	}
}
