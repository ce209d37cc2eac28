package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
)

// PassKeySource describes where a raw pass key comes from.
//
// Ciphertext takes precedence over Raw: when set it must be the base64 of a pass key
// wrapped by the KMS key at KMSKeyURI. When neither is set the store falls back to the
// development default key.
type PassKeySource struct {
	Raw        string
	Ciphertext string
	KMSKeyURI  string
}

// IsDefault reports whether the source yields the development default key.
func (s PassKeySource) IsDefault() bool {
	return s.Raw == "" && s.Ciphertext == ""
}

// PassKeyLoader resolves raw pass keys from configuration, unwrapping them with a KMS
// when they are stored encrypted.
type PassKeyLoader struct {
	kms KMSService
}

// NewPassKeyLoader creates a loader that opens keepers through kms.
func NewPassKeyLoader(kms KMSService) *PassKeyLoader {
	return &PassKeyLoader{kms: kms}
}

// Load returns the raw pass key described by src. The result is not normalized; a nil
// key selects the default.
func (l *PassKeyLoader) Load(ctx context.Context, src PassKeySource) ([]byte, error) {
	if src.Ciphertext == "" {
		if src.Raw == "" {
			return nil, nil
		}
		return []byte(src.Raw), nil
	}

	if src.KMSKeyURI == "" {
		return nil, errors.New("KMS key URI is required to unwrap the pass key ciphertext")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(src.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pass key ciphertext: %w", err)
	}

	keeper, err := l.kms.OpenKeeper(ctx, src.KMSKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = keeper.Close()
	}()

	key, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap pass key: %w", err)
	}
	return key, nil
}

// Wrap encrypts a raw pass key with the KMS key at keyURI and returns the base64
// ciphertext suitable for PASS_KEY_CIPHERTEXT.
func (l *PassKeyLoader) Wrap(ctx context.Context, keyURI string, key []byte) (string, error) {
	keeper, err := l.kms.OpenKeeper(ctx, keyURI)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = keeper.Close()
	}()

	ciphertext, err := keeper.Encrypt(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to wrap pass key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
