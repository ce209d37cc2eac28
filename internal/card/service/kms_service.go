package service

import (
	"context"
	"fmt"
	"strings"

	"gocloud.dev/secrets"

	// KMS providers accepted in KMS_KEY_URI
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	apperrors "github.com/allisson/cardfreezer/internal/errors"
)

type kmsService struct{}

// NewKMSService creates a KMSService backed by gocloud.dev/secrets.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens the keeper that wraps pass keys. Errors name only the URI scheme, since
// base64key:// URIs carry the key itself.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error) {
	if strings.TrimSpace(keyURI) == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "KMS key URI is empty")
	}
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper (%s): %w", uriScheme(keyURI), err)
	}
	return keeper, nil
}

func uriScheme(keyURI string) string {
	scheme, _, ok := strings.Cut(keyURI, "://")
	if !ok {
		return "unknown scheme"
	}
	return scheme + "://"
}
