package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cardDomain "github.com/allisson/cardfreezer/internal/card/domain"
	cardService "github.com/allisson/cardfreezer/internal/card/service"
)

// RunGeneratePassKey generates a random pass key and prints it as environment variables.
// When kmsKeyURI is set the key is wrapped by that KMS key and only the ciphertext is
// printed. Key material is zeroed from memory after encoding.
//
// Output format:
//   - PASS_KEY="<base64-key>", or
//   - PASS_KEY_CIPHERTEXT="<base64-kms-ciphertext>" and KMS_KEY_URI="<uri>"
//
// Security: Never use the base64key:// KMS provider in production.
func RunGeneratePassKey(
	ctx context.Context,
	loader *cardService.PassKeyLoader,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	// 24 random bytes encode to exactly KeyLength base64 characters.
	raw := make([]byte, cardDomain.KeyLength/4*3)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate pass key: %w", err)
	}
	defer cardDomain.Zero(raw)

	passKey := []byte(base64.RawURLEncoding.EncodeToString(raw))
	defer cardDomain.Zero(passKey)

	if kmsKeyURI == "" {
		logger.Warn("pass key printed in plain text, prefer --kms-key-uri outside development")
		_, err := fmt.Fprintf(writer, "PASS_KEY=\"%s\"\n", passKey)
		return err
	}

	ciphertext, err := loader.Wrap(ctx, kmsKeyURI, passKey)
	if err != nil {
		return fmt.Errorf("failed to wrap pass key: %w", err)
	}

	logger.Info("pass key generated and wrapped with KMS")
	if _, err := fmt.Fprintf(writer, "PASS_KEY_CIPHERTEXT=\"%s\"\n", ciphertext); err != nil {
		return err
	}
	_, err = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	return err
}

// LoadNewPassKey resolves the target key of a rotation from a raw value or a KMS-wrapped
// ciphertext.
func LoadNewPassKey(
	ctx context.Context,
	loader *cardService.PassKeyLoader,
	raw, ciphertext, kmsKeyURI string,
) ([]byte, error) {
	src := cardService.PassKeySource{Raw: raw, Ciphertext: ciphertext, KMSKeyURI: kmsKeyURI}
	if src.IsDefault() {
		return nil, fmt.Errorf("--new-pass-key or --new-pass-key-ciphertext is required")
	}
	return loader.Load(ctx, src)
}
