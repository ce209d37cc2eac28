// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	cardDomain "github.com/allisson/cardfreezer/internal/card/domain"
	appValidation "github.com/allisson/cardfreezer/internal/validation"
)

// Config holds all application configuration.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// PassKey is the raw pass key used to encrypt card attributes.
	PassKey string
	// PassKeyCiphertext is the base64 pass key wrapped by the KMS key at KMSKeyURI. It takes
	// precedence over PassKey.
	PassKeyCiphertext string
	// KMSKeyURI is the URI of the KMS key that wraps the pass key (e.g., "base64key://...",
	// "awskms:///alias/cards", "gcpkms://...", "azurekeyvault://...", "hashivault://...").
	KMSKeyURI string

	// CipherAlgorithm is the field cipher ("aes-gcm" or "chacha20-poly1305").
	CipherAlgorithm string

	// BatchWorkers is the number of records processed concurrently by batch commands.
	BatchWorkers int
	// BatchRateLimit caps the records processed per second by batch commands (0 = unlimited).
	BatchRateLimit float64
	// BatchRateBurst is the burst size allowed under BatchRateLimit.
	BatchRateBurst int

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Pass key
		PassKey:           env.GetString("PASS_KEY", ""),
		PassKeyCiphertext: env.GetString("PASS_KEY_CIPHERTEXT", ""),
		KMSKeyURI:         env.GetString("KMS_KEY_URI", ""),

		// Encryption
		CipherAlgorithm: env.GetString("CIPHER_ALGORITHM", string(cardDomain.AESGCM)),

		// Batch processing
		BatchWorkers:   env.GetInt("BATCH_WORKERS", 4),
		BatchRateLimit: env.GetFloat64("BATCH_RATE_LIMIT", 0),
		BatchRateBurst: env.GetInt("BATCH_RATE_BURST", 1),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", false),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "cardfreezer"),
	}
}

// Validate checks the configuration and reports every invalid setting as ErrInvalidInput.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.PassKeyCiphertext, appValidation.Base64),
		validation.Field(&c.KMSKeyURI,
			validation.When(c.PassKeyCiphertext != "", validation.Required, appValidation.NotBlank),
		),
		validation.Field(&c.CipherAlgorithm,
			validation.Required,
			validation.In(string(cardDomain.AESGCM), string(cardDomain.ChaCha20)),
		),
		validation.Field(&c.BatchWorkers, validation.Required, validation.Min(1)),
		validation.Field(&c.BatchRateLimit, validation.Min(0.0)),
		validation.Field(&c.BatchRateBurst,
			validation.When(c.BatchRateLimit > 0, validation.Required, validation.Min(1)),
		),
		validation.Field(&c.MetricsNamespace, validation.When(c.MetricsEnabled, validation.Required)),
	)
	return appValidation.WrapValidationError(err)
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
