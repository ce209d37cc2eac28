// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	cardDomain "github.com/allisson/cardfreezer/internal/card/domain"
	"github.com/allisson/cardfreezer/internal/card/record"
	cardService "github.com/allisson/cardfreezer/internal/card/service"
	"github.com/allisson/cardfreezer/internal/card/store"
	"github.com/allisson/cardfreezer/internal/config"
	"github.com/allisson/cardfreezer/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Services
	aeadManager   cardService.AEADManager
	kmsService    cardService.KMSService
	passKeyLoader *cardService.PassKeyLoader

	// Key material
	passKey []byte

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	aeadManagerInit     sync.Once
	kmsServiceInit      sync.Once
	passKeyLoaderInit   sync.Once
	passKeyInit         sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the Prometheus-backed metrics provider.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder, a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cardService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cardService.NewAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cardService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cardService.NewKMSService()
	})
	return c.kmsService
}

// PassKeyLoader returns the pass key loader.
func (c *Container) PassKeyLoader() *cardService.PassKeyLoader {
	c.passKeyLoaderInit.Do(func() {
		c.passKeyLoader = cardService.NewPassKeyLoader(c.KMSService())
	})
	return c.passKeyLoader
}

// PassKey returns the raw pass key from configuration, unwrapping it with the KMS when it
// is configured as ciphertext. A nil key selects the development default.
func (c *Container) PassKey(ctx context.Context) ([]byte, error) {
	var err error
	c.passKeyInit.Do(func() {
		c.passKey, err = c.initPassKey(ctx)
		if err != nil {
			c.initErrors["passKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["passKey"]; exists {
		return nil, storedErr
	}
	return c.passKey, nil
}

// StoreOptions returns the options every card store of the application is built with.
func (c *Container) StoreOptions(ctx context.Context) ([]store.Option, error) {
	passKey, err := c.PassKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pass key for store: %w", err)
	}

	alg, err := cardDomain.ParseAlgorithm(c.config.CipherAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid cipher algorithm %q: %w", c.config.CipherAlgorithm, err)
	}

	opts := []store.Option{
		store.WithPassKey(passKey),
		store.WithAlgorithm(alg),
		store.WithCipherManager(c.AEADManager()),
	}

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for store: %w", err)
		}
		opts = append(opts, store.WithMetrics(businessMetrics))
	}

	return opts, nil
}

// NewStore creates an empty card store configured from the application settings.
func (c *Container) NewStore(ctx context.Context) (*store.Store, error) {
	opts, err := c.StoreOptions(ctx)
	if err != nil {
		return nil, err
	}
	return store.New(nil, opts...)
}

// Sealer returns a record sealer configured from the application settings.
func (c *Container) Sealer(ctx context.Context) (*record.Sealer, error) {
	opts, err := c.StoreOptions(ctx)
	if err != nil {
		return nil, err
	}
	return record.NewSealer(opts...), nil
}

// NewBatch creates a batch runner for processor using the configured worker count and rate limit.
func (c *Container) NewBatch(processor record.Processor) (*record.Batch, error) {
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for batch: %w", err)
	}
	return record.NewBatch(
		record.Config{
			Workers:   c.config.BatchWorkers,
			RateLimit: c.config.BatchRateLimit,
			RateBurst: c.config.BatchRateBurst,
		},
		processor,
		businessMetrics,
		c.Logger(),
	), nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Flush and stop the metrics provider if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Clear key material
	if c.passKey != nil {
		cardDomain.Zero(c.passKey)
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
// Logs go to stderr so command output on stdout stays machine readable.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initMetricsProvider creates the metrics provider for the configured namespace.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initPassKey loads the raw pass key described by the configuration.
func (c *Container) initPassKey(ctx context.Context) ([]byte, error) {
	src := cardService.PassKeySource{
		Raw:        c.config.PassKey,
		Ciphertext: c.config.PassKeyCiphertext,
		KMSKeyURI:  c.config.KMSKeyURI,
	}

	if src.IsDefault() {
		c.Logger().Warn("no pass key configured, using the development default key")
		return nil, nil
	}

	passKey, err := c.PassKeyLoader().Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load pass key: %w", err)
	}

	c.Logger().Debug("pass key loaded", slog.Bool("kms_wrapped", src.Ciphertext != ""))
	return passKey, nil
}
