package store

import (
	"io"

	cardDomain "github.com/allisson/cardfreezer/internal/card/domain"
	cardService "github.com/allisson/cardfreezer/internal/card/service"
	"github.com/allisson/cardfreezer/internal/metrics"
)

// Option configures a Store.
type Option func(*Store)

// WithPassKey sets the raw pass key. It is normalized to KeyLength bytes; an empty key
// selects the development default.
func WithPassKey(raw []byte) Option {
	return func(s *Store) {
		s.key = cardDomain.NormalizePassKey(raw)
	}
}

// WithAlgorithm selects the field cipher. The default is AES-GCM.
func WithAlgorithm(alg cardDomain.Algorithm) Option {
	return func(s *Store) {
		s.alg = alg
	}
}

// WithRandom sets the source of initialization vectors. The default is crypto/rand.
func WithRandom(random io.Reader) Option {
	return func(s *Store) {
		s.random = random
	}
}

// WithLabels replaces the label table used to resolve text references and name keys.
func WithLabels(labels cardDomain.Labels) Option {
	return func(s *Store) {
		s.labels = labels
	}
}

// WithCipherManager sets the factory used to build field ciphers.
func WithCipherManager(manager cardService.AEADManager) Option {
	return func(s *Store) {
		s.ciphers = manager
	}
}

// WithMetrics records codec operations on m.
func WithMetrics(m metrics.BusinessMetrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}
