package service

import (
	"context"
	"time"

	"github.com/allisson/cardfreezer/internal/metrics"
)

// codecWithMetrics decorates Codec with metrics instrumentation.
type codecWithMetrics struct {
	next    Codec
	metrics metrics.BusinessMetrics
}

// NewCodecWithMetrics wraps a Codec with metrics recording.
func NewCodecWithMetrics(codec Codec, m metrics.BusinessMetrics) Codec {
	return &codecWithMetrics{
		next:    codec,
		metrics: m,
	}
}

func (c *codecWithMetrics) record(operation string, start time.Time, err error) {
	metrics.Observe(context.Background(), c.metrics, "card", operation, start, err)
}

// Encrypt records metrics for field encryption.
func (c *codecWithMetrics) Encrypt(plaintext string) (string, error) {
	start := time.Now()
	wire, err := c.next.Encrypt(plaintext)
	c.record("field_encrypt", start, err)
	return wire, err
}

// Decrypt records metrics for field decryption.
func (c *codecWithMetrics) Decrypt(wire string) (string, error) {
	start := time.Now()
	plain, err := c.next.Decrypt(wire)
	c.record("field_decrypt", start, err)
	return plain, err
}

// EncodeSecureStore records metrics for secure-store packing.
func (c *codecWithMetrics) EncodeSecureStore(month, year, number string) (string, error) {
	start := time.Now()
	wire, err := c.next.EncodeSecureStore(month, year, number)
	c.record("secure_store_encode", start, err)
	return wire, err
}

// DecodeSecureStore records metrics for secure-store unpacking.
func (c *codecWithMetrics) DecodeSecureStore(wire string) (month, year, number string, err error) {
	start := time.Now()
	month, year, number, err = c.next.DecodeSecureStore(wire)
	c.record("secure_store_decode", start, err)
	return month, year, number, err
}
