package record

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/allisson/cardfreezer/internal/metrics"
)

// maxLineSize bounds a single JSON-lines record.
const maxLineSize = 1 << 20

// Config holds batch processing configuration
type Config struct {
	Workers int
	// RateLimit caps processed records per second. Zero disables the limit.
	RateLimit float64
	// RateBurst is the number of records allowed to start at once under RateLimit.
	RateBurst int
}

// Processor transforms one record.
type Processor interface {
	Process(ctx context.Context, rec Record) (Record, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, rec Record) (Record, error)

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, rec Record) (Record, error) {
	return f(ctx, rec)
}

// SealProcessor seals every record.
func SealProcessor(sealer *Sealer, secureStore bool) Processor {
	return ProcessorFunc(func(_ context.Context, rec Record) (Record, error) {
		return sealer.Seal(rec, secureStore)
	})
}

// UnsealProcessor unseals every record.
func UnsealProcessor(sealer *Sealer) Processor {
	return ProcessorFunc(func(_ context.Context, rec Record) (Record, error) {
		return sealer.Unseal(rec)
	})
}

// RotateProcessor re-seals every record under newKey.
func RotateProcessor(sealer *Sealer, newKey []byte) Processor {
	return ProcessorFunc(func(_ context.Context, rec Record) (Record, error) {
		return sealer.Rotate(rec, newKey)
	})
}

// Batch processes JSON-lines record streams concurrently.
type Batch struct {
	config    Config
	processor Processor
	metrics   metrics.BusinessMetrics
	logger    *slog.Logger
	limiter   *rate.Limiter
}

// NewBatch creates a new Batch. Workers below one are treated as one.
func NewBatch(
	config Config,
	processor Processor,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Batch {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		if config.RateBurst < 1 {
			config.RateBurst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst)
	}
	return &Batch{
		config:    config,
		processor: processor,
		metrics:   businessMetrics,
		logger:    logger,
		limiter:   limiter,
	}
}

// Run reads one JSON object per line from r, processes the records with up to
// Config.Workers goroutines and writes the results to w in input order. Blank lines are
// skipped. The first failing record stops the batch and nothing is written.
func (b *Batch) Run(ctx context.Context, r io.Reader, w io.Writer) (n int, err error) {
	start := time.Now()
	defer func() {
		metrics.Observe(ctx, b.metrics, "record", "batch", start, err)
	}()

	records, lines, err := readRecords(r)
	if err != nil {
		return 0, err
	}

	runID := uuid.Must(uuid.NewV7())
	if b.logger != nil {
		b.logger.Info("processing records",
			slog.String("run_id", runID.String()),
			slog.Int("count", len(records)),
			slog.Int("workers", b.config.Workers),
		)
	}

	results := make([]Record, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.config.Workers)
	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if b.limiter != nil {
				if err := b.limiter.Wait(gctx); err != nil {
					return err
				}
			}
			out, err := b.processor.Process(gctx, rec)
			if err != nil {
				return fmt.Errorf("line %d: %w", lines[i], err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if b.logger != nil {
			b.logger.Error("failed to process records",
				slog.String("run_id", runID.String()),
				slog.Any("error", err),
			)
		}
		return 0, err
	}

	enc := json.NewEncoder(w)
	for _, out := range results {
		if err := enc.Encode(out); err != nil {
			return 0, fmt.Errorf("failed to write record: %w", err)
		}
	}

	if b.logger != nil {
		b.logger.Info("records processed",
			slog.String("run_id", runID.String()),
			slog.Int("count", len(results)),
			slog.Duration("duration", time.Since(start)),
		)
	}
	return len(results), nil
}

func readRecords(r io.Reader) ([]Record, []int, error) {
	var (
		records []Record
		lines   []int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, nil, fmt.Errorf("line %d: invalid record: %w", line, err)
		}
		records = append(records, rec)
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read records: %w", err)
	}
	return records, lines, nil
}
