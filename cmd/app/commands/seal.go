package commands

import (
	"context"
	"log/slog"

	"github.com/allisson/cardfreezer/internal/card/record"
)

// RunSeal reads one plain JSON record and writes its storage form.
func RunSeal(sealer *record.Sealer, stdio IOTuple, secureStore bool) error {
	rec, err := readRecord(stdio.Reader)
	if err != nil {
		return err
	}
	sealed, err := sealer.Seal(rec, secureStore)
	if err != nil {
		return err
	}
	return writeJSON(stdio.Writer, sealed)
}

// RunUnseal reads one storage JSON record and writes its plain form.
func RunUnseal(sealer *record.Sealer, stdio IOTuple) error {
	rec, err := readRecord(stdio.Reader)
	if err != nil {
		return err
	}
	plain, err := sealer.Unseal(rec)
	if err != nil {
		return err
	}
	return writeJSON(stdio.Writer, plain)
}

// RunBatch streams JSON-lines records through batch and logs the record count.
func RunBatch(ctx context.Context, batch *record.Batch, logger *slog.Logger, stdio IOTuple, operation string) error {
	n, err := batch.Run(ctx, stdio.Reader, stdio.Writer)
	if err != nil {
		return err
	}
	logger.Info("batch completed", slog.String("operation", operation), slog.Int("records", n))
	return nil
}
