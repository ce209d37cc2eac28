// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/allisson/cardfreezer/internal/app"
	"github.com/allisson/cardfreezer/internal/card/record"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// CloseContainer closes all resources in the container and logs any errors.
func CloseContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// WriteMetrics writes the metrics gathered during the run in Prometheus text format.
// It does nothing when metrics are disabled.
func WriteMetrics(container *app.Container, writer io.Writer) error {
	if !container.Config().MetricsEnabled {
		return nil
	}
	provider, err := container.MetricsProvider()
	if err != nil {
		return err
	}
	return provider.WriteText(writer)
}

// readRecord decodes a single JSON object from reader.
func readRecord(reader io.Reader) (record.Record, error) {
	var rec record.Record
	if err := json.NewDecoder(reader).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return rec, nil
}

// writeJSON writes v as a single JSON line.
func writeJSON(writer io.Writer, v any) error {
	if err := json.NewEncoder(writer).Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
