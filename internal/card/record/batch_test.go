package record

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cardfreezer/internal/card/store"
)

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeLines(t *testing.T, out string) []Record {
	t.Helper()
	var records []Record
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var rec Record
		require.NoError(t, dec.Decode(&rec))
		records = append(records, rec)
	}
	return records
}

func TestBatch_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("preserves input order", func(t *testing.T) {
		var in strings.Builder
		for i := range 50 {
			fmt.Fprintf(&in, "{\"first_name\":\"name-%d\"}\n", i)
		}

		slow := ProcessorFunc(func(_ context.Context, rec Record) (Record, error) {
			if strings.HasSuffix(rec["first_name"], "0") {
				time.Sleep(5 * time.Millisecond)
			}
			return rec, nil
		})

		var out bytes.Buffer
		n, err := NewBatch(Config{Workers: 8}, slow, nil, discardLogger()).Run(ctx, strings.NewReader(in.String()), &out)
		require.NoError(t, err)
		assert.Equal(t, 50, n)

		records := decodeLines(t, out.String())
		require.Len(t, records, 50)
		for i, rec := range records {
			assert.Equal(t, fmt.Sprintf("name-%d", i), rec["first_name"])
		}
	})

	t.Run("worker limit", func(t *testing.T) {
		var running, peak atomic.Int32
		counting := ProcessorFunc(func(_ context.Context, rec Record) (Record, error) {
			cur := running.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
			return rec, nil
		})

		in := strings.Repeat("{\"city\":\"x\"}\n", 20)
		_, err := NewBatch(Config{Workers: 3}, counting, nil, nil).Run(ctx, strings.NewReader(in), io.Discard)
		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int32(3))
	})

	t.Run("blank lines are skipped", func(t *testing.T) {
		in := "{\"city\":\"a\"}\n\n   \n{\"city\":\"b\"}\n"
		var out bytes.Buffer
		n, err := NewBatch(Config{}, UnsealProcessor(NewSealer()), nil, nil).Run(ctx, strings.NewReader(in), &out)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, "{\"city\":\"a\"}\n{\"city\":\"b\"}\n", out.String())
	})

	t.Run("invalid json", func(t *testing.T) {
		in := "{\"city\":\"a\"}\nnot json\n"
		var out bytes.Buffer
		_, err := NewBatch(Config{Workers: 2}, UnsealProcessor(NewSealer()), nil, nil).Run(ctx, strings.NewReader(in), &out)
		assert.ErrorContains(t, err, "line 2: invalid record")
		assert.Empty(t, out.String())
	})

	t.Run("processor failure reports the line", func(t *testing.T) {
		boom := errors.New("boom")
		failing := ProcessorFunc(func(_ context.Context, rec Record) (Record, error) {
			if rec["city"] == "bad" {
				return nil, boom
			}
			return rec, nil
		})

		bm := &mockBusinessMetrics{}
		bm.On("RecordOperation", mock.Anything, "record", "batch", "error").Once()
		bm.On("RecordDuration", mock.Anything, "record", "batch", mock.AnythingOfType("time.Duration"), "error").Once()

		in := "{\"city\":\"a\"}\n\n{\"city\":\"bad\"}\n"
		var out bytes.Buffer
		_, err := NewBatch(Config{Workers: 2}, failing, bm, discardLogger()).Run(ctx, strings.NewReader(in), &out)
		assert.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, "line 3")
		assert.Empty(t, out.String())
		bm.AssertExpectations(t)
	})

	t.Run("rate limit", func(t *testing.T) {
		in := strings.Repeat("{\"city\":\"x\"}\n", 5)
		batch := NewBatch(Config{Workers: 5, RateLimit: 20, RateBurst: 1}, UnsealProcessor(NewSealer()), nil, nil)

		start := time.Now()
		n, err := batch.Run(ctx, strings.NewReader(in), io.Discard)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
	})

	t.Run("logs carry a run id", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&logs, nil))

		_, err := NewBatch(Config{}, UnsealProcessor(NewSealer()), nil, logger).
			Run(ctx, strings.NewReader("{\"city\":\"a\"}\n"), io.Discard)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
		require.Len(t, lines, 2)
		var first, last map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &last))
		assert.NotEmpty(t, first["run_id"])
		assert.Equal(t, first["run_id"], last["run_id"])
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		in := "{\"city\":\"a\"}\n"
		_, err := NewBatch(Config{}, UnsealProcessor(NewSealer()), nil, nil).Run(cctx, strings.NewReader(in), io.Discard)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBatch_SealUnsealRotate(t *testing.T) {
	ctx := context.Background()
	in := strings.Join([]string{
		`{"card_number":"4111 1111 1111 1111","expire_month":"1","expire_year":"2030","card_ccv":"999"}`,
		`{"cardNumber":"1234123412341234","expireMonth":"12","expireYear":"2010","lastName":"Doe"}`,
	}, "\n")

	oldSealer := NewSealer(store.WithPassKey([]byte("old-key")))
	newSealer := NewSealer(store.WithPassKey([]byte("new-key")))

	bm := &mockBusinessMetrics{}
	bm.On("RecordOperation", mock.Anything, "record", "batch", "success").Times(3)
	bm.On("RecordDuration", mock.Anything, "record", "batch", mock.AnythingOfType("time.Duration"), "success").
		Times(3)

	var sealed bytes.Buffer
	_, err := NewBatch(Config{Workers: 2}, SealProcessor(oldSealer, true), bm, nil).
		Run(ctx, strings.NewReader(in), &sealed)
	require.NoError(t, err)
	assert.NotContains(t, sealed.String(), "4111")
	assert.NotContains(t, sealed.String(), "999")

	var rotated bytes.Buffer
	_, err = NewBatch(Config{Workers: 2}, RotateProcessor(oldSealer, []byte("new-key")), bm, nil).
		Run(ctx, &sealed, &rotated)
	require.NoError(t, err)

	var plain bytes.Buffer
	_, err = NewBatch(Config{Workers: 2}, UnsealProcessor(newSealer), bm, nil).
		Run(ctx, &rotated, &plain)
	require.NoError(t, err)

	records := decodeLines(t, plain.String())
	require.Len(t, records, 2)
	assert.Equal(t, Record{
		"card_number":  "4111111111111111",
		"expire_month": "01",
		"expire_year":  "2030",
	}, records[0])
	assert.Equal(t, Record{
		"card_number":  "1234123412341234",
		"expire_month": "12",
		"expire_year":  "2010",
		"last_name":    "Doe",
	}, records[1])
	bm.AssertExpectations(t)
}
