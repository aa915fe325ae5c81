package egress

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	qdb "github.com/questdb/go-questdb-client/v3"
	"github.com/quantfold/tickstream"
	"github.com/quantfold/tickstream/feed"
	"github.com/quantfold/tickstream/internal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type QuestDBConfig struct {
	Address string
	Table   string

	// FlushInterval is how often the windows are drained.
	FlushInterval time.Duration

	// BatchSize bounds how many ticks one drain takes from one symbol.
	BatchSize int
}

func NewDefaultQuestDBConfig() *QuestDBConfig {
	return &QuestDBConfig{
		Address: "localhost:9000",
		Table:   "ticks",

		FlushInterval: time.Second,
		BatchSize:     1024,
	}
}

// QuestDB periodically drains every symbol window into a QuestDB table.
// Each drain reads only the ticks pushed since the previous drain, using
// the stream's read marker; the first drain of a symbol seeds with a full
// window snapshot.
type QuestDB struct {
	tel *internal.Telemetry

	cfg *QuestDBConfig
	reg *feed.Registry

	senderPool *qdb.LineSenderPool

	seeded map[string]bool

	// Telemetry metrics
	deliveredRows  atomic.Int64
	deliveryErrors atomic.Int64
	drainDuration  metric.Int64Histogram
}

func NewQuestDB(reg *feed.Registry, cfg *QuestDBConfig) *QuestDB {
	return &QuestDB{
		tel: internal.NewTelemetry("egress", "quest_db"),

		cfg: cfg,
		reg: reg,

		seeded: make(map[string]bool),
	}
}

func (e *QuestDB) Init(_ context.Context) error {
	senderPool, err := qdb.PoolFromOptions(
		qdb.WithAddress(e.cfg.Address),
		qdb.WithHttp(),
		qdb.WithAutoFlushRows(75_000),
		qdb.WithRetryTimeout(time.Second),
	)
	if err != nil {
		return err
	}

	e.senderPool = senderPool

	e.tel.NewCounter("delivered_rows", func() int64 { return e.deliveredRows.Load() })
	e.tel.NewCounter("delivery_errors", func() int64 { return e.deliveryErrors.Load() })
	e.drainDuration = e.tel.NewHistogram("drain_duration", metric.WithUnit("ms"))

	return nil
}

func (e *QuestDB) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.drain(ctx)
		}
	}
}

func (e *QuestDB) drain(ctx context.Context) {
	ctx, span := e.tel.NewTrace(ctx, "drain tick windows")
	defer span.End()

	start := time.Now()
	defer func() {
		e.drainDuration.Record(ctx, time.Since(start).Milliseconds())
	}()

	sender, err := e.senderPool.Sender(ctx)
	if err != nil {
		e.deliveryErrors.Add(1)
		e.tel.LogError("failed to acquire sender", err)
		return
	}
	defer func() {
		if err := sender.Close(ctx); err != nil {
			e.tel.LogError("failed to release sender", err)
		}
	}()

	prices := make([]float64, e.cfg.BatchSize)
	times := make([]time.Time, e.cfg.BatchSize)

	rows := 0
	for _, symbol := range e.reg.Symbols() {
		st, ok := e.reg.Lookup(symbol)
		if !ok {
			continue
		}

		n, err := e.take(symbol, st, prices, times)
		if err != nil {
			e.deliveryErrors.Add(1)
			e.tel.LogError("failed to read window", err, "symbol", symbol)
			continue
		}

		for i := 0; i < n; i++ {
			err := sender.Table(e.cfg.Table).
				Symbol("ticker", symbol).
				Float64Column("price", prices[i]).
				At(ctx, times[i])
			if err != nil {
				e.deliveryErrors.Add(1)
				e.tel.LogError("failed to send row", err, "symbol", symbol)
				break
			}

			rows++
		}
	}

	if err := sender.Flush(ctx); err != nil {
		e.deliveryErrors.Add(1)
		e.tel.LogError("failed to flush sender", err)
		return
	}

	span.SetAttributes(attribute.Int("row_count", rows))

	e.deliveredRows.Add(int64(rows))
}

// take reads the unread span of one window. Every successful take resets
// the marker and records the symbol as seeded, so a later unset marker
// means "no pushes since the last drain". Only a symbol never drained
// before seeds with a full window snapshot.
func (e *QuestDB) take(symbol string, st *feed.TickStream, prices []float64, times []time.Time) (int, error) {
	n, err := st.CopyPairUsingMarker(prices, times, 0)
	if err == nil {
		e.seeded[symbol] = true
		return n, nil
	}

	if !errors.Is(err, tickstream.ErrUnsetMarker) {
		return 0, err
	}

	if e.seeded[symbol] {
		return 0, nil
	}
	e.seeded[symbol] = true

	return st.CopyPair(prices, times, -1, 0)
}

func (e *QuestDB) Stop() {
	if e.senderPool == nil {
		return
	}

	if err := e.senderPool.Close(context.Background()); err != nil {
		e.tel.LogError("failed to close sender pool", err)
	}
}
