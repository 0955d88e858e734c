// Package mirror copies committed blocks into the analytics store.
package mirror

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/pkg/batcher"
	"go.uber.org/zap"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type Sink interface {
	InsertCoinEvents(ctx context.Context, events []model.CoinEvent) error
	InsertBlocks(ctx context.Context, blocks []model.BlockSummary) error
}

type Config struct {
	FlushSize     int
	FlushInterval time.Duration
	RPS           int
	QueueSize     int
}

func DefaultConfig() Config {
	return Config{
		FlushSize:     5000,
		FlushInterval: 2 * time.Second,
		RPS:           20,
		QueueSize:     50000,
	}
}

// Mirror is an indexer.Notifier. It queues rows without waiting; when the
// queues are full rows are dropped and logged, indexing never stalls on it.
type Mirror struct {
	events *batcher.Batcher[model.CoinEvent]
	blocks *batcher.Batcher[model.BlockSummary]
	logger *zap.Logger
}

func New(sink Sink, cfg Config, logger *zap.Logger) (*Mirror, error) {
	if sink == nil {
		return nil, errors.New("mirror sink is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("mirror")
	bcfg := batcher.Config{
		FlushSize:     cfg.FlushSize,
		FlushInterval: cfg.FlushInterval,
		RPS:           cfg.RPS,
		QueueSize:     cfg.QueueSize,
	}
	return &Mirror{
		events: batcher.New(logger.With(zap.String("table", "coin_events")), sink.InsertCoinEvents, bcfg),
		blocks: batcher.New(logger.With(zap.String("table", "blocks")), sink.InsertBlocks, bcfg),
		logger: logger,
	}, nil
}

func (m *Mirror) Start(ctx context.Context) {
	m.events.Start(ctx)
	m.blocks.Start(ctx)
}

// Stop flushes the queued rows.
func (m *Mirror) Stop() {
	m.events.Stop()
	m.blocks.Stop()
}

func (m *Mirror) BlockCommitted(_ context.Context, block model.CommittedBlock) {
	dropped := 0
	for _, ev := range block.Events() {
		if !m.events.TryAdd(ev) {
			dropped++
		}
	}
	if !m.blocks.TryAdd(block.Summary()) {
		dropped++
	}
	if dropped > 0 {
		m.logger.Warn("mirror queue full, rows dropped",
			zap.Uint64("height", block.Header.Height),
			zap.Int("dropped", dropped),
		)
	}
}
