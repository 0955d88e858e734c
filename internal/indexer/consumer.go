package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/melindex-backend/internal/chain"
	"github.com/goodnatureofminers/melindex-backend/internal/clock"
	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/pkg/workerpool"
	"go.uber.org/zap"
)

// ConsumerConfig tunes the Block Consumer. Zero values fall back to defaults.
type ConsumerConfig struct {
	PollInterval    time.Duration
	Backoff         clock.BackoffConfig
	ApplyTimeout    time.Duration
	PrefetchWorkers int
	MaxTxDataBytes  int
	// BlockSignal wakes an idle consumer before the poll interval elapses.
	BlockSignal <-chan struct{}
	Notifier    Notifier
}

// Consumer applies blocks one at a time, in height order.
type Consumer struct {
	logger          *zap.Logger
	client          Client
	store           Store
	metrics         ConsumerMetrics
	notifier        Notifier
	updater         *coinUpdater
	recorder        *recorder
	sleep           clock.SleepFunc
	backoff         *clock.Backoff
	pollInterval    time.Duration
	applyTimeout    time.Duration
	prefetchWorkers int
	blockSignal     <-chan struct{}

	mu    sync.RWMutex
	state State
}

// NewConsumer builds a Consumer with dependencies.
func NewConsumer(client Client, store Store, metrics ConsumerMetrics, logger *zap.Logger, cfg ConsumerConfig) (*Consumer, error) {
	if client == nil {
		return nil, errors.New("consumer client is required")
	}
	if store == nil {
		return nil, errors.New("consumer store is required")
	}
	if metrics == nil {
		return nil, errors.New("consumer metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.ApplyTimeout <= 0 {
		cfg.ApplyTimeout = defaultApplyTimeout
	}
	if cfg.PrefetchWorkers <= 0 {
		cfg.PrefetchWorkers = defaultPrefetchWorkers
	}
	if cfg.MaxTxDataBytes == 0 {
		cfg.MaxTxDataBytes = defaultMaxTxDataBytes
	}
	if cfg.Backoff == (clock.BackoffConfig{}) {
		cfg.Backoff = clock.DefaultBackoff()
	}

	return &Consumer{
		logger:   logger,
		client:   client,
		store:    store,
		metrics:  metrics,
		notifier: cfg.Notifier,
		updater: &coinUpdater{
			client:  client,
			metrics: metrics,
			logger:  logger.Named("updater"),
		},
		recorder:        &recorder{maxDataBytes: cfg.MaxTxDataBytes},
		sleep:           clock.SleepWithContext,
		backoff:         clock.NewBackoff(cfg.Backoff),
		pollInterval:    cfg.PollInterval,
		applyTimeout:    cfg.ApplyTimeout,
		prefetchWorkers: cfg.PrefetchWorkers,
		blockSignal:     cfg.BlockSignal,
	}, nil
}

// State returns the current state snapshot.
func (c *Consumer) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Consumer) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.metrics.SetState(s.Kind.String())
}

// Run indexes until ctx is canceled or a contract violation occurs. Transient
// failures are retried with backoff indefinitely.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		advanced, err := c.Step(ctx)
		switch {
		case err == nil:
			c.backoff.Reset()
			if advanced {
				continue
			}
			if waitErr := c.wait(ctx, c.pollInterval); waitErr != nil {
				return waitErr
			}
		case errors.Is(err, ErrContractViolation):
			c.logger.Error("contract violation, indexing halted", zap.Error(err))
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			delay := c.backoff.Next()
			c.logger.Warn("run iteration failed, backing off",
				zap.Error(err),
				zap.Int("attempt", c.backoff.Attempts()),
				zap.Duration("sleep", delay),
			)
			if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

// Step runs one Idle → Fetching → Applying → Committed cycle. It reports false
// without error when the next block is not available yet.
func (c *Consumer) Step(ctx context.Context) (bool, error) {
	height, err := c.cursor(ctx)
	if err != nil {
		c.setState(State{Kind: StateFailed, Height: height, Cause: err})
		return false, err
	}
	c.setState(State{Kind: StateFetching, Height: height})

	started := time.Now()
	block, err := c.client.Block(ctx, height)
	if errors.Is(err, chain.ErrBlockNotAvailable) {
		c.metrics.ObserveFetch(nil, started)
		c.setState(State{Kind: StateIdle, Height: height})
		c.logger.Debug("block not available yet", zap.Uint64("height", height))
		return false, nil
	}
	c.metrics.ObserveFetch(err, started)
	if err != nil {
		return false, c.fail(height, fmt.Errorf("fetch block %d: %w", height, err))
	}
	if block.Header.Height != height {
		return false, c.fail(height, violation(height, ReasonInconsistentData, nil,
			"client returned block %d", block.Header.Height))
	}

	scope := newBlockScope(block)
	if err := c.prefetch(ctx, scope, block); err != nil {
		return false, c.fail(height, err)
	}

	c.setState(State{Kind: StateApplying, Height: height})
	// A block runs to commit or rollback even if ctx is canceled meanwhile.
	applyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.applyTimeout)
	defer cancel()

	started = time.Now()
	err = c.apply(applyCtx, scope, block)
	c.metrics.ObserveApply(err, len(block.Transactions), started)
	if err != nil {
		return false, c.fail(height, fmt.Errorf("apply block %d: %w", height, err))
	}

	c.setState(State{Kind: StateCommitted, Height: height})
	c.metrics.SetIndexedHeight(height)
	c.logger.Debug("block committed",
		zap.Uint64("height", height),
		zap.Int("txs", len(block.Transactions)),
		zap.Int("created", len(scope.journal.Created)),
		zap.Int("spent", len(scope.journal.Spent)),
	)
	if c.notifier != nil {
		c.notifier.BlockCommitted(ctx, scope.journal)
	}
	c.setState(State{Kind: StateIdle, Height: height + 1})
	return true, nil
}

// cursor derives the next height from the store.
func (c *Consumer) cursor(ctx context.Context) (uint64, error) {
	maxHeight, ok, err := c.store.MaxHeight(ctx)
	if err != nil {
		return 0, fmt.Errorf("read indexed height: %w", err)
	}
	if !ok {
		return 0, nil
	}
	return maxHeight + 1, nil
}

// prefetch loads the implied coin sets of every tricky transaction of the
// block concurrently, before the write transaction is opened.
func (c *Consumer) prefetch(ctx context.Context, scope *blockScope, block *model.Block) error {
	type request struct {
		txhash  model.TxHash
		indexes []uint32
	}
	var requests []request
	for _, tx := range block.Transactions {
		if indexes := scope.unresolved(tx); len(indexes) > 0 {
			requests = append(requests, request{txhash: tx.Hash, indexes: indexes})
		}
	}
	if len(requests) == 0 {
		return nil
	}

	coins, err := workerpool.Map(ctx, c.prefetchWorkers, requests, func(ctx context.Context, r request) (map[uint32]model.CoinData, error) {
		return c.updater.fetchImplied(ctx, scope.height, r.txhash, r.indexes)
	})
	if err != nil {
		return err
	}
	for i, r := range requests {
		scope.setImplied(r.txhash, coins[i])
	}
	return nil
}

func (c *Consumer) apply(ctx context.Context, scope *blockScope, block *model.Block) (err error) {
	st, err := c.store.Begin(ctx, scope.height)
	if err != nil {
		return fmt.Errorf("begin block transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := st.Rollback(ctx); rbErr != nil {
			c.logger.Warn("rollback failed", zap.Uint64("height", scope.height), zap.Error(rbErr))
		}
	}()

	for _, reward := range block.Rewards {
		if err = c.updater.InsertReward(ctx, st, scope, reward); err != nil {
			return err
		}
	}
	for _, tx := range block.Transactions {
		if err = c.updater.Apply(ctx, st, scope, tx); err != nil {
			return err
		}
		if err = c.recorder.Record(ctx, st, scope, tx); err != nil {
			return err
		}
	}
	if err = st.InsertHeadVars(ctx, block.Header); err != nil {
		return fmt.Errorf("insert headvars: %w", err)
	}
	if err = st.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (c *Consumer) fail(height uint64, err error) error {
	c.setState(State{Kind: StateFailed, Height: height, Cause: err})
	var cv *ContractViolationError
	if errors.As(err, &cv) {
		c.metrics.ObserveContractViolation(string(cv.Reason))
	}
	return err
}

func (c *Consumer) wait(ctx context.Context, d time.Duration) error {
	if c.blockSignal == nil {
		return c.sleep(ctx, d)
	}
	return clock.WaitOrSignal(ctx, d, c.blockSignal)
}
