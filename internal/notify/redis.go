// Package notify announces committed blocks on redis pub/sub.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/pkg/batcher"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultChannel carries one message per committed block.
const DefaultChannel = "melindex:blocks"

const publishTimeout = 2 * time.Second

// Config sizes the publish queue.
type Config struct {
	Channel       string
	QueueSize     int
	FlushSize     int
	FlushInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Channel:       DefaultChannel,
		QueueSize:     4096,
		FlushSize:     32,
		FlushInterval: 100 * time.Millisecond,
	}
}

type (
	Publisher interface {
		Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	}

	Metrics interface {
		ObservePublish(err error)
		ObserveDrop()
	}
)

// BlockMessage is the payload published for a committed block.
type BlockMessage struct {
	Height       uint64          `json:"height"`
	Blkhash      model.BlockHash `json:"blkhash"`
	Transactions int             `json:"transactions"`
	Created      int             `json:"created"`
	Spent        int             `json:"spent"`
	Stakes       int             `json:"stakes"`
}

// Redis is an indexer.Notifier. Messages are queued without waiting and
// published from a background loop; a full queue drops the message.
// Failures are logged and counted, never returned.
type Redis struct {
	publisher Publisher
	channel   string
	queue     *batcher.Batcher[BlockMessage]
	metrics   Metrics
	logger    *zap.Logger
}

func NewRedis(publisher Publisher, cfg Config, metrics Metrics, logger *zap.Logger) (*Redis, error) {
	if publisher == nil {
		return nil, errors.New("redis publisher is required")
	}
	if metrics == nil {
		return nil, errors.New("notifier metrics is required")
	}
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Redis{publisher: publisher, channel: cfg.Channel, metrics: metrics, logger: logger.Named("notify")}
	r.queue = batcher.New(r.logger, r.publishAll, batcher.Config{
		FlushSize:     cfg.FlushSize,
		FlushInterval: cfg.FlushInterval,
		QueueSize:     cfg.QueueSize,
	})
	return r, nil
}

func (r *Redis) Start(ctx context.Context) {
	r.queue.Start(ctx)
}

// Stop publishes what is queued.
func (r *Redis) Stop() {
	r.queue.Stop()
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     4,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func (r *Redis) BlockCommitted(_ context.Context, block model.CommittedBlock) {
	s := block.Summary()
	msg := BlockMessage{
		Height:       s.Header.Height,
		Blkhash:      s.Header.Blkhash,
		Transactions: s.Transactions,
		Created:      s.Created,
		Spent:        s.Spent,
		Stakes:       s.Stakes,
	}
	if !r.queue.TryAdd(msg) {
		r.metrics.ObserveDrop()
		r.logger.Warn("notify queue full, block notification dropped",
			zap.Uint64("height", msg.Height),
			zap.String("channel", r.channel),
		)
	}
}

// publishAll sends messages in commit order. It never fails the batch so one
// bad message does not hold back the rest.
func (r *Redis) publishAll(ctx context.Context, msgs []BlockMessage) error {
	for _, msg := range msgs {
		err := r.publish(ctx, msg)
		r.metrics.ObservePublish(err)
		if err != nil {
			r.logger.Warn("block notification not published",
				zap.Uint64("height", msg.Height),
				zap.String("channel", r.channel),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (r *Redis) publish(ctx context.Context, msg BlockMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal block message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := r.publisher.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", r.channel, err)
	}
	return nil
}
