// Package postgres stores the index in PostgreSQL.
package postgres

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

// writerLockKey is the advisory lock held by the transaction applying a block.
const writerLockKey int64 = 0x6d656c696e646578

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type Repository struct {
	pool    Pool
	metrics Metrics
	logger  *zap.Logger
}

func NewRepository(pool Pool, metrics Metrics, logger *zap.Logger) (*Repository, error) {
	if pool == nil {
		return nil, errors.New("postgres pool is required")
	}
	if metrics == nil {
		return nil, errors.New("postgres metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{pool: pool, metrics: metrics, logger: logger}, nil
}
