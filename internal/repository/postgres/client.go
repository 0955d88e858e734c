package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goodnatureofminers/melindex-backend/internal/clock"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	MinConns        int32
	MaxConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MinConns:        2,
		MaxConns:        20,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

const connectAttempts = 10

// Connect opens a pool and pings it, retrying with backoff while the database
// comes up.
func Connect(ctx context.Context, dsn string, poolCfg PoolConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	config.MinConns = poolCfg.MinConns
	config.MaxConns = poolCfg.MaxConns
	config.MaxConnLifetime = poolCfg.ConnMaxLifetime
	config.MaxConnIdleTime = poolCfg.ConnMaxIdleTime

	var pool *pgxpool.Pool
	err = clock.Retry(ctx, clock.DefaultBackoff(), connectAttempts, logger, "postgres_connection", func(ctx context.Context) error {
		p, openErr := pgxpool.NewWithConfig(ctx, config)
		if openErr != nil {
			return fmt.Errorf("create postgres pool: %w", openErr)
		}
		if pingErr := p.Ping(ctx); pingErr != nil {
			p.Close()
			return fmt.Errorf("ping postgres: %w", pingErr)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("postgres connection pool configured",
		zap.String("database", config.ConnConfig.Database),
		zap.Int32("min_conns", poolCfg.MinConns),
		zap.Int32("max_conns", poolCfg.MaxConns),
	)
	return pool, nil
}

// WrapPool adapts a pgx pool to Pool.
func WrapPool(p *pgxpool.Pool) Pool {
	return pgxPool{Pool: p}
}

type pgxPool struct {
	*pgxpool.Pool
}

func (p pgxPool) BeginTx(ctx context.Context) (DBTx, error) {
	return p.Pool.Begin(ctx)
}

// MigrateURL rewrites a postgres DSN to the scheme of the pgx/v5 migrate driver.
func MigrateURL(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
