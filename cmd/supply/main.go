// Command supply prints the amount of a denom in circulation.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goodnatureofminers/melindex-backend/internal/indexer"
	"github.com/goodnatureofminers/melindex-backend/internal/metrics"
	"github.com/goodnatureofminers/melindex-backend/internal/model"
	"github.com/goodnatureofminers/melindex-backend/internal/repository/postgres"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type config struct {
	PostgresDSN string `long:"postgres-dsn" env:"MELINDEX_POSTGRES_DSN" description:"PostgreSQL DSN" required:"true"`
	Denom       string `long:"denom" description:"denom to total" default:"MEL"`
	Height      uint64 `long:"height" description:"height to evaluate at, the indexed tip when unset"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment(zap.IncreaseLevel(zap.WarnLevel))
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("supply failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	denom, err := model.ParseDenom(cfg.Denom)
	if err != nil {
		return err
	}

	poolCfg := postgres.DefaultPoolConfig()
	poolCfg.MinConns = 0
	poolCfg.MaxConns = 2
	pool, err := postgres.Connect(ctx, cfg.PostgresDSN, poolCfg, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(postgres.WrapPool(pool), metrics.NewPostgresRepository(), logger)
	if err != nil {
		return err
	}
	reader, err := indexer.NewReader(repo, logger)
	if err != nil {
		return err
	}

	height := cfg.Height
	if height == 0 {
		tip, ok, err := reader.MaxHeight(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("no blocks indexed yet")
		}
		height = tip
	}

	supply, err := reader.Supply(ctx, denom, height)
	if err != nil {
		return err
	}
	switch denom {
	case model.DenomMel, model.DenomSym, model.DenomErg:
		fmt.Printf("%s %s at height %d\n", supply.Decimal(model.MelDecimals).StringFixed(model.MelDecimals), denom, height)
	default:
		fmt.Printf("%s %s at height %d\n", supply, denom, height)
	}
	return nil
}
