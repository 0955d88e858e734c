package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/melindex-backend/internal/indexer"
	"github.com/goodnatureofminers/melindex-backend/internal/metrics"
	"github.com/goodnatureofminers/melindex-backend/internal/repository/postgres"
	"github.com/goodnatureofminers/melindex-backend/internal/transport"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type config struct {
	PostgresDSN string `long:"postgres-dsn" env:"MELINDEX_API_POSTGRES_DSN" description:"PostgreSQL DSN" required:"true"`
	Addr        string `long:"addr" env:"MELINDEX_API_ADDR" description:"query API address" default:":8000"`
	MaxConns    int32  `long:"max-conns" env:"MELINDEX_API_MAX_CONNS" description:"connection pool size" default:"20"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
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
		logger.Fatal("api failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	poolCfg := postgres.DefaultPoolConfig()
	poolCfg.MaxConns = cfg.MaxConns
	pool, err := postgres.Connect(ctx, cfg.PostgresDSN, poolCfg, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(postgres.WrapPool(pool), metrics.NewPostgresRepository(), logger)
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	reader, err := indexer.NewReader(repo, logger.Named("reader"))
	if err != nil {
		return err
	}
	handler, err := transport.NewHandler(reader, metrics.NewHTTPAPI(), logger)
	if err != nil {
		return err
	}

	router := handler.NewRouter()
	router.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           cors.Default().Handler(router),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", cfg.Addr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
