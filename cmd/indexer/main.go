package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/melindex-backend/internal/chain/bitcoin"
	"github.com/goodnatureofminers/melindex-backend/internal/chain/melnode"
	"github.com/goodnatureofminers/melindex-backend/internal/clock"
	"github.com/goodnatureofminers/melindex-backend/internal/health"
	"github.com/goodnatureofminers/melindex-backend/internal/indexer"
	"github.com/goodnatureofminers/melindex-backend/internal/metrics"
	"github.com/goodnatureofminers/melindex-backend/internal/mirror"
	"github.com/goodnatureofminers/melindex-backend/internal/notify"
	"github.com/goodnatureofminers/melindex-backend/internal/repository/clickhouse"
	"github.com/goodnatureofminers/melindex-backend/internal/repository/memory"
	"github.com/goodnatureofminers/melindex-backend/internal/repository/postgres"
	"github.com/goodnatureofminers/melindex-backend/internal/transport"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type config struct {
	Store       string `long:"store" env:"MELINDEX_STORE" description:"storage backend" choice:"postgres" choice:"memory" default:"postgres"`
	PostgresDSN string `long:"postgres-dsn" env:"MELINDEX_POSTGRES_DSN" description:"PostgreSQL DSN"`

	Chain      string `long:"chain" env:"MELINDEX_CHAIN" description:"chain to index" choice:"mel" choice:"btc" default:"mel"`
	NodeURL    string `long:"node-url" env:"MELINDEX_NODE_URL" description:"Mel node gateway URL" default:"http://127.0.0.1:11814"`
	NodeRPS    int    `long:"node-rps" env:"MELINDEX_NODE_RPS" description:"max node requests per second, 0 for unlimited" default:"50"`
	RPCURL     string `long:"rpc-url" env:"MELINDEX_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser    string `long:"rpc-user" env:"MELINDEX_RPC_USER" description:"Bitcoin RPC username"`
	RPCPass    string `long:"rpc-password" env:"MELINDEX_RPC_PASSWORD" description:"Bitcoin RPC password"`
	BTCNetwork string `long:"btc-network" env:"MELINDEX_BTC_NETWORK" description:"bitcoin network" default:"mainnet"`

	PollInterval    time.Duration `long:"poll-interval" env:"MELINDEX_POLL_INTERVAL" description:"wait between tip checks" default:"5s"`
	BackoffInitial  time.Duration `long:"backoff-initial" env:"MELINDEX_BACKOFF_INITIAL" description:"first retry delay" default:"1s"`
	BackoffMax      time.Duration `long:"backoff-max" env:"MELINDEX_BACKOFF_MAX" description:"retry delay cap" default:"1m"`
	ApplyTimeout    time.Duration `long:"apply-timeout" env:"MELINDEX_APPLY_TIMEOUT" description:"time limit for applying one block" default:"2m"`
	PrefetchWorkers int           `long:"prefetch-workers" env:"MELINDEX_PREFETCH_WORKERS" description:"concurrent implied coin fetches" default:"8"`
	MaxTxDataBytes  int           `long:"max-tx-data" env:"MELINDEX_MAX_TX_DATA" description:"bytes of transaction data kept, negative keeps all" default:"1024"`

	ZMQAddr             string `long:"zmq-addr" env:"MELINDEX_ZMQ_ADDR" description:"zmq endpoint publishing new block hashes"`
	RedisAddr           string `long:"redis-addr" env:"MELINDEX_REDIS_ADDR" description:"redis address for block notifications"`
	RedisChannel        string `long:"redis-channel" env:"MELINDEX_REDIS_CHANNEL" description:"redis channel" default:"melindex:blocks"`
	ClickhouseDSN       string `long:"clickhouse-dsn" env:"MELINDEX_CLICKHOUSE_DSN" description:"ClickHouse DSN of the analytics mirror"`
	MaintenanceSchedule string `long:"maintenance-schedule" env:"MELINDEX_MAINTENANCE_SCHEDULE" description:"cron schedule of ANALYZE runs" default:"@hourly"`

	APIAddr     string `long:"api-addr" env:"MELINDEX_API_ADDR" description:"serve the query API on this address"`
	MetricsAddr string `long:"metrics-addr" env:"MELINDEX_METRICS_ADDR" description:"address for metrics server" default:":2112"`
	GRPCAddr    string `long:"grpc-addr" env:"MELINDEX_GRPC_ADDR" description:"serve gRPC health checks on this address, also enables /healthz on the metrics server"`
	LogJSON     bool   `long:"log-json" env:"MELINDEX_LOG_JSON" description:"production JSON logging"`
}

// backend is a store the consumer writes and the API reads.
type backend interface {
	indexer.Store
	indexer.ReadStore
}

func main() {
	cfg := config{}
	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(cfg.LogJSON)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("indexer failed", zap.Error(err))
	}
}

func newLogger(json bool) (*zap.Logger, error) {
	if json {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	healthSrv, healthz, closeHealth, err := startHealthServer(ctx, cfg.GRPCAddr, logger)
	if err != nil {
		return err
	}
	defer closeHealth()

	startMetricsServer(ctx, cfg.MetricsAddr, healthz, logger)

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	client, closeClient, err := openClient(cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	notifiers, closeNotifiers, err := openNotifiers(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeNotifiers()

	blockSignal, err := startBlockSignal(ctx, cfg.ZMQAddr, logger)
	if err != nil {
		return fmt.Errorf("block signal: %w", err)
	}

	if cfg.APIAddr != "" {
		if err := startAPIServer(ctx, cfg.APIAddr, store, logger); err != nil {
			return err
		}
	}

	consumer, err := indexer.NewConsumer(client, store, metrics.NewConsumer(cfg.Chain), logger.Named("consumer"), indexer.ConsumerConfig{
		PollInterval: cfg.PollInterval,
		Backoff: clock.BackoffConfig{
			Initial:    cfg.BackoffInitial,
			Max:        cfg.BackoffMax,
			Multiplier: 2,
			Jitter:     true,
		},
		ApplyTimeout:    cfg.ApplyTimeout,
		PrefetchWorkers: cfg.PrefetchWorkers,
		MaxTxDataBytes:  cfg.MaxTxDataBytes,
		BlockSignal:     blockSignal,
		Notifier:        notifiers,
	})
	if err != nil {
		return err
	}

	if healthSrv != nil {
		go healthSrv.Watch(ctx, health.ServiceIndexer, consumer, time.Second)
	}

	logger.Info("indexer started", zap.String("chain", cfg.Chain), zap.String("store", cfg.Store))
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("indexer stopped", zap.Stringer("state", consumer.State()))
	return nil
}

func openStore(ctx context.Context, cfg config, logger *zap.Logger) (backend, func(), error) {
	if cfg.Store == "memory" {
		logger.Warn("using the in-memory store, the index is lost on exit")
		return memory.NewStore(), func() {}, nil
	}
	if cfg.PostgresDSN == "" {
		return nil, nil, errors.New("postgres DSN is required")
	}

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN, postgres.DefaultPoolConfig(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	repo, err := postgres.NewRepository(postgres.WrapPool(pool), metrics.NewPostgresRepository(), logger)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("init repository: %w", err)
	}
	maintenance, err := postgres.NewMaintenance(ctx, repo, cfg.MaintenanceSchedule, logger.Named("maintenance"))
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	maintenance.Start()

	return repo, func() {
		maintenance.Stop()
		pool.Close()
	}, nil
}

func openClient(cfg config) (indexer.Client, func(), error) {
	nodeMetrics := metrics.NewNodeClient(cfg.Chain)
	if cfg.Chain == "mel" {
		client, err := melnode.NewClient(melnode.Config{BaseURL: cfg.NodeURL, RPS: cfg.NodeRPS}, nodeMetrics)
		if err != nil {
			return nil, nil, fmt.Errorf("init mel node client: %w", err)
		}
		return client, func() {}, nil
	}

	params, err := bitcoin.ChainParams(cfg.BTCNetwork)
	if err != nil {
		return nil, nil, err
	}
	parsed, err := url.Parse(cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, nil, errors.New("rpc url missing host")
	}
	rpc, err := bitcoin.Dial(bitcoin.RPCConfig{Host: parsed.Host, User: cfg.RPCUser, Pass: cfg.RPCPass})
	if err != nil {
		return nil, nil, err
	}
	client, err := bitcoin.NewClient(bitcoin.NewObservedRPC(rpc, nodeMetrics), params)
	if err != nil {
		rpc.Shutdown()
		return nil, nil, err
	}
	return client, func() {
		rpc.Shutdown()
		rpc.WaitForShutdown()
	}, nil
}

func openNotifiers(ctx context.Context, cfg config, logger *zap.Logger) (indexer.Notifiers, func(), error) {
	var (
		notifiers indexer.Notifiers
		closers   []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.ClickhouseDSN != "" {
		repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return nil, nil, fmt.Errorf("init clickhouse repository: %w", err)
		}
		m, err := mirror.New(repo, mirror.DefaultConfig(), logger)
		if err != nil {
			_ = repo.Close()
			return nil, nil, err
		}
		m.Start(ctx)
		closers = append(closers, func() {
			m.Stop()
			_ = repo.Close()
		})
		notifiers = append(notifiers, m)
	}

	if cfg.RedisAddr != "" {
		rdb, err := notify.Dial(ctx, cfg.RedisAddr)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		ncfg := notify.DefaultConfig()
		ncfg.Channel = cfg.RedisChannel
		n, err := notify.NewRedis(rdb, ncfg, metrics.NewNotifier("redis"), logger)
		if err != nil {
			_ = rdb.Close()
			closeAll()
			return nil, nil, err
		}
		n.Start(ctx)
		closers = append(closers, func() {
			n.Stop()
			_ = rdb.Close()
		})
		notifiers = append(notifiers, n)
	}

	return notifiers, closeAll, nil
}

func startAPIServer(ctx context.Context, addr string, store indexer.ReadStore, logger *zap.Logger) error {
	reader, err := indexer.NewReader(store, logger.Named("reader"))
	if err != nil {
		return err
	}
	handler, err := transport.NewHandler(reader, metrics.NewHTTPAPI(), logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           cors.Default().Handler(handler.NewRouter()),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("starting API server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("API server failed", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown API server", zap.Error(err))
		}
	}()
	return nil
}

func startHealthServer(ctx context.Context, addr string, logger *zap.Logger) (*health.Server, http.Handler, func(), error) {
	if addr == "" {
		return nil, nil, func() {}, nil
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("listen grpc: %w", err)
	}
	srv := health.NewServer(logger.Named("health"))
	go func() {
		if err := srv.Serve(ctx, lis); err != nil {
			logger.Error("gRPC health server failed", zap.Error(err))
		}
	}()

	gateway, closeGateway, err := health.NewGateway(lis.Addr().String())
	if err != nil {
		return nil, nil, nil, err
	}
	return srv, gateway, func() {
		_ = closeGateway()
	}, nil
}

func startMetricsServer(ctx context.Context, addr string, healthz http.Handler, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if healthz != nil {
		mux.Handle("/healthz", healthz)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
