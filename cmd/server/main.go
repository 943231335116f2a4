// Command arena-server starts the dragon arena gRPC server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	arenav1 "github.com/and161185/dragon-arena/api/arenav1"
	"github.com/and161185/dragon-arena/internal/arena"
	"github.com/and161185/dragon-arena/internal/config"
	"github.com/and161185/dragon-arena/internal/crypto"
	"github.com/and161185/dragon-arena/internal/limiter"
	"github.com/and161185/dragon-arena/internal/migrate"
	"github.com/and161185/dragon-arena/internal/otel"
	"github.com/and161185/dragon-arena/internal/repository"
	"github.com/and161185/dragon-arena/internal/repository/memory"
	"github.com/and161185/dragon-arena/internal/repository/postgres"
	"github.com/and161185/dragon-arena/internal/repository/redisstore"
	grpcserver "github.com/and161185/dragon-arena/internal/server/grpc"
	"github.com/and161185/dragon-arena/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, opens the selected store and serves the Arena API.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()

	logger := newLogger(cfg.Dev)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
		zap.String("store", cfg.Store),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = serve(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("server error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

// serve runs the server until ctx is done or serving fails. Tracing and the store are
// released before it returns.
func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	shutdownTracing, err := otel.Setup(ctx, "arena-server", version, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("otel shutdown", zap.Error(err))
		}
	}()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	if err := repository.Bootstrap(ctx, store, arena.DefaultCluster()); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	// Services
	clock := service.SystemClock{}
	accountSvc := service.NewAccountService(store, clock, limiter.NewCooldown(limiter.DragonChangeCooldown), logger)
	dragonSvc := service.NewDragonService(store, crypto.ByteSource{}, cfg.Owner, logger)
	battleSvc := service.NewBattleService(store, clock, cfg.Owner, logger)

	opts := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcserver.RecoverUnary(logger),
			grpcserver.AuthUnary([]byte(cfg.JWTKey)),
			grpcserver.LoggingUnary(logger),
		),
	}
	if cfg.TLS() {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			return fmt.Errorf("load TLS cert/key: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
	} else {
		logger.Warn("TLS disabled; serving plaintext")
	}
	s := grpc.NewServer(opts...)

	app := grpcserver.New(accountSvc, dragonSvc, battleSvc, []byte(cfg.JWTKey))
	arenav1.RegisterArenaServer(s, app)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)

	// Listen
	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.Bool("tls", cfg.TLS()))
		errCh <- s.Serve(lis)
	}()

	return waitForStop(ctx, s, hs, errCh, cfg.ShutdownTimeout)
}

type stopper interface {
	GracefulStop()
	Stop()
}

// waitForStop blocks until ctx is done, then stops srv gracefully within timeout.
// A serve error is returned as is.
func waitForStop(ctx context.Context, srv stopper, hs *health.Server, errCh <-chan error, timeout time.Duration) error {
	select {
	case <-ctx.Done():
		hs.Shutdown()
		done := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(timeout):
			srv.Stop()
		}
		return nil
	case err := <-errCh:
		return err
	}
}

func newLogger(dev bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openStore returns the configured backend and a function releasing its connections.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repository.Store, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		if err := migrate.Up(ctx, cfg.DSN, logger); err != nil {
			return nil, nil, fmt.Errorf("migrate up: %w", err)
		}
		db, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return postgres.NewKVStore(db), db.Close, nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return redisstore.New(client), func() { _ = client.Close() }, nil
	default:
		logger.Warn("in-memory store; state is lost on exit")
		return memory.New(), func() {}, nil
	}
}
