package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rl1809/store-pos/internal/adapter/handler"
	"github.com/rl1809/store-pos/internal/adapter/storage"
	"github.com/rl1809/store-pos/internal/config"
	"github.com/rl1809/store-pos/internal/core/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("invalid configuration", zap.Error(err))
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize MySQL
	db, err := storage.OpenMySQL(ctx, cfg.MySQLDSN, storage.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxOpenConns / 2,
		ConnMaxLifetime: 5 * time.Minute,
		LockWaitTimeout: cfg.DBLockWait,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to mysql")

	mysqlAdapter := storage.NewMySQLAdapter(db)
	if err := mysqlAdapter.Migrate(ctx); err != nil {
		return err
	}

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	redisAdapter := storage.NewRedisAdapter(rdb, cfg.IdempotencyTTL)

	orderService := service.NewOrderService(mysqlAdapter, redisAdapter,
		service.WithLogger(logger.Named("orders")))
	inventoryService := service.NewInventoryService(mysqlAdapter, logger.Named("inventory"))
	accountService := service.NewAccountService(mysqlAdapter, logger.Named("accounts"))

	grpcServer := grpc.NewServer()
	handler.NewGRPCHandler(orderService, inventoryService, logger.Named("grpc")).Register(grpcServer)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewHTTPHandler(orderService, inventoryService, accountService, logger.Named("http")).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		logger.Info("HTTP server stopped")

		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
