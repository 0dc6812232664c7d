// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"denguecero/internal/adapter/cache"
	"denguecero/internal/adapter/storage"
	"denguecero/internal/config"
	"denguecero/internal/server"
	zoneService "denguecero/internal/service/zone"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.InitLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := initRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	natsConn, err := initNATS(cfg.NATS, logger)
	if err != nil {
		logger.Fatal("failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Close()

	// Initialize adapters
	evaluationStore := storage.NewEvaluationStore(db)
	zoneCache := cache.NewZoneCache(redisClient, cfg.Redis.Prefix)

	// Results cached by a previous process may use other tunables
	if n, err := zoneCache.Invalidate(ctx); err != nil {
		logger.Warn("failed to invalidate zone cache", zap.Error(err))
	} else {
		logger.Info("zone cache invalidated", zap.Int("keys", n))
	}

	// Initialize services
	zones := zoneService.NewService(
		evaluationStore,
		zoneCache,
		zoneService.Config{
			ClusterRadiusKm: cfg.Zones.ClusterRadiusKm,
			PublicTopN:      cfg.Zones.PublicTopN,
			PublicWindow:    cfg.Zones.PublicWindow,
			CacheTTL:        cfg.Zones.CacheTTL,
		},
		logger.Named("zones"),
	)

	refresher := zoneService.NewRefresher(
		zones,
		natsConn,
		zoneService.RefresherConfig{
			Interval:    cfg.Zones.RefreshInterval,
			EventsTopic: cfg.Zones.EventsTopic,
		},
		logger.Named("refresher"),
	)

	if err := refresher.Start(ctx); err != nil {
		logger.Fatal("failed to start public summary refresher", zap.Error(err))
	}

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		cfg.Auth,
		zones,
		natsConn,
		zoneService.PublicSubject(cfg.Zones.EventsTopic),
		logger.Named("http"),
	)

	// Start HTTP server
	go func() {
		logger.Info("starting HTTP server", zap.String("addr", httpServer.Addr()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Info("shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := refresher.Stop(shutdownCtx); err != nil {
		logger.Error("refresher shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "unable to parse connection string")
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, eris.Wrap(err, "unable to connect to database")
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "unable to ping database")
	}

	return db, nil
}

// Initialize redis connection
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, eris.Wrap(err, "unable to ping redis")
	}

	return client, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, logger *zap.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, eris.Wrap(err, "unable to connect to NATS")
	}

	return nc, nil
}
