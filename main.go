package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/msgboard/msgboard/backend/go-services/internal/config"
	"github.com/msgboard/msgboard/backend/go-services/internal/database"
	"github.com/msgboard/msgboard/backend/go-services/internal/message/service"
	"github.com/msgboard/msgboard/backend/go-services/internal/server"
	"github.com/msgboard/msgboard/backend/go-services/pkg/logger"
	"github.com/msgboard/msgboard/backend/go-services/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	// LOG_LEVEL from the process env applies until the full config is resolved
	logger.Init(os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Fatalf("%v", err)
	}
	logger.Info("server stopped")
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Infof("config loaded: env=%s port=%s tls=%v param_store=%v", cfg.Server.Environment, cfg.Server.Port, cfg.TLS.Enabled, cfg.ParamStore.Enabled)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		return fmt.Errorf("MongoDB connection error: %w", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()
	logger.Infof("MongoDB connected (database=%s collection=%s)", cfg.MongoDB.Database, cfg.MongoDB.Collection)

	col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
	deps := server.Deps{
		Messages: service.NewMongoService(col),
		DB:       database.ClientPinger{Client: client, Timeout: 2 * time.Second},
		Redis:    connectRedis(ctx, cfg),
	}
	if deps.Redis != nil {
		defer deps.Redis.Close()
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := server.NewRouter(cfg, deps)

	return server.New(cfg, r).Run(ctx)
}

// connectRedis returns a client only when the Redis-backed limiter is configured
// and reachable; otherwise the router falls back to the in-memory limiter.
func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if !cfg.RateLimit.Enabled || !cfg.RateLimit.UseRedis || cfg.Redis.Host == "" {
		return nil
	}
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pctx).Err(); err != nil {
		logger.Warnf("failed to connect to Redis (%s:%s), using in-memory rate limiter: %v", cfg.Redis.Host, cfg.Redis.Port, err)
		_ = c.Close()
		return nil
	}
	logger.Infof("connected to Redis for rate limiting: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
	return c
}
