package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/msgboard/msgboard/backend/go-services/handlers"
	"github.com/msgboard/msgboard/backend/go-services/internal/config"
	"github.com/msgboard/msgboard/backend/go-services/internal/database"
	"github.com/msgboard/msgboard/backend/go-services/internal/message/handler"
	"github.com/msgboard/msgboard/backend/go-services/internal/message/service"
	"github.com/msgboard/msgboard/backend/go-services/pkg/logger"
	"github.com/msgboard/msgboard/backend/go-services/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Deps are the runtime collaborators the router binds to.
type Deps struct {
	Messages service.Service
	DB       database.Pinger
	// Redis is optional; it backs the rate limiter when RATE_LIMIT_USE_REDIS is set.
	Redis *redis.Client
}

// NewRouter builds the gin engine with every route and global middleware.
func NewRouter(cfg *config.Config, d Deps) *gin.Engine {
	r := gin.New()

	// Global middlewares: logging + recovery + CORS
	r.Use(gin.Logger(), gin.Recovery(), middleware.CORSMiddleware())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && d.Redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(d.Redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
			logger.Infof("rate limiter enabled (redis, %.1f rps, burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
			logger.Infof("rate limiter enabled (memory, %.1f rps, burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	handlers.RegisterHealthRoutes(r, d.DB)
	handlers.RegisterSwagger(r)
	handler.RegisterMessageRoutes(r, d.Messages)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
