package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"dayflow/internal/config"
	"dayflow/internal/middleware"
	"dayflow/internal/shared/connection"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type infrastructure struct {
	gormDB *gorm.DB
	db     *sql.DB
	rdb    *redis.Client
}

func connect(cfg *config.Config) (*infrastructure, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return nil, err
	}
	db, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &infrastructure{gormDB: gormDB, db: db, rdb: rdb}, nil
}

func (i *infrastructure) Close() {
	_ = i.rdb.Close()
	_ = i.db.Close()
}

// BuildApp connects the infrastructure, installs the global middleware and
// registers every module. The returned func releases what BuildApp opened.
func BuildApp(router *gin.Engine, cfg *config.Config, logger *zap.Logger) (func(), error) {
	infra, err := connect(cfg)
	if err != nil {
		return nil, err
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "Idempotency-Key", "X-Request-ID", "X-Client-Type"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}

	router.Use(
		gin.Recovery(),
		cors.New(corsConfig),
		middleware.RequestID(),
		middleware.ContextLogger(logger.Named("http")),
	)
	router.GET("/healthz", healthz(infra))

	ctx, cancel := context.WithCancel(context.Background())
	if err := registerModules(ctx, router, cfg, infra, logger); err != nil {
		cancel()
		infra.Close()
		return nil, err
	}

	return func() {
		cancel()
		infra.Close()
	}, nil
}

func healthz(infra *infrastructure) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"database": "ok", "redis": "ok"}
		code := http.StatusOK
		if err := infra.db.PingContext(ctx); err != nil {
			status["database"] = "unavailable"
			code = http.StatusServiceUnavailable
		}
		if err := infra.rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = "unavailable"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	}
}
