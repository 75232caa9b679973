package main

import (
	"log"

	"dayflow/internal/app"
	"dayflow/internal/bootstrap"
	"dayflow/internal/config"
	"dayflow/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := bootstrap.NewLogger(cfg.App.IsProduction())
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	apperror.Init()
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	cleanup, err := app.BuildApp(r, cfg, logger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	err = bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		bootstrap.NewStdoutAuditLogger(logger),
		cleanup,
	)
	if err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}
