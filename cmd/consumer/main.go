package main

import (
	"log"

	"dayflow/internal/app"
	"dayflow/internal/bootstrap"
	"dayflow/internal/config"
	"dayflow/internal/shared/apperror"

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

	if err := app.RunConsumer(cfg); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
