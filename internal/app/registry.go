package app

import (
	"context"
	"errors"
	"os"

	"dayflow/internal/attendance"
	"dayflow/internal/auth"
	"dayflow/internal/config"
	"dayflow/internal/employee"
	"dayflow/internal/events"
	"dayflow/internal/leave"
	"dayflow/internal/messaging/kafka"
	"dayflow/internal/messaging/kafka/consumer"
	"dayflow/internal/notification"
	"dayflow/internal/rbac"
	"dayflow/internal/rbac/infra"
	"dayflow/internal/salary"
	"dayflow/internal/shared/connection"
	"dayflow/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func registerModules(
	ctx context.Context,
	router *gin.Engine,
	cfg *config.Config,
	deps *infrastructure,
	logger *zap.Logger,
) error {
	db, gormDB, rdb := deps.db, deps.gormDB, deps.rdb

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	salaryRepo := salary.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)
	if err := rbacService.LoadPolicy(ctx); err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, cfg.Auth, logger)
	attendanceService := attendance.NewService(db, attendanceRepo, logger)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, authRepo, counterRepo, outboxRepo, rdb, employee.Settings{
		CompanyName: cfg.App.CompanyName,
		DefaultBalance: leave.Balance{
			PaidLeave:   cfg.Leave.DefaultPaidLeave,
			SickLeave:   cfg.Leave.DefaultSickLeave,
			UnpaidLeave: cfg.Leave.DefaultUnpaidLeave,
		},
	}, logger)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, outboxRepo, logger)
	salaryService := salary.NewService(db, salaryRepo, cfg.App.CompanyName, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Secure:     cfg.App.IsProduction(),
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	}, logger)
	attendanceHandler := attendance.NewHandler(attendanceService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	salaryHandler := salary.NewHandler(salaryService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	hub := notification.NewHub(logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, *cfg)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, cfg.Auth.JWTSecret)
		employee.RegisterRoutes(api, employeeHandler, rbacService, cfg.Auth.JWTSecret, rdb)
		leave.RegisterRoutes(api, leaveHandler, rbacService, cfg.Auth.JWTSecret, rdb)
		salary.RegisterRoutes(api, salaryHandler, rbacService, cfg.Auth.JWTSecret)
		rbac.RegisterRoutes(api, rbacHandler, rbacService, cfg.Auth.JWTSecret)
		api.GET("/ws", notification.ServeWS(hub, cfg.Auth.JWTSecret, cfg.Server.AllowedOrigins))
	}

	// One group per replica: every instance must see every decision to
	// reach the sockets it holds.
	if cfg.Kafka.Enabled() {
		reader := connection.NewKafkaReader(cfg.Kafka, events.LeaveDecisionTopic, liveGroupID(cfg.Kafka.LiveGroupID))
		go func() {
			defer reader.Close()
			superviseLiveConsumer(ctx, logger, func(ctx context.Context) error {
				return consumer.Run(ctx, "live_leave", reader, notification.LiveLeaveHandler(hub), logger)
			})
		}()
	} else {
		logger.Warn("kafka disabled, live leave notifications are off")
	}

	return nil
}

func liveGroupID(base string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return base
	}
	return base + "-" + host
}

// superviseLiveConsumer runs the live consumer loop and reports how it ended.
// Shutdown cancellation is expected and not logged.
func superviseLiveConsumer(ctx context.Context, logger *zap.Logger, run func(context.Context) error) {
	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("live leave consumer stopped", zap.Error(err))
	}
}
