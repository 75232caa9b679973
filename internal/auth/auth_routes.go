package auth

import (
	"dayflow/internal/config"
	"dayflow/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, cfg config.Config) {
	limits := cfg.RateLimit
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(rate.Limit(limits.LoginPerSecond), limits.LoginBurst), handler.Login)
		auth.POST("/refresh", middleware.RateLimitByIP(rate.Limit(limits.LoginPerSecond), limits.LoginBurst), handler.RefreshToken)
		auth.POST("/logout", handler.Logout)

		authed := auth.Group("")
		authed.Use(
			middleware.AuthMiddleware(cfg.Auth.JWTSecret),
			middleware.RateLimitByUser(rate.Limit(limits.UserPerSecond), limits.UserBurst),
		)
		authed.GET("/me", handler.Me)
		authed.PUT("/password", handler.ChangePassword)
	}
}
