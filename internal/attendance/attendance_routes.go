package attendance

import (
	"dayflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService, jwtSecret string) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware(jwtSecret))
	{
		attendances.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.GetAll)
		attendances.POST("/check-in",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "attendance", "create"),
			h.CheckIn,
		)
		attendances.POST("/check-out",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "attendance", "create"),
			h.CheckOut,
		)
		attendances.POST("/mark", middleware.RBACAuthorize(rbacService, "attendance", "manage"), h.Mark)
	}
}
