package leave

import (
	"dayflow/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	jwtSecret string,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(jwtSecret))
	{
		leaves.POST("",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/pending", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.GetPending)
		leaves.GET("/balance/:employeeId", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetBalance)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		leaves.PUT("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Approve)
		leaves.PUT("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Reject)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave", "delete"), handler.Delete)
	}
}
