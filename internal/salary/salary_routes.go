package salary

import (
	"dayflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, jwtSecret string) {
	salaries := r.Group("/salaries")
	salaries.Use(middleware.AuthMiddleware(jwtSecret))
	{
		salaries.GET("", middleware.RBACAuthorize(rbacService, "salary", "manage"), handler.GetAll)
		salaries.GET("/:employeeId", middleware.RBACAuthorize(rbacService, "salary", "read"), handler.Get)
		salaries.GET("/:employeeId/slip",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "salary", "read"),
			handler.DownloadSlip,
		)
		salaries.POST("", middleware.RBACAuthorize(rbacService, "salary", "manage"), handler.Create)
		salaries.PUT("/:employeeId", middleware.RBACAuthorize(rbacService, "salary", "manage"), handler.Update)
		salaries.DELETE("/:employeeId", middleware.RBACAuthorize(rbacService, "salary", "manage"), handler.Delete)
	}
}
