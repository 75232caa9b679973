package rbac

import (
	"dayflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service, jwtSecret string) {
	rbac := r.Group("/rbac")
	rbac.Use(middleware.AuthMiddleware(jwtSecret))
	{
		rbac.GET("/policies", middleware.RBACAuthorize(service, "rbac", "read"), handler.ListPolicies)
		rbac.POST("/enforce", middleware.RBACAuthorize(service, "rbac", "read"), handler.Enforce)
		rbac.POST("/reload", middleware.RBACAuthorize(service, "rbac", "manage"), handler.Reload)
	}
}
