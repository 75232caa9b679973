package middleware

import (
	"dayflow/internal/identity"
	"dayflow/internal/shared/apperror"
	"dayflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by rbac.Service; declared here so routes do not
// depend on the rbac package.
type RBACService interface {
	Enforce(role, resource, action string) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := identity.FromGin(c)
		if !ok {
			response.AbortWithError(c, apperror.ErrUnauthorized)
			return
		}

		allowed, err := service.Enforce(p.Role, resource, action)
		if err != nil {
			zap.L().Named("middleware.rbac").Error("rbac enforce failed",
				zap.String("role", p.Role),
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err),
			)
			response.AbortWithError(c, err)
			return
		}

		if !allowed {
			response.AbortWithError(c, apperror.ErrForbidden.WithDetails(gin.H{"required": resource + ":" + action}))
			return
		}
		c.Next()
	}
}
