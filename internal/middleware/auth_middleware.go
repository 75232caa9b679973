package middleware

import (
	"strings"

	autherrors "dayflow/internal/auth/errors"
	"dayflow/internal/auth/token"
	"dayflow/internal/identity"
	"dayflow/internal/shared/contextutil"
	"dayflow/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware accepts a bearer token or the access_token cookie and
// stores the resulting identity.Principal on the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			response.AbortWithError(c, autherrors.ErrMissingToken)
			return
		}

		claims, err := token.Parse(secret, tokenString, token.KindAccess)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		role := identity.NormalizeRole(claims.Role)
		if !identity.ValidRole(role) {
			response.AbortWithError(c, autherrors.ErrInvalidToken)
			return
		}

		identity.SetPrincipal(c, identity.Principal{
			UserID:     claims.UserID,
			EmployeeID: claims.EmployeeID,
			Role:       role,
		})

		ctx := contextutil.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := identity.FromGin(c)
		if !ok {
			response.AbortWithError(c, autherrors.ErrMissingToken)
			return
		}

		for _, role := range allowedRoles {
			if p.Role == role {
				c.Next()
				return
			}
		}

		response.AbortWithError(c, autherrors.ErrForbidden)
	}
}
