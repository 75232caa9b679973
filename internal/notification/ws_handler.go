package notification

import (
	"net/http"
	"slices"
	"strings"

	autherrors "dayflow/internal/auth/errors"
	"dayflow/internal/auth/token"
	"dayflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ServeWS upgrades an authenticated request and subscribes it to the
// caller's own employee channel. Browsers cannot set headers on the
// handshake, so the access token may come from the token query parameter.
func ServeWS(hub *Hub, jwtSecret string, allowedOrigins []string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
		},
	}

	return func(c *gin.Context) {
		raw := c.Query("token")
		if raw == "" {
			raw, _ = strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if raw == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				raw = cookie
			}
		}
		if raw == "" {
			response.AbortWithError(c, autherrors.ErrMissingToken)
			return
		}

		claims, err := token.Parse(jwtSecret, raw, token.KindAccess)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}
		if claims.EmployeeID == "" {
			response.AbortWithError(c, autherrors.ErrForbidden)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		cl := &client{
			hub:        hub,
			conn:       conn,
			employeeID: claims.EmployeeID,
			send:       make(chan []byte, sendBufferSize),
		}
		hub.register(cl)

		go cl.writePump()
		go cl.readPump()
	}
}
