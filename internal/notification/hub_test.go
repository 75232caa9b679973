package notification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dayflow/internal/auth/token"
	"dayflow/internal/notification"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newWSServer(t *testing.T, hub *notification.Hub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/ws", notification.ServeWS(hub, testSecret, nil))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func accessToken(t *testing.T, employeeID string) string {
	t.Helper()
	raw, err := token.Issue(testSecret, token.Claims{
		UserID:     "user-1",
		EmployeeID: employeeID,
		Role:       "employee",
		Kind:       token.KindAccess,
	}, time.Minute, time.Now())
	require.NoError(t, err)
	return raw
}

func wsURL(srv *httptest.Server, tok string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws?token=" + tok
}

func TestHub_PushesLeaveDecisionToOwner(t *testing.T) {
	hub := notification.NewHub(zap.NewNop())
	srv := newWSServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, accessToken(t, "emp-1")), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connections("emp-1") == 1 }, time.Second, 10*time.Millisecond)

	err = notification.LiveLeaveHandler(hub)(context.Background(), leaveMessage(t, approved()))
	require.NoError(t, err)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg notification.LiveMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "leave_approved", msg.Type)
	assert.Equal(t, "leave-1", msg.LeaveID)
	assert.Equal(t, 3, msg.NumberOfDays)

	assert.Equal(t, 0, hub.Push("emp-2", []byte("{}")))
}

func TestServeWS_RejectsMissingToken(t *testing.T) {
	hub := notification.NewHub(zap.NewNop())
	srv := newWSServer(t, hub)

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
