package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"dayflow/internal/auth"
	autherrors "dayflow/internal/auth/errors"
	authMock "dayflow/internal/auth/mock"
	"dayflow/internal/identity"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func testCookies() auth.CookieConfig {
	return auth.CookieConfig{AccessTTL: 15 * time.Minute, RefreshTTL: 7 * 24 * time.Hour}
}

func TestHandler_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService, testCookies())
	router := setupAuthRouter()
	router.POST("/login", handler.Login)

	t.Run("Success Login - Web Client (Cookie Check)", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"login_id": "DFAK2026001", "password": "password123"})

		mockService.EXPECT().
			Login(gomock.Any(), "DFAK2026001", "password123").
			Return(auth.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"},
				auth.AuthResponse{ID: "user-1", Email: "aisha.khan@dayflow.test"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Type", "WEB")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		cookies := w.Result().Cookies()
		assert.Len(t, cookies, 2)
		assert.Equal(t, "access_token", cookies[0].Name)
		assert.Equal(t, "access-token", cookies[0].Value)
		assert.Equal(t, 900, cookies[0].MaxAge)

		var res map[string]any
		json.Unmarshal(w.Body.Bytes(), &res)
		assert.Equal(t, "aisha.khan@dayflow.test", res["data"].(map[string]any)["user"].(map[string]any)["email"])
	})

	t.Run("Success Login - API Client has no cookies", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"login_id": "aisha.khan@dayflow.test", "password": "password123"})

		mockService.EXPECT().
			Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(auth.TokenPair{AccessToken: "a", RefreshToken: "r"}, auth.AuthResponse{ID: "user-1"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "curl/8.5.0")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("Failed Login - Invalid Credentials", func(t *testing.T) {
		mockService.EXPECT().
			Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(auth.TokenPair{}, auth.AuthResponse{}, autherrors.ErrInvalidCredentials)

		body, _ := json.Marshal(map[string]string{"login_id": "wrong", "password": "123"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Validation Error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"password":"x"}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService, testCookies())
	router := setupAuthRouter()
	router.GET("/me", func(c *gin.Context) {
		identity.SetPrincipal(c, identity.Principal{UserID: "user-1", Role: identity.RoleHR})
		c.Next()
	}, handler.Me)

	mockService.EXPECT().GetMe(gomock.Any(), "user-1").Return(&auth.AuthResponse{ID: "user-1", Role: identity.RoleHR}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := auth.NewHandler(authMock.NewMockService(ctrl), testCookies())
	router := setupAuthRouter()
	router.POST("/logout", handler.Logout)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	}
}
