package rbac

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockService struct {
	reloads int
}

func (m *mockService) LoadPolicy(ctx context.Context) error {
	m.reloads++
	return nil
}

func (m *mockService) Enforce(role, resource, action string) (bool, error) {
	return role == "hr" && resource == "leave" && action == "approve", nil
}

func (m *mockService) ListPolicies() ([]PolicyResponse, error) {
	return []PolicyResponse{{Role: "hr", Resource: "leave", Action: "approve"}}, nil
}

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(&mockService{})
	router := gin.New()
	router.POST("/rbac/enforce", handler.Enforce)

	t.Run("allowed", func(t *testing.T) {
		b, _ := json.Marshal(EnforceRequest{Role: "hr", Resource: "leave", Action: "approve"})
		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(b))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var res struct {
			Data EnforceResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.True(t, res.Data.Allowed)
	})

	t.Run("unknown role fails validation", func(t *testing.T) {
		b, _ := json.Marshal(EnforceRequest{Role: "owner", Resource: "leave", Action: "approve"})
		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(b))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Reload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &mockService{}
	router := gin.New()
	router.POST("/rbac/reload", NewHandler(svc).Reload)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/rbac/reload", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.reloads)
}
