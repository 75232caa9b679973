package employee_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dayflow/internal/employee"
	employeeerrors "dayflow/internal/employee/errors"
	employeeMock "dayflow/internal/employee/mock"
	"dayflow/internal/identity"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	Ok   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
	Meta *struct {
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestContext(method, target, body string, p *identity.Principal) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if p != nil {
		identity.SetPrincipal(c, *p)
	}
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestEmployeeHandler_Create(t *testing.T) {
	hr := identity.Principal{UserID: uuid.NewString(), Role: identity.RoleHR}
	body := `{"name":"Aisha Khan","email":"aisha.khan@dayflow.test","phone":"9876543210","role":"employee","designation":"Data Analyst","department":"Analytics"}`

	t.Run("success returns credentials", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		svc.EXPECT().Create(gomock.Any(), hr, gomock.Any()).
			DoAndReturn(func(_ any, _ identity.Principal, req employee.CreateEmployeeRequest) (employee.CreateEmployeeResult, error) {
				assert.Equal(t, "Aisha Khan", req.Name)
				return employee.CreateEmployeeResult{
					Employee:         employee.EmployeeResponse{ID: uuid.NewString(), FullName: "Aisha Khan"},
					LoginCredentials: employee.LoginCredentials{LoginID: "DAAK2026001", Password: "Xy7@abcdEFGH"},
				}, nil
			})

		c, w := newTestContext(http.MethodPost, "/api/v1/employees", body, &hr)
		employee.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decode(t, w)
		assert.True(t, env.Ok)
		assert.Contains(t, string(env.Data), "DAAK2026001")
	})

	t.Run("validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)

		c, w := newTestContext(http.MethodPost, "/api/v1/employees", `{"name":"Aisha Khan","email":"not-an-email"}`, &hr)
		employee.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		svc.EXPECT().Create(gomock.Any(), hr, gomock.Any()).
			Return(employee.CreateEmployeeResult{}, employeeerrors.ErrEmployeeAlreadyExists)

		c, w := newTestContext(http.MethodPost, "/api/v1/employees", body, &hr)
		employee.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "CONFLICT", decode(t, w).Error.Code)
	})

	t.Run("missing principal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)

		c, w := newTestContext(http.MethodPost, "/api/v1/employees", body, nil)
		employee.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := employeeMock.NewMockService(ctrl)
	hr := identity.Principal{UserID: uuid.NewString(), Role: identity.RoleHR}

	svc.EXPECT().GetAll(gomock.Any(), hr, employee.ListQuery{Search: "khan", Page: 2, Limit: 5}).
		Return(employee.ListResult{
			Items: []employee.EmployeeResponse{{FullName: "Aisha Khan"}},
			Total: 6, Page: 2, Limit: 5,
		}, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/employees?search=khan&page=2&limit=5", "", &hr)
	employee.NewHandler(svc).GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(6), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.TotalPages)
}

func TestEmployeeHandler_Update(t *testing.T) {
	id := uuid.NewString()
	self := identity.Principal{UserID: uuid.NewString(), EmployeeID: id, Role: identity.RoleEmployee}

	t.Run("restricted fields are forbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		svc.EXPECT().Update(gomock.Any(), self, id, gomock.Any()).
			Return(employee.EmployeeResponse{}, employeeerrors.ErrRestrictedFields)

		c, w := newTestContext(http.MethodPut, "/api/v1/employees/"+id, `{"designation":"CTO"}`, &self)
		c.Params = gin.Params{{Key: "id", Value: id}}
		employee.NewHandler(svc).Update(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("invalid status value", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)

		c, w := newTestContext(http.MethodPut, "/api/v1/employees/"+id, `{"status":"retired"}`, &self)
		c.Params = gin.Params{{Key: "id", Value: id}}
		employee.NewHandler(svc).Update(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEmployeeHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := employeeMock.NewMockService(ctrl)
	admin := identity.Principal{UserID: uuid.NewString(), Role: identity.RoleAdmin}
	id := uuid.NewString()

	svc.EXPECT().Delete(gomock.Any(), admin, id).Return(employeeerrors.ErrEmployeeNotFound)

	c, w := newTestContext(http.MethodDelete, "/api/v1/employees/"+id, "", &admin)
	c.Params = gin.Params{{Key: "id", Value: id}}
	employee.NewHandler(svc).Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w).Error.Code)
}
