package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"dayflow/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		err := apperror.New(apperror.CodeConflict, "already exists", http.StatusConflict)

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusConflict, got.Status)
		assert.Equal(t, apperror.CodeConflict, got.Code)
		assert.Equal(t, "already exists", got.Message)
	})

	t.Run("wrapped app error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("service: %w", apperror.ErrForbidden)

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusForbidden, got.Status)
		assert.Equal(t, apperror.CodeForbidden, got.Code)
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection reset"))

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.NotContains(t, got.Message, "connection reset")
	})
}

func TestAppError_Is(t *testing.T) {
	sentinel := apperror.New(apperror.CodeNotFound, "leave not found", http.StatusNotFound)

	assert.True(t, errors.Is(sentinel.WithCause(errors.New("record not found")), sentinel))
	assert.True(t, errors.Is(sentinel.WithDetails("x"), sentinel))
	assert.False(t, errors.Is(apperror.ErrNotFound, sentinel))
}

type sample struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Reason     string `json:"reason" validate:"min=10"`
}

func TestMapValidationError(t *testing.T) {
	v := validator.New()

	t.Run("required field", func(t *testing.T) {
		err := v.Struct(sample{Reason: "long enough reason"})

		got := apperror.MapValidationError(err)

		assert.Equal(t, apperror.CodeInvalidInput, got.Code)
		assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
		assert.Contains(t, got.Message, "is required")
	})

	t.Run("invalid field", func(t *testing.T) {
		err := v.Struct(sample{EmployeeID: "e-1", Reason: "short"})

		got := apperror.MapValidationError(err)

		assert.Contains(t, got.Message, "is invalid")
	})

	t.Run("non validator error", func(t *testing.T) {
		got := apperror.MapValidationError(errors.New("EOF"))

		assert.Equal(t, "Invalid input", got.Message)
	})
}
