package salaryerrors

import (
	"net/http"

	"dayflow/internal/shared/apperror"
)

var (
	ErrSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary structure not found",
		http.StatusNotFound,
	)
	ErrSalaryAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Salary structure already exists for this employee",
		http.StatusConflict,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID    = apperror.InvalidField("employee_id")
	ErrInvalidEffectiveDate = apperror.InvalidField("effective_from")
	ErrBasicSalaryRequired  = apperror.New(
		apperror.CodeInvalidInput,
		"Basic salary is required",
		http.StatusBadRequest,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Salary amounts cannot be negative",
		http.StatusBadRequest,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"Access denied",
		http.StatusForbidden,
	)
)
