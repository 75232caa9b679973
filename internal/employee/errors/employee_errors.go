package employeeerrors

import (
	"net/http"

	"dayflow/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"This email is already registered. Please use a different email address.",
		http.StatusConflict,
	)
	ErrLoginIDAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Generated login ID already exists, please retry",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidJoiningDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid joining_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrMissingRequiredFields = apperror.New(
		apperror.CodeInvalidInput,
		"Please provide all required fields",
		http.StatusBadRequest,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to manage this employee",
		http.StatusForbidden,
	)
	ErrRestrictedFields = apperror.New(
		apperror.CodeForbidden,
		"Employees may only update their phone and address",
		http.StatusForbidden,
	)
)
