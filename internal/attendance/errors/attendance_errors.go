package attendanceerrors

import (
	"net/http"

	"dayflow/internal/shared/apperror"
)

var (
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeConflict,
		"Already checked in today",
		http.StatusConflict,
	)
	ErrNotCheckedIn = apperror.New(
		apperror.CodeInvalidState,
		"Please check in first",
		http.StatusConflict,
	)
	ErrAlreadyCheckedOut = apperror.New(
		apperror.CodeInvalidState,
		"Already checked out",
		http.StatusConflict,
	)
	ErrNoEmployeeProfile = apperror.New(
		apperror.CodeNotFound,
		"No employee record is linked to this account",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be present, absent, half-day or leave",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"from must not be after to",
		http.StatusBadRequest,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to access this attendance",
		http.StatusForbidden,
	)
)
