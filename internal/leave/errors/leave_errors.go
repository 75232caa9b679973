package leaveerrors

import (
	"net/http"

	"dayflow/internal/shared/apperror"
)

// Validation
var (
	ErrMissingFields = apperror.New(
		apperror.CodeInvalidInput,
		"Please provide all required fields",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type must be one of paid, sick, unpaid, casual",
		http.StatusBadRequest,
	)
	ErrReasonTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"Reason must be at least 10 characters",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD or RFC3339",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"End date must be after start date",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
)

// Balance
var (
	ErrInsufficientPaidLeave = apperror.New(
		apperror.CodeInsufficientBalance,
		"Insufficient paid leave balance",
		http.StatusBadRequest,
	)
	ErrInsufficientSickLeave = apperror.New(
		apperror.CodeInsufficientBalance,
		"Insufficient sick leave balance",
		http.StatusBadRequest,
	)
)

// Lookup and access
var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"Access denied",
		http.StatusForbidden,
	)
)

// Transitions
var (
	ErrApproveNotPending = apperror.New(
		apperror.CodeInvalidState,
		"Only pending leaves can be approved",
		http.StatusConflict,
	)
	ErrRejectNotPending = apperror.New(
		apperror.CodeInvalidState,
		"Only pending leaves can be rejected",
		http.StatusConflict,
	)
	ErrDeleteNotPending = apperror.New(
		apperror.CodeInvalidState,
		"Can only delete pending leaves",
		http.StatusConflict,
	)
)

// IsInvalidTransition reports whether err is one of the transition errors above.
func IsInvalidTransition(err error) bool {
	httpErr := apperror.ToHTTP(err)
	return httpErr.Code == apperror.CodeInvalidState
}
