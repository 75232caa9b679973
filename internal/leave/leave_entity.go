package leave

import (
	"strings"
	"time"
	"unicode/utf8"

	leaveerrors "dayflow/internal/leave/errors"

	"github.com/google/uuid"
)

const (
	TypePaid   = "paid"
	TypeSick   = "sick"
	TypeUnpaid = "unpaid"
	TypeCasual = "casual"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	minReasonLength       = 10
	defaultRejectComments = "Leave rejected"
)

type Leave struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_applied"`
	EmployeeName string    `gorm:"type:varchar(255);not null"`
	LeaveType    string    `gorm:"type:varchar(20);not null"`
	StartDate    time.Time `gorm:"type:date;not null"`
	EndDate      time.Time `gorm:"type:date;not null"`
	NumberOfDays int       `gorm:"not null"`
	Reason       string    `gorm:"type:text;not null"`
	Attachment   *string   `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_status"`

	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	ApprovedDate *time.Time
	Comments     *string `gorm:"type:text"`

	AppliedDate time.Time `gorm:"not null;index:idx_leave_requests_employee_applied"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Leave) TableName() string {
	return "leave_requests"
}

// EmployeeRef is the slice of the employees table the workflow reads and
// debits.
type EmployeeRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid"`
	FirstName string
	LastName  string
	Email     string
	Balance   Balance `gorm:"embedded"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

func (e EmployeeRef) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Decision is the terminal transition written by approve or reject.
type Decision struct {
	Status       string
	ApprovedBy   uuid.UUID
	ApprovedDate time.Time
	Comments     string
}

func IsValidType(t string) bool {
	switch t {
	case TypePaid, TypeSick, TypeUnpaid, TypeCasual:
		return true
	default:
		return false
	}
}

// NewLeave builds a pending request. The date order is checked first so a
// reversed range is reported as such whatever else is wrong.
func NewLeave(
	employeeID uuid.UUID,
	employeeName, leaveType string,
	startDate, endDate time.Time,
	reason string,
	attachment *string,
	appliedAt time.Time,
) (*Leave, error) {
	if startDate.IsZero() || endDate.IsZero() {
		return nil, leaveerrors.ErrMissingFields
	}
	startDate, endDate = truncateDate(startDate), truncateDate(endDate)
	if endDate.Before(startDate) {
		return nil, leaveerrors.ErrInvalidDateRange
	}
	if employeeID == uuid.Nil || leaveType == "" || strings.TrimSpace(reason) == "" {
		return nil, leaveerrors.ErrMissingFields
	}
	if !IsValidType(leaveType) {
		return nil, leaveerrors.ErrInvalidLeaveType
	}
	if utf8.RuneCountInString(strings.TrimSpace(reason)) < minReasonLength {
		return nil, leaveerrors.ErrReasonTooShort
	}

	l := &Leave{
		ID:           uuid.New(),
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		LeaveType:    leaveType,
		StartDate:    startDate,
		EndDate:      endDate,
		Reason:       strings.TrimSpace(reason),
		Attachment:   attachment,
		Status:       StatusPending,
		AppliedDate:  appliedAt.UTC(),
	}
	l.RecomputeDays()
	return l, nil
}

// RecomputeDays must be called after StartDate or EndDate change.
func (l *Leave) RecomputeDays() {
	l.NumberOfDays = InclusiveDays(l.StartDate, l.EndDate)
}

func (l *Leave) IsPending() bool {
	return l.Status == StatusPending
}

// apply mirrors a persisted decision onto the in-memory request.
func (l *Leave) apply(d Decision) {
	approver := d.ApprovedBy
	decidedAt := d.ApprovedDate
	comments := d.Comments
	l.Status = d.Status
	l.ApprovedBy = &approver
	l.ApprovedDate = &decidedAt
	l.Comments = &comments
}
