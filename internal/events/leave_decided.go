package events

import "time"

const (
	LeaveDecisionTopic = "hr.leave.decision.v1"
	EventLeaveApproved = "leave_approved"
	EventLeaveRejected = "leave_rejected"
)

type LeaveBalanceSnapshot struct {
	PaidLeave   int `json:"paid_leave"`
	SickLeave   int `json:"sick_leave"`
	UnpaidLeave int `json:"unpaid_leave"`
}

// LeaveDecidedEvent is emitted in the same transaction as the decision.
// It is self-contained so consumers never read back from the database.
type LeaveDecidedEvent struct {
	EventType      string                `json:"event_type"`
	RequestID      string                `json:"request_id,omitempty"`
	LeaveID        string                `json:"leave_id"`
	EmployeeID     string                `json:"employee_id"`
	EmployeeName   string                `json:"employee_name"`
	RecipientEmail string                `json:"recipient_email"`
	LeaveType      string                `json:"leave_type"`
	StartDate      string                `json:"start_date"`
	EndDate        string                `json:"end_date"`
	NumberOfDays   int                   `json:"number_of_days"`
	Status         string                `json:"status"`
	Comments       string                `json:"comments"`
	DecidedBy      string                `json:"decided_by"`
	Balance        *LeaveBalanceSnapshot `json:"balance,omitempty"`
	OccurredAt     time.Time             `json:"occurred_at"`
}
