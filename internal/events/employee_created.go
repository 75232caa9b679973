package events

import "time"

const (
	EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"
	EventEmployeeCreated   = "employee_created"
)

// EmployeeCreatedEvent drives the welcome email. It carries the login id
// only; the temporary password is never put on the bus.
type EmployeeCreatedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	EmployeeID  string    `json:"employee_id"`
	UserID      string    `json:"user_id"`
	LoginID     string    `json:"login_id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	CompanyName string    `json:"company_name"`
	OccurredAt  time.Time `json:"occurred_at"`
}
