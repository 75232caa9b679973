package notification

import (
	"errors"
	"fmt"
	"strings"

	"dayflow/internal/events"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrNoRecipient = errors.New("notification recipient is required")

var title = cases.Title(language.English)

func leaveTypeLabel(t string) string {
	return title.String(strings.ReplaceAll(t, "_", " "))
}

func ForLeaveDecision(e events.LeaveDecidedEvent) (Notification, error) {
	var (
		kind    string
		outcome string
	)
	switch e.EventType {
	case events.EventLeaveApproved:
		kind, outcome = KindLeaveApproved, "approved"
	case events.EventLeaveRejected:
		kind, outcome = KindLeaveRejected, "rejected"
	default:
		return Notification{}, fmt.Errorf("unsupported leave event type %q", e.EventType)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", e.EmployeeName)
	fmt.Fprintf(&b, "Your %s request from %s to %s (%d day(s)) has been %s.\n",
		leaveTypeLabel(e.LeaveType), e.StartDate, e.EndDate, e.NumberOfDays, outcome)
	if e.Comments != "" {
		fmt.Fprintf(&b, "Comments: %s\n", e.Comments)
	}
	if e.Balance != nil {
		fmt.Fprintf(&b, "\nRemaining balance: paid %d, sick %d, unpaid %d.\n",
			e.Balance.PaidLeave, e.Balance.SickLeave, e.Balance.UnpaidLeave)
	}

	return Notification{
		Recipient: e.RecipientEmail,
		Kind:      kind,
		Subject:   fmt.Sprintf("Leave request %s", outcome),
		Body:      b.String(),
		Payload: map[string]any{
			"leave_id":    e.LeaveID,
			"employee_id": e.EmployeeID,
			"status":      e.Status,
		},
	}, nil
}

func ForEmployeeCreated(e events.EmployeeCreatedEvent) Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome to %s, %s!\n\n", e.CompanyName, e.FullName)
	fmt.Fprintf(&b, "Your login ID is %s. Use the temporary password shared by HR to sign in; you will be asked to change it.\n", e.LoginID)

	return Notification{
		Recipient: e.Email,
		Kind:      KindWelcome,
		Subject:   fmt.Sprintf("Welcome to %s", e.CompanyName),
		Body:      b.String(),
		Payload: map[string]any{
			"employee_id": e.EmployeeID,
			"login_id":    e.LoginID,
		},
	}
}
