package leave

// Balance is the per-employee leave ledger. It lives on the employee row
// and is only changed by an approval.
type Balance struct {
	PaidLeave   int `gorm:"column:paid_leave;not null;default:12" json:"paid_leave"`
	SickLeave   int `gorm:"column:sick_leave;not null;default:6" json:"sick_leave"`
	UnpaidLeave int `gorm:"column:unpaid_leave;not null;default:0" json:"unpaid_leave"`
}

// CheckSufficient gates submission. Paid and sick leave only need a
// positive counter, not one that covers requestedDays; unpaid and casual
// are never checked.
func CheckSufficient(b Balance, leaveType string, requestedDays int) bool {
	switch leaveType {
	case TypePaid:
		return b.PaidLeave > 0
	case TypeSick:
		return b.SickLeave > 0
	default:
		return true
	}
}

// Debit subtracts days from the counter matching leaveType and reports
// whether a counter changed. Casual leave has no counter. Counters may go
// negative.
func (b *Balance) Debit(leaveType string, days int) bool {
	switch leaveType {
	case TypePaid:
		b.PaidLeave -= days
	case TypeSick:
		b.SickLeave -= days
	case TypeUnpaid:
		b.UnpaidLeave -= days
	default:
		return false
	}
	return true
}
