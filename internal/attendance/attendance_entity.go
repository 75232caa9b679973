package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusHalfDay = "half-day"
	StatusLeave   = "leave"
)

// halfDayThreshold is the minimum worked time for a full present day.
const halfDayThreshold = 4.0

type Attendance struct {
	ID             uuid.UUID    `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID     uuid.UUID    `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	AttendanceDate time.Time    `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	Status         string       `gorm:"column:status;type:varchar(20);not null"`
	CheckIn        *time.Time   `gorm:"column:check_in;type:timestamptz"`
	CheckOut       *time.Time   `gorm:"column:check_out;type:timestamptz"`
	WorkHours      *float64     `gorm:"column:work_hours;type:numeric(5,2)"`
	Remarks        *string      `gorm:"column:remarks;type:text"`
	MarkedBy       *uuid.UUID   `gorm:"column:marked_by;type:uuid"`
	CreatedAt      time.Time    `gorm:"column:created_at"`
	UpdatedAt      time.Time    `gorm:"column:updated_at"`
	Employee       *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendances"
}

type EmployeeRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

// CompleteCheckOut stamps the check-out time, records the worked hours
// rounded to two decimals and downgrades short days to half-day.
func (a *Attendance) CompleteCheckOut(at time.Time) {
	a.CheckOut = &at
	hours := WorkHours(*a.CheckIn, at)
	a.WorkHours = &hours
	if hours < halfDayThreshold {
		a.Status = StatusHalfDay
	}
}

func WorkHours(in, out time.Time) float64 {
	h := decimal.NewFromFloat(out.Sub(in).Hours()).Round(2)
	return h.InexactFloat64()
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay, StatusLeave:
		return true
	default:
		return false
	}
}
