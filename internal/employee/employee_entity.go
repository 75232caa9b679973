package employee

import (
	"strings"
	"time"

	"dayflow/internal/leave"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Employee struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	FirstName   string    `gorm:"type:varchar(100);not null"`
	LastName    string    `gorm:"type:varchar(100);not null"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone       string    `gorm:"type:varchar(32);not null"`
	Designation string    `gorm:"type:varchar(100)"`
	Department  string    `gorm:"type:varchar(100);index"`
	JoiningDate time.Time `gorm:"type:date;not null"`
	CompanyName string    `gorm:"type:varchar(255);not null"`
	Address     *string   `gorm:"type:text"`
	Status      string    `gorm:"type:varchar(20);not null;default:'active'"`

	Balance leave.Balance `gorm:"embedded"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string {
	return "employees"
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// SplitName takes the first word as the first name and the rest as the
// last name. A single word is used for both.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], parts[0]
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
