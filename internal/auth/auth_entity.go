package auth

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeID             *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	LoginID                string     `gorm:"type:varchar(32);uniqueIndex;not null"`
	Email                  string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password               string     `gorm:"type:varchar(255);not null"`
	Role                   string     `gorm:"type:varchar(20);not null;default:'employee'"`
	PasswordChangeRequired bool       `gorm:"not null;default:false"`
	IsActive               bool       `gorm:"not null;default:true"`
	LastLoginAt            *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (User) TableName() string {
	return "users"
}

func (u *User) employeeIDString() string {
	if u.EmployeeID == nil {
		return ""
	}
	return u.EmployeeID.String()
}
