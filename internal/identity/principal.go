package identity

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	RoleEmployee = "employee"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

const principalKey = "principal"

// Principal is the authenticated caller. Workflows receive it explicitly and
// never read authentication state on their own.
type Principal struct {
	UserID     string
	EmployeeID string
	Role       string
}

// IsPrivileged reports whether the caller may act on other employees' records.
func (p Principal) IsPrivileged() bool {
	return p.Role == RoleHR || p.Role == RoleAdmin
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Owns reports whether employeeID is the caller's own employee record.
func (p Principal) Owns(employeeID string) bool {
	return p.EmployeeID != "" && strings.EqualFold(p.EmployeeID, employeeID)
}

func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

func ValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleHR, RoleAdmin:
		return true
	default:
		return false
	}
}

func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
	c.Set("user_id", p.UserID)
	c.Set("employee_id", p.EmployeeID)
	c.Set("role", p.Role)
}

func FromGin(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok && p.UserID != ""
}
