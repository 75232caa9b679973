package identity_test

import (
	"net/http/httptest"
	"testing"

	"dayflow/internal/identity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPrincipal(t *testing.T) {
	employee := identity.Principal{UserID: "u-1", EmployeeID: "E-1", Role: identity.RoleEmployee}
	hr := identity.Principal{UserID: "u-2", EmployeeID: "e-2", Role: identity.RoleHR}
	admin := identity.Principal{UserID: "u-3", Role: identity.RoleAdmin}

	assert.False(t, employee.IsPrivileged())
	assert.True(t, hr.IsPrivileged())
	assert.True(t, admin.IsPrivileged())
	assert.True(t, admin.IsAdmin())
	assert.False(t, hr.IsAdmin())

	assert.True(t, employee.Owns("e-1"))
	assert.False(t, employee.Owns("e-2"))
	assert.False(t, admin.Owns(""))
}

func TestRoles(t *testing.T) {
	assert.Equal(t, "hr", identity.NormalizeRole(" HR "))
	assert.True(t, identity.ValidRole("admin"))
	assert.False(t, identity.ValidRole("owner"))
}

func TestFromGin(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := identity.FromGin(c)
	assert.False(t, ok)

	identity.SetPrincipal(c, identity.Principal{UserID: "u-1", EmployeeID: "e-1", Role: identity.RoleHR})

	p, ok := identity.FromGin(c)
	assert.True(t, ok)
	assert.Equal(t, "e-1", p.EmployeeID)
	assert.Equal(t, "hr", c.GetString("role"))
}
