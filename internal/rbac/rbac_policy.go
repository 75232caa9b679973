package rbac

import "dayflow/internal/identity"

// DefaultPolicy is seeded into role_permissions when the table is empty.
// Ownership rules (an employee may only touch their own records) are
// enforced by the services; this table only gates routes.
var DefaultPolicy = []RolePermissionRow{
	{Role: identity.RoleEmployee, Resource: "leave", Action: "create"},
	{Role: identity.RoleEmployee, Resource: "leave", Action: "read"},
	{Role: identity.RoleEmployee, Resource: "leave", Action: "delete"},
	{Role: identity.RoleEmployee, Resource: "attendance", Action: "create"},
	{Role: identity.RoleEmployee, Resource: "attendance", Action: "read"},
	{Role: identity.RoleEmployee, Resource: "employee", Action: "read"},
	{Role: identity.RoleEmployee, Resource: "employee", Action: "update"},
	{Role: identity.RoleEmployee, Resource: "salary", Action: "read"},

	{Role: identity.RoleHR, Resource: "leave", Action: "create"},
	{Role: identity.RoleHR, Resource: "leave", Action: "read"},
	{Role: identity.RoleHR, Resource: "leave", Action: "approve"},
	{Role: identity.RoleHR, Resource: "leave", Action: "delete"},
	{Role: identity.RoleHR, Resource: "attendance", Action: "create"},
	{Role: identity.RoleHR, Resource: "attendance", Action: "read"},
	{Role: identity.RoleHR, Resource: "attendance", Action: "manage"},
	{Role: identity.RoleHR, Resource: "employee", Action: "create"},
	{Role: identity.RoleHR, Resource: "employee", Action: "read"},
	{Role: identity.RoleHR, Resource: "employee", Action: "update"},
	{Role: identity.RoleHR, Resource: "salary", Action: "read"},
	{Role: identity.RoleHR, Resource: "salary", Action: "manage"},

	{Role: identity.RoleAdmin, Resource: "employee", Action: "delete"},
	{Role: identity.RoleAdmin, Resource: "rbac", Action: "read"},
	{Role: identity.RoleAdmin, Resource: "rbac", Action: "manage"},
}
