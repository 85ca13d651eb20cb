package domain

import (
	"encoding/json"
	"strings"
)

// Role is the canonical role of a storefront user
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleCustomer         Role = "customer"
	RoleStaff            Role = "staff"
	RoleWarehouseManager Role = "warehouse_manager"
)

// Roles lists every canonical role
var Roles = []Role{RoleAdmin, RoleCustomer, RoleStaff, RoleWarehouseManager}

// roleIDs maps the numeric role_id used by the backend
var roleIDs = map[int64]Role{
	1: RoleAdmin,
	2: RoleWarehouseManager,
	3: RoleCustomer,
	4: RoleStaff,
}

var dashboards = map[Role]string{
	RoleAdmin:            "/dashboard/admin",
	RoleStaff:            "/dashboard/staff",
	RoleWarehouseManager: "/dashboard/warehouse",
	RoleCustomer:         "/dashboard/customer",
}

// LoginPath is where unauthenticated visitors are sent
const LoginPath = "/login"

// DashboardPath returns the canonical landing page for a role
func DashboardPath(r Role) string {
	if p, ok := dashboards[r]; ok {
		return p
	}
	return dashboards[RoleCustomer]
}

// Valid reports whether r is one of the canonical roles
func (r Role) Valid() bool {
	_, ok := dashboards[r]
	return ok
}

// ParseRole normalises a role label. Case, surrounding space, inner spaces
// and hyphens are ignored; "warehouse" is accepted for the warehouse manager.
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	if s == "warehouse" {
		return RoleWarehouseManager, true
	}
	r := Role(s)
	return r, r.Valid()
}

// RoleFromID maps the backend's numeric role_id
func RoleFromID(id int64) (Role, bool) {
	r, ok := roleIDs[id]
	return r, ok
}

// RoleFields are the user attributes the backend may use to express a role
type RoleFields struct {
	Role     json.RawMessage `json:"role"`
	RoleID   *Int            `json:"role_id"`
	UserType *string         `json:"user_type"`
	Type     *string         `json:"type"`
}

// ResolveRole picks the canonical role: role, then role_id, then user_type,
// then type, then customer. Fields that are absent or unrecognised fall
// through.
func ResolveRole(f RoleFields) Role {
	if r, ok := roleFromRaw(f.Role); ok {
		return r
	}
	if f.RoleID != nil {
		if r, ok := RoleFromID(int64(*f.RoleID)); ok {
			return r
		}
	}
	if f.UserType != nil {
		if r, ok := ParseRole(*f.UserType); ok {
			return r
		}
	}
	if f.Type != nil {
		if r, ok := ParseRole(*f.Type); ok {
			return r
		}
	}
	return RoleCustomer
}

// roleFromRaw accepts "admin" or a relation object {"name":"admin"}
func roleFromRaw(raw json.RawMessage) (Role, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseRole(s)
	}
	var obj struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	if r, ok := ParseRole(obj.Slug); ok {
		return r, true
	}
	return ParseRole(obj.Name)
}

// UserPayload is the upstream user resource before role resolution
type UserPayload struct {
	ID    Int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	RoleFields
}

// User converts the payload into a User with its canonical role
func (p UserPayload) User() *User {
	return &User{
		ID:    uint(p.ID),
		Name:  p.Name,
		Email: p.Email,
		Role:  ResolveRole(p.RoleFields),
	}
}
