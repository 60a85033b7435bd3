package model

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles a user can hold. Comparisons are exact;
// case is normalized once at the boundary by ParseRole.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleInstructor Role = "Instructor"
	RoleStudent    Role = "Student"
)

// Roles lists every valid role, in seed order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleInstructor, RoleStudent}
}

// ParseRole normalizes a role name and rejects anything outside the closed
// set.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "instructor":
		return RoleInstructor, nil
	case "student":
		return RoleStudent, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// String returns the canonical role name.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is a member of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return true
	}
	return false
}
