// Package auth holds the principal model and the session-credential scheme
// every protected surface of the back office depends on.
package auth

import (
	"errors"
	"strings"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"

	MethodPassword = "password"
)

// ErrInvalidCredentials covers every ordinary login failure: unknown email,
// wrong password, deactivated account. Callers must not distinguish them.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Principal is the read-only projection of an account the rest of the app
// sees. It never carries the password hash.
type Principal struct {
	UserID int64
	Email  string
	Name   string
	Role   string // "admin" or "staff"
	Method string // "password" now; "oidc" later
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// KnownRole reports whether role is part of the closed role enum.
func KnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleStaff:
		return true
	default:
		return false
	}
}
