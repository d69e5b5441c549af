package domain

import (
	"strings"
	"time"
)

// AccountRole enumerates the access levels an account can hold.
type AccountRole string

const (
	// RoleAdmin grants full access to administration endpoints.
	RoleAdmin AccountRole = "admin"
	// RoleMember is the default role for approved members.
	RoleMember AccountRole = "member"
)

// Valid reports whether the role is one of the known values.
func (r AccountRole) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Account represents a registered member of the association.
//
// Accounts are created inactive and become active once an administrator
// approves them. The email is the unique login identifier.
type Account struct {
	ID               string
	Email            string
	FirstName        string
	LastName         string
	PasswordHash     string
	Role             AccountRole
	Active           bool
	CGUAccepted      bool
	TwoFactorEnabled bool
	Birthdate        *time.Time
	Phone            *string
	StripeCustomerID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FullName returns the display name used in emails and receipts.
func (a Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// IsAdmin reports whether the account holds the administrator role.
func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// NormalizeEmail lowercases and trims an email so lookups are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
