package domain

import "time"

// CodePurpose tags a pending one-time code with the flow that issued it.
//
// Purposes keep concurrent flows apart: a password reset requested while a
// login OTP is outstanding cannot clobber the login code.
type CodePurpose string

const (
	CodePurposeLoginOTP       CodePurpose = "login_otp"
	CodePurposePasswordReset  CodePurpose = "password_reset"
	CodePurposePasswordSetup  CodePurpose = "password_setup"
	CodePurposeTwoFactorSetup CodePurpose = "twofactor_setup"
)

// PendingCode is a single-use, time-bound secret bound to an account email
// for exactly one purpose.
type PendingCode struct {
	Purpose   CodePurpose
	Email     string
	Code      string
	Attempts  int
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the code is past its validity window.
func (c PendingCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
