package domain

import "time"

// Status is the account lifecycle state.
// unverified -> active happens only through email verification.
// Any status can be set to blocked (and back to active) by bulk admin actions.
type Status string

const (
	StatusUnverified Status = "unverified"
	StatusActive     Status = "active"
	StatusBlocked    Status = "blocked"
)

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusUnverified, StatusActive, StatusBlocked:
		return true
	}
	return false
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Designation  string
	Status       Status

	RegistrationDate time.Time
	LastLoginTime    *time.Time

	// Set at registration, cleared exactly once when the email is verified.
	VerificationToken *string
}

func (u User) Blocked() bool { return u.Status == StatusBlocked }
