package postgres

import "time"

type userRow struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	Designation       string
	Status            string
	RegistrationDate  time.Time
	LastLoginTime     *time.Time
	VerificationToken *string
}
