package domain

import "time"

// User is an account owned by the auth subsystem. Preferences reference it by
// ID and are removed with it.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        *string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
