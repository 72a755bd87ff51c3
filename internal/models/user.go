package models

import "time"

// User represents a registered user account.
type User struct {
	// ID is the unique, immutable identifier for the user.
	ID int64 `json:"id"`

	// Username is the display name of the user. Not required to be unique.
	Username string `json:"username"`

	// Email is the user's email address (unique).
	// Used for login.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is when the user account was created.
	CreatedAt time.Time `json:"created_at"`
}

// NewUser creates a user that has not been persisted yet.
func NewUser(username, email, passwordHash string) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}
