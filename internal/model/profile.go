package model

import "time"

// UserID is the identity issued by the auth service
type UserID string

// UserProfile is the self-managed profile of an authenticated user
type UserProfile struct {
	UserID    UserID
	Name      string
	Position  Position
	PhotoURL  string
	Email     string
	UpdatedAt time.Time
}

// Account holds login credentials.
// Stored separately from the profile so the hash never travels with it.
type Account struct {
	UserID       UserID
	Email        string // normalised to lower case
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}
