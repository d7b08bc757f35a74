package entities

import (
	"strings"
	"time"
)

// User is a credential record in the login store
type User struct {
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"password"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at" bson:"created_at,omitempty"`
}

// NewUser creates a new credential record
func NewUser(username, passwordHash string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}

// Validate validates user data
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrInvalidUsername
	}
	if u.PasswordHash == "" {
		return ErrInvalidPassword
	}
	return nil
}
