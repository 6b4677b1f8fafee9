package models

import "time"

// User represents a row of the users_react table.
// PasswordHash holds an unsalted sha256 hex digest and is never serialized;
// ResetToken/ResetExpires back the self-service password recovery flow.
type User struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	Email        *string    `json:"email"`
	Name         *string    `json:"name"`
	Role         string     `json:"role"`
	PasswordHash string     `json:"-"`
	ResetToken   *string    `json:"-"`
	ResetExpires *time.Time `json:"-"`
}
