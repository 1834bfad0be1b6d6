package models

import "time"

type AccountRole string

const (
	AccountRoleUser  AccountRole = "user"
	AccountRoleAdmin AccountRole = "admin"
)

// Account is a persisted identity. Salt and PasswordHash are internal only
// and must never appear in an outward-facing representation; handlers build
// explicit response structs instead of serializing Account directly.
type Account struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Profile      string      `json:"profile"`
	About        string      `json:"about"`
	Salt         string      `json:"salt"`
	PasswordHash string      `json:"passwordHash"`
	Role         AccountRole `json:"role"`
	// ResetToken is non-empty only while a password reset is in flight;
	// at most one live reset per account.
	ResetToken string    `json:"resetToken"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
