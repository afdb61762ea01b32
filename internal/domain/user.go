package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated account. PasswordHash is sha256(salt + ":" +
// password) hex-encoded; Salt is a per-user random value.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Salt         string     `json:"-"`
	Email        string     `json:"email,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"` // nil before first login
}
