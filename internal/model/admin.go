package model

import "time"

// Admin represents an administrator record in the `admins` table.
// Exactly one admin is guaranteed to exist after process start: the
// bootstrap seeds a default record when the table is empty.
type Admin struct {
	ID           uint64    // admins.id
	Username     string    // admins.username (unique)
	PasswordHash string    // admins.password_hash
	Email        string    // admins.email (optional)
	CreatedAt    time.Time // admins.created_at
}

// Role values carried in the session token's "role" claim.  A single role
// enumeration is resolved once at authentication time; authorization
// decisions downstream look only at the claim.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
