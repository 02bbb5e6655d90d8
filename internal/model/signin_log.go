package model

import "time"

// SignInLog is one append-only row of the `sign_in_logs` table.  Entries
// are written after a successful authentication and are never updated or
// deleted by the application.
type SignInLog struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	LoginTime time.Time `json:"loginTime"`
}
