// Package queue defines message payloads exchanged over the message broker.
package queue

// SignInQueueName is the durable queue carrying authentication events.
const SignInQueueName = "signin.recorded"

// SignInEvent is published after a successful sign-in (user or admin).
// It carries everything the audit consumer needs to append a log row
// without querying back the primary database.  LoginTime is RFC3339 UTC.
type SignInEvent struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	LoginTime string `json:"login_time"`
}
