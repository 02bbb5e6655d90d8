package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/plantora/plant-shop-backend/internal/model"
)

// SignInLogRepo appends authentication events to the `sign_in_logs` table.
// The table is append-only: nothing in the application updates or deletes
// rows.
type SignInLogRepo struct{ DB *sql.DB }

func NewSignInLogRepo(db *sql.DB) *SignInLogRepo { return &SignInLogRepo{DB: db} }

// Insert appends one entry.  A zero loginTime defers to the column default.
func (r *SignInLogRepo) Insert(ctx context.Context, username, role, ip, userAgent string, loginTime time.Time) error {
	if loginTime.IsZero() {
		_, err := r.DB.ExecContext(ctx,
			"INSERT INTO sign_in_logs (username, role, ip_address, user_agent) VALUES (?,?,?,?)",
			username, role, ip, userAgent)
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sign_in_logs (username, role, ip_address, user_agent, login_time) VALUES (?,?,?,?,?)",
		username, role, ip, userAgent, loginTime.UTC())
	return err
}

// ListByRole returns entries with the given role, newest first.  An empty
// result is success, not an error.
func (r *SignInLogRepo) ListByRole(ctx context.Context, role string) ([]model.SignInLog, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, username, role, COALESCE(ip_address,''), COALESCE(user_agent,''), login_time FROM sign_in_logs WHERE role=? ORDER BY login_time DESC, id DESC",
		role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.SignInLog{}
	for rows.Next() {
		var e model.SignInLog
		if err := rows.Scan(&e.ID, &e.Username, &e.Role, &e.IPAddress, &e.UserAgent, &e.LoginTime); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
