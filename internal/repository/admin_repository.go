package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/plantora/plant-shop-backend/internal/model"
)

// AdminRepo provides lookups over the `admins` table and the startup
// bootstrap that guarantees at least one administrator exists.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// GetByUsername fetches an admin by username.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (model.Admin, error) {
	var a model.Admin
	var email sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,email,created_at FROM admins WHERE username=? LIMIT 1",
		username).Scan(&a.ID, &a.Username, &a.PasswordHash, &email, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	if email.Valid {
		a.Email = email.String
	}
	return a, err
}

// EnsureDefault inserts the default administrator when the username is not
// yet present.  The check and insert are not transactional, so a raced
// duplicate-key insert from a second replica is tolerated as success:
// either way exactly one admin with that username exists afterwards.
func (r *AdminRepo) EnsureDefault(ctx context.Context, username, passwordHash string) error {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM admins WHERE username=? LIMIT 1", username).Scan(&id)
	if err == nil {
		return nil // already seeded
	}
	if err != sql.ErrNoRows {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO admins (username, password_hash) VALUES (?,?)",
		username, passwordHash)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return nil // lost the race, someone else seeded it
	}
	return err
}
