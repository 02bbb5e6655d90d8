package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/plantora/plant-shop-backend/internal/model"
	"github.com/plantora/plant-shop-backend/internal/utils"
)

// AccountRepo provides CRUD operations over accounts together with the
// cart and wishlist lines owned by them.  Cart mutation is expressed as a
// single atomic upsert at the store level so concurrent adds to the same
// account never lose an update.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

const accountCols = "id,name,email,phone,place,password_hash,created_at,updated_at"

func scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Place,
		&a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}

// Create hashes the password and inserts a new account.  The email is
// normalized before the uniqueness check; MySQL error 1062 (duplicate key)
// is translated to ErrEmailExists.
func (r *AccountRepo) Create(ctx context.Context, name, email, phone, place, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO accounts (name, email, phone, place, password_hash) VALUES (?,?,?,?,?)",
		name, email, phone, place, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches an account by normalized email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE email=? LIMIT 1", email))
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	return scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE id=? LIMIT 1", id))
}

// List returns every account projected to the fields the admin directory
// shows.  Password hashes are never selected.
func (r *AccountRepo) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,email,phone,place FROM accounts ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Account{}
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Place); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes an account.  A repeat delete is not idempotent: when no
// row matched, ErrNotFound is returned.  Cart and wishlist lines cascade
// at the schema level; orders deliberately do not.
func (r *AccountRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM accounts WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ----- cart -----

// AddToCart merges a cart line for the account.  The upsert increments the
// quantity of an existing line in a single statement, so concurrent adds
// for the same product cannot race.  The resulting cart is returned.
func (r *AccountRepo) AddToCart(ctx context.Context, accountID uint64, productID string, quantity uint32) ([]model.CartLine, error) {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO cart_items (account_id, product_id, quantity) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		accountID, productID, quantity)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1452") { // missing account
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r.Cart(ctx, accountID)
}

// RemoveFromCart deletes every line matching the product.  Removing an
// absent line is a silent no-op; the resulting (possibly unchanged) cart
// is returned.
func (r *AccountRepo) RemoveFromCart(ctx context.Context, accountID uint64, productID string) ([]model.CartLine, error) {
	if _, err := r.DB.ExecContext(ctx,
		"DELETE FROM cart_items WHERE account_id=? AND product_id=?",
		accountID, productID); err != nil {
		return nil, err
	}
	return r.Cart(ctx, accountID)
}

// Cart lists the account's cart lines.  An empty cart is an empty slice,
// never nil, so it serializes as [].
func (r *AccountRepo) Cart(ctx context.Context, accountID uint64) ([]model.CartLine, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT product_id, quantity FROM cart_items WHERE account_id=? ORDER BY product_id",
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	lines := []model.CartLine{}
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ----- wishlist -----

// AddToWishlist appends a wishlist line unless it already exists.
// INSERT IGNORE makes the dedupe atomic.
func (r *AccountRepo) AddToWishlist(ctx context.Context, accountID uint64, productID string) ([]model.WishlistLine, error) {
	_, err := r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO wishlist_items (account_id, product_id) VALUES (?,?)",
		accountID, productID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1452") {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r.Wishlist(ctx, accountID)
}

// RemoveFromWishlist deletes a wishlist line; absence is a silent no-op.
func (r *AccountRepo) RemoveFromWishlist(ctx context.Context, accountID uint64, productID string) ([]model.WishlistLine, error) {
	if _, err := r.DB.ExecContext(ctx,
		"DELETE FROM wishlist_items WHERE account_id=? AND product_id=?",
		accountID, productID); err != nil {
		return nil, err
	}
	return r.Wishlist(ctx, accountID)
}

// Wishlist lists the account's wishlist lines.
func (r *AccountRepo) Wishlist(ctx context.Context, accountID uint64) ([]model.WishlistLine, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT product_id FROM wishlist_items WHERE account_id=? ORDER BY product_id",
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	lines := []model.WishlistLine{}
	for rows.Next() {
		var l model.WishlistLine
		if err := rows.Scan(&l.ProductID); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
