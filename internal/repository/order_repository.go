package repository

import (
	"context"
	"database/sql"

	"github.com/plantora/plant-shop-backend/internal/model"
)

// OrderRepo records placed orders and their line items.  Orders are
// immutable once created; the only state they carry is the status column,
// which currently never leaves "Pending".  All timestamp fields are stored
// in UTC.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

// Create inserts an order and its items in one transaction and returns the
// stored order with its generated id, status and timestamp populated.
// Placing an order with no items fails with ErrEmptyOrder before any write.
func (r *OrderRepo) Create(ctx context.Context, accountID uint64, accountEmail string, items []model.OrderItem, totalAmount float64) (model.Order, error) {
	var o model.Order
	if len(items) == 0 {
		return o, ErrEmptyOrder
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return o, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (account_id, account_email, total_amount) VALUES (?,?,?)",
		accountID, accountEmail, totalAmount)
	if err != nil {
		return o, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return o, err
	}

	query := "INSERT INTO order_items (order_id, name, quantity, price) VALUES "
	args := make([]interface{}, 0, len(items)*4)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?)"
		args = append(args, id, it.Name, it.Quantity, it.Price)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return o, err
	}

	// Query back the row to pick up column defaults.
	err = tx.QueryRowContext(ctx,
		"SELECT id, account_id, account_email, total_amount, status, created_at FROM orders WHERE id=?",
		id).Scan(&o.ID, &o.AccountID, &o.AccountEmail, &o.TotalAmount, &o.Status, &o.CreatedAt)
	if err != nil {
		return o, err
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	o.Items = items
	return o, nil
}

// ListByAccount returns the orders owned by one account, newest first.
func (r *OrderRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.Order, error) {
	return r.list(ctx,
		"SELECT id, account_id, account_email, total_amount, status, created_at FROM orders WHERE account_id=? ORDER BY created_at DESC, id DESC",
		accountID)
}

// ListAll returns every order in the ledger, newest first.  Callers gate
// this behind the admin role claim.
func (r *OrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx,
		"SELECT id, account_id, account_email, total_amount, status, created_at FROM orders ORDER BY created_at DESC, id DESC")
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []model.Order{}
	index := map[uint64]int{}
	ids := []interface{}{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.AccountID, &o.AccountEmail, &o.TotalAmount, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Items = []model.OrderItem{}
		index[o.ID] = len(orders)
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}
	if err := r.attachItems(ctx, orders, index, ids); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the line items for a batch of orders in one query.
func (r *OrderRepo) attachItems(ctx context.Context, orders []model.Order, index map[uint64]int, ids []interface{}) error {
	query := "SELECT order_id, name, quantity, price FROM order_items WHERE order_id IN ("
	for i := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
	}
	query += ") ORDER BY order_id, id"

	rows, err := r.DB.QueryContext(ctx, query, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var orderID uint64
		var it model.OrderItem
		if err := rows.Scan(&orderID, &it.Name, &it.Quantity, &it.Price); err != nil {
			return err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return rows.Err()
}

// ListAllWithOwners joins each order to its owning account by the email
// snapshot taken at placement time.  When the account no longer exists the
// sentinel owner is substituted so the report never fails on a dangling
// reference.
func (r *OrderRepo) ListAllWithOwners(ctx context.Context) ([]model.OrderWithOwner, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT o.id, o.account_id, o.account_email, o.total_amount, o.status, o.created_at,
		       a.name, a.email, a.phone, a.place
		FROM orders o
		LEFT JOIN accounts a ON a.email = o.account_email
		ORDER BY o.created_at DESC, o.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.OrderWithOwner{}
	index := map[uint64]int{}
	ids := []interface{}{}
	orders := []model.Order{}
	owners := []model.OrderOwner{}
	for rows.Next() {
		var o model.Order
		var name, email, phone, place sql.NullString
		if err := rows.Scan(&o.ID, &o.AccountID, &o.AccountEmail, &o.TotalAmount, &o.Status, &o.CreatedAt,
			&name, &email, &phone, &place); err != nil {
			return nil, err
		}
		o.Items = []model.OrderItem{}
		owner := model.UnknownOwner()
		if name.Valid {
			owner = model.OrderOwner{Name: name.String, Email: email.String, Phone: phone.String, Place: place.String}
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
		owners = append(owners, owner)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) > 0 {
		if err := r.attachItems(ctx, orders, index, ids); err != nil {
			return nil, err
		}
	}
	for i := range orders {
		out = append(out, model.OrderWithOwner{Order: orders[i], Owner: owners[i]})
	}
	return out, nil
}
