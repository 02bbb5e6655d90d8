package model

import "time"

// Account represents a shopper record as stored in the `accounts` table.
// The password hash is kept internal; handlers project accounts into
// response types that never include it.  Cart and wishlist lines live in
// their own tables but have no lifecycle of their own: they belong to the
// account and disappear with it.
//
// Fields:
//
//	ID           – primary key identifier of the account.
//	Name         – display name.
//	Email        – unique, normalized (trimmed, lower-cased) email address.
//	Phone        – contact phone number.
//	Place        – free-form location string.
//	PasswordHash – bcrypt hashed password.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type Account struct {
	ID           uint64    // accounts.id
	Name         string    // accounts.name
	Email        string    // accounts.email
	Phone        string    // accounts.phone
	Place        string    // accounts.place
	PasswordHash string    // accounts.password_hash
	CreatedAt    time.Time // accounts.created_at
	UpdatedAt    time.Time // accounts.updated_at
}

// CartLine is one entry of an account's cart.  Lines are keyed by
// (account, product): adding the same product again increments the
// quantity instead of creating a second line.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  uint32 `json:"quantity"`
}

// WishlistLine is one entry of an account's wishlist, deduplicated by
// product.
type WishlistLine struct {
	ProductID string `json:"productId"`
}
