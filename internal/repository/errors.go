// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between failure scenarios: for example,
// ErrNotFound maps to HTTP 404 while ErrEmailExists maps to a 400 on
// signup.
package repository

import "errors"

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating an account whose email is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when creating an admin whose username is
// already taken.  The bootstrap treats it as success.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmptyOrder is returned when an order is placed with no items.
var ErrEmptyOrder = errors.New("order must contain at least one item")
