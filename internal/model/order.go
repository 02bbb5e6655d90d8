package model

import "time"

// OrderStatusPending is the status every order is created with.  No
// endpoint currently transitions an order out of it.
const OrderStatusPending = "Pending"

// Order mirrors the `orders` table.  AccountEmail is a snapshot of the
// owner's email at placement time; the public report joins on it so that
// orders survive the deletion of their account.
type Order struct {
	ID           uint64      `json:"id"`
	AccountID    uint64      `json:"accountId"`
	AccountEmail string      `json:"accountEmail"`
	Items        []OrderItem `json:"items"`
	TotalAmount  float64     `json:"totalAmount"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity uint32  `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderOwner is the projection of an account attached to an order in the
// public report.  When the owning account no longer exists the sentinel
// values below are substituted instead of failing the whole response.
type OrderOwner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Place string `json:"place"`
}

// UnknownOwner is the placeholder returned when an order's email snapshot
// matches no account.
func UnknownOwner() OrderOwner {
	return OrderOwner{Name: "Unknown", Email: "N/A", Phone: "N/A", Place: "N/A"}
}

// OrderWithOwner pairs an order with its (possibly sentinel) owner for the
// reporting view.
type OrderWithOwner struct {
	Order Order      `json:"order"`
	Owner OrderOwner `json:"owner"`
}
