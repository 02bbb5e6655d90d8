package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plantora/plant-shop-backend/internal/middleware"
	"github.com/plantora/plant-shop-backend/internal/model"
	"github.com/plantora/plant-shop-backend/internal/repository"
)

// OrderStore is the order-ledger surface the handlers use.
type OrderStore interface {
	Create(ctx context.Context, accountID uint64, accountEmail string, items []model.OrderItem, totalAmount float64) (model.Order, error)
	ListByAccount(ctx context.Context, accountID uint64) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	ListAllWithOwners(ctx context.Context) ([]model.OrderWithOwner, error)
}

// AccountResolver resolves the placing account so its email can be
// snapshotted onto the order.
type AccountResolver interface {
	GetByID(ctx context.Context, id uint64) (model.Account, error)
}

// OrderHandler serves order placement, per-account listing and the public
// reporting view.
type OrderHandler struct {
	Orders   OrderStore
	Accounts AccountResolver
}

func NewOrderHandler(orders OrderStore, accounts AccountResolver) *OrderHandler {
	return &OrderHandler{Orders: orders, Accounts: accounts}
}

type placeOrderReq struct {
	Items       []model.OrderItem `json:"items"`
	TotalAmount float64           `json:"totalAmount"`
}

// Place records a new order for the authenticated account.  Empty orders
// are rejected before any write; the stored order comes back with status
// "Pending" and its creation timestamp.
func (h *OrderHandler) Place(c echo.Context) error {
	accountID := middleware.SubjectID(c)
	if accountID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req placeOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order must contain at least one item"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	order, err := h.Orders.Create(ctx, a.ID, a.Email, req.Items, req.TotalAmount)
	if err != nil {
		if errors.Is(err, repository.ErrEmptyOrder) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "order must contain at least one item"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "place order failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"order": order})
}

// List returns the caller's orders.  A token carrying the admin role sees
// every order in the ledger; this is the single role check, there is no
// second per-account admin flag.
func (h *OrderHandler) List(c echo.Context) error {
	accountID := middleware.SubjectID(c)
	role, _ := c.Get("role").(string)
	if accountID == 0 && role != model.RoleAdmin {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		orders []model.Order
		err    error
	)
	if role == model.RoleAdmin {
		orders, err = h.Orders.ListAll(ctx)
	} else {
		orders, err = h.Orders.ListByAccount(ctx, accountID)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// Report is the public reporting view: every order joined to its owner,
// with the Unknown/N-A sentinel standing in for accounts that no longer
// exist.  The route sits behind the response cache middleware.
func (h *OrderHandler) Report(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	rows, err := h.Orders.ListAllWithOwners(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": rows})
}
