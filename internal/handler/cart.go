package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plantora/plant-shop-backend/internal/middleware"
	"github.com/plantora/plant-shop-backend/internal/model"
	"github.com/plantora/plant-shop-backend/internal/repository"
)

// CartStore covers the cart and wishlist operations owned by an account.
type CartStore interface {
	AddToCart(ctx context.Context, accountID uint64, productID string, quantity uint32) ([]model.CartLine, error)
	RemoveFromCart(ctx context.Context, accountID uint64, productID string) ([]model.CartLine, error)
	Cart(ctx context.Context, accountID uint64) ([]model.CartLine, error)
	AddToWishlist(ctx context.Context, accountID uint64, productID string) ([]model.WishlistLine, error)
	RemoveFromWishlist(ctx context.Context, accountID uint64, productID string) ([]model.WishlistLine, error)
	Wishlist(ctx context.Context, accountID uint64) ([]model.WishlistLine, error)
}

// CartHandler serves the cart and wishlist endpoints.  The account is
// always the token subject; a user can never touch another user's cart.
type CartHandler struct {
	Store CartStore
}

func NewCartHandler(store CartStore) *CartHandler { return &CartHandler{Store: store} }

type cartAddReq struct {
	ProductID string `json:"productId"`
	Quantity  uint32 `json:"quantity"`
}
type wishlistAddReq struct {
	ProductID string `json:"productId"`
}

// AddToCart merges a line into the caller's cart.  Adding the same product
// twice yields one line with the summed quantity, never two lines.
func (h *CartHandler) AddToCart(c echo.Context) error {
	accountID := middleware.SubjectID(c)
	if accountID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req cartAddReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "productId is required"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cart, err := h.Store.AddToCart(ctx, accountID, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cart failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"cart": cart})
}

// GetCart lists the caller's cart.
func (h *CartHandler) GetCart(c echo.Context) error {
	accountID := middleware.SubjectID(c)
	if accountID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cart, err := h.Store.Cart(ctx, accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"cart": cart})
}

// RemoveFromCart deletes every line for the product.  Removing a product
// that is not in the cart returns the unchanged cart, not an error.
func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	accountID := middleware.SubjectID(c)
	if accountID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	productID := strings.TrimSpace(c.Param("productId"))
	if productID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "productId is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cart, err := h.Store.RemoveFromCart(ctx, accountID, productID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cart failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"cart": cart})
}

// AddToWishlist appends a product to the caller's wishlist; adding an
// already-present product is a no-op.
func (h *CartHandler) AddToWishlist(c echo.Context) error {
	accountID := middleware.SubjectID(c)
	if accountID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req wishlistAddReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "productId is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	wishlist, err := h.Store.AddToWishlist(ctx, accountID, req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update wishlist failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"wishlist": wishlist})
}

// GetWishlist lists the caller's wishlist.
func (h *CartHandler) GetWishlist(c echo.Context) error {
	accountID := middleware.SubjectID(c)
	if accountID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	wishlist, err := h.Store.Wishlist(ctx, accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"wishlist": wishlist})
}

// RemoveFromWishlist removes a product; absence is a silent no-op.
func (h *CartHandler) RemoveFromWishlist(c echo.Context) error {
	accountID := middleware.SubjectID(c)
	if accountID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	productID := strings.TrimSpace(c.Param("productId"))
	if productID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "productId is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	wishlist, err := h.Store.RemoveFromWishlist(ctx, accountID, productID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update wishlist failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"wishlist": wishlist})
}
