package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plantora/plant-shop-backend/internal/config"
	"github.com/plantora/plant-shop-backend/internal/middleware"
	"github.com/plantora/plant-shop-backend/internal/model"
	"github.com/plantora/plant-shop-backend/internal/repository"
	"github.com/plantora/plant-shop-backend/internal/utils"
)

// AccountStore is the slice of the account repository the auth endpoints
// need.  Declaring it here keeps handlers testable with a mock while the
// concrete *repository.AccountRepo satisfies it in production.
type AccountStore interface {
	Create(ctx context.Context, name, email, phone, place, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.Account, error)
	GetByID(ctx context.Context, id uint64) (model.Account, error)
	Cart(ctx context.Context, accountID uint64) ([]model.CartLine, error)
	Wishlist(ctx context.Context, accountID uint64) ([]model.WishlistLine, error)
}

// AdminStore resolves administrators for the admin login endpoint.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (model.Admin, error)
}

// Auditor records sign-in events.  Record must return immediately; the
// implementation delivers asynchronously and swallows its own failures.
type Auditor interface {
	Record(username, role, ip, userAgent string)
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Accounts AccountStore
	Admins   AdminStore
	Audit    Auditor
}

func NewAuthHandler(cfg config.Config, accounts AccountStore, admins AdminStore, audit Auditor) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: accounts, Admins: admins, Audit: audit}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Place    string `json:"place"`
	Password string `json:"password"`
}
type signinReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type adminLoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// accountPart is the account projection returned by auth endpoints.  The
// password hash is deliberately absent.
type accountPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Place string `json:"place"`
}
type authResp struct {
	Token string      `json:"token"`
	User  accountPart `json:"user"`
}

func toAccountPart(a model.Account) accountPart {
	return accountPart{ID: a.ID, Name: a.Name, Email: a.Email, Phone: a.Phone, Place: a.Place}
}

// Signup creates an account and returns a session token immediately.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Accounts.Create(ctx, req.Name, req.Email, req.Phone, req.Place, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, id, model.RoleUser, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	h.Audit.Record(req.Email, model.RoleUser, c.RealIP(), c.Request().UserAgent())

	return c.JSON(http.StatusCreated, authResp{
		Token: token.Token,
		User:  accountPart{ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone, Place: req.Place},
	})
}

// Signin verifies credentials and returns a fresh session token.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, model.RoleUser, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	// Queued after the response is decided; delivery is detached.
	h.Audit.Record(a.Email, model.RoleUser, c.RealIP(), c.Request().UserAgent())

	return c.JSON(http.StatusOK, authResp{Token: token.Token, User: toAccountPart(a)})
}

// AdminLogin authenticates an administrator by username.  Admin capability
// comes only from the admins table; the issued token carries the admin
// role claim and nothing else distinguishes it.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req adminLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	adm, err := h.Admins.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(adm.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, adm.ID, model.RoleAdmin, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	h.Audit.Record(adm.Username, model.RoleAdmin, c.RealIP(), c.Request().UserAgent())

	return c.JSON(http.StatusOK, echo.Map{"token": token.Token})
}

// Profile returns the authenticated account including its cart and
// wishlist, never the password hash.
func (h *AuthHandler) Profile(c echo.Context) error {
	id := middleware.SubjectID(c)
	if id == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	cart, err := h.Accounts.Cart(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	wishlist, err := h.Accounts.Wishlist(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":     toAccountPart(a),
		"cart":     cart,
		"wishlist": wishlist,
	})
}
