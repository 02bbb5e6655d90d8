package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plantora/plant-shop-backend/internal/model"
	"github.com/plantora/plant-shop-backend/internal/repository"
)

// DirectoryStore lists and deletes accounts for the admin endpoints.
type DirectoryStore interface {
	List(ctx context.Context) ([]model.Account, error)
	Delete(ctx context.Context, id uint64) error
}

// SignInLogStore queries the append-only audit log.
type SignInLogStore interface {
	ListByRole(ctx context.Context, role string) ([]model.SignInLog, error)
}

// AdminHandler serves the admin-gated directory and audit endpoints.  The
// router wraps every route with JWTAuth plus RequireRole("admin").
type AdminHandler struct {
	Accounts DirectoryStore
	Logs     SignInLogStore
}

func NewAdminHandler(accounts DirectoryStore, logs SignInLogStore) *AdminHandler {
	return &AdminHandler{Accounts: accounts, Logs: logs}
}

// ListUsers returns all accounts projected to name/email/phone/place.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accounts, err := h.Accounts.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]accountPart, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountPart(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// DeleteUser removes an account by id.  Deletion is not idempotent: a
// second call for the same id returns 404.  Orders referencing the
// account are left in place and degrade to the sentinel owner in reports.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

// UserSignInLogs lists audit entries, newest first.  Defaults to the
// "user" role; ?role=admin switches to administrator logins.  An empty
// list is a successful response.
func (h *AdminHandler) UserSignInLogs(c echo.Context) error {
	role := strings.TrimSpace(c.QueryParam("role"))
	if role == "" {
		role = model.RoleUser
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	logs, err := h.Logs.ListByRole(ctx, role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"logs": logs})
}
