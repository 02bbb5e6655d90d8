package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/plantora/plant-shop-backend/internal/model"
)

// ----- mocks -----

type accountStoreMock struct{ mock.Mock }

func (m *accountStoreMock) Create(ctx context.Context, name, email, phone, place, password string, cost int) (uint64, error) {
	args := m.Called(ctx, name, email, phone, place, password, cost)
	return args.Get(0).(uint64), args.Error(1)
}
func (m *accountStoreMock) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.Account), args.Error(1)
}
func (m *accountStoreMock) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Account), args.Error(1)
}
func (m *accountStoreMock) Cart(ctx context.Context, accountID uint64) ([]model.CartLine, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]model.CartLine), args.Error(1)
}
func (m *accountStoreMock) Wishlist(ctx context.Context, accountID uint64) ([]model.WishlistLine, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]model.WishlistLine), args.Error(1)
}

type adminStoreMock struct{ mock.Mock }

func (m *adminStoreMock) GetByUsername(ctx context.Context, username string) (model.Admin, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.Admin), args.Error(1)
}

type auditorMock struct{ mock.Mock }

func (m *auditorMock) Record(username, role, ip, userAgent string) {
	m.Called(username, role, ip, userAgent)
}

type cartStoreMock struct{ mock.Mock }

func (m *cartStoreMock) AddToCart(ctx context.Context, accountID uint64, productID string, quantity uint32) ([]model.CartLine, error) {
	args := m.Called(ctx, accountID, productID, quantity)
	return args.Get(0).([]model.CartLine), args.Error(1)
}
func (m *cartStoreMock) RemoveFromCart(ctx context.Context, accountID uint64, productID string) ([]model.CartLine, error) {
	args := m.Called(ctx, accountID, productID)
	return args.Get(0).([]model.CartLine), args.Error(1)
}
func (m *cartStoreMock) Cart(ctx context.Context, accountID uint64) ([]model.CartLine, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]model.CartLine), args.Error(1)
}
func (m *cartStoreMock) AddToWishlist(ctx context.Context, accountID uint64, productID string) ([]model.WishlistLine, error) {
	args := m.Called(ctx, accountID, productID)
	return args.Get(0).([]model.WishlistLine), args.Error(1)
}
func (m *cartStoreMock) RemoveFromWishlist(ctx context.Context, accountID uint64, productID string) ([]model.WishlistLine, error) {
	args := m.Called(ctx, accountID, productID)
	return args.Get(0).([]model.WishlistLine), args.Error(1)
}
func (m *cartStoreMock) Wishlist(ctx context.Context, accountID uint64) ([]model.WishlistLine, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]model.WishlistLine), args.Error(1)
}

type orderStoreMock struct{ mock.Mock }

func (m *orderStoreMock) Create(ctx context.Context, accountID uint64, accountEmail string, items []model.OrderItem, totalAmount float64) (model.Order, error) {
	args := m.Called(ctx, accountID, accountEmail, items, totalAmount)
	return args.Get(0).(model.Order), args.Error(1)
}
func (m *orderStoreMock) ListByAccount(ctx context.Context, accountID uint64) ([]model.Order, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]model.Order), args.Error(1)
}
func (m *orderStoreMock) ListAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Order), args.Error(1)
}
func (m *orderStoreMock) ListAllWithOwners(ctx context.Context) ([]model.OrderWithOwner, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.OrderWithOwner), args.Error(1)
}

type directoryStoreMock struct{ mock.Mock }

func (m *directoryStoreMock) List(ctx context.Context) ([]model.Account, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Account), args.Error(1)
}
func (m *directoryStoreMock) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type signInLogStoreMock struct{ mock.Mock }

func (m *signInLogStoreMock) ListByRole(ctx context.Context, role string) ([]model.SignInLog, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]model.SignInLog), args.Error(1)
}

type classifierMock struct{ mock.Mock }

func (m *classifierMock) Classify(ctx context.Context, filename string, image io.Reader) (json.RawMessage, error) {
	args := m.Called(ctx, filename, image)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

// ----- request helpers -----

// newJSONContext builds an echo context carrying an optional JSON body and
// the claims JWTAuth would have injected.
func newJSONContext(t *testing.T, method, target, body string, subject uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if subject != 0 {
		c.Set("user_id", float64(subject)) // JWT numerics decode as float64
	}
	if role != "" {
		c.Set("role", role)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}
