package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/plantora/plant-shop-backend/internal/config"
	"github.com/plantora/plant-shop-backend/internal/model"
	"github.com/plantora/plant-shop-backend/internal/repository"
	"github.com/plantora/plant-shop-backend/internal/utils"
)

func testCfg() config.Config {
	return config.Config{JWTSecret: "handler-test-secret", AccessTTLMin: 60, BcryptCost: 4}
}

func newAuthHandler(accounts *accountStoreMock, admins *adminStoreMock, audit *auditorMock) *AuthHandler {
	return NewAuthHandler(testCfg(), accounts, admins, audit)
}

func TestSignupCreatesAccountAndToken(t *testing.T) {
	accounts := new(accountStoreMock)
	audit := new(auditorMock)
	h := newAuthHandler(accounts, new(adminStoreMock), audit)

	accounts.On("Create", mock.Anything, "Ardra", "ardra@example.com", "123", "Kochi", "pw123", 4).
		Return(uint64(11), nil)
	audit.On("Record", "ardra@example.com", model.RoleUser, mock.Anything, mock.Anything).Return()

	c, rec := newJSONContext(t, http.MethodPost, "/signup",
		`{"name":"Ardra","email":"Ardra@Example.com ","phone":"123","place":"Kochi","password":"pw123"}`, 0, "")
	require.NoError(t, h.Signup(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, float64(11), user["id"])
	assert.Equal(t, "ardra@example.com", user["email"]) // normalized
	_, hasHash := user["passwordHash"]
	assert.False(t, hasHash)
	accounts.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestSignupDuplicateEmail(t *testing.T) {
	accounts := new(accountStoreMock)
	h := newAuthHandler(accounts, new(adminStoreMock), new(auditorMock))

	accounts.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(uint64(0), repository.ErrEmailExists)

	c, rec := newJSONContext(t, http.MethodPost, "/signup",
		`{"email":"dup@example.com","password":"pw"}`, 0, "")
	require.NoError(t, h.Signup(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignupMissingFields(t *testing.T) {
	h := newAuthHandler(new(accountStoreMock), new(adminStoreMock), new(auditorMock))

	c, rec := newJSONContext(t, http.MethodPost, "/signup", `{"name":"x"}`, 0, "")
	require.NoError(t, h.Signup(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSigninSuccess(t *testing.T) {
	hash, err := utils.HashPassword("pw123", 4)
	require.NoError(t, err)

	accounts := new(accountStoreMock)
	audit := new(auditorMock)
	h := newAuthHandler(accounts, new(adminStoreMock), audit)

	accounts.On("GetByEmail", mock.Anything, "a@example.com").
		Return(model.Account{ID: 5, Name: "A", Email: "a@example.com", PasswordHash: hash}, nil)
	audit.On("Record", "a@example.com", model.RoleUser, mock.Anything, mock.Anything).Return()

	c, rec := newJSONContext(t, http.MethodPost, "/signin",
		`{"email":"a@example.com","password":"pw123"}`, 0, "")
	require.NoError(t, h.Signin(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])
	audit.AssertExpectations(t)
}

func TestSigninWrongPassword(t *testing.T) {
	hash, err := utils.HashPassword("right", 4)
	require.NoError(t, err)

	accounts := new(accountStoreMock)
	audit := new(auditorMock)
	h := newAuthHandler(accounts, new(adminStoreMock), audit)

	accounts.On("GetByEmail", mock.Anything, "a@example.com").
		Return(model.Account{ID: 5, Email: "a@example.com", PasswordHash: hash}, nil)

	c, rec := newJSONContext(t, http.MethodPost, "/signin",
		`{"email":"a@example.com","password":"wrong"}`, 0, "")
	require.NoError(t, h.Signin(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSigninUnknownEmail(t *testing.T) {
	accounts := new(accountStoreMock)
	h := newAuthHandler(accounts, new(adminStoreMock), new(auditorMock))

	accounts.On("GetByEmail", mock.Anything, "nobody@example.com").
		Return(model.Account{}, repository.ErrNotFound)

	c, rec := newJSONContext(t, http.MethodPost, "/signin",
		`{"email":"nobody@example.com","password":"pw"}`, 0, "")
	require.NoError(t, h.Signin(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminLoginSuccess(t *testing.T) {
	hash, err := utils.HashPassword("admin-pw", 4)
	require.NoError(t, err)

	admins := new(adminStoreMock)
	audit := new(auditorMock)
	h := newAuthHandler(new(accountStoreMock), admins, audit)

	admins.On("GetByUsername", mock.Anything, "admin").
		Return(model.Admin{ID: 1, Username: "admin", PasswordHash: hash}, nil)
	audit.On("Record", "admin", model.RoleAdmin, mock.Anything, mock.Anything).Return()

	c, rec := newJSONContext(t, http.MethodPost, "/admin-login",
		`{"username":"admin","password":"admin-pw"}`, 0, "")
	require.NoError(t, h.AdminLogin(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])
	audit.AssertExpectations(t)
}

func TestAdminLoginInvalid(t *testing.T) {
	admins := new(adminStoreMock)
	h := newAuthHandler(new(accountStoreMock), admins, new(auditorMock))

	admins.On("GetByUsername", mock.Anything, "ghost").
		Return(model.Admin{}, repository.ErrNotFound)

	c, rec := newJSONContext(t, http.MethodPost, "/admin-login",
		`{"username":"ghost","password":"pw"}`, 0, "")
	require.NoError(t, h.AdminLogin(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileReturnsCartAndWishlist(t *testing.T) {
	accounts := new(accountStoreMock)
	h := newAuthHandler(accounts, new(adminStoreMock), new(auditorMock))

	accounts.On("GetByID", mock.Anything, uint64(9)).
		Return(model.Account{ID: 9, Name: "N", Email: "n@example.com"}, nil)
	accounts.On("Cart", mock.Anything, uint64(9)).
		Return([]model.CartLine{{ProductID: "p1", Quantity: 2}}, nil)
	accounts.On("Wishlist", mock.Anything, uint64(9)).
		Return([]model.WishlistLine{{ProductID: "p2"}}, nil)

	c, rec := newJSONContext(t, http.MethodGet, "/api/user", "", 9, model.RoleUser)
	require.NoError(t, h.Profile(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["cart"], 1)
	assert.Len(t, body["wishlist"], 1)
}

func TestProfileNotFound(t *testing.T) {
	accounts := new(accountStoreMock)
	h := newAuthHandler(accounts, new(adminStoreMock), new(auditorMock))

	accounts.On("GetByID", mock.Anything, uint64(9)).
		Return(model.Account{}, repository.ErrNotFound)

	c, rec := newJSONContext(t, http.MethodGet, "/api/user", "", 9, model.RoleUser)
	require.NoError(t, h.Profile(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
