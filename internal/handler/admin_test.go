package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/plantora/plant-shop-backend/internal/model"
	"github.com/plantora/plant-shop-backend/internal/repository"
)

func TestListUsersProjection(t *testing.T) {
	dir := new(directoryStoreMock)
	h := NewAdminHandler(dir, new(signInLogStoreMock))

	dir.On("List", mock.Anything).Return([]model.Account{
		{ID: 1, Name: "A", Email: "a@example.com", Phone: "1", Place: "X", PasswordHash: "must-not-leak"},
	}, nil)

	c, rec := newJSONContext(t, http.MethodGet, "/users", "", 1, model.RoleAdmin)
	require.NoError(t, h.ListUsers(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "must-not-leak")
	body := decodeBody(t, rec)
	assert.Len(t, body["users"], 1)
}

func TestDeleteUserNotFound(t *testing.T) {
	dir := new(directoryStoreMock)
	h := NewAdminHandler(dir, new(signInLogStoreMock))

	dir.On("Delete", mock.Anything, uint64(77)).Return(repository.ErrNotFound)

	c, rec := newJSONContext(t, http.MethodDelete, "/users/77", "", 1, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("77")
	require.NoError(t, h.DeleteUser(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteUserSuccess(t *testing.T) {
	dir := new(directoryStoreMock)
	h := NewAdminHandler(dir, new(signInLogStoreMock))

	dir.On("Delete", mock.Anything, uint64(5)).Return(nil)

	c, rec := newJSONContext(t, http.MethodDelete, "/users/5", "", 1, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.DeleteUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteUserBadID(t *testing.T) {
	h := NewAdminHandler(new(directoryStoreMock), new(signInLogStoreMock))

	c, rec := newJSONContext(t, http.MethodDelete, "/users/abc", "", 1, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.DeleteUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignInLogsDefaultRole(t *testing.T) {
	logs := new(signInLogStoreMock)
	h := NewAdminHandler(new(directoryStoreMock), logs)

	now := time.Now().UTC()
	logs.On("ListByRole", mock.Anything, model.RoleUser).Return([]model.SignInLog{
		{ID: 2, Username: "b@example.com", Role: "user", LoginTime: now},
		{ID: 1, Username: "a@example.com", Role: "user", LoginTime: now.Add(-time.Hour)},
	}, nil)

	c, rec := newJSONContext(t, http.MethodGet, "/sign-in-logs/users", "", 1, model.RoleAdmin)
	require.NoError(t, h.UserSignInLogs(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	entries := body["logs"].([]any)
	require.Len(t, entries, 2)
	// Newest first, as the repository orders them.
	first := entries[0].(map[string]any)
	assert.Equal(t, "b@example.com", first["username"])
}

func TestSignInLogsRoleFilter(t *testing.T) {
	logs := new(signInLogStoreMock)
	h := NewAdminHandler(new(directoryStoreMock), logs)

	logs.On("ListByRole", mock.Anything, "admin").Return([]model.SignInLog{}, nil)

	c, rec := newJSONContext(t, http.MethodGet, "/sign-in-logs/users?role=admin", "", 1, model.RoleAdmin)
	require.NoError(t, h.UserSignInLogs(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["logs"], 0) // empty result is success
	logs.AssertExpectations(t)
}
