package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantora/plant-shop-backend/internal/utils"
)

const testSecret = "middleware-test-secret"

// echoRequest runs a request through the given middleware chain ending in a
// probe handler that reports the claims it observed.
func echoRequest(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, *uint64, *string) {
	t.Helper()
	e := echo.New()
	var gotID uint64
	var gotRole string
	probe := func(c echo.Context) error {
		gotID = SubjectID(c)
		gotRole, _ = c.Get("role").(string)
		return c.NoContent(http.StatusOK)
	}
	h := probe
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec, &gotID, &gotRole
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _, _ := echoRequest(t, "", JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	rec, _, _ := echoRequest(t, "Token abc", JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, "user", 60)
	require.NoError(t, err)

	rec, id, role := echoRequest(t, "Bearer "+at.Token, JWTAuth(testSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), *id)
	assert.Equal(t, "user", *role)
}

func TestJWTAuthTamperedToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, "user", 60)
	require.NoError(t, err)

	raw := []byte(at.Token)
	if raw[len(raw)-1] == 'A' {
		raw[len(raw)-1] = 'B'
	} else {
		raw[len(raw)-1] = 'A'
	}
	rec, _, _ := echoRequest(t, "Bearer "+string(raw), JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, "user", -1)
	require.NoError(t, err)

	rec, _, _ := echoRequest(t, "Bearer "+at.Token, JWTAuth(testSecret))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 3, "admin", 60)
	require.NoError(t, err)

	rec, _, role := echoRequest(t, "Bearer "+at.Token, JWTAuth(testSecret), RequireRole("admin"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", *role)
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 3, "user", 60)
	require.NoError(t, err)

	rec, _, _ := echoRequest(t, "Bearer "+at.Token, JWTAuth(testSecret), RequireRole("admin"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	e := echo.New()
	h := RequireRole("admin")(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
