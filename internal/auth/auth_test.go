package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/roster-service/internal/domain"
	apperrors "github.com/spec-kit/roster-service/pkg/util/errorutil"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	token, exp, err := tm.GenerateToken("admin", domain.RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	token, _, err := tm.GenerateToken("admin", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenManager("other", 1).ParseToken(token)
	assert.Error(t, err, "wrong secret")

	tm.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tm.ParseToken(token)
	assert.Error(t, err, "expired")

	_, err = tm.ParseToken("not-a-jwt")
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "s3cret"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}

func newProtectedApp(tm *TokenManager, roles ...domain.Role) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
		},
	})
	mw := NewAuthMiddleware(tm)
	app.Get("/secure", mw.Handle, RequireRole(roles...), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"subject": p.Subject})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, header string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	out := map[string]string{}
	_ = json.Unmarshal(body, &out)
	return resp.StatusCode, out
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	admin, _, err := tm.GenerateToken("admin", domain.RoleAdmin)
	require.NoError(t, err)
	viewer, _, err := tm.GenerateToken("guest", domain.RoleViewer)
	require.NoError(t, err)

	app := newProtectedApp(tm, domain.RoleAdmin)

	status, body := doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	status, _ = doRequest(t, app, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doRequest(t, app, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = doRequest(t, app, "Bearer "+viewer)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, body = doRequest(t, app, "bearer "+admin)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "admin", body["subject"])
}

func TestRequireRole_AnyAuthenticated(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	viewer, _, err := tm.GenerateToken("guest", domain.RoleViewer)
	require.NoError(t, err)

	status, _ := doRequest(t, newProtectedApp(tm), "Bearer "+viewer)
	assert.Equal(t, http.StatusOK, status)
}
