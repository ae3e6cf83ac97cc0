package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims *Claims, secret []byte) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func authedContext(e *echo.Echo, token string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func passthrough(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestJWTMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	mw := JWTMiddleware(JWTConfig{Secret: testSecret})

	token := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{"navigator"},
	}, testSecret)

	c := authedContext(e, token)
	if err := mw(passthrough)(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got := c.Get("user_id"); got != "user-1" {
		t.Errorf("user_id = %v", got)
	}
	roles, _ := c.Get("user_roles").([]string)
	if len(roles) != 1 || roles[0] != "navigator" {
		t.Errorf("user_roles = %v", roles)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	mw := JWTMiddleware(JWTConfig{Secret: testSecret})

	err := mw(passthrough)(authedContext(e, ""))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	e := echo.New()
	mw := JWTMiddleware(JWTConfig{Secret: testSecret})

	token := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, []byte("other-secret"))

	err := mw(passthrough)(authedContext(e, token))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	e := echo.New()
	mw := JWTMiddleware(JWTConfig{Secret: testSecret})

	token := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}, testSecret)

	err := mw(passthrough)(authedContext(e, token))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	e := echo.New()
	c := authedContext(e, "")

	if err := DevAuthMiddleware()(passthrough)(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	roles, _ := c.Get("user_roles").([]string)
	if len(roles) != 1 || roles[0] != "admin" {
		t.Errorf("user_roles = %v, want admin", roles)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	c := authedContext(e, "")
	c.Set("user_roles", []string{"navigator"})
	if err := RequireRole("navigator", "admin")(passthrough)(c); err != nil {
		t.Fatalf("allowed role rejected: %v", err)
	}

	c = authedContext(e, "")
	c.Set("user_roles", []string{"viewer"})
	err := RequireRole("admin")(passthrough)(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("err = %v, want 403", err)
	}
}
