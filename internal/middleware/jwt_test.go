package middleware_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/proctorly/integrity-api/internal/middleware"
)

const jwtTestSecret = "test-secret"

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func setupJWTApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", middleware.JWTProtected(jwtTestSecret), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestJWTProtectedValidTokenSetsUserID(t *testing.T) {
	var gotUserID uint

	app := fiber.New()
	app.Get("/protected", middleware.JWTProtected(jwtTestSecret), func(c *fiber.Ctx) error {
		if v, ok := c.Locals("user_id").(uint); ok {
			gotUserID = v
		}
		return c.SendStatus(fiber.StatusOK)
	})

	request := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+signedToken(t, jwtTestSecret, jwt.MapClaims{"sub": "42"}))

	response, err := app.Test(request)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, response.StatusCode)
	require.Equal(t, uint(42), gotUserID)
}

func TestJWTProtectedMissingHeader(t *testing.T) {
	app := setupJWTApp()

	request := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	response, err := app.Test(request)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, response.StatusCode)
}

func TestJWTProtectedWrongSecret(t *testing.T) {
	app := setupJWTApp()

	request := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+signedToken(t, "other-secret", jwt.MapClaims{"sub": "42"}))

	response, err := app.Test(request)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, response.StatusCode)
}

func TestJWTProtectedMalformedHeader(t *testing.T) {
	app := setupJWTApp()

	request := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	request.Header.Set("Authorization", "Token abc")

	response, err := app.Test(request)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, response.StatusCode)
}
