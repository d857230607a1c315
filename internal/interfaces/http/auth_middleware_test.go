package http_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/smartkubik/inventory-core/internal/interfaces/http"
	"github.com/smartkubik/inventory-core/pkg/jwt"
)

const testSecret = "secreto-de-pruebas"

func buildTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protegido", apihttp.AuthMiddleware(testSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   apihttp.GetUserID(c),
			"tenant_id": apihttp.GetTenantID(c),
		})
	})
	return app
}

func TestAuthMiddlewareSinHeader(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest("GET", "/protegido", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareFormatoInvalido(t *testing.T) {
	app := buildTestApp()

	for _, header := range []string{"token-sin-esquema", "Basic abc123", "Bearer "} {
		req := httptest.NewRequest("GET", "/protegido", nil)
		req.Header.Set("Authorization", header)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}

func TestAuthMiddlewareTokenDeOtroSecret(t *testing.T) {
	app := buildTestApp()

	token, err := jwt.Generate("otro-secret", "user-1", "tenant-1", "admin", "inventory-core", 15)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareTokenExpirado(t *testing.T) {
	app := buildTestApp()

	token, err := jwt.Generate(testSecret, "user-1", "tenant-1", "admin", "inventory-core", -5)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareTokenValido(t *testing.T) {
	app := buildTestApp()

	token, err := jwt.Generate(testSecret, "user-1", "tenant-1", "operator", "inventory-core", 15)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "user-1", got["user_id"])
	assert.Equal(t, "tenant-1", got["tenant_id"])
}
