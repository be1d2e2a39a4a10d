package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarsknowledge/api/database"
	"github.com/scholarsknowledge/api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupResetApp(t *testing.T) *fiber.App {
	t.Helper()

	// Keep SMTP unconfigured so the handler takes the devLink path.
	t.Setenv("SMTP_USERNAME", "")
	t.Setenv("SMTP_PASSWORD", "")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	handler := NewAuthHandler(
		services.NewTokenService(db, "http://localhost:5174"),
		services.NewEmailService(),
	)

	app := fiber.New()
	app.Post("/api/auth/forgot", handler.ForgotPassword)
	app.Post("/api/auth/reset", handler.ResetPassword)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func TestForgotPasswordRequiresEmail(t *testing.T) {
	app := setupResetApp(t)

	status, body := postJSON(t, app, "/api/auth/forgot", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "Email required", body["error"])
}

func TestForgotPasswordReturnsDevLinkWithoutSMTP(t *testing.T) {
	app := setupResetApp(t)

	status, body := postJSON(t, app, "/api/auth/forgot", `{"email":"student@example.com"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, false, body["emailed"])

	link, _ := body["devLink"].(string)
	assert.Contains(t, link, "mode=reset&token=")
}

func TestResetFlowConsumesToken(t *testing.T) {
	app := setupResetApp(t)

	_, forgot := postJSON(t, app, "/api/auth/forgot", `{"email":"student@example.com"}`)
	link, _ := forgot["devLink"].(string)
	require.NotEmpty(t, link)
	token := link[strings.Index(link, "token=")+len("token="):]

	status, body := postJSON(t, app, "/api/auth/reset", `{"token":"`+token+`"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "student@example.com", body["email"])

	// Replaying the same token fails.
	status, body = postJSON(t, app, "/api/auth/reset", `{"token":"`+token+`"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Token already used", body["error"])
}

func TestResetRejectsMissingAndUnknownTokens(t *testing.T) {
	app := setupResetApp(t)

	status, body := postJSON(t, app, "/api/auth/reset", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing token", body["error"])

	status, body = postJSON(t, app, "/api/auth/reset", `{"token":"`+strings.Repeat("00", 32)+`"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid or used token", body["error"])
}

// The response for an unknown address is indistinguishable from one for
// a known address.
func TestForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	app := setupResetApp(t)

	_, known := postJSON(t, app, "/api/auth/forgot", `{"email":"registered@example.com"}`)
	_, unknown := postJSON(t, app, "/api/auth/forgot", `{"email":"nobody@example.com"}`)

	assert.Equal(t, known["ok"], unknown["ok"])
	assert.Equal(t, known["emailed"], unknown["emailed"])
}
