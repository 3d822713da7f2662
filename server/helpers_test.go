package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jetacademy/config"
	"jetacademy/logging"
	"jetacademy/middleware"
	"jetacademy/models"
	"jetacademy/storage"
	"jetacademy/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const (
	desktopUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 Chrome/124.0 Safari/537.36"
	mobileUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type loginData struct {
	User       models.User `json:"user"`
	SessionID  string      `json:"sessionId"`
	DeviceType string      `json:"deviceType"`
	AuthToken  string      `json:"authToken"`
	ShortToken string      `json:"shortToken"`
}

type testApp struct {
	t     *testing.T
	app   *fiber.App
	store storage.Storage
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	config.AppConfig = &config.Config{
		StorageDriver:          "memory",
		JWTKey:                 "test-secret",
		SessionCookieName:      "jet.sid",
		SessionMaxAge:          time.Hour,
		AuthTokenTTL:           time.Hour,
		ResetTokenTTL:          time.Hour,
		AllowOrigins:           "*",
		FrontendURL:            "http://localhost:5173",
		LogLevel:               "disabled",
		AdminSetupKey:          "setup-key",
		AdminBootstrapUsername: "founder",
		AdminBootstrapPasscode: "open-sesame",
	}
	logging.Init(logging.Config{Level: "disabled"})

	sendEmail := utils.EmailSender
	utils.EmailSender = func(to, subject, htmlBody string) error { return nil }
	t.Cleanup(func() { utils.EmailSender = sendEmail })

	store := storage.NewMemStorage()
	storage.Use(store)
	middleware.InitSessions(config.AppConfig, nil)

	return &testApp{t: t, app: New(config.AppConfig), store: store}
}

type requestOption func(*http.Request)

func withCookie(value string) requestOption {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "jet.sid", Value: value})
	}
}

func withHeader(key, value string) requestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func withUA(ua string) requestOption {
	return withHeader("User-Agent", ua)
}

func (a *testApp) do(method, path string, body interface{}, opts ...requestOption) (*http.Response, envelope) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	if len(raw) > 0 {
		require.NoError(a.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == "jet.sid" && c.MaxAge >= 0 && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func (a *testApp) addCode(code string, expiresAt *time.Time) {
	a.t.Helper()
	require.NoError(a.t, a.store.CreateEnrollmentCode(context.Background(), &models.EnrollmentCode{
		Code:      code,
		StateCode: utils.StateCodeOf(code),
		ExpiresAt: expiresAt,
	}))
}

// register creates a student through the API and returns the login payload.
func (a *testApp) register(username, code string) loginData {
	a.t.Helper()
	a.addCode(code, nil)
	resp, env := a.do(http.MethodPost, "/api/register", fiber.Map{
		"username":       username,
		"password":       "s3cret-pass",
		"email":          username + "@example.com",
		"enrollmentCode": code,
	}, withUA(desktopUA))
	require.Equal(a.t, fiber.StatusCreated, resp.StatusCode, env.Message)
	return decode[loginData](a.t, env.Data)
}

func (a *testApp) login(user models.User, ua string) loginData {
	a.t.Helper()
	resp, env := a.do(http.MethodPost, "/api/login", fiber.Map{
		"username":  user.Username,
		"password":  "s3cret-pass",
		"studentId": *user.StudentID,
	}, withUA(ua))
	require.Equal(a.t, fiber.StatusOK, resp.StatusCode, env.Message)
	return decode[loginData](a.t, env.Data)
}

// promote flips the instructor flag directly in storage.
func (a *testApp) promote(id uint) {
	a.t.Helper()
	_, err := a.store.UpdateUserRoles(context.Background(), id, models.UserRoles{IsInstructor: true})
	require.NoError(a.t, err)
}
