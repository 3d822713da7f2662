package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"jetacademy/config"
	"jetacademy/middleware"
	"jetacademy/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSignsTheStudentIn(t *testing.T) {
	a := newTestApp(t)
	reg := a.register("hana", "CA-2024-0001")

	require.NotNil(t, reg.User.StudentID)
	assert.Len(t, *reg.User.StudentID, 7)
	assert.NotEmpty(t, reg.SessionID)
	assert.NotEmpty(t, reg.AuthToken)

	resp, env := a.do(http.MethodGet, "/api/user", nil, withCookie(reg.SessionID))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.Equal(t, reg.User.ID, decode[models.User](t, env.Data).ID)

	code, err := a.store.GetEnrollmentCode(context.Background(), "CA-2024-0001")
	require.NoError(t, err)
	assert.True(t, code.IsUsed)
}

func TestRegisterRejections(t *testing.T) {
	a := newTestApp(t)
	a.register("hana", "CA-2024-0001")
	past := time.Now().Add(-time.Hour)
	a.addCode("TX-2024-0002", &past)
	a.addCode("NY-2024-0003", nil)

	cases := []struct {
		name     string
		username string
		code     string
		status   int
		message  string
	}{
		{"used code", "kenji", "CA-2024-0001", fiber.StatusBadRequest, "Enrollment code has already been used"},
		{"expired code", "kenji", "TX-2024-0002", fiber.StatusBadRequest, "Enrollment code has expired"},
		{"unknown code", "kenji", "ZZ-0000", fiber.StatusBadRequest, "Invalid enrollment code"},
		{"taken username", "hana", "NY-2024-0003", fiber.StatusBadRequest, "Username already exists"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, env := a.do(http.MethodPost, "/api/register", fiber.Map{
				"username":       tc.username,
				"password":       "s3cret-pass",
				"email":          "kenji@example.com",
				"enrollmentCode": tc.code,
			})
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.message, env.Message)
			assert.Empty(t, sessionCookie(resp))
		})
	}

	code, err := a.store.GetEnrollmentCode(context.Background(), "NY-2024-0003")
	require.NoError(t, err)
	assert.False(t, code.IsUsed, "a failed registration must not consume the code")
}

func TestRegisterValidation(t *testing.T) {
	a := newTestApp(t)
	resp, env := a.do(http.MethodPost, "/api/register", fiber.Map{
		"username": "hana",
		"password": "s3cret-pass",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Validation failed!", env.Message)
	errs := decode[map[string]string](t, env.Data)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "enrollmentCode")
}

func TestLoginRequiresAllThreeCredentials(t *testing.T) {
	a := newTestApp(t)
	reg := a.register("hana", "CA-2024-0001")

	t.Run("missing field", func(t *testing.T) {
		resp, env := a.do(http.MethodPost, "/api/login", fiber.Map{"username": "hana", "password": "s3cret-pass"})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Username, password and student ID are required", env.Message)
	})

	bad := map[string]fiber.Map{
		"wrong student id": {"username": "hana", "password": "s3cret-pass", "studentId": "0000000"},
		"wrong password":   {"username": "hana", "password": "nope-nope", "studentId": *reg.User.StudentID},
		"unknown user":     {"username": "nobody", "password": "s3cret-pass", "studentId": *reg.User.StudentID},
	}
	for name, body := range bad {
		t.Run(name, func(t *testing.T) {
			resp, env := a.do(http.MethodPost, "/api/login", body)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Invalid username, password, or student ID", env.Message)
			assert.Empty(t, sessionCookie(resp))
		})
	}

	t.Run("success", func(t *testing.T) {
		resp, env := a.do(http.MethodPost, "/api/login", fiber.Map{
			"username":  "hana",
			"password":  "s3cret-pass",
			"studentId": *reg.User.StudentID,
		}, withUA(desktopUA))
		require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
		data := decode[loginData](t, env.Data)
		assert.Equal(t, data.SessionID, sessionCookie(resp))
		assert.NotEqual(t, reg.SessionID, data.SessionID)
		assert.Equal(t, models.DeviceDesktop, data.DeviceType)
	})
}

func TestAuthChannels(t *testing.T) {
	a := newTestApp(t)
	reg := a.register("hana", "CA-2024-0001")

	channels := []struct {
		name string
		req  func(l loginData) (string, []requestOption)
	}{
		{"x-auth-token header", func(l loginData) (string, []requestOption) {
			return "/api/user", []requestOption{withHeader("X-Auth-Token", l.AuthToken)}
		}},
		{"bearer header", func(l loginData) (string, []requestOption) {
			return "/api/user", []requestOption{withHeader("Authorization", "Bearer "+l.AuthToken)}
		}},
		{"token query", func(l loginData) (string, []requestOption) {
			return "/api/user?token=" + url.QueryEscape(l.AuthToken), nil
		}},
		{"short token query", func(l loginData) (string, []requestOption) {
			return "/api/user?st=" + url.QueryEscape(l.ShortToken), nil
		}},
		{"session id query", func(l loginData) (string, []requestOption) {
			return "/api/user?sid=" + url.QueryEscape(l.SessionID), nil
		}},
	}
	for _, ch := range channels {
		t.Run(ch.name, func(t *testing.T) {
			l := a.login(reg.User, desktopUA)
			path, opts := ch.req(l)

			resp, env := a.do(http.MethodGet, path, nil, opts...)
			require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
			assert.Equal(t, reg.User.ID, decode[models.User](t, env.Data).ID)

			cookie := sessionCookie(resp)
			require.NotEmpty(t, cookie, "a matched channel re-establishes the cookie session")
			resp, _ = a.do(http.MethodGet, "/api/user", nil, withCookie(cookie))
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		})
	}

	t.Run("garbage credentials", func(t *testing.T) {
		for _, path := range []string{"/api/user?token=abc", "/api/user?st=abc", "/api/user?sid=abc"} {
			resp, _ := a.do(http.MethodGet, path, nil)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
		}
	})

	t.Run("session id without a stored session", func(t *testing.T) {
		l := a.login(reg.User, desktopUA)
		require.NoError(t, middleware.Sessions.Storage.Delete(l.SessionID))
		resp, _ := a.do(http.MethodGet, "/api/user?sid="+url.QueryEscape(l.SessionID), nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestMobileFingerprintRecoversLostSession(t *testing.T) {
	a := newTestApp(t)
	reg := a.register("hana", "CA-2024-0001")
	l := a.login(reg.User, mobileUA)
	require.Equal(t, models.DeviceMobile, l.DeviceType)

	require.NoError(t, middleware.Sessions.Storage.Delete(l.SessionID))

	resp, _ := a.do(http.MethodGet, "/api/user", nil, withCookie(l.SessionID), withUA(desktopUA))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	otherPhone := "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Chrome/124.0 Mobile Safari/537.36"
	resp, _ = a.do(http.MethodGet, "/api/user", nil, withCookie(l.SessionID), withUA(otherPhone))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, env := a.do(http.MethodGet, "/api/user", nil, withCookie(l.SessionID), withUA(mobileUA))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.Equal(t, reg.User.ID, decode[models.User](t, env.Data).ID)

	recovered := sessionCookie(resp)
	require.NotEmpty(t, recovered)
	assert.NotEqual(t, l.SessionID, recovered, "recovery issues a fresh session id")

	ls, err := a.store.GetLoginSessionBySessionID(context.Background(), recovered)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, ls.UserID)

	resp, _ = a.do(http.MethodGet, "/api/user", nil, withCookie(recovered), withUA(desktopUA))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = a.do(http.MethodGet, "/api/user", nil, withCookie(l.SessionID), withUA(desktopUA))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "the lost session id stays dead")
}

func TestLogoutRevokesEveryChannel(t *testing.T) {
	a := newTestApp(t)
	reg := a.register("hana", "CA-2024-0001")
	l := a.login(reg.User, desktopUA)

	resp, env := a.do(http.MethodPost, "/api/logout", nil, withCookie(l.SessionID), withHeader("X-Auth-Token", l.AuthToken))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, env.Status)

	for name, opt := range map[string]requestOption{
		"cookie": withCookie(l.SessionID),
		"token":  withHeader("X-Auth-Token", l.AuthToken),
	} {
		resp, _ := a.do(http.MethodGet, "/api/user", nil, opt)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, name)
	}
	resp, _ = a.do(http.MethodGet, "/api/user?st="+url.QueryEscape(l.ShortToken), nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = a.do(http.MethodPost, "/api/logout", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "logout without a session still succeeds")
}

func TestPasswordResetIsSingleUse(t *testing.T) {
	a := newTestApp(t)
	reg := a.register("hana", "CA-2024-0001")

	resp, env := a.do(http.MethodPost, "/api/forgot-password", fiber.Map{"email": "nobody@example.com"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	unknownReply := env.Message

	resp, env = a.do(http.MethodPost, "/api/forgot-password", fiber.Map{"email": "hana@example.com"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, unknownReply, env.Message)

	users, err := a.store.GetUsersByEmail(context.Background(), "hana@example.com")
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.NotNil(t, users[0].ResetToken)
	token := *users[0].ResetToken

	resp, _ = a.do(http.MethodPost, "/api/reset-password", fiber.Map{"token": token, "password": "brand-new-pass"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env = a.do(http.MethodPost, "/api/reset-password", fiber.Map{"token": token, "password": "another-pass"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid or expired token", env.Message)

	resp, _ = a.do(http.MethodPost, "/api/login", fiber.Map{
		"username":  "hana",
		"password":  "brand-new-pass",
		"studentId": *reg.User.StudentID,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestChangePassword(t *testing.T) {
	a := newTestApp(t)
	reg := a.register("hana", "CA-2024-0001")

	resp, _ := a.do(http.MethodPut, "/api/user/password", fiber.Map{
		"currentPassword": "wrong-one",
		"newPassword":     "brand-new-pass",
	}, withCookie(reg.SessionID))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, env := a.do(http.MethodPut, "/api/user/password", fiber.Map{
		"currentPassword": "s3cret-pass",
		"newPassword":     "brand-new-pass",
	}, withCookie(reg.SessionID))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
}

func TestAdminRoutesRequireInstructor(t *testing.T) {
	a := newTestApp(t)
	reg := a.register("hana", "CA-2024-0001")

	resp, _ := a.do(http.MethodGet, "/api/admin/users", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, env := a.do(http.MethodGet, "/api/admin/users", nil, withCookie(reg.SessionID))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.False(t, env.Status)

	a.promote(reg.User.ID)
	resp, env = a.do(http.MethodGet, "/api/admin/users", nil, withCookie(reg.SessionID))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.Len(t, decode[[]models.User](t, env.Data), 1)
}

func TestPasscodeAuthProvisionsFounder(t *testing.T) {
	a := newTestApp(t)

	resp, _ := a.do(http.MethodPost, "/api/admin/passcode-auth", fiber.Map{"username": "founder", "passcode": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, env := a.do(http.MethodPost, "/api/admin/passcode-auth", fiber.Map{"username": "founder", "passcode": "open-sesame"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	data := decode[loginData](t, env.Data)
	assert.True(t, data.User.IsInstructor)
	assert.True(t, data.User.IsFounder)

	resp, _ = a.do(http.MethodGet, "/api/admin/users", nil, withCookie(data.SessionID))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	config.AppConfig.AdminBootstrapPasscode = ""
	resp, _ = a.do(http.MethodPost, "/api/admin/passcode-auth", fiber.Map{"username": "founder", "passcode": "open-sesame"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, env = a.do(http.MethodPost, "/api/admin/passcode-auth", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "an unconfigured route must not reveal its validation")
	assert.Equal(t, "Route not found", env.Message)
}

func TestMakeInstructorNeedsSetupKey(t *testing.T) {
	a := newTestApp(t)
	reg := a.register("hana", "CA-2024-0001")

	resp, _ := a.do(http.MethodPost, "/api/setup/make-instructor", fiber.Map{"username": "hana", "setupKey": "guess"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, env := a.do(http.MethodPost, "/api/setup/make-instructor", fiber.Map{"username": "hana", "setupKey": "setup-key"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.True(t, decode[models.User](t, env.Data).IsInstructor)

	resp, _ = a.do(http.MethodGet, "/api/admin/users", nil, withCookie(reg.SessionID))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRecommendationsHonorLimit(t *testing.T) {
	a := newTestApp(t)
	reg := a.register("hana", "CA-2024-0001")
	for i := 0; i < 15; i++ {
		require.NoError(t, a.store.CreateFranchiseAd(context.Background(), &models.FranchiseAd{
			Title:         fmt.Sprintf("ad-%d", i),
			FranchiseName: "Franchise",
			IsActive:      true,
			StartDate:     time.Now().Add(-time.Hour),
		}))
	}

	resp, env := a.do(http.MethodGet, "/api/user-interests/recommendations", nil, withCookie(reg.SessionID))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.Len(t, decode[[]models.FranchiseAd](t, env.Data), 10)

	resp, env = a.do(http.MethodGet, "/api/user-interests/recommendations?limit=4", nil, withCookie(reg.SessionID))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Message)
	assert.Len(t, decode[[]models.FranchiseAd](t, env.Data), 4)

	resp, _ = a.do(http.MethodGet, "/api/user-interests/recommendations?limit=51", nil, withCookie(reg.SessionID))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	a := newTestApp(t)
	resp, env := a.do(http.MethodGet, "/api/does-not-exist", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Status)
}
