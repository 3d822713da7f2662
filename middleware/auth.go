package middleware

import (
	"errors"
	"strings"
	"time"

	"jetacademy/config"
	"jetacademy/logging"
	"jetacademy/models"
	"jetacademy/storage"
	"jetacademy/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	sessionUserKey = "userId"
	sessionSeenKey = "seenAt"
)

// matcher resolves the request to a user, or returns nil when its channel
// does not apply. A non-nil login session is rebound to the cookie session
// established on success.
type matcher func(c *fiber.Ctx, now time.Time) (*models.User, *models.LoginSession, error)

// authChain is tried in order; the first match wins.
var authChain = []struct {
	name  string
	match matcher
}{
	{"cookie", matchSessionCookie},
	{"token", matchAuthToken},
	{"short_token", matchShortToken},
	{"session_id", matchSessionID},
	{"fingerprint", matchDeviceFingerprint},
}

// Authenticate resolves the caller through the auth chain. Non-cookie matches
// log the caller back in so later requests take the cookie path. It returns
// nil without error when no channel matches.
func Authenticate(c *fiber.Ctx) (*models.User, error) {
	if user, ok := c.Locals("user").(*models.User); ok && user != nil {
		return user, nil
	}

	now := time.Now()
	for _, step := range authChain {
		user, ls, err := step.match(c, now)
		if err != nil {
			return nil, err
		}
		if user == nil {
			continue
		}
		if step.name != "cookie" {
			if err := relogin(c, user, ls); err != nil {
				return nil, err
			}
			logging.Debug().Str("channel", step.name).Uint("userId", user.ID).Msg("re-established session")
		}
		c.Locals("userId", user.ID)
		c.Locals("user", user)
		return user, nil
	}
	return nil, nil
}

// CurrentUser returns the user resolved earlier in the request, if any.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

func EnsureAuthenticated(c *fiber.Ctx) error {
	user, err := Authenticate(c)
	if err != nil {
		return StorageErrorResponse(c, err, "Not authenticated")
	}
	if user == nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Not authenticated", nil)
	}
	return c.Next()
}

func relogin(c *fiber.Ctx, user *models.User, ls *models.LoginSession) error {
	sid, err := EstablishSession(c, user.ID, false)
	if err != nil {
		return err
	}
	if ls == nil || ls.SessionID == sid {
		return nil
	}
	return storage.Store.RebindLoginSession(c.UserContext(), ls.ID, sid)
}

// lookupUser treats a missing user as no match.
func lookupUser(c *fiber.Ctx, id uint) (*models.User, error) {
	user, err := storage.Store.GetUser(c.UserContext(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

// liveSession filters out revoked and expired login sessions.
func liveSession(ls *models.LoginSession, err error, now time.Time) (*models.LoginSession, error) {
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !ls.Live(now) {
		return nil, nil
	}
	return ls, nil
}

func matchSessionCookie(c *fiber.Ctx, _ time.Time) (*models.User, *models.LoginSession, error) {
	if c.Cookies(config.AppConfig.SessionCookieName) == "" {
		return nil, nil, nil
	}
	sess, err := Sessions.Get(c)
	if err != nil {
		return nil, nil, err
	}
	id, ok := sess.Get(sessionUserKey).(uint)
	if !ok || id == 0 {
		return nil, nil, nil
	}
	user, err := lookupUser(c, id)
	return user, nil, err
}

func presentedAuthToken(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Get("X-Auth-Token")); token != "" {
		return token
	}
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token)
		}
	}
	return c.Query("token")
}

func matchAuthToken(c *fiber.Ctx, now time.Time) (*models.User, *models.LoginSession, error) {
	token := presentedAuthToken(c)
	if token == "" {
		return nil, nil, nil
	}
	claims, err := ParseAuthToken(token)
	if err != nil {
		return nil, nil, nil
	}
	ls, err := storage.Store.GetLoginSessionByToken(c.UserContext(), token)
	ls, err = liveSession(ls, err, now)
	if err != nil || ls == nil {
		return nil, nil, err
	}
	if ls.UserID != claims.UserID {
		return nil, nil, nil
	}
	user, err := lookupUser(c, ls.UserID)
	return user, ls, err
}

func matchShortToken(c *fiber.Ctx, now time.Time) (*models.User, *models.LoginSession, error) {
	st := c.Query("st")
	if st == "" {
		return nil, nil, nil
	}
	ls, err := storage.Store.GetLoginSessionByShortToken(c.UserContext(), st)
	ls, err = liveSession(ls, err, now)
	if err != nil || ls == nil {
		return nil, nil, err
	}
	user, err := lookupUser(c, ls.UserID)
	return user, ls, err
}

func matchSessionID(c *fiber.Ctx, now time.Time) (*models.User, *models.LoginSession, error) {
	sid := c.Query("sid")
	if sid == "" {
		return nil, nil, nil
	}
	ls, err := storage.Store.GetLoginSessionBySessionID(c.UserContext(), sid)
	ls, err = liveSession(ls, err, now)
	if err != nil || ls == nil {
		return nil, nil, err
	}
	if !sessionAlive(sid) {
		return nil, nil, nil
	}
	user, err := lookupUser(c, ls.UserID)
	return user, ls, err
}

func matchDeviceFingerprint(c *fiber.Ctx, now time.Time) (*models.User, *models.LoginSession, error) {
	ua := c.Get(fiber.HeaderUserAgent)
	if !utils.IsMobileUserAgent(ua) {
		return nil, nil, nil
	}
	sid := c.Cookies(config.AppConfig.SessionCookieName)
	if sid == "" {
		return nil, nil, nil
	}
	ls, err := storage.Store.GetLoginSessionBySessionID(c.UserContext(), sid)
	ls, err = liveSession(ls, err, now)
	if err != nil || ls == nil {
		return nil, nil, err
	}
	if ls.DeviceType != models.DeviceMobile || ls.UserAgent != ua || ls.Username == "" {
		return nil, nil, nil
	}
	user, err := storage.Store.GetUserByUsername(c.UserContext(), ls.Username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if user.ID != ls.UserID {
		return nil, nil, nil
	}
	return user, ls, nil
}
