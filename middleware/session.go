package middleware

import (
	"time"

	"jetacademy/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

// Sessions is the cookie session store shared by the auth handlers.
var Sessions *session.Store

// InitSessions builds the session store. A nil storage keeps sessions in memory.
func InitSessions(cfg *config.Config, storage fiber.Storage) *session.Store {
	Sessions = session.New(session.Config{
		Storage:        storage,
		Expiration:     cfg.SessionMaxAge,
		KeyLookup:      "cookie:" + cfg.SessionCookieName,
		KeyGenerator:   uuid.NewString,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
	return Sessions
}

// sessionAlive reports whether the session store still holds key.
func sessionAlive(key string) bool {
	if key == "" {
		return false
	}
	raw, err := Sessions.Storage.Get(key)
	return err == nil && raw != nil
}

// EstablishSession binds the user to the request's cookie session, rolling
// its expiry. With regenerate set the session id is replaced first.
func EstablishSession(c *fiber.Ctx, userID uint, regenerate bool) (string, error) {
	sess, err := Sessions.Get(c)
	if err != nil {
		return "", err
	}
	if regenerate {
		if err := sess.Regenerate(); err != nil {
			return "", err
		}
	}
	sess.Set(sessionUserKey, userID)
	sess.Set(sessionSeenKey, time.Now().Unix())
	// Save hands the session back to its pool.
	id := sess.ID()
	if err := sess.Save(); err != nil {
		return "", err
	}
	return id, nil
}

// DestroySession drops the request's cookie session and returns its id.
func DestroySession(c *fiber.Ctx) (string, error) {
	sess, err := Sessions.Get(c)
	if err != nil {
		return "", err
	}
	id := sess.ID()
	return id, sess.Destroy()
}
