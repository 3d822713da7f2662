package authController

import (
	"time"

	"jetacademy/config"
	"jetacademy/middleware"
	"jetacademy/models"
	"jetacademy/storage"
	"jetacademy/utils"

	"github.com/gofiber/fiber/v2"
)

type loginResponse struct {
	User           *models.User `json:"user"`
	SessionID      string       `json:"sessionId"`
	DeviceType     string       `json:"deviceType"`
	LoginTimestamp time.Time    `json:"loginTimestamp"`
	AuthToken      string       `json:"authToken"`
	ShortToken     string       `json:"shortToken"`
}

func deviceTypeOf(c *fiber.Ctx, declared string) string {
	if declared != "" {
		return declared
	}
	if utils.IsMobileUserAgent(c.Get(fiber.HeaderUserAgent)) {
		return models.DeviceMobile
	}
	return models.DeviceDesktop
}

// startLogin gives the user a fresh cookie session and records the login
// with the tokens the other auth channels accept.
func startLogin(c *fiber.Ctx, user *models.User, deviceType string) (*loginResponse, error) {
	now := time.Now()
	sid, err := middleware.EstablishSession(c, user.ID, true)
	if err != nil {
		return nil, err
	}

	expiresAt := now.Add(config.AppConfig.AuthTokenTTL)
	authToken, err := middleware.GenerateAuthToken(user.ID, user.Username, now, expiresAt)
	if err != nil {
		return nil, err
	}
	shortToken, err := utils.GenerateShortToken()
	if err != nil {
		return nil, err
	}

	ls := &models.LoginSession{
		UserID:     user.ID,
		Username:   user.Username,
		SessionID:  sid,
		AuthToken:  authToken,
		ShortToken: shortToken,
		DeviceType: deviceTypeOf(c, deviceType),
		UserAgent:  c.Get(fiber.HeaderUserAgent),
		IPAddress:  c.IP(),
		ExpiresAt:  expiresAt,
	}
	if err := storage.Store.CreateLoginSession(c.UserContext(), ls); err != nil {
		return nil, err
	}

	c.Locals("userId", user.ID)
	c.Locals("user", user)
	return &loginResponse{
		User:           user,
		SessionID:      sid,
		DeviceType:     ls.DeviceType,
		LoginTimestamp: now,
		AuthToken:      authToken,
		ShortToken:     shortToken,
	}, nil
}
