package authController

import (
	"crypto/subtle"
	"errors"

	"jetacademy/config"
	"jetacademy/logging"
	"jetacademy/middleware"
	"jetacademy/models"
	"jetacademy/storage"
	"jetacademy/utils"
	authValidator "jetacademy/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func secretEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// PasscodeConfigured hides the bootstrap route unless both bootstrap
// credentials are configured. It must run before the body is validated.
func PasscodeConfigured(c *fiber.Ctx) error {
	cfg := config.AppConfig
	if cfg.AdminBootstrapPasscode == "" || cfg.AdminBootstrapUsername == "" {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Route not found", nil)
	}
	return c.Next()
}

// PasscodeAuth signs in the configured bootstrap administrator, creating the
// founder account on first use.
func PasscodeAuth(c *fiber.Ctx) error {
	cfg := config.AppConfig
	reqData := c.Locals("validatedPasscodeAuth").(*authValidator.PasscodeAuthRequest)

	userOK := secretEqual(reqData.Username, cfg.AdminBootstrapUsername)
	passOK := secretEqual(reqData.Passcode, cfg.AdminBootstrapPasscode)
	if !userOK || !passOK {
		logging.Warn().Str("ip", c.IP()).Msg("rejected bootstrap admin passcode")
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials", nil)
	}

	ctx := c.UserContext()
	user, err := storage.Store.GetUserByUsername(ctx, cfg.AdminBootstrapUsername)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		user, err = provisionAdmin(c)
	case err == nil && (!user.IsInstructor || !user.IsFounder):
		user, err = storage.Store.UpdateUserRoles(ctx, user.ID, models.UserRoles{
			IsInstructor: true,
			IsTutor:      user.IsTutor,
			IsFounder:    true,
		})
	}
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "User not found")
	}

	resp, err := startLogin(c, user, "")
	if err != nil {
		logging.Error().Err(err).Uint("userId", user.ID).Msg("start admin session")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sign you in!", nil)
	}
	logging.Info().Uint("userId", user.ID).Msg("bootstrap admin signed in")
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Admin authenticated.", resp)
}

func provisionAdmin(c *fiber.Ctx) (*models.User, error) {
	secret, err := utils.GenerateResetToken()
	if err != nil {
		return nil, err
	}
	hashedPassword, err := utils.HashPassword(secret)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:           config.AppConfig.AdminBootstrapUsername,
		Email:              config.AppConfig.EmailSender,
		Password:           hashedPassword,
		IsInstructor:       true,
		IsFounder:          true,
		EmailNotifications: true,
	}
	if err := utils.WithStudentID(user, func() error { return storage.Store.CreateUser(c.UserContext(), user) }); err != nil {
		return nil, err
	}
	logging.Info().Uint("userId", user.ID).Msg("provisioned bootstrap admin")
	return user, nil
}

// MakeInstructor promotes a user when the caller knows the configured setup key.
func MakeInstructor(c *fiber.Ctx) error {
	setupKey := config.AppConfig.AdminSetupKey
	reqData := c.Locals("validatedMakeInstructor").(*authValidator.MakeInstructorRequest)
	if setupKey == "" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin setup is disabled", nil)
	}
	if !secretEqual(reqData.SetupKey, setupKey) {
		logging.Warn().Str("ip", c.IP()).Msg("rejected admin setup key")
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Invalid setup key", nil)
	}

	ctx := c.UserContext()
	user, err := storage.Store.GetUserByUsername(ctx, reqData.Username)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "User not found")
	}
	updated, err := storage.Store.UpdateUserRoles(ctx, user.ID, models.UserRoles{
		IsInstructor: true,
		IsTutor:      user.IsTutor,
		IsFounder:    user.IsFounder,
	})
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "User not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User promoted to instructor.", updated)
}
