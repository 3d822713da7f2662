package authController

import (
	"crypto/subtle"
	"errors"
	"net/url"
	"time"

	"jetacademy/config"
	"jetacademy/logging"
	"jetacademy/middleware"
	"jetacademy/models"
	"jetacademy/storage"
	"jetacademy/utils"
	authValidator "jetacademy/validators/auth"

	"github.com/gofiber/fiber/v2"
)

const invalidCredentials = "Invalid username, password, or student ID"

func Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*authValidator.RegisterRequest)
	ctx := c.UserContext()

	hashedPassword, err := utils.HashPassword(reqData.Password)
	if err != nil {
		logging.Error().Err(err).Msg("hash password")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := &models.User{
		Username:           reqData.Username,
		Email:              reqData.Email,
		Phone:              reqData.Phone,
		Password:           hashedPassword,
		EmailNotifications: true,
		SMSNotifications:   true,
		PushNotifications:  true,
	}
	code := utils.NormalizeCode(reqData.EnrollmentCode)
	err = utils.WithStudentID(newUser, func() error {
		return storage.Store.RegisterUser(ctx, newUser, code, time.Now())
	})
	switch {
	case errors.Is(err, storage.ErrUsernameTaken):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Username already exists", nil)
	case errors.Is(err, storage.ErrInvalidEnrollmentCode):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment code", nil)
	case errors.Is(err, storage.ErrEnrollmentCodeUsed):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment code has already been used", nil)
	case errors.Is(err, storage.ErrEnrollmentCodeExpired):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment code has expired", nil)
	case err != nil:
		logging.Error().Err(err).Str("username", reqData.Username).Msg("register user")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	resp, err := startLogin(c, newUser, "")
	if err != nil {
		logging.Error().Err(err).Uint("userId", newUser.ID).Msg("start session after registration")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Registered, but failed to sign you in!", nil)
	}

	utils.SendWelcomeEmail(newUser.Email, newUser.Username, *newUser.StudentID)
	logging.Info().Uint("userId", newUser.ID).Str("stateCode", utils.StateCodeOf(code)).Msg("student registered")

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", resp)
}

func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	ctx := c.UserContext()

	user, err := storage.Store.GetUserByUsername(ctx, reqData.Username)
	if errors.Is(err, storage.ErrNotFound) {
		utils.SpendPasswordCheck(reqData.Password)
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, invalidCredentials, nil)
	}
	if err != nil {
		return middleware.StorageErrorResponse(c, err, invalidCredentials)
	}

	ok, err := utils.ComparePasswords(reqData.Password, user.Password)
	if err != nil {
		logging.Error().Err(err).Uint("userId", user.ID).Msg("compare password")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	studentMatches := user.StudentID != nil &&
		subtle.ConstantTimeCompare([]byte(*user.StudentID), []byte(reqData.StudentID)) == 1
	if !ok || !studentMatches {
		logging.Warn().Str("username", reqData.Username).Str("ip", c.IP()).Msg("failed login")
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, invalidCredentials, nil)
	}

	resp, err := startLogin(c, user, reqData.DeviceType)
	if err != nil {
		logging.Error().Err(err).Uint("userId", user.ID).Msg("start session")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sign you in!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", resp)
}

// Logout never fails; it revokes whatever the request can identify.
func Logout(c *fiber.Ctx) error {
	ctx := c.UserContext()
	now := time.Now()

	sessionIDs := []string{c.Cookies(config.AppConfig.SessionCookieName)}
	if token := c.Get("X-Auth-Token"); token != "" {
		if ls, err := storage.Store.GetLoginSessionByToken(ctx, token); err == nil {
			sessionIDs = append(sessionIDs, ls.SessionID)
		}
	}
	for _, sid := range sessionIDs {
		if sid == "" {
			continue
		}
		if _, err := storage.Store.RevokeLoginSessions(ctx, sid, now); err != nil {
			logging.Warn().Err(err).Msg("revoke login sessions")
		}
	}
	if _, err := middleware.DestroySession(c); err != nil {
		logging.Warn().Err(err).Msg("destroy session")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out successfully.", nil)
}

func GetUser(c *fiber.Ctx) error {
	user, err := middleware.Authenticate(c)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Not authenticated")
	}
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Not authenticated", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully.", user)
}

const forgotPasswordReply = "If an account with that email exists, a password reset link has been sent."

func ForgotPassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedForgotPassword").(*authValidator.ForgotPasswordRequest)
	ctx := c.UserContext()

	users, err := storage.Store.GetUsersByEmail(ctx, reqData.Email)
	if err != nil {
		logging.Error().Err(err).Msg("lookup users by email")
		return middleware.JsonResponse(c, fiber.StatusOK, true, forgotPasswordReply, nil)
	}

	for _, user := range users {
		token, err := utils.GenerateResetToken()
		if err != nil {
			logging.Error().Err(err).Msg("generate reset token")
			continue
		}
		expiry := time.Now().Add(config.AppConfig.ResetTokenTTL)
		if err := storage.Store.SetResetToken(ctx, user.ID, token, expiry); err != nil {
			logging.Error().Err(err).Uint("userId", user.ID).Msg("store reset token")
			continue
		}
		resetURL := config.AppConfig.FrontendURL + "/reset-password?token=" + url.QueryEscape(token)
		go func(email, username string) {
			if err := utils.SendPasswordResetEmail(email, username, resetURL); err != nil {
				logging.Error().Err(err).Str("username", username).Msg("send reset email")
			}
		}(user.Email, user.Username)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, forgotPasswordReply, nil)
}

func ResetPassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedResetPassword").(*authValidator.ResetPasswordRequest)

	hashedPassword, err := utils.HashPassword(reqData.Password)
	if err != nil {
		logging.Error().Err(err).Msg("hash password")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	user, err := storage.Store.ResetPassword(c.UserContext(), reqData.Token, hashedPassword, time.Now())
	if errors.Is(err, storage.ErrInvalidOrExpiredToken) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired token", nil)
	}
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Invalid or expired token")
	}
	logging.Info().Uint("userId", user.ID).Msg("password reset")
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password has been reset successfully.", nil)
}

func ChangePassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedChangePassword").(*authValidator.ChangePasswordRequest)
	user := middleware.CurrentUser(c)

	ok, err := utils.ComparePasswords(reqData.CurrentPassword, user.Password)
	if err != nil {
		logging.Error().Err(err).Uint("userId", user.ID).Msg("compare password")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Current password is incorrect", nil)
	}

	hashedPassword, err := utils.HashPassword(reqData.NewPassword)
	if err != nil {
		logging.Error().Err(err).Msg("hash password")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	if err := storage.Store.UpdatePassword(c.UserContext(), user.ID, hashedPassword); err != nil {
		return middleware.StorageErrorResponse(c, err, "User not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password updated successfully.", nil)
}

func UpdateNotificationPreferences(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPreferences").(*authValidator.NotificationPreferencesRequest)
	user := middleware.CurrentUser(c)

	prefs := models.NotificationPreferences{
		EmailNotifications: user.EmailNotifications,
		SMSNotifications:   user.SMSNotifications,
		PushNotifications:  user.PushNotifications,
	}
	if reqData.EmailNotifications != nil {
		prefs.EmailNotifications = *reqData.EmailNotifications
	}
	if reqData.SMSNotifications != nil {
		prefs.SMSNotifications = *reqData.SMSNotifications
	}
	if reqData.PushNotifications != nil {
		prefs.PushNotifications = *reqData.PushNotifications
	}

	updated, err := storage.Store.UpdateNotificationPreferences(c.UserContext(), user.ID, prefs)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "User not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification preferences updated.", updated)
}
