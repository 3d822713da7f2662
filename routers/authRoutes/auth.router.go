package authRoutes

import (
	authControllers "jetacademy/controllers/auth"
	healthController "jetacademy/controllers/health"
	"jetacademy/middleware"
	"jetacademy/validators"
	authValidators "jetacademy/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api")
	throttle := middleware.AuthRateLimiter()

	authGroup.Get("/health", healthController.Health)

	authGroup.Post("/register", throttle, authValidators.Register(), authControllers.Register)
	authGroup.Post("/login", throttle, authValidators.Login(), authControllers.Login)
	authGroup.Post("/logout", authControllers.Logout)
	authGroup.Get("/user", authControllers.GetUser)
	authGroup.Post("/forgot-password", throttle, authValidators.ForgotPassword(), authControllers.ForgotPassword)
	authGroup.Post("/reset-password", throttle, authValidators.ResetPassword(), authControllers.ResetPassword)
	authGroup.Put("/user/password", middleware.EnsureAuthenticated, authValidators.ChangePassword(), authControllers.ChangePassword)
	authGroup.Put("/user/notification-preferences", middleware.EnsureAuthenticated, authValidators.NotificationPreferences(), authControllers.UpdateNotificationPreferences)

	// Bootstrap administration, guarded by configured secrets instead of a session.
	authGroup.Post("/admin/passcode-auth", authControllers.PasscodeConfigured, throttle, authValidators.PasscodeAuth(), authControllers.PasscodeAuth)
	authGroup.Post("/setup/make-instructor", throttle, authValidators.MakeInstructor(), authControllers.MakeInstructor)

	sessionGroup := authGroup.Group("/sessions")
	sessionGroup.Get("/history", middleware.EnsureAuthenticated, validators.ListQuery(), authControllers.LoginHistory)
	sessionGroup.Get("/active", middleware.EnsureAdmin, authControllers.ActiveSessions)
}
