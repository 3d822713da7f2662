package enrollmentRoutes

import (
	enrollmentController "jetacademy/controllers/enrollment"
	"jetacademy/middleware"
	enrollmentValidator "jetacademy/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

func SetupEnrollmentRoutes(app *fiber.App) {
	codeGroup := app.Group("/api/enrollment-codes")

	codeGroup.Post("/validate", middleware.AuthRateLimiter(), enrollmentValidator.ValidateCode(), enrollmentController.ValidateCode)

	codeGroup.Get("/", middleware.EnsureAdmin, enrollmentController.ListCodes)
	codeGroup.Get("/active", middleware.EnsureAdmin, enrollmentController.ListActiveCodes)
	codeGroup.Get("/state/:stateCode", middleware.EnsureAdmin, enrollmentController.ListCodesByState)
	codeGroup.Post("/", middleware.EnsureAdmin, enrollmentValidator.CreateCode(), enrollmentController.CreateCode)
	codeGroup.Put("/:id/used", middleware.EnsureAdmin, enrollmentValidator.CodeID(), enrollmentValidator.SetUsed(), enrollmentController.SetCodeUsed)
	codeGroup.Delete("/:id", middleware.EnsureAdmin, enrollmentValidator.CodeID(), enrollmentController.DeleteCode)
}
