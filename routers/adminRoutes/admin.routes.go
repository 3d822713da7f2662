package adminRoutes

import (
	adminController "jetacademy/controllers/admin"
	"jetacademy/middleware"
	adminValidator "jetacademy/validators/admin"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes guards each route on its own; the /api/admin prefix also
// carries the bootstrap passcode route, which must stay reachable.
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/api/admin")

	adminGroup.Get("/users", middleware.EnsureAdmin, adminController.ListUsers)
	adminGroup.Get("/progress", middleware.EnsureAdmin, adminController.ListAllProgress)
	adminGroup.Get("/quiz-attempts", middleware.EnsureAdmin, adminController.ListAllQuizAttempts)
	adminGroup.Get("/drafts", middleware.EnsureAdmin, adminController.ListAllDrafts)
	adminGroup.Post("/create-instructor", middleware.EnsureAdmin, adminValidator.CreateInstructor(), adminController.CreateInstructor)
	adminGroup.Post("/update-user-role", middleware.EnsureAdmin, adminValidator.UpdateUserRole(), adminController.UpdateUserRole)
	adminGroup.Get("/dashboard/stats", middleware.EnsureAdmin, adminController.DashboardStats)

	app.Get("/api/tutors", adminController.ListTutors)
}
