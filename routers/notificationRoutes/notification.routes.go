package notificationRoutes

import (
	notificationController "jetacademy/controllers/notification"
	"jetacademy/middleware"
	notificationValidator "jetacademy/validators/notification"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/api/notifications")
	notificationGroup.Get("/", middleware.EnsureAuthenticated, notificationController.ListNotifications)
	notificationGroup.Get("/unread", middleware.EnsureAuthenticated, notificationController.ListUnread)
	notificationGroup.Put("/:id/read", middleware.EnsureAuthenticated, notificationValidator.NotificationID(), notificationController.MarkRead)
	notificationGroup.Post("/send", middleware.EnsureAdmin, notificationValidator.Send(), notificationController.Send)

	templateGroup := app.Group("/api/notification-templates", middleware.EnsureAdmin)
	templateGroup.Get("/", notificationController.ListTemplates)
	templateGroup.Post("/", notificationValidator.Template(), notificationController.CreateTemplate)
	templateGroup.Put("/:id", notificationValidator.TemplateID(), notificationValidator.Template(), notificationController.UpdateTemplate)
	templateGroup.Put("/:id/status", notificationValidator.TemplateID(), notificationValidator.TemplateStatus(), notificationController.SetTemplateStatus)
}
