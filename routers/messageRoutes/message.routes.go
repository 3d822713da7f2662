package messageRoutes

import (
	messageController "jetacademy/controllers/message"
	"jetacademy/middleware"
	messageValidator "jetacademy/validators/message"

	"github.com/gofiber/fiber/v2"
)

func SetupMessageRoutes(app *fiber.App) {
	messageGroup := app.Group("/api/messages", middleware.EnsureAuthenticated)

	messageGroup.Get("/inbox", messageController.Inbox)
	messageGroup.Get("/sent", messageController.Sent)
	messageGroup.Get("/:id", messageValidator.MessageID(), messageController.GetMessage)
	messageGroup.Post("/", messageValidator.SendMessage(), messageController.SendMessage)
	messageGroup.Put("/:id/read", messageValidator.MessageID(), messageController.MarkRead)
}
