package messageValidator

import (
	"jetacademy/validators"

	"github.com/gofiber/fiber/v2"
)

type SendMessageRequest struct {
	RecipientID uint   `json:"recipientId" validate:"required"`
	Subject     string `json:"subject" validate:"max=200"`
	Content     string `json:"content" validate:"required,max=10000"`
}

func MessageID() fiber.Handler {
	return validators.ParamID("id", "messageID")
}

func SendMessage() fiber.Handler {
	return validators.Body[SendMessageRequest]("validatedMessage")
}
