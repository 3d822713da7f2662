package messageController

import (
	"time"

	"jetacademy/logging"
	"jetacademy/middleware"
	"jetacademy/models"
	"jetacademy/storage"
	messageValidator "jetacademy/validators/message"

	"github.com/gofiber/fiber/v2"
)

func Inbox(c *fiber.Ctx) error {
	messages, err := storage.Store.ListInbox(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No messages found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Inbox fetched successfully.", messages)
}

func Sent(c *fiber.Ctx) error {
	messages, err := storage.Store.ListSent(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No messages found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sent messages fetched successfully.", messages)
}

// GetMessage marks the message read when its recipient opens it.
func GetMessage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	user := middleware.CurrentUser(c)

	msg, err := storage.Store.GetMessage(ctx, c.Locals("messageID").(uint))
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Message not found")
	}
	if msg.SenderID != user.ID && msg.RecipientID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Message not found", nil)
	}
	if msg.RecipientID == user.ID && !msg.IsRead {
		if msg, err = storage.Store.MarkMessageRead(ctx, msg.ID, time.Now()); err != nil {
			return middleware.StorageErrorResponse(c, err, "Message not found")
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message fetched successfully.", msg)
}

func SendMessage(c *fiber.Ctx) error {
	reqData := c.Locals("validatedMessage").(*messageValidator.SendMessageRequest)
	ctx := c.UserContext()
	sender := middleware.CurrentUser(c)

	if _, err := storage.Store.GetUser(ctx, reqData.RecipientID); err != nil {
		return middleware.StorageErrorResponse(c, err, "Recipient not found")
	}

	now := time.Now()
	msg := &models.Message{
		SenderID:    sender.ID,
		RecipientID: reqData.RecipientID,
		Subject:     reqData.Subject,
		Content:     reqData.Content,
		SentAt:      now,
	}
	if err := storage.Store.CreateMessage(ctx, msg); err != nil {
		return middleware.StorageErrorResponse(c, err, "Recipient not found")
	}

	subject := msg.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	notice := models.Notification{
		UserID:       msg.RecipientID,
		Title:        "New message from " + sender.Username,
		Content:      subject,
		Type:         "message",
		ScheduledFor: &now,
	}
	if err := storage.Store.CreateNotifications(ctx, []models.Notification{notice}); err != nil {
		logging.Warn().Err(err).Uint("messageId", msg.ID).Msg("queue message notification")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Message sent successfully.", msg)
}

func MarkRead(c *fiber.Ctx) error {
	ctx := c.UserContext()
	msg, err := storage.Store.GetMessage(ctx, c.Locals("messageID").(uint))
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Message not found")
	}
	if msg.RecipientID != middleware.CurrentUser(c).ID {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Message not found", nil)
	}
	if msg, err = storage.Store.MarkMessageRead(ctx, msg.ID, time.Now()); err != nil {
		return middleware.StorageErrorResponse(c, err, "Message not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message marked as read.", msg)
}
