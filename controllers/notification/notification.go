package notificationController

import (
	"errors"
	"time"

	"jetacademy/middleware"
	"jetacademy/models"
	"jetacademy/storage"
	notificationValidator "jetacademy/validators/notification"

	"github.com/gofiber/fiber/v2"
)

func ListNotifications(c *fiber.Ctx) error {
	items, err := storage.Store.ListNotifications(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No notifications found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully.", items)
}

func ListUnread(c *fiber.Ctx) error {
	items, err := storage.Store.ListUnreadNotifications(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No notifications found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unread notifications fetched successfully.", fiber.Map{
		"count":         len(items),
		"notifications": items,
	})
}

func MarkRead(c *fiber.Ctx) error {
	ctx := c.UserContext()
	n, err := storage.Store.GetNotification(ctx, c.Locals("notificationID").(uint))
	if err == nil && n.UserID != middleware.CurrentUser(c).ID {
		err = storage.ErrNotFound
	}
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Notification not found")
	}
	if n, err = storage.Store.MarkNotificationRead(ctx, n.ID, time.Now()); err != nil {
		return middleware.StorageErrorResponse(c, err, "Notification not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read.", n)
}

// Send queues one notification per recipient. Delivery over email and SMS
// happens in the dispatcher once ScheduledFor is due.
func Send(c *fiber.Ctx) error {
	reqData := c.Locals("validatedNotification").(*notificationValidator.SendNotificationRequest)
	ctx := c.UserContext()

	title, content, kind := reqData.Title, reqData.Content, reqData.Type
	if reqData.TemplateID != nil {
		tpl, err := storage.Store.GetNotificationTemplate(ctx, *reqData.TemplateID)
		if err != nil {
			return middleware.StorageErrorResponse(c, err, "Template not found")
		}
		if !tpl.IsActive {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Template is inactive", nil)
		}
		if title == "" {
			title = tpl.Title
		}
		if content == "" {
			content = tpl.Content
		}
		if kind == "" {
			kind = tpl.Type
		}
	}
	if kind == "" {
		kind = "general"
	}

	recipients := reqData.UserIDs
	if reqData.All {
		users, err := storage.Store.ListUsers(ctx)
		if err != nil {
			return middleware.StorageErrorResponse(c, err, "No users found")
		}
		recipients = recipients[:0]
		for _, u := range users {
			recipients = append(recipients, u.ID)
		}
	} else {
		for _, id := range recipients {
			if _, err := storage.Store.GetUser(ctx, id); err != nil {
				return middleware.StorageErrorResponse(c, err, "Recipient not found")
			}
		}
	}

	scheduledFor := time.Now()
	if reqData.ScheduledFor != nil {
		scheduledFor = *reqData.ScheduledFor
	}
	batch := make([]models.Notification, 0, len(recipients))
	for _, id := range recipients {
		batch = append(batch, models.Notification{
			UserID:       id,
			Title:        title,
			Content:      content,
			Type:         kind,
			ScheduledFor: &scheduledFor,
		})
	}
	if err := storage.Store.CreateNotifications(ctx, batch); err != nil {
		return middleware.StorageErrorResponse(c, err, "Recipient not found")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Notifications queued.", fiber.Map{
		"count":        len(batch),
		"scheduledFor": scheduledFor,
	})
}

func ListTemplates(c *fiber.Ctx) error {
	templates, err := storage.Store.ListNotificationTemplates(c.UserContext())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No templates found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Templates fetched successfully.", templates)
}

func CreateTemplate(c *fiber.Ctx) error {
	reqData := c.Locals("validatedTemplate").(*notificationValidator.TemplateRequest)

	tpl := &models.NotificationTemplate{
		Name:     reqData.Name,
		Type:     reqData.Type,
		Title:    reqData.Title,
		Content:  reqData.Content,
		IsActive: reqData.IsActive == nil || *reqData.IsActive,
	}
	err := storage.Store.CreateNotificationTemplate(c.UserContext(), tpl)
	if errors.Is(err, storage.ErrDuplicate) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Template name already exists", nil)
	}
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Template not found")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Template created successfully.", tpl)
}

func UpdateTemplate(c *fiber.Ctx) error {
	reqData := c.Locals("validatedTemplate").(*notificationValidator.TemplateRequest)
	ctx := c.UserContext()

	tpl, err := storage.Store.GetNotificationTemplate(ctx, c.Locals("templateID").(uint))
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Template not found")
	}
	tpl.Name = reqData.Name
	tpl.Type = reqData.Type
	tpl.Title = reqData.Title
	tpl.Content = reqData.Content
	if reqData.IsActive != nil {
		tpl.IsActive = *reqData.IsActive
	}

	err = storage.Store.UpdateNotificationTemplate(ctx, tpl)
	if errors.Is(err, storage.ErrDuplicate) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Template name already exists", nil)
	}
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Template not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Template updated successfully.", tpl)
}

func SetTemplateStatus(c *fiber.Ctx) error {
	reqData := c.Locals("validatedTemplateStatus").(*notificationValidator.TemplateStatusRequest)
	ctx := c.UserContext()

	tpl, err := storage.Store.GetNotificationTemplate(ctx, c.Locals("templateID").(uint))
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Template not found")
	}
	tpl.IsActive = *reqData.IsActive
	if err := storage.Store.UpdateNotificationTemplate(ctx, tpl); err != nil {
		return middleware.StorageErrorResponse(c, err, "Template not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Template status updated.", tpl)
}
