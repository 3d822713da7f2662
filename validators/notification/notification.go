package notificationValidator

import (
	"time"

	"jetacademy/validators"

	"github.com/gofiber/fiber/v2"
)

// SendNotificationRequest targets either the listed users or everyone. A
// template supplies title and content when they are not sent.
type SendNotificationRequest struct {
	UserIDs      []uint     `json:"userIds" validate:"required_without=All,omitempty,dive,gt=0"`
	All          bool       `json:"all"`
	TemplateID   *uint      `json:"templateId"`
	Title        string     `json:"title" validate:"required_without=TemplateID,max=200"`
	Content      string     `json:"content" validate:"required_without=TemplateID"`
	Type         string     `json:"type" validate:"omitempty,max=32"`
	ScheduledFor *time.Time `json:"scheduledFor"`
}

type TemplateRequest struct {
	Name     string `json:"name" validate:"required,max=191"`
	Type     string `json:"type" validate:"required,max=32"`
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required"`
	IsActive *bool  `json:"isActive"`
}

type TemplateStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func NotificationID() fiber.Handler {
	return validators.ParamID("id", "notificationID")
}

func TemplateID() fiber.Handler {
	return validators.ParamID("id", "templateID")
}

func Send() fiber.Handler {
	return validators.Body[SendNotificationRequest]("validatedNotification")
}

func Template() fiber.Handler {
	return validators.Body[TemplateRequest]("validatedTemplate")
}

func TemplateStatus() fiber.Handler {
	return validators.Body[TemplateStatusRequest]("validatedTemplateStatus")
}
