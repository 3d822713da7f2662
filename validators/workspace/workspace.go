package workspaceValidator

import (
	"jetacademy/validators"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type CreateDraftRequest struct {
	ChapterID uint           `json:"chapterId" validate:"required"`
	Title     string         `json:"title" validate:"required,max=200"`
	Content   datatypes.JSON `json:"content"`
	Status    string         `json:"status" validate:"omitempty,oneof=draft submitted"`
}

type UpdateDraftRequest struct {
	Title   string         `json:"title" validate:"omitempty,max=200"`
	Content datatypes.JSON `json:"content"`
	Status  string         `json:"status" validate:"omitempty,oneof=draft submitted"`
}

type FeedbackRequest struct {
	DraftID uint   `json:"draftId" validate:"required"`
	Content string `json:"content" validate:"required,max=5000"`
	Rating  *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

func DraftID(param string) fiber.Handler {
	return validators.ParamID(param, "draftID")
}

func CreateDraft() fiber.Handler {
	return validators.Body[CreateDraftRequest]("validatedDraft")
}

func UpdateDraft() fiber.Handler {
	return validators.Body[UpdateDraftRequest]("validatedDraftUpdate")
}

func Feedback() fiber.Handler {
	return validators.Body[FeedbackRequest]("validatedFeedback")
}
