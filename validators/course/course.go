package courseValidator

import (
	"jetacademy/validators"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type ProgressRequest struct {
	ChapterID   uint  `json:"chapterId" validate:"required"`
	IsCompleted *bool `json:"isCompleted"`
	QuizScore   *int  `json:"quizScore" validate:"omitempty,min=0,max=100"`
}

type QuizAttemptRequest struct {
	ChapterID uint           `json:"chapterId" validate:"required"`
	Score     int            `json:"score" validate:"min=0,max=100"`
	Answers   datatypes.JSON `json:"answers" validate:"required"`
}

func ChapterID(param string) fiber.Handler {
	return validators.ParamID(param, "chapterID")
}

func Progress() fiber.Handler {
	return validators.Body[ProgressRequest]("validatedProgress")
}

func QuizAttempt() fiber.Handler {
	return validators.Body[QuizAttemptRequest]("validatedQuizAttempt")
}
