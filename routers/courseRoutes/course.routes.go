package courseRoutes

import (
	courseController "jetacademy/controllers/course"
	"jetacademy/middleware"
	courseValidator "jetacademy/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/chapters", courseController.ListChapters)
	api.Get("/chapters/:id", courseValidator.ChapterID("id"), courseController.GetChapter)
	api.Get("/chapters/:chapterId/quiz", middleware.EnsureAuthenticated, courseValidator.ChapterID("chapterId"), courseController.GetChapterQuiz)

	api.Get("/progress", middleware.EnsureAuthenticated, courseController.GetProgress)
	api.Post("/progress", middleware.EnsureAuthenticated, courseValidator.Progress(), courseController.UpdateProgress)

	api.Get("/quiz-attempts/:chapterId", middleware.EnsureAuthenticated, courseValidator.ChapterID("chapterId"), courseController.ListQuizAttempts)
	api.Post("/quiz-attempts", middleware.EnsureAuthenticated, courseValidator.QuizAttempt(), courseController.CreateQuizAttempt)
}
