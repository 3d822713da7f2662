package workspaceRoutes

import (
	workspaceController "jetacademy/controllers/workspace"
	"jetacademy/middleware"
	courseValidator "jetacademy/validators/course"
	workspaceValidator "jetacademy/validators/workspace"

	"github.com/gofiber/fiber/v2"
)

func SetupWorkspaceRoutes(app *fiber.App) {
	draftGroup := app.Group("/api/drafts", middleware.EnsureAuthenticated)
	draftGroup.Get("/", workspaceController.ListDrafts)
	draftGroup.Get("/chapter/:chapterId", courseValidator.ChapterID("chapterId"), workspaceController.ListDraftsByChapter)
	draftGroup.Get("/:id", workspaceValidator.DraftID("id"), workspaceController.GetDraft)
	draftGroup.Post("/", workspaceValidator.CreateDraft(), workspaceController.CreateDraft)
	draftGroup.Put("/:id", workspaceValidator.DraftID("id"), workspaceValidator.UpdateDraft(), workspaceController.UpdateDraft)

	feedbackGroup := app.Group("/api/feedback")
	feedbackGroup.Get("/:draftId", middleware.EnsureAuthenticated, workspaceValidator.DraftID("draftId"), workspaceController.ListFeedback)
	feedbackGroup.Post("/", middleware.EnsureTutor, workspaceValidator.Feedback(), workspaceController.CreateFeedback)
}
