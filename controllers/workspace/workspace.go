package workspaceController

import (
	"fmt"
	"time"

	"jetacademy/logging"
	"jetacademy/middleware"
	"jetacademy/models"
	"jetacademy/storage"
	workspaceValidator "jetacademy/validators/workspace"

	"github.com/gofiber/fiber/v2"
)

func canReview(u *models.User) bool {
	return u.IsTutor || u.IsInstructor
}

// loadDraft hides drafts the caller neither owns nor reviews behind ErrNotFound.
func loadDraft(c *fiber.Ctx, id uint) (*models.StudentDraft, error) {
	draft, err := storage.Store.GetDraft(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	user := middleware.CurrentUser(c)
	if draft.UserID != user.ID && !canReview(user) {
		return nil, storage.ErrNotFound
	}
	return draft, nil
}

func ListDrafts(c *fiber.Ctx) error {
	drafts, err := storage.Store.ListDrafts(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No drafts found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Drafts fetched successfully.", drafts)
}

func ListDraftsByChapter(c *fiber.Ctx) error {
	drafts, err := storage.Store.ListDraftsByChapter(c.UserContext(), middleware.CurrentUser(c).ID, c.Locals("chapterID").(uint))
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No drafts found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Drafts fetched successfully.", drafts)
}

func GetDraft(c *fiber.Ctx) error {
	draft, err := loadDraft(c, c.Locals("draftID").(uint))
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Draft not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Draft fetched successfully.", draft)
}

func CreateDraft(c *fiber.Ctx) error {
	reqData := c.Locals("validatedDraft").(*workspaceValidator.CreateDraftRequest)
	ctx := c.UserContext()

	if _, err := storage.Store.GetChapter(ctx, reqData.ChapterID); err != nil {
		return middleware.StorageErrorResponse(c, err, "Chapter not found")
	}

	status := reqData.Status
	if status == "" {
		status = models.DraftStatusDraft
	}
	draft := &models.StudentDraft{
		UserID:      middleware.CurrentUser(c).ID,
		ChapterID:   reqData.ChapterID,
		Title:       reqData.Title,
		Content:     reqData.Content,
		Status:      status,
		LastUpdated: time.Now(),
	}
	if err := storage.Store.CreateDraft(ctx, draft); err != nil {
		return middleware.StorageErrorResponse(c, err, "Draft not found")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Draft created successfully.", draft)
}

// UpdateDraft is limited to the owner; reviewers comment through feedback.
func UpdateDraft(c *fiber.Ctx) error {
	reqData := c.Locals("validatedDraftUpdate").(*workspaceValidator.UpdateDraftRequest)
	ctx := c.UserContext()

	draft, err := storage.Store.GetDraft(ctx, c.Locals("draftID").(uint))
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Draft not found")
	}
	if draft.UserID != middleware.CurrentUser(c).ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only edit your own drafts", nil)
	}

	if reqData.Title != "" {
		draft.Title = reqData.Title
	}
	if reqData.Content != nil {
		draft.Content = reqData.Content
	}
	if reqData.Status != "" {
		draft.Status = reqData.Status
	}
	draft.LastUpdated = time.Now()

	if err := storage.Store.UpdateDraft(ctx, draft); err != nil {
		return middleware.StorageErrorResponse(c, err, "Draft not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Draft updated successfully.", draft)
}

func ListFeedback(c *fiber.Ctx) error {
	draft, err := loadDraft(c, c.Locals("draftID").(uint))
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Draft not found")
	}
	feedback, err := storage.Store.ListFeedback(c.UserContext(), draft.ID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No feedback found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Feedback fetched successfully.", feedback)
}

// CreateFeedback marks the draft reviewed and notifies its author.
func CreateFeedback(c *fiber.Ctx) error {
	reqData := c.Locals("validatedFeedback").(*workspaceValidator.FeedbackRequest)
	ctx := c.UserContext()
	tutor := middleware.CurrentUser(c)

	draft, err := storage.Store.GetDraft(ctx, reqData.DraftID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Draft not found")
	}

	feedback := &models.TutorFeedback{
		DraftID: draft.ID,
		TutorID: tutor.ID,
		Content: reqData.Content,
		Rating:  reqData.Rating,
	}
	if err := storage.Store.CreateFeedback(ctx, feedback); err != nil {
		return middleware.StorageErrorResponse(c, err, "Draft not found")
	}

	now := time.Now()
	draft.Status = models.DraftStatusReviewed
	draft.LastUpdated = now
	if err := storage.Store.UpdateDraft(ctx, draft); err != nil {
		return middleware.StorageErrorResponse(c, err, "Draft not found")
	}

	notice := models.Notification{
		UserID:       draft.UserID,
		Title:        "New feedback on your draft",
		Content:      fmt.Sprintf("%s left feedback on %q.", tutor.Username, draft.Title),
		Type:         "feedback",
		ScheduledFor: &now,
	}
	if err := storage.Store.CreateNotifications(ctx, []models.Notification{notice}); err != nil {
		logging.Warn().Err(err).Uint("draftId", draft.ID).Msg("queue feedback notification")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Feedback submitted successfully.", feedback)
}
