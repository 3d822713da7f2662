package courseController

import (
	"time"

	"jetacademy/middleware"
	"jetacademy/models"
	"jetacademy/storage"
	courseValidator "jetacademy/validators/course"

	"github.com/gofiber/fiber/v2"
)

// passingScore completes a chapter when reached on its quiz.
const passingScore = 70

func ListChapters(c *fiber.Ctx) error {
	chapters, err := storage.Store.ListChapters(c.UserContext())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No chapters found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapters fetched successfully.", chapters)
}

func GetChapter(c *fiber.Ctx) error {
	chapter, err := storage.Store.GetChapter(c.UserContext(), c.Locals("chapterID").(uint))
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Chapter not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter fetched successfully.", chapter)
}

func GetChapterQuiz(c *fiber.Ctx) error {
	ctx := c.UserContext()
	chapterID := c.Locals("chapterID").(uint)
	if _, err := storage.Store.GetChapter(ctx, chapterID); err != nil {
		return middleware.StorageErrorResponse(c, err, "Chapter not found")
	}
	questions, err := storage.Store.ListQuizQuestions(ctx, chapterID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Quiz not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully.", questions)
}

// GetProgress returns one row per chapter, creating rows the student has not touched yet.
func GetProgress(c *fiber.Ctx) error {
	ctx := c.UserContext()
	user := middleware.CurrentUser(c)

	chapters, err := storage.Store.ListChapters(ctx)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No chapters found")
	}
	progress, err := storage.Store.ListUserProgress(ctx, user.ID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No progress found")
	}

	seen := make(map[uint]bool, len(progress))
	for _, p := range progress {
		seen[p.ChapterID] = true
	}
	for _, ch := range chapters {
		if seen[ch.ID] {
			continue
		}
		row, err := storage.Store.UpsertProgress(ctx, &models.UserProgress{UserID: user.ID, ChapterID: ch.ID})
		if err != nil {
			return middleware.StorageErrorResponse(c, err, "No progress found")
		}
		progress = append(progress, *row)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully.", progress)
}

func currentProgress(c *fiber.Ctx, userID, chapterID uint) (*models.UserProgress, error) {
	rows, err := storage.Store.ListUserProgress(c.UserContext(), userID)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ChapterID == chapterID {
			return &rows[i], nil
		}
	}
	return &models.UserProgress{UserID: userID, ChapterID: chapterID}, nil
}

func UpdateProgress(c *fiber.Ctx) error {
	reqData := c.Locals("validatedProgress").(*courseValidator.ProgressRequest)
	ctx := c.UserContext()
	user := middleware.CurrentUser(c)

	if _, err := storage.Store.GetChapter(ctx, reqData.ChapterID); err != nil {
		return middleware.StorageErrorResponse(c, err, "Chapter not found")
	}
	row, err := currentProgress(c, user.ID, reqData.ChapterID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No progress found")
	}

	now := time.Now()
	if reqData.IsCompleted != nil {
		row.IsCompleted = *reqData.IsCompleted
	}
	row.QuizScore = reqData.QuizScore
	row.LastAccessed = &now

	saved, err := storage.Store.UpsertProgress(ctx, row)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No progress found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully.", saved)
}

func ListQuizAttempts(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	attempts, err := storage.Store.ListQuizAttempts(c.UserContext(), user.ID, c.Locals("chapterID").(uint))
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No quiz attempts found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz attempts fetched successfully.", attempts)
}

// CreateQuizAttempt records the attempt and folds its score into the chapter progress.
func CreateQuizAttempt(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuizAttempt").(*courseValidator.QuizAttemptRequest)
	ctx := c.UserContext()
	user := middleware.CurrentUser(c)

	if _, err := storage.Store.GetChapter(ctx, reqData.ChapterID); err != nil {
		return middleware.StorageErrorResponse(c, err, "Chapter not found")
	}

	now := time.Now()
	attempt := &models.QuizAttempt{
		UserID:      user.ID,
		ChapterID:   reqData.ChapterID,
		Score:       reqData.Score,
		Answers:     reqData.Answers,
		CompletedAt: now,
	}
	if err := storage.Store.CreateQuizAttempt(ctx, attempt); err != nil {
		return middleware.StorageErrorResponse(c, err, "Chapter not found")
	}

	row, err := currentProgress(c, user.ID, reqData.ChapterID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No progress found")
	}
	score := reqData.Score
	row.QuizScore = &score
	row.LastAccessed = &now
	row.IsCompleted = row.IsCompleted || score >= passingScore
	if _, err := storage.Store.UpsertProgress(ctx, row); err != nil {
		return middleware.StorageErrorResponse(c, err, "No progress found")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz attempt recorded.", attempt)
}
