package adminController

import (
	"errors"
	"time"

	"jetacademy/logging"
	"jetacademy/middleware"
	"jetacademy/models"
	"jetacademy/storage"
	"jetacademy/utils"
	adminValidator "jetacademy/validators/admin"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

func ListUsers(c *fiber.Ctx) error {
	users, err := storage.Store.ListUsers(c.UserContext())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No users found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully.", users)
}

func ListTutors(c *fiber.Ctx) error {
	tutors, err := storage.Store.ListTutors(c.UserContext())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No tutors found")
	}
	// Only the public profile of a tutor is exposed.
	out := make([]fiber.Map, 0, len(tutors))
	for _, t := range tutors {
		out = append(out, fiber.Map{"id": t.ID, "username": t.Username, "isFounder": t.IsFounder})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tutors fetched successfully.", out)
}

func ListAllProgress(c *fiber.Ctx) error {
	progress, err := storage.Store.ListAllProgress(c.UserContext())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No progress found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully.", progress)
}

func ListAllQuizAttempts(c *fiber.Ctx) error {
	attempts, err := storage.Store.ListAllQuizAttempts(c.UserContext())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No quiz attempts found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz attempts fetched successfully.", attempts)
}

func ListAllDrafts(c *fiber.Ctx) error {
	drafts, err := storage.Store.ListAllDrafts(c.UserContext())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No drafts found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Drafts fetched successfully.", drafts)
}

func CreateInstructor(c *fiber.Ctx) error {
	reqData := c.Locals("validatedInstructor").(*adminValidator.CreateInstructorRequest)
	ctx := c.UserContext()

	hashedPassword, err := utils.HashPassword(reqData.Password)
	if err != nil {
		logging.Error().Err(err).Msg("hash password")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	instructor := &models.User{
		Username:           reqData.Username,
		Email:              reqData.Email,
		Password:           hashedPassword,
		IsInstructor:       true,
		IsTutor:            reqData.IsTutor,
		IsFounder:          reqData.IsFounder,
		EmailNotifications: true,
		SMSNotifications:   true,
		PushNotifications:  true,
	}
	err = utils.WithStudentID(instructor, func() error { return storage.Store.CreateUser(ctx, instructor) })
	if errors.Is(err, storage.ErrUsernameTaken) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Username already exists", nil)
	}
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "User not found")
	}

	utils.SendWelcomeEmail(instructor.Email, instructor.Username, *instructor.StudentID)
	logging.Info().Uint("userId", instructor.ID).Uint("createdBy", middleware.CurrentUser(c).ID).Msg("instructor created")
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Instructor created successfully.", instructor)
}

func UpdateUserRole(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUserRole").(*adminValidator.UpdateUserRoleRequest)
	ctx := c.UserContext()

	user, err := storage.Store.GetUser(ctx, reqData.UserID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "User not found")
	}
	roles := models.UserRoles{IsInstructor: user.IsInstructor, IsTutor: user.IsTutor, IsFounder: user.IsFounder}
	if reqData.IsInstructor != nil {
		roles.IsInstructor = *reqData.IsInstructor
	}
	if reqData.IsTutor != nil {
		roles.IsTutor = *reqData.IsTutor
	}
	if reqData.IsFounder != nil {
		roles.IsFounder = *reqData.IsFounder
	}
	if user.ID == middleware.CurrentUser(c).ID && !roles.IsInstructor {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot remove your own instructor role", nil)
	}

	updated, err := storage.Store.UpdateUserRoles(ctx, user.ID, roles)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "User not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User role updated successfully.", updated)
}

type dashboardStats struct {
	TotalUsers         int     `json:"totalUsers"`
	Instructors        int     `json:"instructors"`
	Tutors             int     `json:"tutors"`
	NewUsersToday      int     `json:"newUsersToday"`
	NewUsersThisWeek   int     `json:"newUsersThisWeek"`
	NewUsersThisMonth  int     `json:"newUsersThisMonth"`
	TotalChapters      int     `json:"totalChapters"`
	CompletedChapters  int     `json:"completedChapters"`
	QuizAttemptsWeek   int     `json:"quizAttemptsThisWeek"`
	AverageQuizScore   float64 `json:"averageQuizScore"`
	DraftsAwaitingNote int     `json:"draftsAwaitingFeedback"`
	ActiveSessions     int64   `json:"activeSessions"`
	ActiveAds          int     `json:"activeAds"`
	PublishedVideos    int     `json:"publishedVideos"`
}

func DashboardStats(c *fiber.Ctx) error {
	ctx := c.UserContext()
	current := time.Now()
	today := now.With(current).BeginningOfDay()
	week := now.With(current).BeginningOfWeek()
	month := now.With(current).BeginningOfMonth()

	var stats dashboardStats

	users, err := storage.Store.ListUsers(ctx)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No users found")
	}
	stats.TotalUsers = len(users)
	for _, u := range users {
		if u.IsInstructor {
			stats.Instructors++
		}
		if u.IsTutor {
			stats.Tutors++
		}
		if !u.CreatedAt.Before(today) {
			stats.NewUsersToday++
		}
		if !u.CreatedAt.Before(week) {
			stats.NewUsersThisWeek++
		}
		if !u.CreatedAt.Before(month) {
			stats.NewUsersThisMonth++
		}
	}

	chapters, err := storage.Store.ListChapters(ctx)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No chapters found")
	}
	stats.TotalChapters = len(chapters)

	progress, err := storage.Store.ListAllProgress(ctx)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No progress found")
	}
	for _, p := range progress {
		if p.IsCompleted {
			stats.CompletedChapters++
		}
	}

	attempts, err := storage.Store.ListAllQuizAttempts(ctx)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No quiz attempts found")
	}
	var scoreSum int
	for _, a := range attempts {
		scoreSum += a.Score
		if !a.CompletedAt.Before(week) {
			stats.QuizAttemptsWeek++
		}
	}
	if len(attempts) > 0 {
		stats.AverageQuizScore = float64(scoreSum) / float64(len(attempts))
	}

	drafts, err := storage.Store.ListAllDrafts(ctx)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No drafts found")
	}
	for _, d := range drafts {
		if d.Status == models.DraftStatusSubmitted {
			stats.DraftsAwaitingNote++
		}
	}

	if stats.ActiveSessions, err = storage.Store.CountLiveLoginSessions(ctx, current); err != nil {
		return middleware.StorageErrorResponse(c, err, "No sessions found")
	}

	ads, err := storage.Store.ListFranchiseAds(ctx)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No ads found")
	}
	for i := range ads {
		if ads[i].ActiveAt(current) {
			stats.ActiveAds++
		}
	}

	videos, err := storage.Store.ListVideos(ctx)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No videos found")
	}
	for _, v := range videos {
		if v.IsPublished {
			stats.PublishedVideos++
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully.", stats)
}
