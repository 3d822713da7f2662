// Package storage defines the persistence contract of the academy and its two
// implementations: MemStorage for tests and database-less runs, and
// DatabaseStorage backed by GORM.
package storage

import (
	"context"
	"errors"
	"time"

	"jetacademy/models"
)

var (
	ErrNotFound              = errors.New("record not found")
	ErrUsernameTaken         = errors.New("username already exists")
	ErrInvalidEnrollmentCode = errors.New("invalid enrollment code")
	ErrEnrollmentCodeUsed    = errors.New("enrollment code has already been used")
	ErrEnrollmentCodeExpired = errors.New("enrollment code has expired")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrDuplicate             = errors.New("record already exists")
)

// Store is the process-wide storage instance, installed at startup by Use.
var Store Storage

// Use installs s as the process-wide storage.
func Use(s Storage) {
	Store = s
}

// Storage is the full persistence contract. Every implementation must behave
// identically; the shared contract tests run against each one.
type Storage interface {
	UserStore
	LoginSessionStore
	CourseStore
	WorkspaceStore
	MessageStore
	NotificationStore
	EnrollmentCodeStore
	AdStore
	VideoStore
}

type UserStore interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByEmail(ctx context.Context, email string) ([]models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListTutors(ctx context.Context) ([]models.User, error)
	// CreateUser inserts a user; a taken username yields ErrUsernameTaken.
	CreateUser(ctx context.Context, user *models.User) error
	// RegisterUser consumes the enrollment code and creates the user as one
	// atomic step. On any error neither change is visible.
	RegisterUser(ctx context.Context, user *models.User, code string, now time.Time) error
	UpdateUserRoles(ctx context.Context, id uint, roles models.UserRoles) (*models.User, error)
	UpdateNotificationPreferences(ctx context.Context, id uint, prefs models.NotificationPreferences) (*models.User, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	SetResetToken(ctx context.Context, id uint, token string, expiry time.Time) error
	// ResetPassword swaps the password of the user holding a live token and
	// clears the token in the same step, so a token works exactly once.
	ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) (*models.User, error)
}

type LoginSessionStore interface {
	CreateLoginSession(ctx context.Context, ls *models.LoginSession) error
	GetLoginSessionByToken(ctx context.Context, token string) (*models.LoginSession, error)
	GetLoginSessionByShortToken(ctx context.Context, shortToken string) (*models.LoginSession, error)
	// GetLoginSessionBySessionID returns the newest record bound to the cookie session id.
	GetLoginSessionBySessionID(ctx context.Context, sessionID string) (*models.LoginSession, error)
	RebindLoginSession(ctx context.Context, id uint, sessionID string) error
	RevokeLoginSessions(ctx context.Context, sessionID string, now time.Time) (int64, error)
	ListLoginSessions(ctx context.Context, userID uint, offset, limit int) ([]models.LoginSession, int64, error)
	CountLiveLoginSessions(ctx context.Context, now time.Time) (int64, error)
	PruneLoginSessions(ctx context.Context, now time.Time) (int64, error)
}

type CourseStore interface {
	ListChapters(ctx context.Context) ([]models.Chapter, error)
	GetChapter(ctx context.Context, id uint) (*models.Chapter, error)
	CreateChapter(ctx context.Context, chapter *models.Chapter) error
	ListQuizQuestions(ctx context.Context, chapterID uint) ([]models.QuizQuestion, error)
	CreateQuizQuestion(ctx context.Context, q *models.QuizQuestion) error

	ListUserProgress(ctx context.Context, userID uint) ([]models.UserProgress, error)
	ListAllProgress(ctx context.Context) ([]models.UserProgress, error)
	// UpsertProgress creates or updates the (userId, chapterId) row. Nil
	// QuizScore and LastAccessed leave the stored values untouched.
	UpsertProgress(ctx context.Context, p *models.UserProgress) (*models.UserProgress, error)

	ListQuizAttempts(ctx context.Context, userID, chapterID uint) ([]models.QuizAttempt, error)
	ListAllQuizAttempts(ctx context.Context) ([]models.QuizAttempt, error)
	CreateQuizAttempt(ctx context.Context, a *models.QuizAttempt) error
}

type WorkspaceStore interface {
	ListDrafts(ctx context.Context, userID uint) ([]models.StudentDraft, error)
	ListDraftsByChapter(ctx context.Context, userID, chapterID uint) ([]models.StudentDraft, error)
	ListAllDrafts(ctx context.Context) ([]models.StudentDraft, error)
	GetDraft(ctx context.Context, id uint) (*models.StudentDraft, error)
	CreateDraft(ctx context.Context, d *models.StudentDraft) error
	UpdateDraft(ctx context.Context, d *models.StudentDraft) error

	ListFeedback(ctx context.Context, draftID uint) ([]models.TutorFeedback, error)
	CreateFeedback(ctx context.Context, f *models.TutorFeedback) error
}

type MessageStore interface {
	ListInbox(ctx context.Context, userID uint) ([]models.Message, error)
	ListSent(ctx context.Context, userID uint) ([]models.Message, error)
	GetMessage(ctx context.Context, id uint) (*models.Message, error)
	CreateMessage(ctx context.Context, m *models.Message) error
	MarkMessageRead(ctx context.Context, id uint, now time.Time) (*models.Message, error)
}

type NotificationStore interface {
	ListNotifications(ctx context.Context, userID uint) ([]models.Notification, error)
	ListUnreadNotifications(ctx context.Context, userID uint) ([]models.Notification, error)
	GetNotification(ctx context.Context, id uint) (*models.Notification, error)
	CreateNotifications(ctx context.Context, ns []models.Notification) error
	MarkNotificationRead(ctx context.Context, id uint, now time.Time) (*models.Notification, error)
	// ListPendingNotifications returns undelivered notifications due at or before now.
	ListPendingNotifications(ctx context.Context, now time.Time) ([]models.Notification, error)
	MarkNotificationDelivered(ctx context.Context, id uint, channels []string, now time.Time) error

	ListNotificationTemplates(ctx context.Context) ([]models.NotificationTemplate, error)
	GetNotificationTemplate(ctx context.Context, id uint) (*models.NotificationTemplate, error)
	CreateNotificationTemplate(ctx context.Context, t *models.NotificationTemplate) error
	UpdateNotificationTemplate(ctx context.Context, t *models.NotificationTemplate) error
}

type EnrollmentCodeStore interface {
	GetEnrollmentCode(ctx context.Context, code string) (*models.EnrollmentCode, error)
	ListEnrollmentCodes(ctx context.Context) ([]models.EnrollmentCode, error)
	ListEnrollmentCodesByState(ctx context.Context, stateCode string) ([]models.EnrollmentCode, error)
	CreateEnrollmentCode(ctx context.Context, e *models.EnrollmentCode) error
	SetEnrollmentCodeUsed(ctx context.Context, id uint, used bool, now time.Time) (*models.EnrollmentCode, error)
	DeleteEnrollmentCode(ctx context.Context, id uint) error
}

type AdStore interface {
	// ListFranchiseAds returns the catalog ordered by priority ascending then id.
	ListFranchiseAds(ctx context.Context) ([]models.FranchiseAd, error)
	GetFranchiseAd(ctx context.Context, id uint) (*models.FranchiseAd, error)
	CreateFranchiseAd(ctx context.Context, ad *models.FranchiseAd) error
	UpdateFranchiseAd(ctx context.Context, ad *models.FranchiseAd) error
	DeleteFranchiseAd(ctx context.Context, id uint) error

	ListAdInteractions(ctx context.Context, adID uint) ([]models.AdInteraction, error)
	ListUserAdInteractions(ctx context.Context, userID uint) ([]models.AdInteraction, error)
	// TrackAdView upserts the (user, ad) interaction and marks it viewed.
	TrackAdView(ctx context.Context, userID, adID uint, duration *int, now time.Time) (*models.AdInteraction, error)
	// SubmitAdComment upserts the (user, ad) interaction with a comment.
	SubmitAdComment(ctx context.Context, userID, adID uint, comment string, interested *bool, now time.Time) (*models.AdInteraction, error)

	GetUserInterests(ctx context.Context, userID uint) (*models.UserInterests, error)
	SaveUserInterests(ctx context.Context, in *models.UserInterests) error
}

type VideoStore interface {
	ListVideos(ctx context.Context) ([]models.VideoContent, error)
	GetVideo(ctx context.Context, id uint) (*models.VideoContent, error)
	CreateVideo(ctx context.Context, v *models.VideoContent) error
	UpdateVideo(ctx context.Context, v *models.VideoContent) error
	DeleteVideo(ctx context.Context, id uint) error

	ListVideoViews(ctx context.Context, videoID uint) ([]models.VideoView, error)
	ListUserVideoViews(ctx context.Context, userID uint) ([]models.VideoView, error)
	// RecordVideoView upserts the (user, video) view, adds watch time and
	// counts the first view of each user on the video.
	RecordVideoView(ctx context.Context, userID, videoID uint, watchSeconds int, now time.Time) (*models.VideoView, error)
	// MarkVideoCompleted flags the view completed and counts the first completion.
	MarkVideoCompleted(ctx context.Context, userID, videoID uint, now time.Time) (*models.VideoView, error)
}
