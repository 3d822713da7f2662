package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"jetacademy/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatabaseStorage implements Storage on a GORM connection.
type DatabaseStorage struct {
	db *gorm.DB
}

var _ Storage = (*DatabaseStorage)(nil)

func NewDatabaseStorage(db *gorm.DB) *DatabaseStorage {
	return &DatabaseStorage{db: db}
}

func (d *DatabaseStorage) conn(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func first[T any](db *gorm.DB, query any, args ...any) (*T, error) {
	var row T
	if err := db.Where(query, args...).First(&row).Error; err != nil {
		return nil, mapErr(err)
	}
	return &row, nil
}

func list[T any](db *gorm.DB, order string, query any, args ...any) ([]T, error) {
	rows := []T{}
	q := db
	if query != nil {
		q = q.Where(query, args...)
	}
	if order != "" {
		q = q.Order(order)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// replace overwrites every column of an existing row except its creation time.
func replace[T any](db *gorm.DB, id uint, row *T) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var existing T
		if err := tx.First(&existing, id).Error; err != nil {
			return mapErr(err)
		}
		return mapErr(tx.Model(&existing).Select("*").Omit("id", "created_at").Updates(row).Error)
	})
}

func deleteByID[T any](db *gorm.DB, id uint) error {
	var row T
	res := db.Delete(&row, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Users

func (d *DatabaseStorage) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return first[models.User](d.conn(ctx), "id = ?", id)
}

func (d *DatabaseStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](d.conn(ctx), "username = ?", username)
}

func (d *DatabaseStorage) GetUsersByEmail(ctx context.Context, email string) ([]models.User, error) {
	return list[models.User](d.conn(ctx), "id asc", "LOWER(email) = ?", strings.ToLower(email))
}

func (d *DatabaseStorage) ListUsers(ctx context.Context) ([]models.User, error) {
	return list[models.User](d.conn(ctx), "id asc", nil)
}

func (d *DatabaseStorage) ListTutors(ctx context.Context) ([]models.User, error) {
	return list[models.User](d.conn(ctx), "id asc", "is_tutor = ?", true)
}

func (d *DatabaseStorage) CreateUser(ctx context.Context, user *models.User) error {
	return d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return createUser(tx, user)
	})
}

func createUser(tx *gorm.DB, user *models.User) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	// A unique index violation here is either a lost username race or a
	// student id collision; callers retry ErrDuplicate with a fresh id.
	return mapErr(tx.Create(user).Error)
}

func (d *DatabaseStorage) RegisterUser(ctx context.Context, user *models.User, code string, now time.Time) error {
	return d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var ec models.EnrollmentCode
		if err := tx.Where("code = ?", code).First(&ec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidEnrollmentCode
			}
			return err
		}
		if ec.IsUsed {
			return ErrEnrollmentCodeUsed
		}
		if ec.Expired(now) {
			return ErrEnrollmentCodeExpired
		}
		if err := createUser(tx, user); err != nil {
			return err
		}
		res := tx.Model(&models.EnrollmentCode{}).
			Where("id = ? AND is_used = ?", ec.ID, false).
			Updates(map[string]any{"is_used": true, "used_by": user.ID, "used_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEnrollmentCodeUsed
		}
		return nil
	})
}

func (d *DatabaseStorage) updateUser(ctx context.Context, id uint, fields map[string]any) (*models.User, error) {
	db := d.conn(ctx)
	res := db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return first[models.User](db, "id = ?", id)
}

func (d *DatabaseStorage) UpdateUserRoles(ctx context.Context, id uint, roles models.UserRoles) (*models.User, error) {
	return d.updateUser(ctx, id, map[string]any{
		"is_instructor": roles.IsInstructor,
		"is_tutor":      roles.IsTutor,
		"is_founder":    roles.IsFounder,
	})
}

func (d *DatabaseStorage) UpdateNotificationPreferences(ctx context.Context, id uint, prefs models.NotificationPreferences) (*models.User, error) {
	return d.updateUser(ctx, id, map[string]any{
		"email_notifications": prefs.EmailNotifications,
		"sms_notifications":   prefs.SMSNotifications,
		"push_notifications":  prefs.PushNotifications,
	})
}

func (d *DatabaseStorage) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	_, err := d.updateUser(ctx, id, map[string]any{"password": passwordHash})
	return err
}

func (d *DatabaseStorage) SetResetToken(ctx context.Context, id uint, token string, expiry time.Time) error {
	_, err := d.updateUser(ctx, id, map[string]any{"reset_token": token, "reset_expiry": expiry})
	return err
}

func (d *DatabaseStorage) ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidOrExpiredToken
	}
	var user models.User
	err := d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reset_token = ? AND reset_expiry > ?", token, now).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidOrExpiredToken
			}
			return err
		}
		// Conditional on the token so two concurrent resets cannot both win.
		res := tx.Model(&models.User{}).
			Where("id = ? AND reset_token = ?", user.ID, token).
			Updates(map[string]any{"password": passwordHash, "reset_token": nil, "reset_expiry": nil})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidOrExpiredToken
		}
		return tx.First(&user, user.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login sessions

func (d *DatabaseStorage) CreateLoginSession(ctx context.Context, ls *models.LoginSession) error {
	return mapErr(d.conn(ctx).Create(ls).Error)
}

func (d *DatabaseStorage) latestLoginSession(ctx context.Context, column, value string) (*models.LoginSession, error) {
	if value == "" {
		return nil, ErrNotFound
	}
	var ls models.LoginSession
	if err := d.conn(ctx).Where(column+" = ?", value).Order("id desc").First(&ls).Error; err != nil {
		return nil, mapErr(err)
	}
	return &ls, nil
}

func (d *DatabaseStorage) GetLoginSessionByToken(ctx context.Context, token string) (*models.LoginSession, error) {
	return d.latestLoginSession(ctx, "auth_token", token)
}

func (d *DatabaseStorage) GetLoginSessionByShortToken(ctx context.Context, shortToken string) (*models.LoginSession, error) {
	return d.latestLoginSession(ctx, "short_token", shortToken)
}

func (d *DatabaseStorage) GetLoginSessionBySessionID(ctx context.Context, sessionID string) (*models.LoginSession, error) {
	return d.latestLoginSession(ctx, "session_id", sessionID)
}

func (d *DatabaseStorage) RebindLoginSession(ctx context.Context, id uint, sessionID string) error {
	res := d.conn(ctx).Model(&models.LoginSession{}).Where("id = ?", id).Update("session_id", sessionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DatabaseStorage) RevokeLoginSessions(ctx context.Context, sessionID string, now time.Time) (int64, error) {
	if sessionID == "" {
		return 0, nil
	}
	res := d.conn(ctx).Model(&models.LoginSession{}).
		Where("session_id = ? AND revoked_at IS NULL", sessionID).
		Update("revoked_at", now)
	return res.RowsAffected, res.Error
}

func (d *DatabaseStorage) ListLoginSessions(ctx context.Context, userID uint, offset, limit int) ([]models.LoginSession, int64, error) {
	db := d.conn(ctx)
	var total int64
	if err := db.Model(&models.LoginSession{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []models.LoginSession{}
	q := db.Where("user_id = ?", userID).Order("id desc").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (d *DatabaseStorage) CountLiveLoginSessions(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := d.conn(ctx).Model(&models.LoginSession{}).
		Where("revoked_at IS NULL AND expires_at > ?", now).
		Count(&n).Error
	return n, err
}

func (d *DatabaseStorage) PruneLoginSessions(ctx context.Context, now time.Time) (int64, error) {
	res := d.conn(ctx).Where("expires_at <= ?", now).Delete(&models.LoginSession{})
	return res.RowsAffected, res.Error
}

// Course

func (d *DatabaseStorage) ListChapters(ctx context.Context) ([]models.Chapter, error) {
	return list[models.Chapter](d.conn(ctx), "number asc", nil)
}

func (d *DatabaseStorage) GetChapter(ctx context.Context, id uint) (*models.Chapter, error) {
	return first[models.Chapter](d.conn(ctx), "id = ?", id)
}

func (d *DatabaseStorage) CreateChapter(ctx context.Context, chapter *models.Chapter) error {
	return mapErr(d.conn(ctx).Create(chapter).Error)
}

func (d *DatabaseStorage) ListQuizQuestions(ctx context.Context, chapterID uint) ([]models.QuizQuestion, error) {
	return list[models.QuizQuestion](d.conn(ctx), "id asc", "chapter_id = ?", chapterID)
}

func (d *DatabaseStorage) CreateQuizQuestion(ctx context.Context, q *models.QuizQuestion) error {
	return mapErr(d.conn(ctx).Create(q).Error)
}

func (d *DatabaseStorage) ListUserProgress(ctx context.Context, userID uint) ([]models.UserProgress, error) {
	return list[models.UserProgress](d.conn(ctx), "id asc", "user_id = ?", userID)
}

func (d *DatabaseStorage) ListAllProgress(ctx context.Context) ([]models.UserProgress, error) {
	return list[models.UserProgress](d.conn(ctx), "id asc", nil)
}

func (d *DatabaseStorage) UpsertProgress(ctx context.Context, p *models.UserProgress) (*models.UserProgress, error) {
	var out models.UserProgress
	err := d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND chapter_id = ?", p.UserID, p.ChapterID).First(&out).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			out = *p
			out.ID = 0
			return mapErr(tx.Create(&out).Error)
		}
		if err != nil {
			return err
		}
		fields := map[string]any{"is_completed": p.IsCompleted}
		if p.QuizScore != nil {
			fields["quiz_score"] = *p.QuizScore
		}
		if p.LastAccessed != nil {
			fields["last_accessed"] = *p.LastAccessed
		}
		if err := tx.Model(&out).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&out, out.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *DatabaseStorage) ListQuizAttempts(ctx context.Context, userID, chapterID uint) ([]models.QuizAttempt, error) {
	return list[models.QuizAttempt](d.conn(ctx), "completed_at desc, id desc", "user_id = ? AND chapter_id = ?", userID, chapterID)
}

func (d *DatabaseStorage) ListAllQuizAttempts(ctx context.Context) ([]models.QuizAttempt, error) {
	return list[models.QuizAttempt](d.conn(ctx), "completed_at desc, id desc", nil)
}

func (d *DatabaseStorage) CreateQuizAttempt(ctx context.Context, a *models.QuizAttempt) error {
	return mapErr(d.conn(ctx).Create(a).Error)
}

// Workspace

func (d *DatabaseStorage) ListDrafts(ctx context.Context, userID uint) ([]models.StudentDraft, error) {
	return list[models.StudentDraft](d.conn(ctx), "id asc", "user_id = ?", userID)
}

func (d *DatabaseStorage) ListDraftsByChapter(ctx context.Context, userID, chapterID uint) ([]models.StudentDraft, error) {
	return list[models.StudentDraft](d.conn(ctx), "id asc", "user_id = ? AND chapter_id = ?", userID, chapterID)
}

func (d *DatabaseStorage) ListAllDrafts(ctx context.Context) ([]models.StudentDraft, error) {
	return list[models.StudentDraft](d.conn(ctx), "id asc", nil)
}

func (d *DatabaseStorage) GetDraft(ctx context.Context, id uint) (*models.StudentDraft, error) {
	return first[models.StudentDraft](d.conn(ctx), "id = ?", id)
}

func (d *DatabaseStorage) CreateDraft(ctx context.Context, draft *models.StudentDraft) error {
	return mapErr(d.conn(ctx).Create(draft).Error)
}

func (d *DatabaseStorage) UpdateDraft(ctx context.Context, draft *models.StudentDraft) error {
	return replace(d.conn(ctx), draft.ID, draft)
}

func (d *DatabaseStorage) ListFeedback(ctx context.Context, draftID uint) ([]models.TutorFeedback, error) {
	return list[models.TutorFeedback](d.conn(ctx), "id asc", "draft_id = ?", draftID)
}

func (d *DatabaseStorage) CreateFeedback(ctx context.Context, f *models.TutorFeedback) error {
	return mapErr(d.conn(ctx).Create(f).Error)
}

// Messages

func (d *DatabaseStorage) ListInbox(ctx context.Context, userID uint) ([]models.Message, error) {
	return list[models.Message](d.conn(ctx), "id desc", "recipient_id = ?", userID)
}

func (d *DatabaseStorage) ListSent(ctx context.Context, userID uint) ([]models.Message, error) {
	return list[models.Message](d.conn(ctx), "id desc", "sender_id = ?", userID)
}

func (d *DatabaseStorage) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	return first[models.Message](d.conn(ctx), "id = ?", id)
}

func (d *DatabaseStorage) CreateMessage(ctx context.Context, m *models.Message) error {
	return mapErr(d.conn(ctx).Create(m).Error)
}

func (d *DatabaseStorage) MarkMessageRead(ctx context.Context, id uint, now time.Time) (*models.Message, error) {
	db := d.conn(ctx)
	if err := db.Model(&models.Message{}).Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]any{"is_read": true, "read_at": now}).Error; err != nil {
		return nil, err
	}
	return first[models.Message](db, "id = ?", id)
}

// Notifications

func (d *DatabaseStorage) ListNotifications(ctx context.Context, userID uint) ([]models.Notification, error) {
	return list[models.Notification](d.conn(ctx), "id desc", "user_id = ?", userID)
}

func (d *DatabaseStorage) ListUnreadNotifications(ctx context.Context, userID uint) ([]models.Notification, error) {
	return list[models.Notification](d.conn(ctx), "id desc", "user_id = ? AND is_read = ?", userID, false)
}

func (d *DatabaseStorage) GetNotification(ctx context.Context, id uint) (*models.Notification, error) {
	return first[models.Notification](d.conn(ctx), "id = ?", id)
}

func (d *DatabaseStorage) CreateNotifications(ctx context.Context, ns []models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return mapErr(d.conn(ctx).CreateInBatches(ns, 200).Error)
}

func (d *DatabaseStorage) MarkNotificationRead(ctx context.Context, id uint, now time.Time) (*models.Notification, error) {
	db := d.conn(ctx)
	if err := db.Model(&models.Notification{}).Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]any{"is_read": true, "read_at": now}).Error; err != nil {
		return nil, err
	}
	return first[models.Notification](db, "id = ?", id)
}

func (d *DatabaseStorage) ListPendingNotifications(ctx context.Context, now time.Time) ([]models.Notification, error) {
	return list[models.Notification](d.conn(ctx), "id asc",
		"delivered_at IS NULL AND scheduled_for IS NOT NULL AND scheduled_for <= ?", now)
}

func (d *DatabaseStorage) MarkNotificationDelivered(ctx context.Context, id uint, channels []string, now time.Time) error {
	fields := map[string]any{"delivered_at": now}
	for _, ch := range channels {
		switch ch {
		case models.ChannelEmail:
			fields["sent_via_email"] = true
		case models.ChannelSMS:
			fields["sent_via_sms"] = true
		case models.ChannelPush:
			fields["sent_via_push"] = true
		}
	}
	res := d.conn(ctx).Model(&models.Notification{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DatabaseStorage) ListNotificationTemplates(ctx context.Context) ([]models.NotificationTemplate, error) {
	return list[models.NotificationTemplate](d.conn(ctx), "id asc", nil)
}

func (d *DatabaseStorage) GetNotificationTemplate(ctx context.Context, id uint) (*models.NotificationTemplate, error) {
	return first[models.NotificationTemplate](d.conn(ctx), "id = ?", id)
}

func (d *DatabaseStorage) CreateNotificationTemplate(ctx context.Context, t *models.NotificationTemplate) error {
	return mapErr(d.conn(ctx).Create(t).Error)
}

func (d *DatabaseStorage) UpdateNotificationTemplate(ctx context.Context, t *models.NotificationTemplate) error {
	return replace(d.conn(ctx), t.ID, t)
}

// Enrollment codes

func (d *DatabaseStorage) GetEnrollmentCode(ctx context.Context, code string) (*models.EnrollmentCode, error) {
	return first[models.EnrollmentCode](d.conn(ctx), "code = ?", code)
}

func (d *DatabaseStorage) ListEnrollmentCodes(ctx context.Context) ([]models.EnrollmentCode, error) {
	return list[models.EnrollmentCode](d.conn(ctx), "id asc", nil)
}

func (d *DatabaseStorage) ListEnrollmentCodesByState(ctx context.Context, stateCode string) ([]models.EnrollmentCode, error) {
	return list[models.EnrollmentCode](d.conn(ctx), "id asc", "UPPER(state_code) = ?", strings.ToUpper(stateCode))
}

func (d *DatabaseStorage) CreateEnrollmentCode(ctx context.Context, e *models.EnrollmentCode) error {
	return mapErr(d.conn(ctx).Create(e).Error)
}

func (d *DatabaseStorage) SetEnrollmentCodeUsed(ctx context.Context, id uint, used bool, now time.Time) (*models.EnrollmentCode, error) {
	fields := map[string]any{"is_used": used, "used_at": nil, "used_by": nil}
	if used {
		fields = map[string]any{"is_used": true, "used_at": now}
	}
	db := d.conn(ctx)
	res := db.Model(&models.EnrollmentCode{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return first[models.EnrollmentCode](db, "id = ?", id)
}

func (d *DatabaseStorage) DeleteEnrollmentCode(ctx context.Context, id uint) error {
	return deleteByID[models.EnrollmentCode](d.conn(ctx), id)
}

// Franchise ads

func (d *DatabaseStorage) ListFranchiseAds(ctx context.Context) ([]models.FranchiseAd, error) {
	return list[models.FranchiseAd](d.conn(ctx), "priority asc, id asc", nil)
}

func (d *DatabaseStorage) GetFranchiseAd(ctx context.Context, id uint) (*models.FranchiseAd, error) {
	return first[models.FranchiseAd](d.conn(ctx), "id = ?", id)
}

func (d *DatabaseStorage) CreateFranchiseAd(ctx context.Context, ad *models.FranchiseAd) error {
	return mapErr(d.conn(ctx).Create(ad).Error)
}

func (d *DatabaseStorage) UpdateFranchiseAd(ctx context.Context, ad *models.FranchiseAd) error {
	return replace(d.conn(ctx), ad.ID, ad)
}

func (d *DatabaseStorage) DeleteFranchiseAd(ctx context.Context, id uint) error {
	return d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ad_id = ?", id).Delete(&models.AdInteraction{}).Error; err != nil {
			return err
		}
		return deleteByID[models.FranchiseAd](tx, id)
	})
}

func (d *DatabaseStorage) ListAdInteractions(ctx context.Context, adID uint) ([]models.AdInteraction, error) {
	return list[models.AdInteraction](d.conn(ctx), "id asc", "ad_id = ?", adID)
}

func (d *DatabaseStorage) ListUserAdInteractions(ctx context.Context, userID uint) ([]models.AdInteraction, error) {
	return list[models.AdInteraction](d.conn(ctx), "id asc", "user_id = ?", userID)
}

// upsertInteraction loads or creates the (user, ad) row, applies fn and saves it.
func (d *DatabaseStorage) upsertInteraction(ctx context.Context, userID, adID uint, fn func(in *models.AdInteraction)) (*models.AdInteraction, error) {
	var in models.AdInteraction
	err := d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.FranchiseAd{}, adID).Error; err != nil {
			return mapErr(err)
		}
		err := tx.Where("user_id = ? AND ad_id = ?", userID, adID).First(&in).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			in = models.AdInteraction{UserID: userID, AdID: adID}
		} else if err != nil {
			return err
		}
		fn(&in)
		return tx.Save(&in).Error
	})
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (d *DatabaseStorage) TrackAdView(ctx context.Context, userID, adID uint, duration *int, now time.Time) (*models.AdInteraction, error) {
	return d.upsertInteraction(ctx, userID, adID, func(in *models.AdInteraction) {
		in.Viewed = true
		in.ViewedAt = &now
		if duration != nil {
			in.ViewDuration = duration
		}
	})
}

func (d *DatabaseStorage) SubmitAdComment(ctx context.Context, userID, adID uint, comment string, interested *bool, now time.Time) (*models.AdInteraction, error) {
	return d.upsertInteraction(ctx, userID, adID, func(in *models.AdInteraction) {
		in.Commented = true
		in.Comment = comment
		in.CommentedAt = &now
		if interested != nil {
			in.Interested = interested
		}
	})
}

func (d *DatabaseStorage) GetUserInterests(ctx context.Context, userID uint) (*models.UserInterests, error) {
	return first[models.UserInterests](d.conn(ctx), "user_id = ?", userID)
}

func (d *DatabaseStorage) SaveUserInterests(ctx context.Context, in *models.UserInterests) error {
	return d.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"interests", "food_preferences", "hobby_preferences", "business_interests",
			"primary_match_weight", "complementary_match_weight", "discovery_weight", "updated_at",
		}),
	}).Create(in).Error
}

// Videos

func (d *DatabaseStorage) ListVideos(ctx context.Context) ([]models.VideoContent, error) {
	return list[models.VideoContent](d.conn(ctx), "id desc", nil)
}

func (d *DatabaseStorage) GetVideo(ctx context.Context, id uint) (*models.VideoContent, error) {
	return first[models.VideoContent](d.conn(ctx), "id = ?", id)
}

func (d *DatabaseStorage) CreateVideo(ctx context.Context, v *models.VideoContent) error {
	return mapErr(d.conn(ctx).Create(v).Error)
}

func (d *DatabaseStorage) UpdateVideo(ctx context.Context, v *models.VideoContent) error {
	return d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.VideoContent
		if err := tx.First(&existing, v.ID).Error; err != nil {
			return mapErr(err)
		}
		return tx.Model(&existing).Select("*").
			Omit("id", "created_at", "view_count", "completion_count").
			Updates(v).Error
	})
}

func (d *DatabaseStorage) DeleteVideo(ctx context.Context, id uint) error {
	return d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", id).Delete(&models.VideoView{}).Error; err != nil {
			return err
		}
		return deleteByID[models.VideoContent](tx, id)
	})
}

func (d *DatabaseStorage) ListVideoViews(ctx context.Context, videoID uint) ([]models.VideoView, error) {
	return list[models.VideoView](d.conn(ctx), "id asc", "video_id = ?", videoID)
}

func (d *DatabaseStorage) ListUserVideoViews(ctx context.Context, userID uint) ([]models.VideoView, error) {
	return list[models.VideoView](d.conn(ctx), "id asc", "user_id = ?", userID)
}

// videoView loads or creates the (user, video) view inside tx, bumping the
// video's view counter on creation.
func videoView(tx *gorm.DB, userID, videoID uint, now time.Time) (*models.VideoView, error) {
	if err := tx.Select("id").First(&models.VideoContent{}, videoID).Error; err != nil {
		return nil, mapErr(err)
	}
	var view models.VideoView
	err := tx.Where("user_id = ? AND video_id = ?", userID, videoID).First(&view).Error
	if err == nil {
		return &view, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	view = models.VideoView{UserID: userID, VideoID: videoID, ViewedAt: now}
	if err := tx.Create(&view).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.VideoContent{}).Where("id = ?", videoID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
		return nil, err
	}
	return &view, nil
}

func (d *DatabaseStorage) RecordVideoView(ctx context.Context, userID, videoID uint, watchSeconds int, now time.Time) (*models.VideoView, error) {
	var out *models.VideoView
	err := d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		view, err := videoView(tx, userID, videoID, now)
		if err != nil {
			return err
		}
		view.WatchTimeSeconds += max(watchSeconds, 0)
		view.ViewedAt = now
		out = view
		return tx.Save(view).Error
	})
	return out, err
}

func (d *DatabaseStorage) MarkVideoCompleted(ctx context.Context, userID, videoID uint, now time.Time) (*models.VideoView, error) {
	var out *models.VideoView
	err := d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		view, err := videoView(tx, userID, videoID, now)
		if err != nil {
			return err
		}
		out = view
		if view.IsCompleted {
			return nil
		}
		view.IsCompleted = true
		view.CompletedAt = &now
		if err := tx.Save(view).Error; err != nil {
			return err
		}
		return tx.Model(&models.VideoContent{}).Where("id = ?", videoID).
			UpdateColumn("completion_count", gorm.Expr("completion_count + ?", 1)).Error
	})
	return out, err
}
