package storage

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"jetacademy/models"
)

// MemStorage keeps every table in maps guarded by one RWMutex. Reads hand out
// copies so callers can never mutate stored rows.
type MemStorage struct {
	mu  sync.RWMutex
	ids map[string]uint

	users           map[uint]*models.User
	loginSessions   map[uint]*models.LoginSession
	chapters        map[uint]*models.Chapter
	questions       map[uint]*models.QuizQuestion
	progress        map[uint]*models.UserProgress
	attempts        map[uint]*models.QuizAttempt
	drafts          map[uint]*models.StudentDraft
	feedback        map[uint]*models.TutorFeedback
	messages        map[uint]*models.Message
	notifications   map[uint]*models.Notification
	templates       map[uint]*models.NotificationTemplate
	enrollmentCodes map[uint]*models.EnrollmentCode
	ads             map[uint]*models.FranchiseAd
	interactions    map[uint]*models.AdInteraction
	interests       map[uint]*models.UserInterests
	videos          map[uint]*models.VideoContent
	videoViews      map[uint]*models.VideoView
}

var _ Storage = (*MemStorage)(nil)

func NewMemStorage() *MemStorage {
	return &MemStorage{
		ids:             make(map[string]uint),
		users:           make(map[uint]*models.User),
		loginSessions:   make(map[uint]*models.LoginSession),
		chapters:        make(map[uint]*models.Chapter),
		questions:       make(map[uint]*models.QuizQuestion),
		progress:        make(map[uint]*models.UserProgress),
		attempts:        make(map[uint]*models.QuizAttempt),
		drafts:          make(map[uint]*models.StudentDraft),
		feedback:        make(map[uint]*models.TutorFeedback),
		messages:        make(map[uint]*models.Message),
		notifications:   make(map[uint]*models.Notification),
		templates:       make(map[uint]*models.NotificationTemplate),
		enrollmentCodes: make(map[uint]*models.EnrollmentCode),
		ads:             make(map[uint]*models.FranchiseAd),
		interactions:    make(map[uint]*models.AdInteraction),
		interests:       make(map[uint]*models.UserInterests),
		videos:          make(map[uint]*models.VideoContent),
		videoViews:      make(map[uint]*models.VideoView),
	}
}

// stamp assigns the next id of table and fresh timestamps. Caller holds mu.
func (s *MemStorage) stamp(table string, m *models.Model) {
	s.ids[table]++
	now := time.Now()
	m.ID = s.ids[table]
	m.CreatedAt = now
	m.UpdatedAt = now
}

func touch(m *models.Model) {
	m.UpdatedAt = time.Now()
}

// filter copies the rows accepted by keep in id order.
func filter[T any](rows map[uint]*T, keep func(*T) bool) []T {
	out := []T{}
	for _, id := range slices.Sorted(maps.Keys(rows)) {
		if r := rows[id]; keep == nil || keep(r) {
			out = append(out, *r)
		}
	}
	return out
}

// find returns the first row accepted by match in id order.
func find[T any](rows map[uint]*T, match func(*T) bool) *T {
	for _, id := range slices.Sorted(maps.Keys(rows)) {
		if r := rows[id]; match(r) {
			return r
		}
	}
	return nil
}

func get[T any](rows map[uint]*T, id uint) (*T, error) {
	r, ok := rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *r
	return &c, nil
}

// Users

func (s *MemStorage) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.users, id)
}

func (s *MemStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u := find(s.users, func(u *models.User) bool { return u.Username == username })
	if u == nil {
		return nil, ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *MemStorage) GetUsersByEmail(_ context.Context, email string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.users, func(u *models.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (s *MemStorage) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.users, nil), nil
}

func (s *MemStorage) ListTutors(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.users, func(u *models.User) bool { return u.IsTutor }), nil
}

func (s *MemStorage) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertUser(user)
}

// insertUser enforces the unique username and student id. Caller holds mu.
func (s *MemStorage) insertUser(user *models.User) error {
	for _, u := range s.users {
		if u.Username == user.Username {
			return ErrUsernameTaken
		}
		if user.StudentID != nil && u.StudentID != nil && *u.StudentID == *user.StudentID {
			return ErrDuplicate
		}
	}
	s.stamp("users", &user.Model)
	c := *user
	s.users[user.ID] = &c
	return nil
}

func (s *MemStorage) RegisterUser(_ context.Context, user *models.User, code string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ec := find(s.enrollmentCodes, func(e *models.EnrollmentCode) bool { return e.Code == code })
	if ec == nil {
		return ErrInvalidEnrollmentCode
	}
	if ec.IsUsed {
		return ErrEnrollmentCodeUsed
	}
	if ec.Expired(now) {
		return ErrEnrollmentCodeExpired
	}
	if err := s.insertUser(user); err != nil {
		return err
	}
	id := user.ID
	ec.IsUsed = true
	ec.UsedBy = &id
	ec.UsedAt = &now
	touch(&ec.Model)
	return nil
}

func (s *MemStorage) updateUser(id uint, apply func(u *models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	apply(u)
	touch(&u.Model)
	c := *u
	return &c, nil
}

func (s *MemStorage) UpdateUserRoles(_ context.Context, id uint, roles models.UserRoles) (*models.User, error) {
	return s.updateUser(id, func(u *models.User) {
		u.IsInstructor = roles.IsInstructor
		u.IsTutor = roles.IsTutor
		u.IsFounder = roles.IsFounder
	})
}

func (s *MemStorage) UpdateNotificationPreferences(_ context.Context, id uint, prefs models.NotificationPreferences) (*models.User, error) {
	return s.updateUser(id, func(u *models.User) {
		u.EmailNotifications = prefs.EmailNotifications
		u.SMSNotifications = prefs.SMSNotifications
		u.PushNotifications = prefs.PushNotifications
	})
}

func (s *MemStorage) UpdatePassword(_ context.Context, id uint, passwordHash string) error {
	_, err := s.updateUser(id, func(u *models.User) { u.Password = passwordHash })
	return err
}

func (s *MemStorage) SetResetToken(_ context.Context, id uint, token string, expiry time.Time) error {
	_, err := s.updateUser(id, func(u *models.User) {
		u.ResetToken = &token
		u.ResetExpiry = &expiry
	})
	return err
}

func (s *MemStorage) ResetPassword(_ context.Context, token, passwordHash string, now time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := find(s.users, func(u *models.User) bool {
		return u.ResetToken != nil && *u.ResetToken == token && u.ResetExpiry != nil && u.ResetExpiry.After(now)
	})
	if token == "" || u == nil {
		return nil, ErrInvalidOrExpiredToken
	}
	u.Password = passwordHash
	u.ResetToken = nil
	u.ResetExpiry = nil
	touch(&u.Model)
	c := *u
	return &c, nil
}

// Login sessions

func (s *MemStorage) CreateLoginSession(_ context.Context, ls *models.LoginSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp("login_sessions", &ls.Model)
	c := *ls
	s.loginSessions[ls.ID] = &c
	return nil
}

func (s *MemStorage) loginSessionWhere(match func(*models.LoginSession) bool) (*models.LoginSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *models.LoginSession
	for _, ls := range s.loginSessions {
		if match(ls) && (best == nil || ls.ID > best.ID) {
			best = ls
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	c := *best
	return &c, nil
}

func (s *MemStorage) GetLoginSessionByToken(_ context.Context, token string) (*models.LoginSession, error) {
	return s.loginSessionWhere(func(ls *models.LoginSession) bool { return token != "" && ls.AuthToken == token })
}

func (s *MemStorage) GetLoginSessionByShortToken(_ context.Context, shortToken string) (*models.LoginSession, error) {
	return s.loginSessionWhere(func(ls *models.LoginSession) bool { return shortToken != "" && ls.ShortToken == shortToken })
}

func (s *MemStorage) GetLoginSessionBySessionID(_ context.Context, sessionID string) (*models.LoginSession, error) {
	return s.loginSessionWhere(func(ls *models.LoginSession) bool { return sessionID != "" && ls.SessionID == sessionID })
}

func (s *MemStorage) RebindLoginSession(_ context.Context, id uint, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.loginSessions[id]
	if !ok {
		return ErrNotFound
	}
	ls.SessionID = sessionID
	touch(&ls.Model)
	return nil
}

func (s *MemStorage) RevokeLoginSessions(_ context.Context, sessionID string, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, ls := range s.loginSessions {
		if sessionID != "" && ls.SessionID == sessionID && ls.RevokedAt == nil {
			t := now
			ls.RevokedAt = &t
			n++
		}
	}
	return n, nil
}

func (s *MemStorage) ListLoginSessions(_ context.Context, userID uint, offset, limit int) ([]models.LoginSession, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := filter(s.loginSessions, func(ls *models.LoginSession) bool { return ls.UserID == userID })
	slices.Reverse(rows)
	total := int64(len(rows))
	return page(rows, offset, limit), total, nil
}

func page[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}

func (s *MemStorage) CountLiveLoginSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, ls := range s.loginSessions {
		if ls.Live(now) {
			n++
		}
	}
	return n, nil
}

func (s *MemStorage) PruneLoginSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, ls := range s.loginSessions {
		if !ls.ExpiresAt.After(now) {
			delete(s.loginSessions, id)
			n++
		}
	}
	return n, nil
}

// Course

func (s *MemStorage) ListChapters(_ context.Context) ([]models.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := filter(s.chapters, nil)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Number < rows[j].Number })
	return rows, nil
}

func (s *MemStorage) GetChapter(_ context.Context, id uint) (*models.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.chapters, id)
}

func (s *MemStorage) CreateChapter(_ context.Context, chapter *models.Chapter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if find(s.chapters, func(c *models.Chapter) bool { return c.Number == chapter.Number }) != nil {
		return ErrDuplicate
	}
	s.stamp("chapters", &chapter.Model)
	c := *chapter
	s.chapters[chapter.ID] = &c
	return nil
}

func (s *MemStorage) ListQuizQuestions(_ context.Context, chapterID uint) ([]models.QuizQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.questions, func(q *models.QuizQuestion) bool { return q.ChapterID == chapterID }), nil
}

func (s *MemStorage) CreateQuizQuestion(_ context.Context, q *models.QuizQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp("quiz_questions", &q.Model)
	c := *q
	s.questions[q.ID] = &c
	return nil
}

func (s *MemStorage) ListUserProgress(_ context.Context, userID uint) ([]models.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.progress, func(p *models.UserProgress) bool { return p.UserID == userID }), nil
}

func (s *MemStorage) ListAllProgress(_ context.Context) ([]models.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.progress, nil), nil
}

func (s *MemStorage) UpsertProgress(_ context.Context, p *models.UserProgress) (*models.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := find(s.progress, func(e *models.UserProgress) bool {
		return e.UserID == p.UserID && e.ChapterID == p.ChapterID
	})
	if existing == nil {
		c := *p
		s.stamp("user_progress", &c.Model)
		s.progress[c.ID] = &c
		out := c
		return &out, nil
	}
	existing.IsCompleted = p.IsCompleted
	if p.QuizScore != nil {
		existing.QuizScore = p.QuizScore
	}
	if p.LastAccessed != nil {
		existing.LastAccessed = p.LastAccessed
	}
	touch(&existing.Model)
	out := *existing
	return &out, nil
}

func (s *MemStorage) ListQuizAttempts(_ context.Context, userID, chapterID uint) ([]models.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := filter(s.attempts, func(a *models.QuizAttempt) bool { return a.UserID == userID && a.ChapterID == chapterID })
	sortAttempts(rows)
	return rows, nil
}

func (s *MemStorage) ListAllQuizAttempts(_ context.Context) ([]models.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := filter(s.attempts, nil)
	sortAttempts(rows)
	return rows, nil
}

// sortAttempts orders newest first.
func sortAttempts(rows []models.QuizAttempt) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CompletedAt.Equal(rows[j].CompletedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].CompletedAt.After(rows[j].CompletedAt)
	})
}

func (s *MemStorage) CreateQuizAttempt(_ context.Context, a *models.QuizAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp("quiz_attempts", &a.Model)
	c := *a
	s.attempts[a.ID] = &c
	return nil
}

// Workspace

func (s *MemStorage) ListDrafts(_ context.Context, userID uint) ([]models.StudentDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.drafts, func(d *models.StudentDraft) bool { return d.UserID == userID }), nil
}

func (s *MemStorage) ListDraftsByChapter(_ context.Context, userID, chapterID uint) ([]models.StudentDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.drafts, func(d *models.StudentDraft) bool { return d.UserID == userID && d.ChapterID == chapterID }), nil
}

func (s *MemStorage) ListAllDrafts(_ context.Context) ([]models.StudentDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.drafts, nil), nil
}

func (s *MemStorage) GetDraft(_ context.Context, id uint) (*models.StudentDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.drafts, id)
}

func (s *MemStorage) CreateDraft(_ context.Context, d *models.StudentDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp("student_drafts", &d.Model)
	c := *d
	s.drafts[d.ID] = &c
	return nil
}

func (s *MemStorage) UpdateDraft(_ context.Context, d *models.StudentDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.drafts[d.ID]
	if !ok {
		return ErrNotFound
	}
	d.CreatedAt = existing.CreatedAt
	touch(&d.Model)
	c := *d
	s.drafts[d.ID] = &c
	return nil
}

func (s *MemStorage) ListFeedback(_ context.Context, draftID uint) ([]models.TutorFeedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.feedback, func(f *models.TutorFeedback) bool { return f.DraftID == draftID }), nil
}

func (s *MemStorage) CreateFeedback(_ context.Context, f *models.TutorFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp("tutor_feedbacks", &f.Model)
	c := *f
	s.feedback[f.ID] = &c
	return nil
}

// Messages

func (s *MemStorage) ListInbox(_ context.Context, userID uint) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := filter(s.messages, func(m *models.Message) bool { return m.RecipientID == userID })
	slices.Reverse(rows)
	return rows, nil
}

func (s *MemStorage) ListSent(_ context.Context, userID uint) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := filter(s.messages, func(m *models.Message) bool { return m.SenderID == userID })
	slices.Reverse(rows)
	return rows, nil
}

func (s *MemStorage) GetMessage(_ context.Context, id uint) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.messages, id)
}

func (s *MemStorage) CreateMessage(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp("messages", &m.Model)
	c := *m
	s.messages[m.ID] = &c
	return nil
}

func (s *MemStorage) MarkMessageRead(_ context.Context, id uint, now time.Time) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !m.IsRead {
		m.IsRead = true
		m.ReadAt = &now
		touch(&m.Model)
	}
	c := *m
	return &c, nil
}

// Notifications

func (s *MemStorage) ListNotifications(_ context.Context, userID uint) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := filter(s.notifications, func(n *models.Notification) bool { return n.UserID == userID })
	slices.Reverse(rows)
	return rows, nil
}

func (s *MemStorage) ListUnreadNotifications(_ context.Context, userID uint) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := filter(s.notifications, func(n *models.Notification) bool { return n.UserID == userID && !n.IsRead })
	slices.Reverse(rows)
	return rows, nil
}

func (s *MemStorage) GetNotification(_ context.Context, id uint) (*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.notifications, id)
}

func (s *MemStorage) CreateNotifications(_ context.Context, ns []models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range ns {
		s.stamp("notifications", &ns[i].Model)
		c := ns[i]
		s.notifications[c.ID] = &c
	}
	return nil
}

func (s *MemStorage) MarkNotificationRead(_ context.Context, id uint, now time.Time) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !n.IsRead {
		n.IsRead = true
		n.ReadAt = &now
		touch(&n.Model)
	}
	c := *n
	return &c, nil
}

func (s *MemStorage) ListPendingNotifications(_ context.Context, now time.Time) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.notifications, func(n *models.Notification) bool {
		return n.DeliveredAt == nil && n.ScheduledFor != nil && !n.ScheduledFor.After(now)
	}), nil
}

func (s *MemStorage) MarkNotificationDelivered(_ context.Context, id uint, channels []string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return ErrNotFound
	}
	for _, ch := range channels {
		switch ch {
		case models.ChannelEmail:
			n.SentViaEmail = true
		case models.ChannelSMS:
			n.SentViaSMS = true
		case models.ChannelPush:
			n.SentViaPush = true
		}
	}
	n.DeliveredAt = &now
	touch(&n.Model)
	return nil
}

func (s *MemStorage) ListNotificationTemplates(_ context.Context) ([]models.NotificationTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.templates, nil), nil
}

func (s *MemStorage) GetNotificationTemplate(_ context.Context, id uint) (*models.NotificationTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.templates, id)
}

func (s *MemStorage) CreateNotificationTemplate(_ context.Context, t *models.NotificationTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if find(s.templates, func(e *models.NotificationTemplate) bool { return e.Name == t.Name }) != nil {
		return ErrDuplicate
	}
	s.stamp("notification_templates", &t.Model)
	c := *t
	s.templates[t.ID] = &c
	return nil
}

func (s *MemStorage) UpdateNotificationTemplate(_ context.Context, t *models.NotificationTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.templates[t.ID]
	if !ok {
		return ErrNotFound
	}
	if find(s.templates, func(e *models.NotificationTemplate) bool { return e.Name == t.Name && e.ID != t.ID }) != nil {
		return ErrDuplicate
	}
	t.CreatedAt = existing.CreatedAt
	touch(&t.Model)
	c := *t
	s.templates[t.ID] = &c
	return nil
}

// Enrollment codes

func (s *MemStorage) GetEnrollmentCode(_ context.Context, code string) (*models.EnrollmentCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := find(s.enrollmentCodes, func(e *models.EnrollmentCode) bool { return e.Code == code })
	if e == nil {
		return nil, ErrNotFound
	}
	c := *e
	return &c, nil
}

func (s *MemStorage) ListEnrollmentCodes(_ context.Context) ([]models.EnrollmentCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.enrollmentCodes, nil), nil
}

func (s *MemStorage) ListEnrollmentCodesByState(_ context.Context, stateCode string) ([]models.EnrollmentCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.enrollmentCodes, func(e *models.EnrollmentCode) bool {
		return strings.EqualFold(e.StateCode, stateCode)
	}), nil
}

func (s *MemStorage) CreateEnrollmentCode(_ context.Context, e *models.EnrollmentCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if find(s.enrollmentCodes, func(x *models.EnrollmentCode) bool { return x.Code == e.Code }) != nil {
		return ErrDuplicate
	}
	s.stamp("enrollment_codes", &e.Model)
	c := *e
	s.enrollmentCodes[e.ID] = &c
	return nil
}

func (s *MemStorage) SetEnrollmentCodeUsed(_ context.Context, id uint, used bool, now time.Time) (*models.EnrollmentCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollmentCodes[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.IsUsed = used
	if used {
		e.UsedAt = &now
	} else {
		e.UsedAt = nil
		e.UsedBy = nil
	}
	touch(&e.Model)
	c := *e
	return &c, nil
}

func (s *MemStorage) DeleteEnrollmentCode(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.enrollmentCodes[id]; !ok {
		return ErrNotFound
	}
	delete(s.enrollmentCodes, id)
	return nil
}

// Franchise ads

func (s *MemStorage) ListFranchiseAds(_ context.Context) ([]models.FranchiseAd, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := filter(s.ads, nil)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Priority < rows[j].Priority })
	return rows, nil
}

func (s *MemStorage) GetFranchiseAd(_ context.Context, id uint) (*models.FranchiseAd, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.ads, id)
}

func (s *MemStorage) CreateFranchiseAd(_ context.Context, ad *models.FranchiseAd) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp("franchise_ads", &ad.Model)
	c := *ad
	s.ads[ad.ID] = &c
	return nil
}

func (s *MemStorage) UpdateFranchiseAd(_ context.Context, ad *models.FranchiseAd) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.ads[ad.ID]
	if !ok {
		return ErrNotFound
	}
	ad.CreatedAt = existing.CreatedAt
	touch(&ad.Model)
	c := *ad
	s.ads[ad.ID] = &c
	return nil
}

func (s *MemStorage) DeleteFranchiseAd(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ads[id]; !ok {
		return ErrNotFound
	}
	delete(s.ads, id)
	for iid, in := range s.interactions {
		if in.AdID == id {
			delete(s.interactions, iid)
		}
	}
	return nil
}

func (s *MemStorage) ListAdInteractions(_ context.Context, adID uint) ([]models.AdInteraction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.interactions, func(in *models.AdInteraction) bool { return in.AdID == adID }), nil
}

func (s *MemStorage) ListUserAdInteractions(_ context.Context, userID uint) ([]models.AdInteraction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.interactions, func(in *models.AdInteraction) bool { return in.UserID == userID }), nil
}

// interaction returns the (user, ad) row, creating it when missing. Caller holds mu.
func (s *MemStorage) interaction(userID, adID uint) *models.AdInteraction {
	in := find(s.interactions, func(in *models.AdInteraction) bool { return in.UserID == userID && in.AdID == adID })
	if in == nil {
		in = &models.AdInteraction{UserID: userID, AdID: adID}
		s.stamp("ad_interactions", &in.Model)
		s.interactions[in.ID] = in
	}
	return in
}

func (s *MemStorage) TrackAdView(_ context.Context, userID, adID uint, duration *int, now time.Time) (*models.AdInteraction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ads[adID]; !ok {
		return nil, ErrNotFound
	}
	in := s.interaction(userID, adID)
	in.Viewed = true
	in.ViewedAt = &now
	if duration != nil {
		d := *duration
		in.ViewDuration = &d
	}
	touch(&in.Model)
	c := *in
	return &c, nil
}

func (s *MemStorage) SubmitAdComment(_ context.Context, userID, adID uint, comment string, interested *bool, now time.Time) (*models.AdInteraction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ads[adID]; !ok {
		return nil, ErrNotFound
	}
	in := s.interaction(userID, adID)
	in.Commented = true
	in.Comment = comment
	in.CommentedAt = &now
	if interested != nil {
		v := *interested
		in.Interested = &v
	}
	touch(&in.Model)
	c := *in
	return &c, nil
}

func (s *MemStorage) GetUserInterests(_ context.Context, userID uint) (*models.UserInterests, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in := find(s.interests, func(in *models.UserInterests) bool { return in.UserID == userID })
	if in == nil {
		return nil, ErrNotFound
	}
	c := *in
	return &c, nil
}

func (s *MemStorage) SaveUserInterests(_ context.Context, in *models.UserInterests) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := find(s.interests, func(e *models.UserInterests) bool { return e.UserID == in.UserID })
	if existing == nil {
		s.stamp("user_interests", &in.Model)
	} else {
		in.ID = existing.ID
		in.CreatedAt = existing.CreatedAt
		touch(&in.Model)
	}
	c := *in
	s.interests[in.ID] = &c
	return nil
}

// Videos

func (s *MemStorage) ListVideos(_ context.Context) ([]models.VideoContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := filter(s.videos, nil)
	slices.Reverse(rows)
	return rows, nil
}

func (s *MemStorage) GetVideo(_ context.Context, id uint) (*models.VideoContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return get(s.videos, id)
}

func (s *MemStorage) CreateVideo(_ context.Context, v *models.VideoContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp("video_contents", &v.Model)
	c := *v
	s.videos[v.ID] = &c
	return nil
}

func (s *MemStorage) UpdateVideo(_ context.Context, v *models.VideoContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.videos[v.ID]
	if !ok {
		return ErrNotFound
	}
	v.CreatedAt = existing.CreatedAt
	v.ViewCount = existing.ViewCount
	v.CompletionCount = existing.CompletionCount
	touch(&v.Model)
	c := *v
	s.videos[v.ID] = &c
	return nil
}

func (s *MemStorage) DeleteVideo(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[id]; !ok {
		return ErrNotFound
	}
	delete(s.videos, id)
	for vid, view := range s.videoViews {
		if view.VideoID == id {
			delete(s.videoViews, vid)
		}
	}
	return nil
}

func (s *MemStorage) ListVideoViews(_ context.Context, videoID uint) ([]models.VideoView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.videoViews, func(v *models.VideoView) bool { return v.VideoID == videoID }), nil
}

func (s *MemStorage) ListUserVideoViews(_ context.Context, userID uint) ([]models.VideoView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.videoViews, func(v *models.VideoView) bool { return v.UserID == userID }), nil
}

func (s *MemStorage) RecordVideoView(_ context.Context, userID, videoID uint, watchSeconds int, now time.Time) (*models.VideoView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[videoID]
	if !ok {
		return nil, ErrNotFound
	}
	view := find(s.videoViews, func(v *models.VideoView) bool { return v.UserID == userID && v.VideoID == videoID })
	if view == nil {
		view = &models.VideoView{UserID: userID, VideoID: videoID}
		s.stamp("video_views", &view.Model)
		s.videoViews[view.ID] = view
		video.ViewCount++
	}
	view.WatchTimeSeconds += max(watchSeconds, 0)
	view.ViewedAt = now
	touch(&view.Model)
	c := *view
	return &c, nil
}

func (s *MemStorage) MarkVideoCompleted(_ context.Context, userID, videoID uint, now time.Time) (*models.VideoView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[videoID]
	if !ok {
		return nil, ErrNotFound
	}
	view := find(s.videoViews, func(v *models.VideoView) bool { return v.UserID == userID && v.VideoID == videoID })
	if view == nil {
		view = &models.VideoView{UserID: userID, VideoID: videoID, ViewedAt: now}
		s.stamp("video_views", &view.Model)
		s.videoViews[view.ID] = view
		video.ViewCount++
	}
	if !view.IsCompleted {
		view.IsCompleted = true
		view.CompletedAt = &now
		video.CompletionCount++
	}
	touch(&view.Model)
	c := *view
	return &c, nil
}
