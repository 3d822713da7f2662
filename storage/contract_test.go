package storage

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"jetacademy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContract exercises behavior every Storage implementation must share.
func runContract(t *testing.T, newStore func(t *testing.T) Storage) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	newUser := func(name string) *models.User {
		return &models.User{Username: name, Email: name + "@example.com", Password: "hash"}
	}

	t.Run("create user rejects duplicate username", func(t *testing.T) {
		s := newStore(t)
		u := newUser("alice")
		require.NoError(t, s.CreateUser(ctx, u))
		assert.NotZero(t, u.ID)

		err := s.CreateUser(ctx, newUser("alice"))
		assert.ErrorIs(t, err, ErrUsernameTaken)

		got, err := s.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		_, err = s.GetUser(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("register consumes enrollment code exactly once", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CreateEnrollmentCode(ctx, &models.EnrollmentCode{Code: "CA-0001", StateCode: "CA"}))

		first := newUser("bob")
		require.NoError(t, s.RegisterUser(ctx, first, "CA-0001", now))

		code, err := s.GetEnrollmentCode(ctx, "CA-0001")
		require.NoError(t, err)
		assert.True(t, code.IsUsed)
		require.NotNil(t, code.UsedBy)
		assert.Equal(t, first.ID, *code.UsedBy)

		err = s.RegisterUser(ctx, newUser("carol"), "CA-0001", now)
		assert.ErrorIs(t, err, ErrEnrollmentCodeUsed)
		_, err = s.GetUserByUsername(ctx, "carol")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("register rejects unknown and expired codes", func(t *testing.T) {
		s := newStore(t)
		past := now.Add(-time.Hour)
		require.NoError(t, s.CreateEnrollmentCode(ctx, &models.EnrollmentCode{Code: "NY-OLD", StateCode: "NY", ExpiresAt: &past}))

		assert.ErrorIs(t, s.RegisterUser(ctx, newUser("dan"), "NOPE", now), ErrInvalidEnrollmentCode)
		assert.ErrorIs(t, s.RegisterUser(ctx, newUser("dan"), "NY-OLD", now), ErrEnrollmentCodeExpired)

		code, err := s.GetEnrollmentCode(ctx, "NY-OLD")
		require.NoError(t, err)
		assert.False(t, code.IsUsed)
	})

	t.Run("register with taken username leaves code unused", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CreateUser(ctx, newUser("erin")))
		require.NoError(t, s.CreateEnrollmentCode(ctx, &models.EnrollmentCode{Code: "TX-1", StateCode: "TX"}))

		assert.ErrorIs(t, s.RegisterUser(ctx, newUser("erin"), "TX-1", now), ErrUsernameTaken)

		code, err := s.GetEnrollmentCode(ctx, "TX-1")
		require.NoError(t, err)
		assert.False(t, code.IsUsed)
	})

	t.Run("reset token works once and not after expiry", func(t *testing.T) {
		s := newStore(t)
		u := newUser("frank")
		require.NoError(t, s.CreateUser(ctx, u))
		require.NoError(t, s.SetResetToken(ctx, u.ID, "tok-1", now.Add(time.Hour)))

		_, err := s.ResetPassword(ctx, "tok-1", "new-hash", now.Add(2*time.Hour))
		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

		got, err := s.ResetPassword(ctx, "tok-1", "new-hash", now)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.Password)
		assert.Nil(t, got.ResetToken)

		_, err = s.ResetPassword(ctx, "tok-1", "other", now)
		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
		_, err = s.ResetPassword(ctx, "", "other", now)
		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	})

	t.Run("login sessions resolve by every key and revoke", func(t *testing.T) {
		s := newStore(t)
		ls := &models.LoginSession{
			UserID: 1, Username: "gina", SessionID: "sid-1", AuthToken: "jwt-1", ShortToken: "short-1",
			DeviceType: models.DeviceMobile, ExpiresAt: now.Add(time.Hour),
		}
		require.NoError(t, s.CreateLoginSession(ctx, ls))

		byToken, err := s.GetLoginSessionByToken(ctx, "jwt-1")
		require.NoError(t, err)
		assert.Equal(t, ls.ID, byToken.ID)
		byShort, err := s.GetLoginSessionByShortToken(ctx, "short-1")
		require.NoError(t, err)
		assert.Equal(t, ls.ID, byShort.ID)

		require.NoError(t, s.RebindLoginSession(ctx, ls.ID, "sid-2"))
		_, err = s.GetLoginSessionBySessionID(ctx, "sid-1")
		assert.ErrorIs(t, err, ErrNotFound)
		bySid, err := s.GetLoginSessionBySessionID(ctx, "sid-2")
		require.NoError(t, err)
		assert.True(t, bySid.Live(now))

		live, err := s.CountLiveLoginSessions(ctx, now)
		require.NoError(t, err)
		assert.EqualValues(t, 1, live)

		n, err := s.RevokeLoginSessions(ctx, "sid-2", now)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		revoked, err := s.GetLoginSessionByToken(ctx, "jwt-1")
		require.NoError(t, err)
		assert.False(t, revoked.Live(now))

		pruned, err := s.PruneLoginSessions(ctx, now.Add(2*time.Hour))
		require.NoError(t, err)
		assert.EqualValues(t, 1, pruned)
	})

	t.Run("login history pages newest first", func(t *testing.T) {
		s := newStore(t)
		for i := 0; i < 5; i++ {
			require.NoError(t, s.CreateLoginSession(ctx, &models.LoginSession{
				UserID: 3, Username: "hal", AuthToken: fmt.Sprintf("t%d", i), ShortToken: fmt.Sprintf("s%d", i),
				ExpiresAt: now.Add(time.Hour),
			}))
		}
		rows, total, err := s.ListLoginSessions(ctx, 3, 0, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		require.Len(t, rows, 2)
		assert.Greater(t, rows[0].ID, rows[1].ID)

		rows, _, err = s.ListLoginSessions(ctx, 3, 4, 2)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("progress upsert keeps one row per chapter", func(t *testing.T) {
		s := newStore(t)
		score := 80
		p, err := s.UpsertProgress(ctx, &models.UserProgress{UserID: 1, ChapterID: 2, QuizScore: &score})
		require.NoError(t, err)
		assert.False(t, p.IsCompleted)

		p2, err := s.UpsertProgress(ctx, &models.UserProgress{UserID: 1, ChapterID: 2, IsCompleted: true})
		require.NoError(t, err)
		assert.Equal(t, p.ID, p2.ID)
		assert.True(t, p2.IsCompleted)
		require.NotNil(t, p2.QuizScore)
		assert.Equal(t, 80, *p2.QuizScore)

		rows, err := s.ListUserProgress(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("quiz attempts list newest first", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CreateQuizAttempt(ctx, &models.QuizAttempt{UserID: 1, ChapterID: 1, Score: 50, CompletedAt: now.Add(-time.Hour)}))
		require.NoError(t, s.CreateQuizAttempt(ctx, &models.QuizAttempt{UserID: 1, ChapterID: 1, Score: 90, CompletedAt: now}))
		require.NoError(t, s.CreateQuizAttempt(ctx, &models.QuizAttempt{UserID: 1, ChapterID: 2, Score: 10, CompletedAt: now}))

		rows, err := s.ListQuizAttempts(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 90, rows[0].Score)
	})

	t.Run("chapters list in number order", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CreateChapter(ctx, &models.Chapter{Number: 2, Title: "Two"}))
		require.NoError(t, s.CreateChapter(ctx, &models.Chapter{Number: 1, Title: "One"}))
		assert.ErrorIs(t, s.CreateChapter(ctx, &models.Chapter{Number: 1, Title: "Again"}), ErrDuplicate)

		rows, err := s.ListChapters(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "One", rows[0].Title)
	})

	t.Run("ad interactions upsert per user and ad", func(t *testing.T) {
		s := newStore(t)
		ad := &models.FranchiseAd{Title: "Coffee", FranchiseName: "Bean Co", IsActive: true, StartDate: now}
		require.NoError(t, s.CreateFranchiseAd(ctx, ad))

		dur := 12
		_, err := s.TrackAdView(ctx, 7, ad.ID, &dur, now)
		require.NoError(t, err)
		yes := true
		in, err := s.SubmitAdComment(ctx, 7, ad.ID, "looks good", &yes, now)
		require.NoError(t, err)
		assert.True(t, in.Viewed)
		assert.True(t, in.Commented)
		require.NotNil(t, in.ViewDuration)
		assert.Equal(t, 12, *in.ViewDuration)

		rows, err := s.ListAdInteractions(ctx, ad.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 1)

		_, err = s.TrackAdView(ctx, 7, 9999, nil, now)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.DeleteFranchiseAd(ctx, ad.ID))
		rows, err = s.ListUserAdInteractions(ctx, 7)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("ads list by priority", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CreateFranchiseAd(ctx, &models.FranchiseAd{Title: "b", FranchiseName: "B", Priority: 5, StartDate: now}))
		require.NoError(t, s.CreateFranchiseAd(ctx, &models.FranchiseAd{Title: "a", FranchiseName: "A", Priority: 1, StartDate: now}))

		ads, err := s.ListFranchiseAds(ctx)
		require.NoError(t, err)
		require.Len(t, ads, 2)
		assert.Equal(t, "a", ads[0].Title)

		ads[0].Title = "mutated"
		again, err := s.GetFranchiseAd(ctx, ads[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "a", again.Title)
	})

	t.Run("user interests save is an upsert", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveUserInterests(ctx, &models.UserInterests{UserID: 4, Interests: "coffee", PrimaryMatchWeight: 60}))
		require.NoError(t, s.SaveUserInterests(ctx, &models.UserInterests{UserID: 4, Interests: "tea", PrimaryMatchWeight: 50}))

		in, err := s.GetUserInterests(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, "tea", in.Interests)
		assert.Equal(t, 50, in.PrimaryMatchWeight)

		_, err = s.GetUserInterests(ctx, 5)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("video views count first view and first completion", func(t *testing.T) {
		s := newStore(t)
		v := &models.VideoContent{Title: "Intro", VideoURL: "https://videos.example/1", IsPublished: true}
		require.NoError(t, s.CreateVideo(ctx, v))

		_, err := s.RecordVideoView(ctx, 1, v.ID, 30, now)
		require.NoError(t, err)
		view, err := s.RecordVideoView(ctx, 1, v.ID, 15, now)
		require.NoError(t, err)
		assert.Equal(t, 45, view.WatchTimeSeconds)

		_, err = s.MarkVideoCompleted(ctx, 1, v.ID, now)
		require.NoError(t, err)
		_, err = s.MarkVideoCompleted(ctx, 1, v.ID, now)
		require.NoError(t, err)
		_, err = s.MarkVideoCompleted(ctx, 2, v.ID, now)
		require.NoError(t, err)

		got, err := s.GetVideo(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.ViewCount)
		assert.Equal(t, 2, got.CompletionCount)

		got.Title = "Intro v2"
		got.ViewCount = 0
		require.NoError(t, s.UpdateVideo(ctx, got))
		updated, err := s.GetVideo(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, "Intro v2", updated.Title)
		assert.Equal(t, 2, updated.ViewCount)
	})

	t.Run("messages mark read once", func(t *testing.T) {
		s := newStore(t)
		m := &models.Message{SenderID: 1, RecipientID: 2, Subject: "hi", Content: "hello", SentAt: now}
		require.NoError(t, s.CreateMessage(ctx, m))

		read, err := s.MarkMessageRead(ctx, m.ID, now)
		require.NoError(t, err)
		assert.True(t, read.IsRead)

		inbox, err := s.ListInbox(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, inbox, 1)
		sent, err := s.ListSent(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, sent)

		_, err = s.MarkMessageRead(ctx, 9999, now)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("pending notifications are due and undelivered", func(t *testing.T) {
		s := newStore(t)
		due := now.Add(-time.Minute)
		later := now.Add(time.Hour)
		require.NoError(t, s.CreateNotifications(ctx, []models.Notification{
			{UserID: 1, Title: "due", Content: "x", ScheduledFor: &due},
			{UserID: 1, Title: "later", Content: "x", ScheduledFor: &later},
			{UserID: 1, Title: "immediate", Content: "x"},
		}))

		pending, err := s.ListPendingNotifications(ctx, now)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "due", pending[0].Title)

		require.NoError(t, s.MarkNotificationDelivered(ctx, pending[0].ID, []string{models.ChannelEmail}, now))
		pending, err = s.ListPendingNotifications(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, pending)

		unread, err := s.ListUnreadNotifications(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, unread, 3)
	})

	t.Run("enrollment codes filter by state and toggle", func(t *testing.T) {
		s := newStore(t)
		ca := &models.EnrollmentCode{Code: "CA-9", StateCode: "CA"}
		require.NoError(t, s.CreateEnrollmentCode(ctx, ca))
		require.NoError(t, s.CreateEnrollmentCode(ctx, &models.EnrollmentCode{Code: "WA-9", StateCode: "WA"}))
		assert.ErrorIs(t, s.CreateEnrollmentCode(ctx, &models.EnrollmentCode{Code: "CA-9", StateCode: "CA"}), ErrDuplicate)

		rows, err := s.ListEnrollmentCodesByState(ctx, "ca")
		require.NoError(t, err)
		require.Len(t, rows, 1)

		toggled, err := s.SetEnrollmentCodeUsed(ctx, ca.ID, true, now)
		require.NoError(t, err)
		assert.True(t, toggled.IsUsed)

		require.NoError(t, s.DeleteEnrollmentCode(ctx, ca.ID))
		assert.ErrorIs(t, s.DeleteEnrollmentCode(ctx, ca.ID), ErrNotFound)
	})

	t.Run("concurrent registrations consume a code once", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.CreateEnrollmentCode(ctx, &models.EnrollmentCode{Code: "RACE", StateCode: "RA"}))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if s.RegisterUser(ctx, newUser(fmt.Sprintf("racer%d", i)), "RACE", now) == nil {
					wins.Add(1)
				}
			}(i)
		}
		wg.Wait()
		assert.EqualValues(t, 1, wins.Load())
	})
}
