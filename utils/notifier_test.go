package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"jetacademy/models"
	"jetacademy/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct{ to, subject string }

func captureSenders(t *testing.T) (*[]sentMessage, *[]sentMessage) {
	t.Helper()
	var emails, texts []sentMessage
	prevEmail, prevSMS := EmailSender, SMSSender
	EmailSender = func(to, subject, _ string) error {
		emails = append(emails, sentMessage{to, subject})
		return nil
	}
	SMSSender = func(phone, message string) error {
		texts = append(texts, sentMessage{phone, message})
		return nil
	}
	t.Cleanup(func() { EmailSender, SMSSender = prevEmail, prevSMS })
	return &emails, &texts
}

func TestDispatchScheduledNotificationsHonorsPreferences(t *testing.T) {
	ctx := context.Background()
	emails, texts := captureSenders(t)
	store := storage.NewMemStorage()

	emailOnly := &models.User{Username: "ana", Email: "ana@example.com", Phone: "555-0100", EmailNotifications: true}
	everything := &models.User{Username: "ben", Email: "ben@example.com", Phone: "555-0101",
		EmailNotifications: true, SMSNotifications: true, PushNotifications: true}
	require.NoError(t, store.CreateUser(ctx, emailOnly))
	require.NoError(t, store.CreateUser(ctx, everything))

	now := time.Now()
	due := now.Add(-time.Minute)
	require.NoError(t, store.CreateNotifications(ctx, []models.Notification{
		{UserID: emailOnly.ID, Title: "Chapter 2 is open", Content: "Go!", ScheduledFor: &due},
		{UserID: everything.ID, Title: "Chapter 2 is open", Content: "Go!", ScheduledFor: &due},
	}))

	sent, err := DispatchScheduledNotifications(ctx, store, now)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Len(t, *emails, 2)
	require.Len(t, *texts, 1)
	assert.Equal(t, "555-0101", (*texts)[0].to)

	list, err := store.ListNotifications(ctx, everything.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].SentViaEmail)
	assert.True(t, list[0].SentViaSMS)
	assert.True(t, list[0].SentViaPush)

	sent, err = DispatchScheduledNotifications(ctx, store, now)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestSeedCourseDataLoadsOnce(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStorage()
	path := filepath.Join(t.TempDir(), "course.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"chapters": [
			{"number": 1, "title": "Finding your idea", "content": {"sections": []},
			 "quiz": [{"questionText": "Pick one", "options": ["a", "b"], "correctAnswer": "a"}]},
			{"number": 2, "title": "Validating demand"}
		]
	}`), 0o600))

	n, err := SeedCourseData(ctx, store, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	chapters, err := store.ListChapters(ctx)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	questions, err := store.ListQuizQuestions(ctx, chapters[0].ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, models.QuestionMultipleChoice, questions[0].Type)

	n, err = SeedCourseData(ctx, store, path)
	require.NoError(t, err)
	assert.Zero(t, n)
}
