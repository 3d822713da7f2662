package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"jetacademy/models"
	"jetacademy/storage"

	"gorm.io/datatypes"
)

type seedQuestion struct {
	QuestionText  string          `json:"questionText"`
	Type          string          `json:"type"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer string          `json:"correctAnswer"`
	Explanation   string          `json:"explanation"`
}

type seedChapter struct {
	Number      int             `json:"number"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Content     json.RawMessage `json:"content"`
	Quiz        []seedQuestion  `json:"quiz"`
}

// SeedCourseData loads chapters and their quizzes from a JSON file when no
// chapter exists yet. It returns the number of chapters created.
func SeedCourseData(ctx context.Context, store storage.Storage, path string) (int, error) {
	existing, err := store.ListChapters(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read course seed: %w", err)
	}
	var doc struct {
		Chapters []seedChapter `json:"chapters"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("parse course seed: %w", err)
	}

	for _, sc := range doc.Chapters {
		chapter := &models.Chapter{
			Number:      sc.Number,
			Title:       sc.Title,
			Description: sc.Description,
			Content:     datatypes.JSON(sc.Content),
		}
		if err := store.CreateChapter(ctx, chapter); err != nil {
			return 0, fmt.Errorf("chapter %d: %w", sc.Number, err)
		}
		for _, q := range sc.Quiz {
			qType := q.Type
			if qType == "" {
				qType = models.QuestionMultipleChoice
			}
			question := &models.QuizQuestion{
				ChapterID:     chapter.ID,
				QuestionText:  q.QuestionText,
				Type:          qType,
				Options:       datatypes.JSON(q.Options),
				CorrectAnswer: q.CorrectAnswer,
				Explanation:   q.Explanation,
			}
			if err := store.CreateQuizQuestion(ctx, question); err != nil {
				return 0, fmt.Errorf("chapter %d question: %w", sc.Number, err)
			}
		}
	}
	return len(doc.Chapters), nil
}
