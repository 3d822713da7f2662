package models

import (
	"time"

	"gorm.io/datatypes"
)

type Chapter struct {
	Model
	Number      int            `gorm:"uniqueIndex;not null" json:"number"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Content     datatypes.JSON `json:"content"`
}

// QuizQuestion types.
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
)

type QuizQuestion struct {
	Model
	ChapterID     uint           `gorm:"index;not null" json:"chapterId"`
	QuestionText  string         `gorm:"not null" json:"questionText"`
	Type          string         `gorm:"size:32" json:"type"`
	Options       datatypes.JSON `json:"options"`
	CorrectAnswer string         `json:"correctAnswer"`
	Explanation   string         `json:"explanation"`
}

type UserProgress struct {
	Model
	UserID       uint       `gorm:"uniqueIndex:idx_progress_user_chapter;not null" json:"userId"`
	ChapterID    uint       `gorm:"uniqueIndex:idx_progress_user_chapter;not null" json:"chapterId"`
	IsCompleted  bool       `gorm:"default:false" json:"isCompleted"`
	QuizScore    *int       `json:"quizScore"`
	LastAccessed *time.Time `json:"lastAccessed"`
}

type QuizAttempt struct {
	Model
	UserID      uint           `gorm:"index;not null" json:"userId"`
	ChapterID   uint           `gorm:"index;not null" json:"chapterId"`
	Score       int            `json:"score"`
	Answers     datatypes.JSON `json:"answers"`
	CompletedAt time.Time      `json:"completedAt"`
}
