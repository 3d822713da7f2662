package models

import (
	"time"

	"gorm.io/datatypes"
)

// Draft statuses.
const (
	DraftStatusDraft     = "draft"
	DraftStatusSubmitted = "submitted"
	DraftStatusReviewed  = "reviewed"
)

type StudentDraft struct {
	Model
	UserID      uint           `gorm:"index;not null" json:"userId"`
	ChapterID   uint           `gorm:"index;not null" json:"chapterId"`
	Title       string         `gorm:"not null" json:"title"`
	Content     datatypes.JSON `json:"content"`
	Status      string         `gorm:"size:16" json:"status"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

type TutorFeedback struct {
	Model
	DraftID uint   `gorm:"index;not null" json:"draftId"`
	TutorID uint   `gorm:"index;not null" json:"tutorId"`
	Content string `gorm:"not null" json:"content"`
	Rating  *int   `json:"rating"`
}
