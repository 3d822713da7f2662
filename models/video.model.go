package models

import (
	"strconv"
	"time"
)

type VideoContent struct {
	Model
	Title           string `gorm:"not null" json:"title"`
	Description     string `json:"description"`
	VideoURL        string `gorm:"not null" json:"videoUrl"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	Category        string `gorm:"index;size:64" json:"category"`
	ChapterID       *uint  `gorm:"index" json:"chapterId"`
	Duration        int    `json:"duration"`
	UploadedBy      uint   `gorm:"index" json:"uploadedBy"`
	TargetUserIDs   string `json:"targetUserIds"`
	IsPublished     bool   `gorm:"default:false" json:"isPublished"`
	IsFeatured      bool   `gorm:"default:false" json:"isFeatured"`
	ViewCount       int    `gorm:"default:0" json:"viewCount"`
	CompletionCount int    `gorm:"default:0" json:"completionCount"`
}

// VisibleTo reports whether a published video targets the user. An empty
// target list means everyone.
func (v *VideoContent) VisibleTo(userID uint) bool {
	if !v.IsPublished {
		return false
	}
	targets := SplitList(v.TargetUserIDs)
	if len(targets) == 0 {
		return true
	}
	for _, id := range targets {
		if id == uintString(userID) {
			return true
		}
	}
	return false
}

type VideoView struct {
	Model
	UserID           uint       `gorm:"uniqueIndex:idx_video_view_user_video;not null" json:"userId"`
	VideoID          uint       `gorm:"uniqueIndex:idx_video_view_user_video;not null" json:"videoId"`
	WatchTimeSeconds int        `gorm:"default:0" json:"watchTimeSeconds"`
	IsCompleted      bool       `gorm:"default:false" json:"isCompleted"`
	ViewedAt         time.Time  `json:"viewedAt"`
	CompletedAt      *time.Time `json:"completedAt"`
}

func uintString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
