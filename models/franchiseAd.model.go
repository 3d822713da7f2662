package models

import (
	"strings"
	"time"
)

// Ad display locations.
const (
	AdLocationAll       = "all"
	AdLocationChapter   = "chapter"
	AdLocationDashboard = "dashboard"
)

type FranchiseAd struct {
	Model
	Title             string     `gorm:"not null" json:"title"`
	Description       string     `json:"description"`
	FranchiseName     string     `gorm:"not null" json:"franchiseName"`
	ImageURL          string     `json:"imageUrl"`
	WebsiteURL        string     `json:"websiteUrl"`
	InterestTags      string     `json:"interestTags"`
	CategoryTags      string     `json:"categoryTags"`
	ComplementaryTags string     `json:"complementaryTags"`
	DisplayLocation   string     `gorm:"size:16" json:"displayLocation"`
	ChapterIDs        string     `json:"chapterIds"`
	IsActive          bool       `json:"isActive"`
	StartDate         time.Time  `json:"startDate"`
	EndDate           *time.Time `json:"endDate"`
	Priority          int        `gorm:"default:0" json:"priority"`
}

// ActiveAt reports whether the ad is switched on and inside its run window at t.
func (a *FranchiseAd) ActiveAt(t time.Time) bool {
	if !a.IsActive || a.StartDate.After(t) {
		return false
	}
	return a.EndDate == nil || !a.EndDate.Before(t)
}

// ShownOnChapter reports whether the ad targets the given chapter.
func (a *FranchiseAd) ShownOnChapter(chapterID uint) bool {
	switch a.DisplayLocation {
	case AdLocationAll, "":
		return true
	case AdLocationChapter:
		for _, id := range SplitList(a.ChapterIDs) {
			if id == uintString(chapterID) {
				return true
			}
		}
	}
	return false
}

type AdInteraction struct {
	Model
	UserID       uint       `gorm:"uniqueIndex:idx_ad_interaction_user_ad;not null" json:"userId"`
	AdID         uint       `gorm:"uniqueIndex:idx_ad_interaction_user_ad;not null" json:"adId"`
	Viewed       bool       `gorm:"default:false" json:"viewed"`
	ViewedAt     *time.Time `json:"viewedAt"`
	ViewDuration *int       `json:"viewDuration"`
	Commented    bool       `gorm:"default:false" json:"commented"`
	Comment      string     `json:"comment"`
	CommentedAt  *time.Time `json:"commentedAt"`
	Interested   *bool      `json:"interested"`
}

// Default recommendation weights, in percent.
const (
	DefaultPrimaryWeight       = 60
	DefaultComplementaryWeight = 30
	DefaultDiscoveryWeight     = 10
)

type UserInterests struct {
	Model
	UserID                   uint   `gorm:"uniqueIndex;not null" json:"userId"`
	Interests                string `json:"interests"`
	FoodPreferences          string `json:"foodPreferences"`
	HobbyPreferences         string `json:"hobbyPreferences"`
	BusinessInterests        string `json:"businessInterests"`
	PrimaryMatchWeight       int    `json:"primaryMatchWeight"`
	ComplementaryMatchWeight int    `json:"complementaryMatchWeight"`
	DiscoveryWeight          int    `json:"discoveryWeight"`
}

// SplitList splits a comma separated column into trimmed, non-empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
