package adValidator

import (
	"time"

	"jetacademy/validators"

	"github.com/gofiber/fiber/v2"
)

type FranchiseAdRequest struct {
	Title             string     `json:"title" validate:"required,max=200"`
	Description       string     `json:"description"`
	FranchiseName     string     `json:"franchiseName" validate:"required,max=200"`
	ImageURL          string     `json:"imageUrl"`
	WebsiteURL        string     `json:"websiteUrl" validate:"omitempty,url"`
	InterestTags      string     `json:"interestTags"`
	CategoryTags      string     `json:"categoryTags"`
	ComplementaryTags string     `json:"complementaryTags"`
	DisplayLocation   string     `json:"displayLocation" validate:"omitempty,oneof=all chapter dashboard"`
	ChapterIDs        string     `json:"chapterIds"`
	IsActive          *bool      `json:"isActive"`
	StartDate         *time.Time `json:"startDate"`
	EndDate           *time.Time `json:"endDate"`
	Priority          int        `json:"priority"`
}

type AdStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type TrackViewRequest struct {
	AdID         uint `json:"adId" validate:"required"`
	ViewDuration *int `json:"viewDuration" validate:"omitempty,min=0"`
}

type CommentRequest struct {
	AdID       uint   `json:"adId" validate:"required"`
	Comment    string `json:"comment" validate:"required,max=2000"`
	Interested *bool  `json:"interested"`
}

// UserInterestsRequest leaves weights that are not sent at their stored or default value.
type UserInterestsRequest struct {
	Interests                string `json:"interests"`
	FoodPreferences          string `json:"foodPreferences"`
	HobbyPreferences         string `json:"hobbyPreferences"`
	BusinessInterests        string `json:"businessInterests"`
	PrimaryMatchWeight       *int   `json:"primaryMatchWeight" validate:"omitempty,min=0,max=100"`
	ComplementaryMatchWeight *int   `json:"complementaryMatchWeight" validate:"omitempty,min=0,max=100"`
	DiscoveryWeight          *int   `json:"discoveryWeight" validate:"omitempty,min=0,max=100"`
}

type RecommendationQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=50"`
}

func AdID(param string) fiber.Handler {
	return validators.ParamID(param, "adID")
}

func FranchiseAd() fiber.Handler {
	return validators.Body[FranchiseAdRequest]("validatedAd")
}

func AdStatus() fiber.Handler {
	return validators.Body[AdStatusRequest]("validatedAdStatus")
}

func TrackView() fiber.Handler {
	return validators.Body[TrackViewRequest]("validatedAdView")
}

func Comment() fiber.Handler {
	return validators.Body[CommentRequest]("validatedAdComment")
}

func UserInterests() fiber.Handler {
	return validators.Body[UserInterestsRequest]("validatedInterests")
}

func Recommendations() fiber.Handler {
	return validators.Query[RecommendationQuery]("validatedRecommendationQuery")
}
