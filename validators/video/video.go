package videoValidator

import (
	"jetacademy/validators"

	"github.com/gofiber/fiber/v2"
)

// VideoRequest arrives as JSON or as a multipart form carrying a thumbnail.
type VideoRequest struct {
	Title         string `json:"title" form:"title" validate:"required,max=200"`
	Description   string `json:"description" form:"description"`
	VideoURL      string `json:"videoUrl" form:"videoUrl" validate:"required,max=2048"`
	ThumbnailURL  string `json:"thumbnailUrl" form:"thumbnailUrl"`
	Category      string `json:"category" form:"category" validate:"max=64"`
	ChapterID     *uint  `json:"chapterId" form:"chapterId"`
	Duration      int    `json:"duration" form:"duration" validate:"min=0"`
	TargetUserIDs string `json:"targetUserIds" form:"targetUserIds"`
	IsPublished   *bool  `json:"isPublished" form:"isPublished"`
	IsFeatured    *bool  `json:"isFeatured" form:"isFeatured"`
}

type ViewRequest struct {
	WatchTimeSeconds int `json:"watchTimeSeconds" validate:"min=0"`
}

type PublishRequest struct {
	IsPublished *bool `json:"isPublished" validate:"required"`
}

func VideoID() fiber.Handler {
	return validators.ParamID("id", "videoID")
}

func Video() fiber.Handler {
	return validators.Body[VideoRequest]("validatedVideo")
}

func View() fiber.Handler {
	return validators.Body[ViewRequest]("validatedVideoView")
}

func Publish() fiber.Handler {
	return validators.Body[PublishRequest]("validatedVideoPublish")
}
