package videoController

import (
	"jetacademy/logging"
	"jetacademy/middleware"
	"jetacademy/models"
	"jetacademy/storage"
	"jetacademy/utils"
	videoValidator "jetacademy/validators/video"

	"github.com/gofiber/fiber/v2"
)

func AdminListVideos(c *fiber.Ctx) error {
	videos, err := storage.Store.ListVideos(c.UserContext())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No videos found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Videos fetched successfully.", videos)
}

// applyVideo copies the request onto v, storing an uploaded thumbnail when present.
func applyVideo(c *fiber.Ctx, v *models.VideoContent, req *videoValidator.VideoRequest) error {
	v.Title = req.Title
	v.Description = req.Description
	v.VideoURL = req.VideoURL
	v.Category = req.Category
	v.ChapterID = req.ChapterID
	v.Duration = req.Duration
	v.TargetUserIDs = req.TargetUserIDs
	if req.ThumbnailURL != "" {
		v.ThumbnailURL = req.ThumbnailURL
	}
	if req.IsPublished != nil {
		v.IsPublished = *req.IsPublished
	}
	if req.IsFeatured != nil {
		v.IsFeatured = *req.IsFeatured
	}

	if file, err := c.FormFile("thumbnail"); err == nil {
		url, err := utils.SaveUploadedImage(file, "thumbnails")
		if err != nil {
			return err
		}
		v.ThumbnailURL = url
	}
	return nil
}

func AdminCreateVideo(c *fiber.Ctx) error {
	reqData := c.Locals("validatedVideo").(*videoValidator.VideoRequest)

	video := &models.VideoContent{UploadedBy: middleware.CurrentUser(c).ID}
	if err := applyVideo(c, video, reqData); err != nil {
		logging.Warn().Err(err).Msg("store thumbnail")
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid thumbnail image!", nil)
	}
	if err := storage.Store.CreateVideo(c.UserContext(), video); err != nil {
		return middleware.StorageErrorResponse(c, err, "Video not found")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Video created successfully.", video)
}

func AdminUpdateVideo(c *fiber.Ctx) error {
	reqData := c.Locals("validatedVideo").(*videoValidator.VideoRequest)
	ctx := c.UserContext()

	video, err := storage.Store.GetVideo(ctx, c.Locals("videoID").(uint))
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Video not found")
	}
	if err := applyVideo(c, video, reqData); err != nil {
		logging.Warn().Err(err).Msg("store thumbnail")
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid thumbnail image!", nil)
	}
	if err := storage.Store.UpdateVideo(ctx, video); err != nil {
		return middleware.StorageErrorResponse(c, err, "Video not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video updated successfully.", video)
}

func AdminPublishVideo(c *fiber.Ctx) error {
	reqData := c.Locals("validatedVideoPublish").(*videoValidator.PublishRequest)
	ctx := c.UserContext()

	video, err := storage.Store.GetVideo(ctx, c.Locals("videoID").(uint))
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Video not found")
	}
	video.IsPublished = *reqData.IsPublished
	if err := storage.Store.UpdateVideo(ctx, video); err != nil {
		return middleware.StorageErrorResponse(c, err, "Video not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video publish state updated.", video)
}

func AdminDeleteVideo(c *fiber.Ctx) error {
	if err := storage.Store.DeleteVideo(c.UserContext(), c.Locals("videoID").(uint)); err != nil {
		return middleware.StorageErrorResponse(c, err, "Video not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video deleted successfully.", nil)
}

func AdminVideoStats(c *fiber.Ctx) error {
	ctx := c.UserContext()
	video, err := storage.Store.GetVideo(ctx, c.Locals("videoID").(uint))
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Video not found")
	}
	views, err := storage.Store.ListVideoViews(ctx, video.ID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No views found")
	}
	var watchSeconds int
	for _, v := range views {
		watchSeconds += v.WatchTimeSeconds
	}
	var avg float64
	if len(views) > 0 {
		avg = float64(watchSeconds) / float64(len(views))
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video stats fetched successfully.", fiber.Map{
		"video":               video,
		"viewCount":           video.ViewCount,
		"completionCount":     video.CompletionCount,
		"totalWatchSeconds":   watchSeconds,
		"averageWatchSeconds": avg,
		"views":               views,
	})
}
