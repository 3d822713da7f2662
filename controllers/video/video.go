package videoController

import (
	"strings"
	"time"

	"jetacademy/middleware"
	"jetacademy/models"
	"jetacademy/storage"
	videoValidator "jetacademy/validators/video"

	"github.com/gofiber/fiber/v2"
)

// visibleVideos lists the published videos the caller may watch, filtered by keep.
func visibleVideos(c *fiber.Ctx, keep func(v *models.VideoContent) bool) ([]models.VideoContent, error) {
	videos, err := storage.Store.ListVideos(c.UserContext())
	if err != nil {
		return nil, err
	}
	userID := middleware.CurrentUser(c).ID
	out := []models.VideoContent{}
	for i := range videos {
		v := &videos[i]
		if v.VisibleTo(userID) && (keep == nil || keep(v)) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func ListVideos(c *fiber.Ctx) error {
	videos, err := visibleVideos(c, nil)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No videos found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Videos fetched successfully.", videos)
}

func ListFeatured(c *fiber.Ctx) error {
	videos, err := visibleVideos(c, func(v *models.VideoContent) bool { return v.IsFeatured })
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No videos found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Featured videos fetched successfully.", videos)
}

func ListByCategory(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Params("category"))
	videos, err := visibleVideos(c, func(v *models.VideoContent) bool { return strings.EqualFold(v.Category, category) })
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No videos found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Videos fetched successfully.", videos)
}

func ListByChapter(c *fiber.Ctx) error {
	chapterID := c.Locals("chapterID").(uint)
	videos, err := visibleVideos(c, func(v *models.VideoContent) bool { return v.ChapterID != nil && *v.ChapterID == chapterID })
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No videos found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Videos fetched successfully.", videos)
}

// loadVisible resolves the videoID local, hiding videos the caller cannot watch.
func loadVisible(c *fiber.Ctx) (*models.VideoContent, error) {
	video, err := storage.Store.GetVideo(c.UserContext(), c.Locals("videoID").(uint))
	if err != nil {
		return nil, err
	}
	if !video.VisibleTo(middleware.CurrentUser(c).ID) {
		return nil, storage.ErrNotFound
	}
	return video, nil
}

func GetVideo(c *fiber.Ctx) error {
	video, err := loadVisible(c)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Video not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video fetched successfully.", video)
}

func RecordView(c *fiber.Ctx) error {
	reqData := c.Locals("validatedVideoView").(*videoValidator.ViewRequest)
	video, err := loadVisible(c)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Video not found")
	}
	view, err := storage.Store.RecordVideoView(c.UserContext(), middleware.CurrentUser(c).ID, video.ID, reqData.WatchTimeSeconds, time.Now())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Video not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "View recorded.", view)
}

func MarkCompleted(c *fiber.Ctx) error {
	video, err := loadVisible(c)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Video not found")
	}
	view, err := storage.Store.MarkVideoCompleted(c.UserContext(), middleware.CurrentUser(c).ID, video.ID, time.Now())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Video not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video marked as completed.", view)
}

func MyStats(c *fiber.Ctx) error {
	views, err := storage.Store.ListUserVideoViews(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No views found")
	}
	var completed, watchSeconds int
	for _, v := range views {
		if v.IsCompleted {
			completed++
		}
		watchSeconds += v.WatchTimeSeconds
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video stats fetched successfully.", fiber.Map{
		"videosWatched":     len(views),
		"videosCompleted":   completed,
		"totalWatchSeconds": watchSeconds,
		"views":             views,
	})
}
