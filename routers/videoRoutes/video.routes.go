package videoRoutes

import (
	videoController "jetacademy/controllers/video"
	"jetacademy/middleware"
	courseValidator "jetacademy/validators/course"
	videoValidator "jetacademy/validators/video"

	"github.com/gofiber/fiber/v2"
)

func SetupVideoRoutes(app *fiber.App) {
	videoGroup := app.Group("/api/videos", middleware.EnsureAuthenticated)
	videoGroup.Get("/", videoController.ListVideos)
	videoGroup.Get("/featured", videoController.ListFeatured)
	videoGroup.Get("/me/stats", videoController.MyStats)
	videoGroup.Get("/category/:category", videoController.ListByCategory)
	videoGroup.Get("/chapter/:chapterId", courseValidator.ChapterID("chapterId"), videoController.ListByChapter)
	videoGroup.Get("/:id", videoValidator.VideoID(), videoController.GetVideo)
	videoGroup.Post("/:id/view", videoValidator.VideoID(), videoValidator.View(), videoController.RecordView)
	videoGroup.Post("/:id/complete", videoValidator.VideoID(), videoController.MarkCompleted)

	adminGroup := app.Group("/api/admin/videos", middleware.EnsureAdmin)
	adminGroup.Get("/", videoController.AdminListVideos)
	adminGroup.Post("/", videoValidator.Video(), videoController.AdminCreateVideo)
	adminGroup.Put("/:id", videoValidator.VideoID(), videoValidator.Video(), videoController.AdminUpdateVideo)
	adminGroup.Put("/:id/publish", videoValidator.VideoID(), videoValidator.Publish(), videoController.AdminPublishVideo)
	adminGroup.Delete("/:id", videoValidator.VideoID(), videoController.AdminDeleteVideo)
	adminGroup.Get("/:id/stats", videoValidator.VideoID(), videoController.AdminVideoStats)
}
