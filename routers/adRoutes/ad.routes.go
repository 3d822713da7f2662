package adRoutes

import (
	adController "jetacademy/controllers/ad"
	"jetacademy/middleware"
	adValidator "jetacademy/validators/ad"
	courseValidator "jetacademy/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupAdRoutes(app *fiber.App) {
	adGroup := app.Group("/api/franchise-ads")
	adGroup.Get("/", middleware.EnsureAdmin, adController.ListAds)
	adGroup.Post("/", middleware.EnsureAdmin, adValidator.FranchiseAd(), adController.CreateAd)
	adGroup.Get("/active", middleware.EnsureAuthenticated, adController.ListActiveAds)
	adGroup.Get("/stats", middleware.EnsureAdmin, adController.AdStats)
	adGroup.Get("/chapter/:chapterId", middleware.EnsureAuthenticated, courseValidator.ChapterID("chapterId"), adController.ListChapterAds)
	adGroup.Get("/:id", middleware.EnsureAuthenticated, adValidator.AdID("id"), adController.GetAd)
	adGroup.Put("/:id", middleware.EnsureAdmin, adValidator.AdID("id"), adValidator.FranchiseAd(), adController.UpdateAd)
	adGroup.Put("/:id/status", middleware.EnsureAdmin, adValidator.AdID("id"), adValidator.AdStatus(), adController.SetAdStatus)
	adGroup.Delete("/:id", middleware.EnsureAdmin, adValidator.AdID("id"), adController.DeleteAd)

	interactionGroup := app.Group("/api/ad-interactions")
	interactionGroup.Post("/view", middleware.EnsureAuthenticated, adValidator.TrackView(), adController.TrackView)
	interactionGroup.Post("/comment", middleware.EnsureAuthenticated, adValidator.Comment(), adController.SubmitComment)
	interactionGroup.Get("/me", middleware.EnsureAuthenticated, adController.MyInteractions)
	interactionGroup.Get("/compliance", middleware.EnsureAuthenticated, adController.Compliance)
	interactionGroup.Get("/ad/:adId", middleware.EnsureAdmin, adValidator.AdID("adId"), adController.AdInteractions)

	interestGroup := app.Group("/api/user-interests", middleware.EnsureAuthenticated)
	interestGroup.Get("/", adController.GetInterests)
	interestGroup.Put("/", adValidator.UserInterests(), adController.SaveInterests)
	interestGroup.Get("/recommendations", adValidator.Recommendations(), adController.Recommendations)
}
