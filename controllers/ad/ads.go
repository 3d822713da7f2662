package adController

import (
	"time"

	"jetacademy/middleware"
	"jetacademy/models"
	"jetacademy/recommender"
	"jetacademy/storage"
	adValidator "jetacademy/validators/ad"

	"github.com/gofiber/fiber/v2"
)

func ListAds(c *fiber.Ctx) error {
	ads, err := storage.Store.ListFranchiseAds(c.UserContext())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No ads found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ads fetched successfully.", ads)
}

// ListActiveAds serves the running ads, optionally narrowed to one display location.
func ListActiveAds(c *fiber.Ctx) error {
	ads, err := storage.Store.ListFranchiseAds(c.UserContext())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No ads found")
	}
	active := recommender.Active(ads, time.Now())
	if location := c.Query("location"); location != "" {
		out := active[:0]
		for _, ad := range active {
			if ad.DisplayLocation == location || ad.DisplayLocation == models.AdLocationAll {
				out = append(out, ad)
			}
		}
		active = out
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Active ads fetched successfully.", active)
}

func ListChapterAds(c *fiber.Ctx) error {
	ads, err := storage.Store.ListFranchiseAds(c.UserContext())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No ads found")
	}
	chapterID := c.Locals("chapterID").(uint)
	out := []models.FranchiseAd{}
	for _, ad := range recommender.Active(ads, time.Now()) {
		if ad.ShownOnChapter(chapterID) {
			out = append(out, ad)
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter ads fetched successfully.", out)
}

// GetAd hides ads that are not running from everyone but instructors.
func GetAd(c *fiber.Ctx) error {
	ad, err := storage.Store.GetFranchiseAd(c.UserContext(), c.Locals("adID").(uint))
	if err == nil && !ad.ActiveAt(time.Now()) && !middleware.CurrentUser(c).IsInstructor {
		err = storage.ErrNotFound
	}
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Ad not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ad fetched successfully.", ad)
}

func applyAd(ad *models.FranchiseAd, req *adValidator.FranchiseAdRequest) {
	ad.Title = req.Title
	ad.Description = req.Description
	ad.FranchiseName = req.FranchiseName
	ad.ImageURL = req.ImageURL
	ad.WebsiteURL = req.WebsiteURL
	ad.InterestTags = req.InterestTags
	ad.CategoryTags = req.CategoryTags
	ad.ComplementaryTags = req.ComplementaryTags
	ad.DisplayLocation = req.DisplayLocation
	if ad.DisplayLocation == "" {
		ad.DisplayLocation = models.AdLocationAll
	}
	ad.ChapterIDs = req.ChapterIDs
	if req.IsActive != nil {
		ad.IsActive = *req.IsActive
	}
	if req.StartDate != nil {
		ad.StartDate = *req.StartDate
	}
	ad.EndDate = req.EndDate
	ad.Priority = req.Priority
}

func CreateAd(c *fiber.Ctx) error {
	reqData := c.Locals("validatedAd").(*adValidator.FranchiseAdRequest)

	ad := &models.FranchiseAd{IsActive: true, StartDate: time.Now()}
	applyAd(ad, reqData)
	if ad.EndDate != nil && ad.EndDate.Before(ad.StartDate) {
		return middleware.ValidationErrorResponse(c, map[string]string{"endDate": "endDate must be after startDate!"})
	}
	if err := storage.Store.CreateFranchiseAd(c.UserContext(), ad); err != nil {
		return middleware.StorageErrorResponse(c, err, "Ad not found")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Ad created successfully.", ad)
}

func UpdateAd(c *fiber.Ctx) error {
	reqData := c.Locals("validatedAd").(*adValidator.FranchiseAdRequest)
	ctx := c.UserContext()

	ad, err := storage.Store.GetFranchiseAd(ctx, c.Locals("adID").(uint))
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Ad not found")
	}
	applyAd(ad, reqData)
	if ad.EndDate != nil && ad.EndDate.Before(ad.StartDate) {
		return middleware.ValidationErrorResponse(c, map[string]string{"endDate": "endDate must be after startDate!"})
	}
	if err := storage.Store.UpdateFranchiseAd(ctx, ad); err != nil {
		return middleware.StorageErrorResponse(c, err, "Ad not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ad updated successfully.", ad)
}

func SetAdStatus(c *fiber.Ctx) error {
	reqData := c.Locals("validatedAdStatus").(*adValidator.AdStatusRequest)
	ctx := c.UserContext()

	ad, err := storage.Store.GetFranchiseAd(ctx, c.Locals("adID").(uint))
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Ad not found")
	}
	ad.IsActive = *reqData.IsActive
	if err := storage.Store.UpdateFranchiseAd(ctx, ad); err != nil {
		return middleware.StorageErrorResponse(c, err, "Ad not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ad status updated.", ad)
}

func DeleteAd(c *fiber.Ctx) error {
	if err := storage.Store.DeleteFranchiseAd(c.UserContext(), c.Locals("adID").(uint)); err != nil {
		return middleware.StorageErrorResponse(c, err, "Ad not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ad deleted successfully.", nil)
}

type adStats struct {
	AdID            uint    `json:"adId"`
	Title           string  `json:"title"`
	IsActive        bool    `json:"isActive"`
	Views           int     `json:"views"`
	Comments        int     `json:"comments"`
	Interested      int     `json:"interested"`
	AvgViewDuration float64 `json:"avgViewDuration"`
}

func AdStats(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ads, err := storage.Store.ListFranchiseAds(ctx)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No ads found")
	}

	now := time.Now()
	out := make([]adStats, 0, len(ads))
	for i := range ads {
		ad := &ads[i]
		interactions, err := storage.Store.ListAdInteractions(ctx, ad.ID)
		if err != nil {
			return middleware.StorageErrorResponse(c, err, "No ads found")
		}
		s := adStats{AdID: ad.ID, Title: ad.Title, IsActive: ad.ActiveAt(now)}
		var durationSum, durationCount int
		for _, in := range interactions {
			if in.Viewed {
				s.Views++
			}
			if in.Commented {
				s.Comments++
			}
			if in.Interested != nil && *in.Interested {
				s.Interested++
			}
			if in.ViewDuration != nil {
				durationSum += *in.ViewDuration
				durationCount++
			}
		}
		if durationCount > 0 {
			s.AvgViewDuration = float64(durationSum) / float64(durationCount)
		}
		out = append(out, s)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ad stats fetched successfully.", out)
}
