package adController

import (
	"time"

	"jetacademy/middleware"
	"jetacademy/recommender"
	"jetacademy/storage"
	adValidator "jetacademy/validators/ad"

	"github.com/gofiber/fiber/v2"
)

func TrackView(c *fiber.Ctx) error {
	reqData := c.Locals("validatedAdView").(*adValidator.TrackViewRequest)
	in, err := storage.Store.TrackAdView(c.UserContext(), middleware.CurrentUser(c).ID, reqData.AdID, reqData.ViewDuration, time.Now())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Ad not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ad view recorded.", in)
}

func SubmitComment(c *fiber.Ctx) error {
	reqData := c.Locals("validatedAdComment").(*adValidator.CommentRequest)
	in, err := storage.Store.SubmitAdComment(c.UserContext(), middleware.CurrentUser(c).ID, reqData.AdID, reqData.Comment, reqData.Interested, time.Now())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Ad not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Comment submitted.", in)
}

func MyInteractions(c *fiber.Ctx) error {
	items, err := storage.Store.ListUserAdInteractions(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No interactions found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Interactions fetched successfully.", items)
}

// Compliance reports how many running ads the student has viewed and
// commented on. A student is compliant once every running ad has both.
func Compliance(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ads, err := storage.Store.ListFranchiseAds(ctx)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No ads found")
	}
	items, err := storage.Store.ListUserAdInteractions(ctx, middleware.CurrentUser(c).ID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No interactions found")
	}

	active := recommender.Active(ads, time.Now())
	running := make(map[uint]bool, len(active))
	for _, ad := range active {
		running[ad.ID] = true
	}
	var viewed, commented int
	for _, in := range items {
		if !running[in.AdID] {
			continue
		}
		if in.Viewed {
			viewed++
		}
		if in.Commented {
			commented++
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Compliance fetched successfully.", fiber.Map{
		"totalActiveAds": len(active),
		"viewed":         viewed,
		"commented":      commented,
		"compliant":      viewed == len(active) && commented == len(active),
	})
}

func AdInteractions(c *fiber.Ctx) error {
	ctx := c.UserContext()
	adID := c.Locals("adID").(uint)
	if _, err := storage.Store.GetFranchiseAd(ctx, adID); err != nil {
		return middleware.StorageErrorResponse(c, err, "Ad not found")
	}
	items, err := storage.Store.ListAdInteractions(ctx, adID)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No interactions found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Interactions fetched successfully.", items)
}
