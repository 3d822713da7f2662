package adController

import (
	"errors"
	"time"

	"jetacademy/middleware"
	"jetacademy/models"
	"jetacademy/recommender"
	"jetacademy/storage"
	adValidator "jetacademy/validators/ad"

	"github.com/gofiber/fiber/v2"
)

const defaultRecommendationLimit = 10

func defaultInterests(userID uint) *models.UserInterests {
	return &models.UserInterests{
		UserID:                   userID,
		PrimaryMatchWeight:       models.DefaultPrimaryWeight,
		ComplementaryMatchWeight: models.DefaultComplementaryWeight,
		DiscoveryWeight:          models.DefaultDiscoveryWeight,
	}
}

// GetInterests answers with the default profile for students who never saved one.
func GetInterests(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	in, err := storage.Store.GetUserInterests(c.UserContext(), user.ID)
	if errors.Is(err, storage.ErrNotFound) {
		in, err = defaultInterests(user.ID), nil
	}
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Interests not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Interests fetched successfully.", in)
}

func SaveInterests(c *fiber.Ctx) error {
	reqData := c.Locals("validatedInterests").(*adValidator.UserInterestsRequest)
	ctx := c.UserContext()
	user := middleware.CurrentUser(c)

	in, err := storage.Store.GetUserInterests(ctx, user.ID)
	if errors.Is(err, storage.ErrNotFound) {
		in, err = defaultInterests(user.ID), nil
	}
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Interests not found")
	}

	in.Interests = reqData.Interests
	in.FoodPreferences = reqData.FoodPreferences
	in.HobbyPreferences = reqData.HobbyPreferences
	in.BusinessInterests = reqData.BusinessInterests
	if reqData.PrimaryMatchWeight != nil {
		in.PrimaryMatchWeight = *reqData.PrimaryMatchWeight
	}
	if reqData.ComplementaryMatchWeight != nil {
		in.ComplementaryMatchWeight = *reqData.ComplementaryMatchWeight
	}
	if reqData.DiscoveryWeight != nil {
		in.DiscoveryWeight = *reqData.DiscoveryWeight
	}

	if err := storage.Store.SaveUserInterests(ctx, in); err != nil {
		return middleware.StorageErrorResponse(c, err, "Interests not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Interests saved successfully.", in)
}

func Recommendations(c *fiber.Ctx) error {
	query := c.Locals("validatedRecommendationQuery").(*adValidator.RecommendationQuery)
	ctx := c.UserContext()
	user := middleware.CurrentUser(c)

	limit := query.Limit
	if limit == 0 {
		limit = defaultRecommendationLimit
	}

	in, err := storage.Store.GetUserInterests(ctx, user.ID)
	if errors.Is(err, storage.ErrNotFound) {
		in, err = nil, nil
	}
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Interests not found")
	}
	ads, err := storage.Store.ListFranchiseAds(ctx)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No ads found")
	}

	picked := recommender.Recommend(in, ads, limit, time.Now())
	if picked == nil {
		picked = []models.FranchiseAd{}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recommendations fetched successfully.", picked)
}
