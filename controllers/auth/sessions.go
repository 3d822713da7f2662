package authController

import (
	"time"

	"jetacademy/middleware"
	"jetacademy/storage"
	"jetacademy/validators"

	"github.com/gofiber/fiber/v2"
)

func LoginHistory(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	pagination, _ := c.Locals("validatedPagination").(*validators.Pagination)
	offset, limit := pagination.Window()

	sessions, total, err := storage.Store.ListLoginSessions(c.UserContext(), user.ID, offset, limit)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No login history found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login history fetched successfully.", fiber.Map{
		"sessions": sessions,
		"total":    total,
		"page":     offset/limit + 1,
		"limit":    limit,
	})
}

func ActiveSessions(c *fiber.Ctx) error {
	count, err := storage.Store.CountLiveLoginSessions(c.UserContext(), time.Now())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No sessions found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Active sessions counted.", fiber.Map{
		"activeSessions": count,
	})
}
