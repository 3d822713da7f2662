package healthController

import (
	"jetacademy/config"
	"jetacademy/database"
	"jetacademy/middleware"

	"github.com/gofiber/fiber/v2"
)

// Health reports the storage driver and, for database storage, whether the pool answers.
func Health(c *fiber.Ctx) error {
	data := fiber.Map{"storage": config.AppConfig.StorageDriver}
	if database.Database.Db == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", data)
	}

	sqlDB, err := database.Database.Db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		data["database"] = "unreachable"
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Database unreachable", data)
	}
	data["database"] = "ok"
	return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", data)
}
