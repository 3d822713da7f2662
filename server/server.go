// Package server assembles the Fiber application: global middleware, static
// uploads and every route group.
package server

import (
	"jetacademy/config"
	"jetacademy/logging"
	"jetacademy/middleware"
	adRoutes "jetacademy/routers/adRoutes"
	adminRoutes "jetacademy/routers/adminRoutes"
	authRoutes "jetacademy/routers/authRoutes"
	courseRoutes "jetacademy/routers/courseRoutes"
	enrollmentRoutes "jetacademy/routers/enrollmentRoutes"
	messageRoutes "jetacademy/routers/messageRoutes"
	notificationRoutes "jetacademy/routers/notificationRoutes"
	videoRoutes "jetacademy/routers/videoRoutes"
	workspaceRoutes "jetacademy/routers/workspaceRoutes"
	"jetacademy/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// New builds the application. storage.Store and middleware.Sessions must be
// installed before the first request.
func New(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "JET Academy",
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE",
		AllowHeaders:     "Content-Type,Authorization,X-Auth-Token",
		AllowCredentials: cfg.AllowOrigins != "*",
	}))

	app.Use(logger.New(logger.Config{
		Format: "${ip} ${method} ${path} ${status} ${latency}\n",
		Output: logging.With("http"),
	}))

	app.Static("/uploads", utils.UploadDir)

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	adminRoutes.SetupAdminRoutes(app)
	workspaceRoutes.SetupWorkspaceRoutes(app)
	messageRoutes.SetupMessageRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)
	adRoutes.SetupAdRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	videoRoutes.SetupVideoRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Route not found", nil)
	})

	return app
}
