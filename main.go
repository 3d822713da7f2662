package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jetacademy/config"
	"jetacademy/database"
	"jetacademy/logging"
	"jetacademy/middleware"
	"jetacademy/server"
	"jetacademy/storage"
	"jetacademy/utils"

	"github.com/gofiber/fiber/v2"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	var sessionStore fiber.Storage
	var pruner utils.SessionPruner
	if cfg.UsesDatabase() {
		db, err := database.ConnectDb(cfg)
		if err != nil {
			logging.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("Failed to connect to the database")
		}
		storage.Use(storage.NewDatabaseStorage(db))
		sessions := storage.NewSessionStorage(db)
		sessionStore, pruner = sessions, sessions
		logging.Info().Str("driver", cfg.StorageDriver).Msg("Connected to the database")
	} else {
		storage.Use(storage.NewMemStorage())
		logging.Warn().Msg("Using in-memory storage")
	}
	middleware.InitSessions(cfg, sessionStore)

	if cfg.CourseSeedFile != "" {
		n, err := utils.SeedCourseData(context.Background(), storage.Store, cfg.CourseSeedFile)
		if err != nil {
			logging.Fatal().Err(err).Str("file", cfg.CourseSeedFile).Msg("Failed to seed course data")
		}
		if n > 0 {
			logging.Info().Int("chapters", n).Msg("Seeded course data")
		}
	}

	scheduler := utils.InitializeSchedulers(storage.Store, pruner)

	app := server.New(cfg)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logging.Info().Msg("Shutting down...")
		<-scheduler.Stop().Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logging.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	logging.Info().Str("port", cfg.Port).Msg("Server is running")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped")
	}
}
