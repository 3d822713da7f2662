package database

import (
	"fmt"
	"time"

	"jetacademy/config"
	"jetacademy/logging"
	"jetacademy/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, applies the pool limits and runs migrations.
func ConnectDb(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := Open(dialector)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.StorageDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpen)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdle)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	Database = DbInstance{Db: db}
	return db, nil
}

// Open connects through dialector with duplicate-key errors translated to gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.StorageDriver {
	case "postgres":
		return postgres.Open(fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)), nil
	case "mysql":
		return mysql.Open(fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)), nil
	case "sqlite":
		return sqlite.Open(cfg.DBName), nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	logging.Info().Msg("Running migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.LoginSession{},
		&models.SessionRecord{},
		&models.Chapter{},
		&models.QuizQuestion{},
		&models.UserProgress{},
		&models.QuizAttempt{},
		&models.StudentDraft{},
		&models.TutorFeedback{},
		&models.Message{},
		&models.Notification{},
		&models.NotificationTemplate{},
		&models.EnrollmentCode{},
		&models.FranchiseAd{},
		&models.AdInteraction{},
		&models.UserInterests{},
		&models.VideoContent{},
		&models.VideoView{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logging.Info().Msg("Migrations completed successfully.")
	return nil
}
