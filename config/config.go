package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port string

	// StorageDriver selects the persistence backend: memory, postgres, mysql or sqlite.
	StorageDriver string
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPort        string
	DBMaxOpen     int
	DBMaxIdle     int

	JWTKey            string
	SessionCookieName string
	SessionMaxAge     time.Duration
	AuthTokenTTL      time.Duration
	ResetTokenTTL     time.Duration
	CookieSecure      bool
	// AuthRateLimit caps credential requests per IP per minute; 0 disables it.
	AuthRateLimit int

	AllowOrigins string
	FrontendURL  string

	LogLevel  string
	LogFormat string

	EmailSender    string
	EmailName      string
	SendGridAPIKey string

	SMSApiURL string
	SMSApiKey string

	// Bootstrap admin access. Empty values disable the corresponding route.
	AdminSetupKey          string
	AdminBootstrapUsername string
	AdminBootstrapPasscode string

	CourseSeedFile string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port: getEnv("PORT", "5000"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", defaultDriver())),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", ""),
		DBName:        getEnv("DB_NAME", "jet_academy"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBMaxOpen:     getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdle:     getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTKey:            getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "jet.sid"),
		SessionMaxAge:     getEnvDuration("SESSION_MAX_AGE", 30*24*time.Hour),
		AuthTokenTTL:      getEnvDuration("AUTH_TOKEN_TTL", 30*24*time.Hour),
		ResetTokenTTL:     getEnvDuration("RESET_TOKEN_TTL", time.Hour),
		CookieSecure:      getEnvBool("COOKIE_SECURE", false),
		AuthRateLimit:     getEnvInt("AUTH_RATE_LIMIT", 20),

		AllowOrigins: getEnv("ALLOW_ORIGINS", "*"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5000"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		EmailSender:    getEnv("EMAIL_SENDER", ""),
		EmailName:      getEnv("EMAIL_SENDER_NAME", "JET Program"),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		SMSApiURL: getEnv("SMS_API_URL", ""),
		SMSApiKey: getEnv("SMS_API_KEY", ""),

		AdminSetupKey:          getEnv("ADMIN_SETUP_KEY", ""),
		AdminBootstrapUsername: getEnv("ADMIN_BOOTSTRAP_USERNAME", ""),
		AdminBootstrapPasscode: getEnv("ADMIN_BOOTSTRAP_PASSCODE", ""),

		CourseSeedFile: getEnv("COURSE_SEED_FILE", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.StorageDriver == "memory" {
		log.Println("Warning: Using in-memory storage. Data will be lost on restart.")
	}
	if AppConfig.SendGridAPIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Emails will only be logged.")
	}
}

// UsesDatabase reports whether the configured storage driver is backed by GORM.
func (c *Config) UsesDatabase() bool {
	return c.StorageDriver != "memory"
}

// defaultDriver falls back to memory when no database host is configured.
func defaultDriver() string {
	if os.Getenv("DB_HOST") == "" {
		return "memory"
	}
	return "postgres"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
