package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaultsToMemoryWithoutDBHost(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("SESSION_MAX_AGE", "")

	LoadConfig()

	assert.Equal(t, "memory", AppConfig.StorageDriver)
	assert.False(t, AppConfig.UsesDatabase())
	assert.Equal(t, 30*24*time.Hour, AppConfig.SessionMaxAge)
	assert.Equal(t, time.Hour, AppConfig.ResetTokenTTL)
	assert.Empty(t, AppConfig.AdminSetupKey)
}

func TestLoadConfigReadsOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("STORAGE_DRIVER", "MySQL")
	t.Setenv("SESSION_MAX_AGE", "2h")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("COOKIE_SECURE", "true")

	LoadConfig()

	assert.Equal(t, "mysql", AppConfig.StorageDriver)
	assert.True(t, AppConfig.UsesDatabase())
	assert.Equal(t, 2*time.Hour, AppConfig.SessionMaxAge)
	assert.Equal(t, 10, AppConfig.DBMaxOpen)
	assert.True(t, AppConfig.CookieSecure)
}
