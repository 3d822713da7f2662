package storage

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"jetacademy/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// newTestDB opens a private in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:storage_test_%d?mode=memory&cache=shared&_busy_timeout=5000", dbSeq.Add(1))
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// SQLite allows a single writer; one connection serializes transactions.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.RunMigrations(db))
	return db
}

func TestDatabaseStorageContract(t *testing.T) {
	runContract(t, func(t *testing.T) Storage {
		return NewDatabaseStorage(newTestDB(t))
	})
}

func TestSessionStorageExpiresAndPrunes(t *testing.T) {
	s := NewSessionStorage(newTestDB(t))

	require.NoError(t, s.Set("live", []byte("a"), time.Hour))
	require.NoError(t, s.Set("stale", []byte("b"), time.Millisecond))
	require.NoError(t, s.Set("forever", []byte("c"), 0))
	time.Sleep(5 * time.Millisecond)

	got, err := s.Get("live")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)

	got, err = s.Get("stale")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Set("live", []byte("updated"), time.Hour))
	got, err = s.Get("live")
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), got)

	n, err := s.Prune(time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, s.Delete("live"))
	got, err = s.Get("live")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.Get("forever")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), got)

	require.NoError(t, s.Reset())
	got, err = s.Get("forever")
	require.NoError(t, err)
	assert.Nil(t, got)
}
