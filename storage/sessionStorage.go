package storage

import (
	"errors"
	"time"

	"jetacademy/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionStorage persists cookie sessions in the sessions table. It satisfies
// fiber.Storage so the session middleware can use it directly.
type SessionStorage struct {
	db *gorm.DB
}

var _ fiber.Storage = (*SessionStorage)(nil)

func NewSessionStorage(db *gorm.DB) *SessionStorage {
	return &SessionStorage{db: db}
}

// Get returns nil without error when the key is missing or expired.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	var rec models.SessionRecord
	err := s.db.Where("id = ? AND (expires_at IS NULL OR expires_at > ?)", key, time.Now()).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.Data, nil
}

func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	rec := models.SessionRecord{ID: key, Data: val}
	if exp > 0 {
		t := time.Now().Add(exp)
		rec.ExpiresAt = &t
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at"}),
	}).Create(&rec).Error
}

func (s *SessionStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.db.Where("id = ?", key).Delete(&models.SessionRecord{}).Error
}

// Reset removes every session.
func (s *SessionStorage) Reset() error {
	return s.db.Where("1 = 1").Delete(&models.SessionRecord{}).Error
}

func (s *SessionStorage) Close() error {
	return nil
}

// Prune deletes sessions that expired before now and reports how many went.
func (s *SessionStorage) Prune(now time.Time) (int64, error) {
	res := s.db.Where("expires_at IS NOT NULL AND expires_at <= ?", now).Delete(&models.SessionRecord{})
	return res.RowsAffected, res.Error
}
