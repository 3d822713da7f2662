package models

import "time"

// SessionRecord is a row of the cookie session store. A nil ExpiresAt never expires.
type SessionRecord struct {
	ID        string     `gorm:"primaryKey;size:128"`
	Data      []byte     `gorm:"not null"`
	ExpiresAt *time.Time `gorm:"index"`
}

func (SessionRecord) TableName() string {
	return "sessions"
}
