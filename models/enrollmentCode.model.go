package models

import "time"

type EnrollmentCode struct {
	Model
	Code      string     `gorm:"uniqueIndex;size:64;not null" json:"code"`
	StateCode string     `gorm:"index;size:2" json:"stateCode"`
	IsUsed    bool       `gorm:"default:false" json:"isUsed"`
	UsedBy    *uint      `json:"usedBy"`
	UsedAt    *time.Time `json:"usedAt"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// Expired reports whether the code has passed its expiry at t.
func (e *EnrollmentCode) Expired(t time.Time) bool {
	return e.ExpiresAt != nil && !e.ExpiresAt.After(t)
}
