package models

import "time"

// Device types recorded on a login.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
)

// LoginSession records one successful login. The token channels of the
// authentication chain resolve against these rows, and they double as the
// user's login history.
type LoginSession struct {
	Model
	UserID     uint       `gorm:"index;not null" json:"userId"`
	Username   string     `gorm:"size:191;not null" json:"username"`
	SessionID  string     `gorm:"index;size:64" json:"-"`
	AuthToken  string     `gorm:"uniqueIndex;size:512" json:"-"`
	ShortToken string     `gorm:"uniqueIndex;size:32" json:"-"`
	DeviceType string     `gorm:"size:16" json:"deviceType"`
	UserAgent  string     `json:"userAgent"`
	IPAddress  string     `gorm:"size:64" json:"ipAddress"`
	ExpiresAt  time.Time  `gorm:"index" json:"expiresAt"`
	RevokedAt  *time.Time `json:"revokedAt"`
}

// Live reports whether the record can still authenticate at t.
func (s *LoginSession) Live(t time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(t)
}
