package models

import "time"

// Notification channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

type Notification struct {
	Model
	UserID       uint       `gorm:"index;not null" json:"userId"`
	Title        string     `gorm:"not null" json:"title"`
	Content      string     `gorm:"not null" json:"content"`
	Type         string     `gorm:"size:32" json:"type"`
	IsRead       bool       `gorm:"default:false" json:"isRead"`
	ReadAt       *time.Time `json:"readAt"`
	ScheduledFor *time.Time `gorm:"index" json:"scheduledFor"`
	DeliveredAt  *time.Time `json:"deliveredAt"`
	SentViaEmail bool       `gorm:"default:false" json:"sentViaEmail"`
	SentViaSMS   bool       `gorm:"default:false" json:"sentViaSms"`
	SentViaPush  bool       `gorm:"default:false" json:"sentViaPush"`
}

type NotificationTemplate struct {
	Model
	Name     string `gorm:"uniqueIndex;size:191;not null" json:"name"`
	Type     string `gorm:"size:32;not null" json:"type"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"not null" json:"content"`
	IsActive bool   `json:"isActive"`
}
