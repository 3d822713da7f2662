package models

import "time"

type Message struct {
	Model
	SenderID    uint       `gorm:"index;not null" json:"senderId"`
	RecipientID uint       `gorm:"index;not null" json:"recipientId"`
	Subject     string     `json:"subject"`
	Content     string     `gorm:"not null" json:"content"`
	IsRead      bool       `gorm:"default:false" json:"isRead"`
	SentAt      time.Time  `json:"sentAt"`
	ReadAt      *time.Time `json:"readAt"`
}
