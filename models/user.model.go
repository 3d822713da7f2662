package models

import "time"

type User struct {
	Model
	Username     string     `gorm:"uniqueIndex;size:191;not null" json:"username"`
	Email        string     `gorm:"index;size:191;not null" json:"email"`
	Password     string     `gorm:"not null" json:"-"`
	StudentID    *string    `gorm:"uniqueIndex;size:7" json:"studentId"`
	Phone        string     `gorm:"default:''" json:"phone"`
	IsInstructor bool       `gorm:"default:false" json:"isInstructor"`
	IsTutor      bool       `gorm:"default:false" json:"isTutor"`
	IsFounder    bool       `gorm:"default:false" json:"isFounder"`
	ResetToken   *string    `gorm:"index;size:64" json:"-"`
	ResetExpiry  *time.Time `json:"-"`

	EmailNotifications bool `json:"emailNotifications"`
	SMSNotifications   bool `json:"smsNotifications"`
	PushNotifications  bool `json:"pushNotifications"`
}

// NotificationPreferences is the subset of User a student may change about delivery channels.
type NotificationPreferences struct {
	EmailNotifications bool `json:"emailNotifications"`
	SMSNotifications   bool `json:"smsNotifications"`
	PushNotifications  bool `json:"pushNotifications"`
}

// UserRoles carries the role flags an instructor may assign.
type UserRoles struct {
	IsInstructor bool `json:"isInstructor"`
	IsTutor      bool `json:"isTutor"`
	IsFounder    bool `json:"isFounder"`
}
