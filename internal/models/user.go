package models

import (
	"time"

	"github.com/google/uuid"
)

type UserType string

const (
	UserTypeHR          UserType = "hr"
	UserTypeInterviewer UserType = "interviewer"
)

type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Fullname    string     `gorm:"type:text;not null" json:"fullname"`
	Email       string     `gorm:"type:text;not null;index" json:"email"`
	UserType    UserType   `gorm:"type:text;not null" json:"user_type"`
	AccessLevel string     `gorm:"type:text" json:"access_level,omitempty"`
	Specialty   string     `gorm:"type:text" json:"specialty,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   *time.Time `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
