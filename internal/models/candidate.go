package models

import (
	"time"

	"github.com/google/uuid"
)

type Candidate struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Fullname   string     `gorm:"type:text;not null" json:"fullname"`
	Email      string     `gorm:"type:text;not null;index" json:"email"`
	Phone      string     `gorm:"type:text" json:"phone"`
	ResumePath string     `gorm:"type:text" json:"resume_path,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  *time.Time `gorm:"index" json:"-"`
}

func (Candidate) TableName() string {
	return "candidates"
}

// IsDeleted reports whether the candidate has been soft-deleted.
func (c *Candidate) IsDeleted() bool {
	return c.DeletedAt != nil
}
