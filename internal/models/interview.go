package models

import (
	"time"

	"github.com/google/uuid"
)

type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "scheduled"
	InterviewCompleted InterviewStatus = "completed"
	InterviewCancelled InterviewStatus = "cancelled"
)

type Interview struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Job           string          `gorm:"type:text;not null" json:"job"`
	CandidateID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"candidate_id"`
	InterviewerID uuid.UUID       `gorm:"type:uuid;not null" json:"interviewer_id"`
	HrID          uuid.UUID       `gorm:"type:uuid;not null" json:"hr_id"`
	InterviewedAt time.Time       `json:"interviewed_at"`
	RecordingPath string          `gorm:"type:text" json:"recording_path,omitempty"`
	English       int             `json:"english"`
	Technical     int             `json:"technical"`
	Recommend     int             `json:"recommend"`
	Status        InterviewStatus `gorm:"type:text;not null;default:'scheduled'" json:"status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     *time.Time      `gorm:"index" json:"-"`

	// Relations
	Candidate   Candidate `gorm:"foreignKey:CandidateID" json:"-"`
	Interviewer User      `gorm:"foreignKey:InterviewerID" json:"-"`
	HR          User      `gorm:"foreignKey:HrID" json:"-"`
}

func (Interview) TableName() string {
	return "interviews"
}
