package model

import "time"

// StudentProgress tracks how far a student has advanced in a subject
type StudentProgress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	SubjectID   uint      `gorm:"not null;index" json:"subject_id"`
	Progress    float64   `json:"progress"`
	LastUpdated time.Time `gorm:"autoUpdateTime" json:"last_updated"`

	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Subject Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// StudentReport is one per-subject row of an AI generated performance report.
// The full set for a user is replaced on every report generation run.
type StudentReport struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Subject    string    `gorm:"not null" json:"subject"`
	Percentage float64   `json:"percentage"`
	Grade      int       `json:"grade"`
	CreatedAt  time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
