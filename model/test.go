package model

import (
	"time"

	"gorm.io/datatypes"
)

// Test types
const (
	TestTypeAcademic      = "academic"
	TestTypePsychological = "psychological"
)

// Test represents a generated or manually created test for a user.
// Questions holds the full model-generated prompt text when the test was
// offered by the AI assistant.
type Test struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"type:varchar(20);not null" json:"type"` // academic, psychological
	Questions string    `gorm:"type:text" json:"questions"`
	Answers   string    `gorm:"type:text" json:"answers"`
	Results   string    `gorm:"type:text" json:"results"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`

	User        User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TestResults []TestResult `gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE" json:"-"`
}

// TestResult stores a structured result payload for a test
type TestResult struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	TestID    uint           `gorm:"not null;index" json:"test_id"`
	Result    datatypes.JSON `json:"result"`
	CreatedAt time.Time      `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Test Test `gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE" json:"-"`
}

// PsychologicalAssessment stores a completed psychological evaluation
type PsychologicalAssessment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Questions string    `gorm:"type:text" json:"questions"`
	Answers   string    `gorm:"type:text" json:"answers"`
	Results   string    `gorm:"type:text" json:"results"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
