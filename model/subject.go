package model

// Subject represents a curriculum subject for a specific grade
type Subject struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Grade       int    `gorm:"index" json:"grade"`
	Description string `gorm:"type:text" json:"description"`
	BookText    string `gorm:"type:text" json:"book_text"`
	VideoLink   string `json:"video_link"`

	// Relationships
	ScheduleAndBooks []ScheduleAndBooks `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"-"`
	Progress         []StudentProgress  `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// ScheduleAndBooks holds lesson schedules and book material for a subject
type ScheduleAndBooks struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	SubjectID        uint   `gorm:"not null;index" json:"subject_id"`
	Grade            int    `json:"grade"`
	Title            string `json:"title"`
	Content          string `gorm:"type:text" json:"content"`
	OnlineLessonLink string `json:"online_lesson_link"`

	Subject Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"-"`
}
