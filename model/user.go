package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// User roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
	RoleAdmin   = "admin"
)

// Date stores a calendar date (no time component) and accepts the
// "2006-01-02" wire format used by the dashboard front end.
type Date time.Time

const dateLayout = "2006-01-02"

// UnmarshalJSON parses "YYYY-MM-DD" (RFC 3339 timestamps are accepted too)
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date(time.Time{})
		return nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
		}
	}

	*d = Date(t)
	return nil
}

// MarshalJSON renders the date as "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format(dateLayout) + `"`), nil
}

// Scan implements the sql.Scanner interface for reading from database
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = Date(v)
		return nil
	case []byte:
		t, err := time.Parse(dateLayout, string(v))
		if err != nil {
			return err
		}
		*d = Date(t)
		return nil
	case string:
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return err
		}
		*d = Date(t)
		return nil
	case nil:
		*d = Date(time.Time{})
		return nil
	}
	return errors.New("failed to scan Date value")
}

// Value implements the driver.Valuer interface for writing to database
func (d Date) Value() (driver.Value, error) {
	return time.Time(d), nil
}

// Time returns the underlying time.Time
func (d Date) Time() time.Time {
	return time.Time(d)
}

// User represents a registered person: student, teacher, parent or admin
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	FirstName   string    `gorm:"not null" json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"` // bcrypt hash, never exposed
	Role        string    `gorm:"type:varchar(20);default:'student'" json:"role"`
	BirthDate   Date      `gorm:"type:date" json:"birth_date"`
	PhoneNumber string    `gorm:"uniqueIndex" json:"phone_number"`
	Grade       int       `json:"grade"`
	Consent     bool      `json:"consent"`
	Interests   string    `json:"interests"`
	AdminID     *string   `gorm:"type:varchar(6);uniqueIndex" json:"admin_id,omitempty"`

	// Relationships
	Tests          []Test                    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TestResults    []TestResult              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Assessments    []PsychologicalAssessment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Progress       []StudentProgress         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Chats          []Chat                    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	StudentReports []StudentReport           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// Parent links a parent user to a student user. A given pair can only be
// registered once.
type Parent struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_parent_student" json:"user_id"`
	StudentID uint `gorm:"not null;uniqueIndex:idx_parent_student" json:"student_id"`

	User    User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Student User `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}

// Teacher links a user to the subjects they teach. One row per user.
type Teacher struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	Subjects string `json:"subjects"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
