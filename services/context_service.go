package services

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"iqroai/model"
)

// ContextService assembles the per-student snapshot used for prompting
type ContextService struct {
	db *gorm.DB
}

// NewContextService creates a new context service
func NewContextService(db *gorm.DB) *ContextService {
	return &ContextService{db: db}
}

// StudentInfo is the identity slice of the snapshot
type StudentInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age"`
	Grade     int    `json:"grade"`
	Interests string `json:"interests"`
}

// ContextSnapshot is everything the model is told about a student.
// Progress maps subject id to completion ratio.
type ContextSnapshot struct {
	StudentInfo              StudentInfo                     `json:"student_info"`
	TestResults              []model.TestResult              `json:"test_results"`
	PsychologicalAssessments []model.PsychologicalAssessment `json:"psychological_assessments"`
	Progress                 map[uint]float64                `json:"progress"`
	Subjects                 []model.Subject                 `json:"subjects"`
	Reports                  []model.StudentReport           `json:"reports"`
}

// JSON encodes the snapshot for inclusion in a prompt
func (s *ContextSnapshot) JSON() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// BuildStudentContext gathers the full snapshot for one student.
// Returns ErrNotFound when the user does not exist.
func (s *ContextService) BuildStudentContext(userID uint) (*ContextSnapshot, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	snapshot := &ContextSnapshot{
		StudentInfo: StudentInfo{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Age:       CalculateAge(user.BirthDate.Time(), time.Now()),
			Grade:     user.Grade,
			Interests: user.Interests,
		},
		Progress: make(map[uint]float64),
	}

	// The full histories go into the prompt, nothing is truncated
	if err := s.db.Where("user_id = ?", userID).
		Find(&snapshot.TestResults).Error; err != nil {
		return nil, err
	}

	if err := s.db.Where("user_id = ?", userID).
		Find(&snapshot.PsychologicalAssessments).Error; err != nil {
		return nil, err
	}

	var progressRows []model.StudentProgress
	if err := s.db.Where("user_id = ?", userID).
		Find(&progressRows).Error; err != nil {
		return nil, err
	}
	for _, row := range progressRows {
		snapshot.Progress[row.SubjectID] = row.Progress
	}

	// Subjects are scoped to the student's grade
	if err := s.db.Where("grade = ?", user.Grade).
		Find(&snapshot.Subjects).Error; err != nil {
		return nil, err
	}

	if err := s.db.Where("user_id = ?", userID).
		Find(&snapshot.Reports).Error; err != nil {
		return nil, err
	}

	return snapshot, nil
}

// CalculateAge returns full years elapsed between birth and now.
// The birthday itself counts: a student born on today's month/day has
// already turned older today.
func CalculateAge(birth, now time.Time) int {
	if birth.IsZero() {
		return 0
	}

	age := now.Year() - birth.Year()

	// Not yet reached this year's birthday
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}

	if age < 0 {
		return 0
	}
	return age
}
