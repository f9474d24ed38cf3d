package services

import (
	"errors"
	"testing"
	"time"

	"iqroai/model"
)

func TestCalculateAge(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"birthday already passed this year", time.Date(2010, time.March, 1, 0, 0, 0, 0, time.UTC), 15},
		{"birthday not yet reached", time.Date(2010, time.December, 1, 0, 0, 0, 0, time.UTC), 14},
		{"birthday is today", time.Date(2010, time.June, 15, 0, 0, 0, 0, time.UTC), 15},
		{"birthday is tomorrow", time.Date(2010, time.June, 16, 0, 0, 0, 0, time.UTC), 14},
		{"zero birth date", time.Time{}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CalculateAge(tc.birth, now); got != tc.want {
				t.Errorf("CalculateAge(%v) = %d, want %d", tc.birth, got, tc.want)
			}
		})
	}
}

func TestBuildStudentContext(t *testing.T) {
	db := newTestDB(t)
	svc := NewContextService(db)

	user := createTestStudent(t, db, "context@test.uz")

	subject := model.Subject{Name: "Mathematics", Grade: 7}
	if err := db.Create(&subject).Error; err != nil {
		t.Fatalf("failed to create subject: %v", err)
	}
	otherGrade := model.Subject{Name: "Chemistry", Grade: 10}
	if err := db.Create(&otherGrade).Error; err != nil {
		t.Fatalf("failed to create subject: %v", err)
	}

	progress := model.StudentProgress{UserID: user.ID, SubjectID: subject.ID, Progress: 42.5}
	if err := db.Create(&progress).Error; err != nil {
		t.Fatalf("failed to create progress: %v", err)
	}

	report := model.StudentReport{UserID: user.ID, Subject: "Mathematics", Percentage: 87, Grade: 4}
	if err := db.Create(&report).Error; err != nil {
		t.Fatalf("failed to create report: %v", err)
	}

	snapshot, err := svc.BuildStudentContext(user.ID)
	if err != nil {
		t.Fatalf("BuildStudentContext failed: %v", err)
	}

	if snapshot.StudentInfo.FirstName != "Aziz" {
		t.Errorf("expected first name Aziz, got %q", snapshot.StudentInfo.FirstName)
	}
	if snapshot.StudentInfo.Grade != 7 {
		t.Errorf("expected grade 7, got %d", snapshot.StudentInfo.Grade)
	}
	if len(snapshot.Subjects) != 1 || snapshot.Subjects[0].Name != "Mathematics" {
		t.Errorf("expected only the grade 7 subject, got %+v", snapshot.Subjects)
	}
	if ratio, ok := snapshot.Progress[subject.ID]; !ok || ratio != 42.5 {
		t.Errorf("expected progress map entry %d=42.5, got %+v", subject.ID, snapshot.Progress)
	}
	if len(snapshot.Reports) != 1 || snapshot.Reports[0].Percentage != 87 {
		t.Errorf("expected the stored report, got %+v", snapshot.Reports)
	}

	encoded, err := snapshot.JSON()
	if err != nil {
		t.Fatalf("snapshot JSON encoding failed: %v", err)
	}
	if encoded == "" {
		t.Error("expected non-empty JSON snapshot")
	}
}

func TestBuildStudentContextIncludesFullHistories(t *testing.T) {
	db := newTestDB(t)
	svc := NewContextService(db)

	user := createTestStudent(t, db, "history@test.uz")

	test := model.Test{UserID: user.ID, Type: model.TestTypeAcademic, Questions: "q"}
	if err := db.Create(&test).Error; err != nil {
		t.Fatalf("failed to create test: %v", err)
	}

	for i := 0; i < 12; i++ {
		result := model.TestResult{UserID: user.ID, TestID: test.ID}
		if err := db.Create(&result).Error; err != nil {
			t.Fatalf("failed to create test result %d: %v", i, err)
		}
	}
	for i := 0; i < 7; i++ {
		assessment := model.PsychologicalAssessment{UserID: user.ID, Questions: "q", Answers: "a"}
		if err := db.Create(&assessment).Error; err != nil {
			t.Fatalf("failed to create assessment %d: %v", i, err)
		}
	}

	snapshot, err := svc.BuildStudentContext(user.ID)
	if err != nil {
		t.Fatalf("BuildStudentContext failed: %v", err)
	}

	if len(snapshot.TestResults) != 12 {
		t.Errorf("expected all 12 test results in the snapshot, got %d", len(snapshot.TestResults))
	}
	if len(snapshot.PsychologicalAssessments) != 7 {
		t.Errorf("expected all 7 assessments in the snapshot, got %d", len(snapshot.PsychologicalAssessments))
	}
}

func TestBuildStudentContextUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewContextService(db)

	if _, err := svc.BuildStudentContext(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}
}
