package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"iqroai/model"
)

// newTestDB opens a private in-memory database with the full schema.
// A single connection keeps SQLite's :memory: semantics sane.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{},
		&model.Parent{},
		&model.Teacher{},
		&model.Subject{},
		&model.ScheduleAndBooks{},
		&model.Test{},
		&model.TestResult{},
		&model.PsychologicalAssessment{},
		&model.StudentProgress{},
		&model.StudentReport{},
		&model.Chat{},
		&model.Message{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return db
}

// createTestStudent inserts a minimal student account
func createTestStudent(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := model.User{
		FirstName:   "Aziz",
		LastName:    "Karimov",
		Email:       email,
		Password:    "hashed-password-value",
		Role:        model.RoleStudent,
		PhoneNumber: "+99890" + email,
		Grade:       7,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user
}
