package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iqroai/model"
	"iqroai/utils/auth"
	"iqroai/utils/response"
	"iqroai/utils/validation"
)

// RegisterHandler handles account and relationship registration
type RegisterHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewRegisterHandler creates a new registration handler
func NewRegisterHandler(db *gorm.DB, validator *validation.Validator) *RegisterHandler {
	return &RegisterHandler{
		db:        db,
		validator: validator,
	}
}

// RegisterStudentRequest is the student registration payload
type RegisterStudentRequest struct {
	FirstName   string     `json:"first_name" validate:"required,min=1,max=100"`
	LastName    string     `json:"last_name" validate:"max=100"`
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=8,max=128"`
	BirthDate   model.Date `json:"birth_date"`
	PhoneNumber string     `json:"phone_number" validate:"required,min=7,max=20"`
	Grade       int        `json:"grade" validate:"min=0,max=11"`
	Consent     bool       `json:"consent"`
	Interests   string     `json:"interests"`
}

// RegisterStudent creates a new student account.
// POST /register_student
func (h *RegisterHandler) RegisterStudent(c *fiber.Ctx) error {
	var req RegisterStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to process password")
	}

	user := model.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    hashed,
		Role:        model.RoleStudent,
		BirthDate:   req.BirthDate,
		PhoneNumber: req.PhoneNumber,
		Grade:       req.Grade,
		Consent:     req.Consent,
		Interests:   req.Interests,
	}

	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.Conflict(c, "Email or phone number is already registered")
		}
		return response.InternalServerError(c, "Failed to create account")
	}

	return response.Created(c, user)
}

// RegisterParentRequest links a parent user to a student user
type RegisterParentRequest struct {
	UserID    uint `json:"user_id" validate:"required"`
	StudentID uint `json:"student_id" validate:"required"`
}

// RegisterParent records a parent-student relationship.
// POST /register_parent
func (h *RegisterHandler) RegisterParent(c *fiber.Ctx) error {
	var req RegisterParentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	parent := model.Parent{
		UserID:    req.UserID,
		StudentID: req.StudentID,
	}

	if err := h.db.Create(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.Conflict(c, "Parent-student relationship already exists")
		}
		return response.InternalServerError(c, "Failed to register parent")
	}

	return response.Created(c, parent)
}

// RegisterTeacherRequest links a user to the subjects they teach
type RegisterTeacherRequest struct {
	UserID   uint   `json:"user_id" validate:"required"`
	Subjects string `json:"subjects"`
}

// RegisterTeacher records a teacher registration.
// POST /register_teacher
func (h *RegisterHandler) RegisterTeacher(c *fiber.Ctx) error {
	var req RegisterTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	teacher := model.Teacher{
		UserID:   req.UserID,
		Subjects: req.Subjects,
	}

	if err := h.db.Create(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.Conflict(c, "Teacher is already registered")
		}
		return response.InternalServerError(c, "Failed to register teacher")
	}

	return response.Created(c, teacher)
}
