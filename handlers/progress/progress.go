package progress

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iqroai/model"
	"iqroai/utils/response"
	"iqroai/utils/validation"
)

// Handler manages per-subject student progress records
type Handler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewHandler creates a new progress handler
func NewHandler(db *gorm.DB, validator *validation.Validator) *Handler {
	return &Handler{
		db:        db,
		validator: validator,
	}
}

// Request is the create/update payload for a progress record
type Request struct {
	UserID    uint    `json:"user_id" validate:"required"`
	SubjectID uint    `json:"subject_id" validate:"required"`
	Progress  float64 `json:"progress" validate:"min=0,max=100"`
}

// ListForStudent returns all progress records for a student.
// GET /student_progress/:student_id
func (h *Handler) ListForStudent(c *fiber.Ctx) error {
	studentID, err := c.ParamsInt("student_id")
	if err != nil || studentID < 1 {
		return response.BadRequest(c, "Invalid student id")
	}

	var records []model.StudentProgress
	if err := h.db.Where("user_id = ?", studentID).Find(&records).Error; err != nil {
		return response.InternalServerError(c, "Failed to load progress")
	}
	return response.Success(c, records)
}

// Create records progress for a student. Teachers and admins only,
// enforced by the router.
// POST /student_progress
func (h *Handler) Create(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	record := model.StudentProgress{
		UserID:    req.UserID,
		SubjectID: req.SubjectID,
		Progress:  req.Progress,
	}

	if err := h.db.Create(&record).Error; err != nil {
		return response.InternalServerError(c, "Failed to create progress record")
	}

	return response.Created(c, record)
}

// Update replaces a progress record. Teachers and admins only.
// PUT /student_progress/:id
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid progress id")
	}

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var record model.StudentProgress
	if err := h.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Progress record not found")
		}
		return response.InternalServerError(c, "Failed to load progress record")
	}

	record.UserID = req.UserID
	record.SubjectID = req.SubjectID
	record.Progress = req.Progress

	if err := h.db.Save(&record).Error; err != nil {
		return response.InternalServerError(c, "Failed to update progress record")
	}

	return response.Success(c, record)
}
