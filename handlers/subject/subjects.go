package subject

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iqroai/model"
	"iqroai/utils/response"
	"iqroai/utils/validation"
)

// Handler manages curriculum subjects and their schedule material
type Handler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewHandler creates a new subject handler
func NewHandler(db *gorm.DB, validator *validation.Validator) *Handler {
	return &Handler{
		db:        db,
		validator: validator,
	}
}

// SubjectRequest is the create/update payload for a subject
type SubjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Grade       int    `json:"grade" validate:"min=0,max=11"`
	Description string `json:"description"`
	BookText    string `json:"book_text"`
	VideoLink   string `json:"video_link"`
}

// Create adds a new subject. Admin only, enforced by the router.
// POST /subjects
func (h *Handler) Create(c *fiber.Ctx) error {
	var req SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	subject := model.Subject{
		Name:        req.Name,
		Grade:       req.Grade,
		Description: req.Description,
		BookText:    req.BookText,
		VideoLink:   req.VideoLink,
	}

	if err := h.db.Create(&subject).Error; err != nil {
		return response.InternalServerError(c, "Failed to create subject")
	}

	return response.Created(c, subject)
}

// List returns all subjects.
// GET /subjects
func (h *Handler) List(c *fiber.Ctx) error {
	var subjects []model.Subject
	if err := h.db.Find(&subjects).Error; err != nil {
		return response.InternalServerError(c, "Failed to load subjects")
	}
	return response.Success(c, subjects)
}

// Update replaces a subject's fields. Admin only.
// PUT /subjects/:id
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid subject id")
	}

	var req SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var subject model.Subject
	if err := h.db.First(&subject, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to load subject")
	}

	subject.Name = req.Name
	subject.Grade = req.Grade
	subject.Description = req.Description
	subject.BookText = req.BookText
	subject.VideoLink = req.VideoLink

	if err := h.db.Save(&subject).Error; err != nil {
		return response.InternalServerError(c, "Failed to update subject")
	}

	return response.Success(c, subject)
}

// Delete removes a subject. Admin only.
// DELETE /subjects/:id
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid subject id")
	}

	var subject model.Subject
	if err := h.db.First(&subject, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to load subject")
	}

	if err := h.db.Delete(&subject).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete subject")
	}

	return response.SuccessWithMessage(c, "Subject deleted successfully", nil)
}

// ScheduleAndBookRequest is the payload for schedule/book material
type ScheduleAndBookRequest struct {
	SubjectID        uint   `json:"subject_id" validate:"required"`
	Grade            int    `json:"grade" validate:"min=0,max=11"`
	Title            string `json:"title"`
	Content          string `json:"content"`
	OnlineLessonLink string `json:"online_lesson_link"`
}

// CreateScheduleAndBook attaches schedule or book material to a subject.
// POST /schedule_and_books
func (h *Handler) CreateScheduleAndBook(c *fiber.Ctx) error {
	var req ScheduleAndBookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	item := model.ScheduleAndBooks{
		SubjectID:        req.SubjectID,
		Grade:            req.Grade,
		Title:            req.Title,
		Content:          req.Content,
		OnlineLessonLink: req.OnlineLessonLink,
	}

	if err := h.db.Create(&item).Error; err != nil {
		return response.InternalServerError(c, "Failed to create schedule entry")
	}

	return response.Created(c, item)
}
