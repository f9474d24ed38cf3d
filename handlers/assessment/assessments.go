package assessment

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iqroai/model"
	"iqroai/utils/middleware"
	"iqroai/utils/response"
)

// Handler serves psychological assessments, scoped to the current user
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new assessment handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// List returns the current user's psychological assessments.
// GET /psychological_assessments
func (h *Handler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var assessments []model.PsychologicalAssessment
	if err := h.db.Where("user_id = ?", userID).Find(&assessments).Error; err != nil {
		return response.InternalServerError(c, "Failed to load assessments")
	}
	return response.Success(c, assessments)
}

// Get returns one of the current user's assessments by id.
// GET /psychological_assessments/:id
func (h *Handler) Get(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid assessment id")
	}

	var assessment model.PsychologicalAssessment
	err = h.db.Where("id = ? AND user_id = ?", id, userID).First(&assessment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Assessment not found")
		}
		return response.InternalServerError(c, "Failed to load assessment")
	}

	return response.Success(c, assessment)
}

// UpdateRequest is the update payload for an assessment
type UpdateRequest struct {
	Questions string `json:"questions"`
	Answers   string `json:"answers"`
	Results   string `json:"results"`
}

// Update replaces one of the current user's assessments.
// PUT /psychological_assessments/:id
func (h *Handler) Update(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid assessment id")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var assessment model.PsychologicalAssessment
	err = h.db.Where("id = ? AND user_id = ?", id, userID).First(&assessment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Assessment not found")
		}
		return response.InternalServerError(c, "Failed to load assessment")
	}

	assessment.Questions = req.Questions
	assessment.Answers = req.Answers
	assessment.Results = req.Results

	if err := h.db.Save(&assessment).Error; err != nil {
		return response.InternalServerError(c, "Failed to update assessment")
	}

	return response.Success(c, assessment)
}
