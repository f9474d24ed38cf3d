package report

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"iqroai/model"
	"iqroai/services"
	"iqroai/utils/middleware"
	"iqroai/utils/response"
)

// Handler serves AI report generation and stored report retrieval
type Handler struct {
	db      *gorm.DB
	reports *services.ReportService
}

// NewHandler creates a new report handler
func NewHandler(db *gorm.DB, reports *services.ReportService) *Handler {
	return &Handler{
		db:      db,
		reports: reports,
	}
}

// Generate produces a fresh AI performance report for the current user,
// replacing any stored report rows. The raw parsed structure is
// returned so the front end can render it without another round trip.
// POST /ai_hisobot
func (h *Handler) Generate(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	payload, err := h.reports.GenerateReport(c.UserContext(), userID)
	if err != nil {
		log.Errorf("ai report generation failed for user %d: %v", userID, err)
		if errors.Is(err, services.ErrBadUpstreamResponse) {
			return response.BadGateway(c, "Failed to generate the report")
		}
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to generate the report")
	}

	return c.Status(fiber.StatusOK).JSON(payload)
}

// List returns the current user's stored report rows.
// GET /student_reports
func (h *Handler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var reports []model.StudentReport
	if err := h.db.Where("user_id = ?", userID).Find(&reports).Error; err != nil {
		return response.InternalServerError(c, "Failed to load reports")
	}
	return response.Success(c, reports)
}
