package test

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"iqroai/model"
	"iqroai/utils/middleware"
	"iqroai/utils/response"
	"iqroai/utils/validation"
)

// Handler manages tests and their results
type Handler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewHandler creates a new test handler
func NewHandler(db *gorm.DB, validator *validation.Validator) *Handler {
	return &Handler{
		db:        db,
		validator: validator,
	}
}

// TestRequest is the create/update payload for a test
type TestRequest struct {
	UserID    uint   `json:"user_id" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=academic psychological"`
	Questions string `json:"questions"`
	Answers   string `json:"answers"`
	Results   string `json:"results"`
}

// Create stores a manually created test.
// POST /tests
func (h *Handler) Create(c *fiber.Ctx) error {
	var req TestRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	test := model.Test{
		UserID:    req.UserID,
		Type:      req.Type,
		Questions: req.Questions,
		Answers:   req.Answers,
		Results:   req.Results,
	}

	if err := h.db.Create(&test).Error; err != nil {
		return response.InternalServerError(c, "Failed to create test")
	}

	return response.Created(c, test)
}

// List returns the current user's tests.
// GET /tests
func (h *Handler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var tests []model.Test
	if err := h.db.Where("user_id = ?", userID).Find(&tests).Error; err != nil {
		return response.InternalServerError(c, "Failed to load tests")
	}
	return response.Success(c, tests)
}

// Get returns one of the current user's tests by id.
// GET /tests/:id
func (h *Handler) Get(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid test id")
	}

	var test model.Test
	err = h.db.Where("id = ? AND user_id = ?", id, userID).First(&test).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Test not found")
		}
		return response.InternalServerError(c, "Failed to load test")
	}

	return response.Success(c, test)
}

// Update replaces one of the current user's tests.
// PUT /tests/:id
func (h *Handler) Update(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid test id")
	}

	var req TestRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var test model.Test
	err = h.db.Where("id = ? AND user_id = ?", id, userID).First(&test).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Test not found")
		}
		return response.InternalServerError(c, "Failed to load test")
	}

	test.Type = req.Type
	test.Questions = req.Questions
	test.Answers = req.Answers
	test.Results = req.Results

	if err := h.db.Save(&test).Error; err != nil {
		return response.InternalServerError(c, "Failed to update test")
	}

	return response.Success(c, test)
}

// TestResultRequest is the create/update payload for a test result
type TestResultRequest struct {
	UserID uint           `json:"user_id" validate:"required"`
	TestID uint           `json:"test_id" validate:"required"`
	Result datatypes.JSON `json:"result"`
}

// CreateResult stores a test result.
// POST /test_results
func (h *Handler) CreateResult(c *fiber.Ctx) error {
	var req TestResultRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	result := model.TestResult{
		UserID: req.UserID,
		TestID: req.TestID,
		Result: req.Result,
	}

	if err := h.db.Create(&result).Error; err != nil {
		return response.InternalServerError(c, "Failed to create test result")
	}

	return response.Created(c, result)
}

// ListResults returns all results for a given user.
// GET /test_results/:user_id
func (h *Handler) ListResults(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil || userID < 1 {
		return response.BadRequest(c, "Invalid user id")
	}

	var results []model.TestResult
	if err := h.db.Where("user_id = ?", userID).Find(&results).Error; err != nil {
		return response.InternalServerError(c, "Failed to load test results")
	}
	return response.Success(c, results)
}

// UpdateResult replaces a test result by id.
// PUT /test_results/:id
func (h *Handler) UpdateResult(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid result id")
	}

	var req TestResultRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var result model.TestResult
	if err := h.db.First(&result, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Test result not found")
		}
		return response.InternalServerError(c, "Failed to load test result")
	}

	result.UserID = req.UserID
	result.TestID = req.TestID
	result.Result = req.Result

	if err := h.db.Save(&result).Error; err != nil {
		return response.InternalServerError(c, "Failed to update test result")
	}

	return response.Success(c, result)
}
