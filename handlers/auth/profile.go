package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iqroai/model"
	"iqroai/utils/auth"
	"iqroai/utils/middleware"
	"iqroai/utils/response"
)

// ProfileHandler serves the authenticated user's own account
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetMe returns the current user's profile.
// GET /users/me
func (h *ProfileHandler) GetMe(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	return response.Success(c, user)
}

// UpdateMeRequest carries partial profile updates. Pointer fields
// distinguish "not sent" from "set to zero value".
type UpdateMeRequest struct {
	FirstName   *string     `json:"first_name"`
	LastName    *string     `json:"last_name"`
	Email       *string     `json:"email"`
	Password    *string     `json:"password"`
	BirthDate   *model.Date `json:"birth_date"`
	PhoneNumber *string     `json:"phone_number"`
	Grade       *int        `json:"grade"`
	Consent     *bool       `json:"consent"`
	Interests   *string     `json:"interests"`
}

// UpdateMe applies a partial update to the current user's profile.
// A new password is rehashed before storage.
// PUT /users/me
func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req UpdateMeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrPasswordTooShort) {
				return response.BadRequest(c, err.Error())
			}
			return response.InternalServerError(c, "Failed to process password")
		}
		user.Password = hashed
	}
	if req.BirthDate != nil {
		user.BirthDate = *req.BirthDate
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Grade != nil {
		user.Grade = *req.Grade
	}
	if req.Consent != nil {
		user.Consent = *req.Consent
	}
	if req.Interests != nil {
		user.Interests = *req.Interests
	}

	if err := h.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.Conflict(c, "Email or phone number is already in use")
		}
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, user)
}
