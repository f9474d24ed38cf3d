package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"iqroai/model"
	"iqroai/utils/auth"
	"iqroai/utils/middleware"
	"iqroai/utils/response"
)

// TokenHandler issues access tokens for the OAuth2 password flow
type TokenHandler struct {
	db         *gorm.DB
	jwtManager *auth.JWTManager
	bruteForce *middleware.BruteForceProtection
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(db *gorm.DB, jwtManager *auth.JWTManager, bruteForce *middleware.BruteForceProtection) *TokenHandler {
	return &TokenHandler{
		db:         db,
		jwtManager: jwtManager,
		bruteForce: bruteForce,
	}
}

// TokenResponse is the OAuth2-shaped token payload
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges form credentials for a bearer token. The username
// field carries the email, matching the OAuth2 password grant shape
// the front end already speaks.
// POST /token
func (h *TokenHandler) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	if username == "" || password == "" {
		return response.BadRequest(c, "Username and password are required")
	}

	var user model.User
	err := h.db.Where("email = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return h.rejectLogin(c, username)
		}
		return response.InternalServerError(c, "Login failed")
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return h.rejectLogin(c, username)
	}

	token, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		log.Errorf("failed to generate token for user %d: %v", user.ID, err)
		return response.InternalServerError(c, "Login failed")
	}

	if h.bruteForce != nil {
		h.bruteForce.ResetAttempts(c.Context(), c.IP())
	}

	log.Infof("successful login for %s", username)

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// rejectLogin returns the same 401 for unknown users and wrong
// passwords so the endpoint doesn't leak which emails exist.
func (h *TokenHandler) rejectLogin(c *fiber.Ctx, username string) error {
	log.Warnf("failed login attempt for %s", username)

	if h.bruteForce != nil {
		h.bruteForce.RecordFailedAttempt(c.Context(), c.IP())
	}

	c.Set("WWW-Authenticate", "Bearer")
	return response.Unauthorized(c, "Incorrect username or password")
}
