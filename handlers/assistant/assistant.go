package assistant

import (
	"bufio"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"iqroai/services"
	"iqroai/utils/middleware"
	"iqroai/utils/response"
)

// Handler serves the streaming AI tutor endpoint
type Handler struct {
	assistant *services.AssistantService
}

// NewHandler creates a new assistant handler
func NewHandler(assistant *services.AssistantService) *Handler {
	return &Handler{assistant: assistant}
}

// QueryRequest is the AI tutor request payload
type QueryRequest struct {
	Query  string `json:"query"`
	ChatID *uint  `json:"chat_id"`
}

// Query runs one tutoring turn and streams the reply as plain text.
// Chat resolution and prompt building happen before the stream starts,
// so a missing chat still surfaces as a regular 404. Once streaming
// begins, failures arrive in-band as a fallback text chunk.
// POST /ai_assistant
func (h *Handler) Query(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Query == "" {
		return response.BadRequest(c, "Query is required")
	}

	turn, err := h.assistant.BeginTurn(userID, req.ChatID, req.Query)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Chat not found")
		}
		log.Errorf("failed to begin ai turn for user %d: %v", userID, err)
		return response.InternalServerError(c, "Failed to start AI session")
	}

	ctx := c.UserContext()

	c.Set("Content-Type", "text/plain; charset=utf-8")
	// Lets clients learn the id of a lazily created chat
	c.Set("X-Chat-ID", strconv.FormatUint(uint64(turn.Chat.ID), 10))
	c.Set("Cache-Control", "no-cache")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		h.assistant.StreamTurn(ctx, turn, func(text string) {
			if _, err := w.WriteString(text); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		})
	})

	return nil
}
