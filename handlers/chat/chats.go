package chat

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"iqroai/model"
	"iqroai/services"
	"iqroai/utils/middleware"
	"iqroai/utils/response"
)

// Handler manages chat sessions and their message logs
type Handler struct {
	chats *services.ChatService
}

// NewHandler creates a new chat handler
func NewHandler(chats *services.ChatService) *Handler {
	return &Handler{chats: chats}
}

// List returns the current user's chats.
// GET /chats
func (h *Handler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	chats, err := h.chats.ListChats(userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load chats")
	}
	return response.Success(c, chats)
}

// Messages returns a chat's message log in conversation order.
// GET /chats/:id/messages
func (h *Handler) Messages(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	chatID, err := c.ParamsInt("id")
	if err != nil || chatID < 1 {
		return response.BadRequest(c, "Invalid chat id")
	}

	messages, err := h.chats.Messages(uint(chatID), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Chat not found")
		}
		return response.InternalServerError(c, "Failed to load messages")
	}

	return response.Success(c, messages)
}

// AddMessageRequest is the payload for manual message insertion
type AddMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AddMessage appends a message to a chat without going through the AI.
// POST /chats/:id/messages
func (h *Handler) AddMessage(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	chatID, err := c.ParamsInt("id")
	if err != nil || chatID < 1 {
		return response.BadRequest(c, "Invalid chat id")
	}

	var req AddMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	role := model.MessageRole(req.Role)
	if role != model.MessageRoleUser && role != model.MessageRoleAssistant {
		return response.BadRequest(c, "Role must be user or assistant")
	}
	if req.Content == "" {
		return response.BadRequest(c, "Content is required")
	}

	// Ownership is checked by Messages-style lookup before the write
	if _, err := h.chats.Messages(uint(chatID), userID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Chat not found")
		}
		return response.InternalServerError(c, "Failed to load chat")
	}

	msg, err := h.chats.AppendMessage(uint(chatID), role, req.Content)
	if err != nil {
		return response.InternalServerError(c, "Failed to add message")
	}

	return response.Created(c, msg)
}

// Rename updates a chat's display name. The name rides in the query
// string, which is what the existing front end sends.
// PUT /chats/:id
func (h *Handler) Rename(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	chatID, err := c.ParamsInt("id")
	if err != nil || chatID < 1 {
		return response.BadRequest(c, "Invalid chat id")
	}

	name := c.Query("name")
	if name == "" {
		return response.BadRequest(c, "Name is required")
	}

	chat, err := h.chats.RenameChat(uint(chatID), userID, name)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Chat not found")
		}
		return response.InternalServerError(c, "Failed to rename chat")
	}

	return response.Success(c, chat)
}

// Delete removes a chat and all of its messages.
// DELETE /chats/:id
func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	chatID, err := c.ParamsInt("id")
	if err != nil || chatID < 1 {
		return response.BadRequest(c, "Invalid chat id")
	}

	if err := h.chats.DeleteChat(uint(chatID), userID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Chat not found")
		}
		return response.InternalServerError(c, "Failed to delete chat")
	}

	return response.SuccessWithMessage(c, "Chat deleted successfully", nil)
}
