package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"iqroai/model"
)

// ChatService manages chat sessions and their message logs
type ChatService struct {
	db *gorm.DB
}

// NewChatService creates a new chat service
func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// GetOrCreateChat resolves an existing chat by id, enforcing ownership,
// or creates a fresh one when chatID is nil.
func (s *ChatService) GetOrCreateChat(chatID *uint, userID uint) (*model.Chat, error) {
	if chatID != nil {
		var chat model.Chat
		err := s.db.Where("id = ? AND user_id = ?", *chatID, userID).First(&chat).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return &chat, nil
	}

	chat := model.Chat{
		UserID: userID,
		Name:   model.DefaultChatName,
	}
	if err := s.db.Create(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// History returns all messages of a chat in conversation order.
// The id tiebreaker keeps ordering stable when timestamps collide.
func (s *ChatService) History(chatID uint) ([]model.Message, error) {
	var messages []model.Message
	err := s.db.Where("chat_id = ?", chatID).
		Order("timestamp ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// AppendMessage stores one message at the end of a chat's log
func (s *ChatService) AppendMessage(chatID uint, role model.MessageRole, content string) (*model.Message, error) {
	msg := model.Message{
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListChats returns all chats owned by a user, newest first
func (s *ChatService) ListChats(userID uint) ([]model.Chat, error) {
	var chats []model.Chat
	err := s.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

// Messages returns a chat's messages after verifying ownership
func (s *ChatService) Messages(chatID, userID uint) ([]model.Message, error) {
	if _, err := s.ownedChat(chatID, userID); err != nil {
		return nil, err
	}
	return s.History(chatID)
}

// RenameChat updates a chat's display name, enforcing ownership
func (s *ChatService) RenameChat(chatID, userID uint, name string) (*model.Chat, error) {
	chat, err := s.ownedChat(chatID, userID)
	if err != nil {
		return nil, err
	}

	chat.Name = name
	if err := s.db.Model(chat).Update("name", name).Error; err != nil {
		return nil, err
	}
	return chat, nil
}

// DeleteChat removes a chat and all of its messages in one transaction
func (s *ChatService) DeleteChat(chatID, userID uint) error {
	chat, err := s.ownedChat(chatID, userID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chat.ID).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(chat).Error
	})
}

func (s *ChatService) ownedChat(chatID, userID uint) (*model.Chat, error) {
	var chat model.Chat
	err := s.db.Where("id = ? AND user_id = ?", chatID, userID).First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}
