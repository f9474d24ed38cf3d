package model

import "time"

// MessageRole represents the role of the message sender
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// DefaultChatName is assigned to chats created lazily on first AI query
const DefaultChatName = "New chat"

// Chat is a named conversation thread owned by one user
type Chat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"default:'New chat'" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User     User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Messages []Message `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
}

// Message is a single append-only entry in a chat. Ordering within a chat
// is by timestamp (ties broken by id) and must be preserved when the
// transcript is rebuilt for the model.
type Message struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	ChatID    uint        `gorm:"not null;index:idx_chat_timestamp" json:"chat_id"`
	Role      MessageRole `gorm:"type:varchar(20);not null" json:"role"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	Timestamp time.Time   `gorm:"index:idx_chat_timestamp" json:"timestamp"`

	Chat Chat `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
}
