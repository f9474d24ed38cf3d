package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"iqroai/model"
	"iqroai/services/anthropic"
)

const (
	// FallbackErrorMessage is streamed in-band when a turn fails after
	// the response has already started.
	FallbackErrorMessage = "An error occurred while processing your request."

	academicTestMarker      = "Knowledge Assessment Test"
	psychologicalTestMarker = "Psychological Test"

	chatMaxTokens   = 2000
	chatTemperature = 0.7
)

// ModelClient abstracts the Anthropic client so tests can substitute a fake
type ModelClient interface {
	CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error)
	StreamMessage(ctx context.Context, req anthropic.MessageRequest, onChunk func(text string) error) error
}

// AssistantService drives one conversational tutoring turn
type AssistantService struct {
	db        *gorm.DB
	model     ModelClient
	chats     *ChatService
	contexts  *ContextService
	chatLocks *keyedMutex
}

// NewAssistantService creates a new assistant service
func NewAssistantService(db *gorm.DB, modelClient ModelClient, chats *ChatService, contexts *ContextService) *AssistantService {
	return &AssistantService{
		db:        db,
		model:     modelClient,
		chats:     chats,
		contexts:  contexts,
		chatLocks: newKeyedMutex(),
	}
}

// Turn holds the state of one in-flight conversational turn
type Turn struct {
	Chat    *model.Chat
	UserID  uint
	Query   string
	system  string
	history []anthropic.Message
}

// BeginTurn resolves the chat and builds the prompt. All failures here
// happen before any bytes are streamed, so they surface as regular
// errors rather than in-band fallback text.
func (s *AssistantService) BeginTurn(userID uint, chatID *uint, query string) (*Turn, error) {
	chat, err := s.chats.GetOrCreateChat(chatID, userID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.contexts.BuildStudentContext(userID)
	if err != nil {
		return nil, err
	}

	contextJSON, err := snapshot.JSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode context: %w", err)
	}

	stored, err := s.chats.History(chat.ID)
	if err != nil {
		return nil, err
	}

	history := make([]anthropic.Message, 0, len(stored)+1)
	for _, m := range stored {
		history = append(history, anthropic.Message{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	// The new utterance rides along in the prompt but is not persisted
	// until the turn finalizes.
	history = append(history, anthropic.Message{
		Role:    string(model.MessageRoleUser),
		Content: query,
	})

	return &Turn{
		Chat:    chat,
		UserID:  userID,
		Query:   query,
		system:  GetSystemPrompt(contextJSON, time.Now()),
		history: history,
	}, nil
}

// StreamTurn runs the model call, forwarding each text fragment to
// onChunk as it arrives while accumulating the full reply. On success
// the turn's messages and test side effects are committed; on any
// failure the fallback message is emitted in-band and nothing is
// persisted.
func (s *AssistantService) StreamTurn(ctx context.Context, turn *Turn, onChunk func(text string)) {
	var buffer strings.Builder

	req := anthropic.MessageRequest{
		Model:       anthropic.DefaultModel,
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
		System:      turn.system,
		Messages:    turn.history,
	}

	err := s.model.StreamMessage(ctx, req, func(text string) error {
		buffer.WriteString(text)
		onChunk(text)
		return nil
	})
	if err != nil {
		log.Errorf("ai stream failed for chat %d: %v", turn.Chat.ID, err)
		onChunk(FallbackErrorMessage)
		return
	}

	// The client may disconnect right after the last chunk; persistence
	// still has to run to completion.
	if err := s.finalizeTurn(context.WithoutCancel(ctx), turn, buffer.String()); err != nil {
		log.Errorf("ai turn finalization failed for chat %d: %v", turn.Chat.ID, err)
		onChunk(FallbackErrorMessage)
	}
}

// finalizeTurn persists both messages of the turn and runs the test
// detection checks, all inside a single transaction.
func (s *AssistantService) finalizeTurn(ctx context.Context, turn *Turn, reply string) error {
	lockKey := fmt.Sprintf("chat:%d", turn.Chat.ID)
	s.chatLocks.Lock(lockKey)
	defer s.chatLocks.Unlock(lockKey)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Capture what the assistant said last before this turn writes
		// anything, it decides whether the query answers an open test.
		var previous model.Message
		hasPrevious := true
		err := tx.Where("chat_id = ?", turn.Chat.ID).
			Order("timestamp DESC, id DESC").
			First(&previous).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			hasPrevious = false
		}

		now := time.Now()
		userMsg := model.Message{
			ChatID:    turn.Chat.ID,
			Role:      model.MessageRoleUser,
			Content:   turn.Query,
			Timestamp: now,
		}
		if err := tx.Create(&userMsg).Error; err != nil {
			return err
		}

		assistantMsg := model.Message{
			ChatID:    turn.Chat.ID,
			Role:      model.MessageRoleAssistant,
			Content:   reply,
			Timestamp: now.Add(time.Millisecond),
		}
		if err := tx.Create(&assistantMsg).Error; err != nil {
			return err
		}

		if hasPrevious {
			if offersAcademicTest(previous.Content) {
				if err := s.recordTestAnswer(tx, turn.UserID, model.TestTypeAcademic, turn.Query); err != nil {
					return err
				}
			} else if offersPsychologicalTest(previous.Content) {
				if err := s.recordTestAnswer(tx, turn.UserID, model.TestTypePsychological, turn.Query); err != nil {
					return err
				}
			}
		}

		if offersAcademicTest(reply) {
			if err := s.createOfferedTest(tx, turn.UserID, model.TestTypeAcademic, reply); err != nil {
				return err
			}
		} else if offersPsychologicalTest(reply) {
			if err := s.createOfferedTest(tx, turn.UserID, model.TestTypePsychological, reply); err != nil {
				return err
			}
		}

		return nil
	})
}

// recordTestAnswer links the user's query to their most recent test of
// the given type as a result payload. Nothing is written when no such
// test exists.
func (s *AssistantService) recordTestAnswer(tx *gorm.DB, userID uint, testType string, answer string) error {
	var test model.Test
	err := tx.Where("user_id = ? AND type = ?", userID, testType).
		Order("timestamp DESC").
		First(&test).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	payload, err := json.Marshal(map[string]string{"answer": answer})
	if err != nil {
		return err
	}

	result := model.TestResult{
		UserID: userID,
		TestID: test.ID,
		Result: datatypes.JSON(payload),
	}
	return tx.Create(&result).Error
}

// createOfferedTest stores the full reply text as a freshly offered test
func (s *AssistantService) createOfferedTest(tx *gorm.DB, userID uint, testType string, reply string) error {
	test := model.Test{
		UserID:    userID,
		Type:      testType,
		Questions: reply,
	}
	return tx.Create(&test).Error
}

func offersAcademicTest(content string) bool {
	return strings.Contains(content, academicTestMarker)
}

func offersPsychologicalTest(content string) bool {
	return strings.Contains(content, psychologicalTestMarker)
}
