package services

import (
	"errors"
	"testing"
	"time"

	"iqroai/model"
)

func TestGetOrCreateChatLazyCreation(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db)
	user := createTestStudent(t, db, "chat1@test.uz")

	chat, err := svc.GetOrCreateChat(nil, user.ID)
	if err != nil {
		t.Fatalf("GetOrCreateChat failed: %v", err)
	}
	if chat.ID == 0 {
		t.Fatal("expected a persisted chat")
	}
	if chat.Name != model.DefaultChatName {
		t.Errorf("expected default name %q, got %q", model.DefaultChatName, chat.Name)
	}

	resolved, err := svc.GetOrCreateChat(&chat.ID, user.ID)
	if err != nil {
		t.Fatalf("resolving existing chat failed: %v", err)
	}
	if resolved.ID != chat.ID {
		t.Errorf("expected the same chat back, got %d", resolved.ID)
	}
}

func TestGetOrCreateChatOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db)
	owner := createTestStudent(t, db, "owner@test.uz")
	intruder := createTestStudent(t, db, "intruder@test.uz")

	chat, err := svc.GetOrCreateChat(nil, owner.ID)
	if err != nil {
		t.Fatalf("GetOrCreateChat failed: %v", err)
	}

	if _, err := svc.GetOrCreateChat(&chat.ID, intruder.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign chat, got %v", err)
	}

	if _, err := svc.Messages(chat.ID, intruder.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound reading foreign messages, got %v", err)
	}
}

func TestHistoryOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db)
	user := createTestStudent(t, db, "order@test.uz")

	chat, err := svc.GetOrCreateChat(nil, user.ID)
	if err != nil {
		t.Fatalf("GetOrCreateChat failed: %v", err)
	}

	// Insert out of chronological order
	base := time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC)
	msgs := []model.Message{
		{ChatID: chat.ID, Role: model.MessageRoleAssistant, Content: "second", Timestamp: base.Add(time.Minute)},
		{ChatID: chat.ID, Role: model.MessageRoleUser, Content: "first", Timestamp: base},
		{ChatID: chat.ID, Role: model.MessageRoleUser, Content: "third", Timestamp: base.Add(2 * time.Minute)},
	}
	for i := range msgs {
		if err := db.Create(&msgs[i]).Error; err != nil {
			t.Fatalf("failed to insert message: %v", err)
		}
	}

	history, err := svc.History(chat.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(history) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(history))
	}
	for i, content := range want {
		if history[i].Content != content {
			t.Errorf("position %d: expected %q, got %q", i, content, history[i].Content)
		}
	}
}

func TestDeleteChatCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db)
	user := createTestStudent(t, db, "delete@test.uz")

	chat, err := svc.GetOrCreateChat(nil, user.ID)
	if err != nil {
		t.Fatalf("GetOrCreateChat failed: %v", err)
	}

	if _, err := svc.AppendMessage(chat.ID, model.MessageRoleUser, "hello"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	if err := svc.DeleteChat(chat.ID, user.ID); err != nil {
		t.Fatalf("DeleteChat failed: %v", err)
	}

	var messageCount int64
	db.Model(&model.Message{}).Where("chat_id = ?", chat.ID).Count(&messageCount)
	if messageCount != 0 {
		t.Errorf("expected messages to be deleted with the chat, found %d", messageCount)
	}

	var chatCount int64
	db.Model(&model.Chat{}).Where("id = ?", chat.ID).Count(&chatCount)
	if chatCount != 0 {
		t.Errorf("expected chat row to be gone, found %d", chatCount)
	}
}

func TestRenameChat(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db)
	user := createTestStudent(t, db, "rename@test.uz")

	chat, err := svc.GetOrCreateChat(nil, user.ID)
	if err != nil {
		t.Fatalf("GetOrCreateChat failed: %v", err)
	}

	renamed, err := svc.RenameChat(chat.ID, user.ID, "Algebra help")
	if err != nil {
		t.Fatalf("RenameChat failed: %v", err)
	}
	if renamed.Name != "Algebra help" {
		t.Errorf("expected renamed chat, got %q", renamed.Name)
	}

	var stored model.Chat
	if err := db.First(&stored, chat.ID).Error; err != nil {
		t.Fatalf("failed to reload chat: %v", err)
	}
	if stored.Name != "Algebra help" {
		t.Errorf("rename not persisted, got %q", stored.Name)
	}
}
