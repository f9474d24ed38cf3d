package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"iqroai/model"
	"iqroai/services/anthropic"
)

// fakeModelClient plays scripted model responses
type fakeModelClient struct {
	chunks    []string
	streamErr error
	replyText string
	createErr error
}

func (f *fakeModelClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.replyText}},
	}, nil
}

func (f *fakeModelClient) StreamMessage(ctx context.Context, req anthropic.MessageRequest, onChunk func(text string) error) error {
	for _, chunk := range f.chunks {
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
	return f.streamErr
}

func newAssistantFixture(t *testing.T, fake *fakeModelClient) (*AssistantService, *ChatService, *model.User) {
	t.Helper()
	db := newTestDB(t)
	chats := NewChatService(db)
	contexts := NewContextService(db)
	svc := NewAssistantService(db, fake, chats, contexts)
	user := createTestStudent(t, db, "assistant@test.uz")
	return svc, chats, user
}

func collectChunks(dst *[]string) func(string) {
	return func(text string) {
		*dst = append(*dst, text)
	}
}

func TestStreamTurnCreatesChatAndMessages(t *testing.T) {
	fake := &fakeModelClient{chunks: []string{"Hello ", "Aziz!"}}
	svc, chats, user := newAssistantFixture(t, fake)

	turn, err := svc.BeginTurn(user.ID, nil, "Salom!")
	if err != nil {
		t.Fatalf("BeginTurn failed: %v", err)
	}
	if turn.Chat.ID == 0 {
		t.Fatal("expected a lazily created chat")
	}

	var streamed []string
	svc.StreamTurn(context.Background(), turn, collectChunks(&streamed))

	if got := strings.Join(streamed, ""); got != "Hello Aziz!" {
		t.Errorf("expected streamed reply %q, got %q", "Hello Aziz!", got)
	}

	history, err := chats.History(turn.Chat.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 persisted messages, got %d", len(history))
	}
	if history[0].Role != model.MessageRoleUser || history[0].Content != "Salom!" {
		t.Errorf("first message should be the user's query, got %+v", history[0])
	}
	if history[1].Role != model.MessageRoleAssistant || history[1].Content != "Hello Aziz!" {
		t.Errorf("second message should be the full assistant reply, got %+v", history[1])
	}
}

func TestStreamTurnUnknownChatFailsBeforeStreaming(t *testing.T) {
	fake := &fakeModelClient{chunks: []string{"never sent"}}
	svc, _, user := newAssistantFixture(t, fake)

	missing := uint(777)
	if _, err := svc.BeginTurn(user.ID, &missing, "hi"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound before any streaming, got %v", err)
	}
}

func TestStreamTurnRecordsAcademicAnswer(t *testing.T) {
	fake := &fakeModelClient{chunks: []string{"Well done, let me grade that."}}
	svc, chats, user := newAssistantFixture(t, fake)
	db := svc.db

	chat, err := chats.GetOrCreateChat(nil, user.ID)
	if err != nil {
		t.Fatalf("GetOrCreateChat failed: %v", err)
	}

	// The assistant previously offered an academic test
	offer := "Knowledge Assessment Test: The following questions are necessary to evaluate your knowledge: 1) ..."
	if _, err := chats.AppendMessage(chat.ID, model.MessageRoleAssistant, offer); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	psychTest := model.Test{UserID: user.ID, Type: model.TestTypePsychological, Questions: "psych"}
	if err := db.Create(&psychTest).Error; err != nil {
		t.Fatalf("failed to create psych test: %v", err)
	}
	academicTest := model.Test{UserID: user.ID, Type: model.TestTypeAcademic, Questions: offer}
	if err := db.Create(&academicTest).Error; err != nil {
		t.Fatalf("failed to create academic test: %v", err)
	}

	turn, err := svc.BeginTurn(user.ID, &chat.ID, "My answers: 1-A, 2-B")
	if err != nil {
		t.Fatalf("BeginTurn failed: %v", err)
	}

	var streamed []string
	svc.StreamTurn(context.Background(), turn, collectChunks(&streamed))

	var results []model.TestResult
	if err := db.Where("user_id = ?", user.ID).Find(&results).Error; err != nil {
		t.Fatalf("failed to load test results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one test result, got %d", len(results))
	}
	if results[0].TestID != academicTest.ID {
		t.Errorf("result should link to the academic test %d, got %d", academicTest.ID, results[0].TestID)
	}

	var payload map[string]string
	if err := json.Unmarshal(results[0].Result, &payload); err != nil {
		t.Fatalf("result payload is not valid JSON: %v", err)
	}
	if payload["answer"] != "My answers: 1-A, 2-B" {
		t.Errorf("result should wrap the raw query, got %q", payload["answer"])
	}
}

func TestStreamTurnStoresOfferedPsychologicalTest(t *testing.T) {
	reply := "Psychological Test: This test will help me understand you better:\n1) How do you feel?\n  ...trailing  "
	fake := &fakeModelClient{chunks: []string{reply}}
	svc, _, user := newAssistantFixture(t, fake)
	db := svc.db

	turn, err := svc.BeginTurn(user.ID, nil, "I want a test")
	if err != nil {
		t.Fatalf("BeginTurn failed: %v", err)
	}

	var streamed []string
	svc.StreamTurn(context.Background(), turn, collectChunks(&streamed))

	var tests []model.Test
	if err := db.Where("user_id = ?", user.ID).Find(&tests).Error; err != nil {
		t.Fatalf("failed to load tests: %v", err)
	}
	if len(tests) != 1 {
		t.Fatalf("expected exactly one new test, got %d", len(tests))
	}
	if tests[0].Type != model.TestTypePsychological {
		t.Errorf("expected a psychological test, got %q", tests[0].Type)
	}
	if tests[0].Questions != reply {
		t.Errorf("questions must be the verbatim reply\nwant %q\ngot  %q", reply, tests[0].Questions)
	}
}

func TestStreamTurnAnswersAndOffersInSameTurn(t *testing.T) {
	// The reply both grades the previous answers and offers a new test
	reply := "Good answers. Psychological Test: This test will help me understand you better: 1) ..."
	fake := &fakeModelClient{chunks: []string{reply}}
	svc, chats, user := newAssistantFixture(t, fake)
	db := svc.db

	chat, err := chats.GetOrCreateChat(nil, user.ID)
	if err != nil {
		t.Fatalf("GetOrCreateChat failed: %v", err)
	}

	offer := "Knowledge Assessment Test: The following questions are necessary to evaluate your knowledge: 1) ..."
	if _, err := chats.AppendMessage(chat.ID, model.MessageRoleAssistant, offer); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	academicTest := model.Test{UserID: user.ID, Type: model.TestTypeAcademic, Questions: offer}
	if err := db.Create(&academicTest).Error; err != nil {
		t.Fatalf("failed to create academic test: %v", err)
	}

	turn, err := svc.BeginTurn(user.ID, &chat.ID, "1-A, 2-C")
	if err != nil {
		t.Fatalf("BeginTurn failed: %v", err)
	}

	var streamed []string
	svc.StreamTurn(context.Background(), turn, collectChunks(&streamed))

	// Both checks fire independently: the query answers the old test
	var results []model.TestResult
	if err := db.Where("user_id = ?", user.ID).Find(&results).Error; err != nil {
		t.Fatalf("failed to load test results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one test result, got %d", len(results))
	}
	if results[0].TestID != academicTest.ID {
		t.Errorf("result should link to the academic test %d, got %d", academicTest.ID, results[0].TestID)
	}

	// and the reply creates a fresh psychological test in the same turn
	var newTests []model.Test
	if err := db.Where("user_id = ? AND type = ?", user.ID, model.TestTypePsychological).
		Find(&newTests).Error; err != nil {
		t.Fatalf("failed to load tests: %v", err)
	}
	if len(newTests) != 1 {
		t.Fatalf("expected one new psychological test, got %d", len(newTests))
	}
	if newTests[0].Questions != reply {
		t.Errorf("questions must be the verbatim reply\nwant %q\ngot  %q", reply, newTests[0].Questions)
	}
}

func TestStreamTurnAcademicMarkerWinsOverPsychological(t *testing.T) {
	reply := "Knowledge Assessment Test: ... also mentions Psychological Test later"
	fake := &fakeModelClient{chunks: []string{reply}}
	svc, _, user := newAssistantFixture(t, fake)
	db := svc.db

	turn, err := svc.BeginTurn(user.ID, nil, "test me")
	if err != nil {
		t.Fatalf("BeginTurn failed: %v", err)
	}

	var streamed []string
	svc.StreamTurn(context.Background(), turn, collectChunks(&streamed))

	var tests []model.Test
	if err := db.Where("user_id = ?", user.ID).Find(&tests).Error; err != nil {
		t.Fatalf("failed to load tests: %v", err)
	}
	if len(tests) != 1 {
		t.Fatalf("expected exactly one new test, got %d", len(tests))
	}
	if tests[0].Type != model.TestTypeAcademic {
		t.Errorf("academic classification takes precedence, got %q", tests[0].Type)
	}
}

func TestStreamTurnFailureEmitsFallbackAndPersistsNothing(t *testing.T) {
	fake := &fakeModelClient{
		chunks:    []string{"partial outp"},
		streamErr: errors.New("upstream connection reset"),
	}
	svc, chats, user := newAssistantFixture(t, fake)
	db := svc.db

	turn, err := svc.BeginTurn(user.ID, nil, "hello?")
	if err != nil {
		t.Fatalf("BeginTurn failed: %v", err)
	}

	var streamed []string
	svc.StreamTurn(context.Background(), turn, collectChunks(&streamed))

	if len(streamed) == 0 || streamed[len(streamed)-1] != FallbackErrorMessage {
		t.Errorf("expected the fallback message as the final chunk, got %v", streamed)
	}

	history, err := chats.History(turn.Chat.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("a failed turn must not persist messages, found %d", len(history))
	}

	var testCount int64
	db.Model(&model.Test{}).Count(&testCount)
	if testCount != 0 {
		t.Errorf("a failed turn must not create tests, found %d", testCount)
	}
}

func TestStreamTurnMessageTimestampsOrdered(t *testing.T) {
	fake := &fakeModelClient{chunks: []string{"reply"}}
	svc, chats, user := newAssistantFixture(t, fake)

	turn, err := svc.BeginTurn(user.ID, nil, "q")
	if err != nil {
		t.Fatalf("BeginTurn failed: %v", err)
	}

	var streamed []string
	svc.StreamTurn(context.Background(), turn, collectChunks(&streamed))

	history, err := chats.History(turn.Chat.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}

	userTS := history[0].Timestamp
	assistantTS := history[1].Timestamp
	if !assistantTS.After(userTS) {
		t.Errorf("assistant message must sort after the user message: %v vs %v",
			assistantTS.Format(time.RFC3339Nano), userTS.Format(time.RFC3339Nano))
	}
}
