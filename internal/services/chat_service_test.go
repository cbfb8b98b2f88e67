package services

import (
	"context"
	"testing"
	"time"

	"aibot-api/internal/models"
	"aibot-api/internal/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCompleter is a mock type for the Completer interface
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockEntitlementService is a mock type for the EntitlementService interface
type MockEntitlementService struct {
	mock.Mock
}

func (m *MockEntitlementService) GetRemaining(ctx context.Context, userID int64, feature models.Feature) (int, error) {
	args := m.Called(ctx, userID, feature)
	return args.Int(0), args.Error(1)
}

func (m *MockEntitlementService) IsPremium(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntitlementService) Consume(ctx context.Context, userID int64, feature models.Feature) (bool, error) {
	args := m.Called(ctx, userID, feature)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntitlementService) GrantUnlimited(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockEntitlementService) Usage(ctx context.Context, userID int64) (*UsageStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UsageStats), args.Error(1)
}

func (m *MockEntitlementService) AppendHistory(ctx context.Context, userID int64, role, content string) error {
	args := m.Called(ctx, userID, role, content)
	return args.Error(0)
}

func (m *MockEntitlementService) ContextHistory(ctx context.Context, userID int64) ([]models.HistoryEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HistoryEntry), args.Error(1)
}

func (m *MockEntitlementService) ClearHistory(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestReply_AssemblesContextAndPersistsBothTurns(t *testing.T) {
	completer := new(MockCompleter)
	entitlements := new(MockEntitlementService)
	svc := NewChatService(completer, entitlements)

	history := []models.HistoryEntry{
		{UserID: 1, Role: models.RoleUser, Content: "Привет", Timestamp: time.Now()},
		{UserID: 1, Role: models.RoleAssistant, Content: "Привет! Чем помочь?", Timestamp: time.Now()},
	}

	entitlements.On("IsPremium", mock.Anything, int64(1)).Return(false, nil)
	entitlements.On("ContextHistory", mock.Anything, int64(1)).Return(history, nil)
	entitlements.On("AppendHistory", mock.Anything, int64(1), models.RoleUser, "Как дела?").Return(nil)
	entitlements.On("AppendHistory", mock.Anything, int64(1), models.RoleAssistant, "Отлично!").Return(nil)

	var captured openai.ChatCompletionRequest
	completer.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(openai.ChatCompletionRequest)
		}).
		Return("Отлично!", nil)

	reply, err := svc.Reply(context.Background(), 1, "Как дела?")
	assert.NoError(t, err)
	assert.Equal(t, "Отлично!", reply)

	assert.Equal(t, ModelStandard, captured.Model)
	// system + 2 history turns + new prompt, in that order
	assert.Len(t, captured.Messages, 4)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, models.RoleUser, captured.Messages[1].Role)
	assert.Equal(t, "Привет", captured.Messages[1].Content)
	assert.Equal(t, models.RoleAssistant, captured.Messages[2].Role)
	assert.Equal(t, "Как дела?", captured.Messages[3].Content)

	entitlements.AssertCalled(t, "AppendHistory", mock.Anything, int64(1), models.RoleAssistant, "Отлично!")
}

func TestReply_PremiumGetsAdvancedModel(t *testing.T) {
	completer := new(MockCompleter)
	entitlements := new(MockEntitlementService)
	svc := NewChatService(completer, entitlements)

	entitlements.On("IsPremium", mock.Anything, int64(2)).Return(true, nil)
	entitlements.On("ContextHistory", mock.Anything, int64(2)).Return([]models.HistoryEntry{}, nil)
	entitlements.On("AppendHistory", mock.Anything, int64(2), mock.Anything, mock.Anything).Return(nil)

	var captured openai.ChatCompletionRequest
	completer.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(openai.ChatCompletionRequest)
		}).
		Return("ок", nil)

	_, err := svc.Reply(context.Background(), 2, "вопрос")
	assert.NoError(t, err)
	assert.Equal(t, ModelPremium, captured.Model)
}

func TestCodeReply_UsesCodeSystemPrompt(t *testing.T) {
	completer := new(MockCompleter)
	entitlements := new(MockEntitlementService)
	svc := NewChatService(completer, entitlements)

	entitlements.On("IsPremium", mock.Anything, int64(3)).Return(false, nil)
	entitlements.On("ContextHistory", mock.Anything, int64(3)).Return([]models.HistoryEntry{}, nil)
	entitlements.On("AppendHistory", mock.Anything, int64(3), mock.Anything, mock.Anything).Return(nil)

	var captured openai.ChatCompletionRequest
	completer.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(openai.ChatCompletionRequest)
		}).
		Return("func main() {}", nil)

	_, err := svc.CodeReply(context.Background(), 3, "напиши код для сортировки")
	assert.NoError(t, err)
	assert.Equal(t, codeSystemPrompt, captured.Messages[0].Content)
}

func TestVisionReply_OneShotPersistsOnlyAssistant(t *testing.T) {
	completer := new(MockCompleter)
	entitlements := new(MockEntitlementService)
	svc := NewChatService(completer, entitlements)

	entitlements.On("IsPremium", mock.Anything, int64(4)).Return(false, nil)
	entitlements.On("AppendHistory", mock.Anything, int64(4), models.RoleAssistant, "на фото кот").Return(nil)

	var captured openai.ChatCompletionRequest
	completer.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(openai.ChatCompletionRequest)
		}).
		Return("на фото кот", nil)

	reply, err := svc.VisionReply(context.Background(), 4, "https://files.example/photo.jpg", "что тут?")
	assert.NoError(t, err)
	assert.Equal(t, "на фото кот", reply)

	entitlements.AssertNotCalled(t, "ContextHistory", mock.Anything, mock.Anything)
	entitlements.AssertNumberOfCalls(t, "AppendHistory", 1)

	// user message carries the caption and the image reference
	assert.Len(t, captured.Messages, 2)
	parts, ok := captured.Messages[1].Content.([]openai.ContentPart)
	assert.True(t, ok)
	assert.Len(t, parts, 2)
	assert.Equal(t, "что тут?", parts[0].Text)
	assert.Equal(t, "https://files.example/photo.jpg", parts[1].ImageURL.URL)
}

func TestReply_CompletionFailureSkipsAssistantPersist(t *testing.T) {
	completer := new(MockCompleter)
	entitlements := new(MockEntitlementService)
	svc := NewChatService(completer, entitlements)

	entitlements.On("IsPremium", mock.Anything, int64(5)).Return(false, nil)
	entitlements.On("ContextHistory", mock.Anything, int64(5)).Return([]models.HistoryEntry{}, nil)
	entitlements.On("AppendHistory", mock.Anything, int64(5), models.RoleUser, "вопрос").Return(nil)

	completer.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return("", assert.AnError)

	_, err := svc.Reply(context.Background(), 5, "вопрос")
	assert.Error(t, err)
	entitlements.AssertNotCalled(t, "AppendHistory", mock.Anything, int64(5), models.RoleAssistant, mock.Anything)
}
