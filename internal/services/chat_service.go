package services

import (
	"context"

	"aibot-api/internal/models"
	"aibot-api/internal/openai"
)

const (
	ModelStandard = "gpt-4o-mini"
	ModelPremium  = "gpt-4o"

	assistantSystemPrompt = "Ты полезный AI-ассистент на русском языке."
	codeSystemPrompt      = "Ты опытный программист. Отвечай кодом с короткими пояснениями на русском языке."
	visionSystemPrompt    = "Ты внимательный AI-ассистент. Опиши и проанализируй присланное изображение на русском языке."
)

// Completer is the slice of the completions client the chat service needs.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (string, error)
}

// ChatService assembles model context (system instruction + bounded history
// + new prompt), calls the completion API, and persists both sides of the
// exchange.
type ChatService interface {
	Reply(ctx context.Context, userID int64, prompt string) (string, error)
	CodeReply(ctx context.Context, userID int64, prompt string) (string, error)
	VisionReply(ctx context.Context, userID int64, imageURL, caption string) (string, error)
}

type chatService struct {
	completer    Completer
	entitlements EntitlementService
}

func NewChatService(completer Completer, entitlements EntitlementService) ChatService {
	return &chatService{
		completer:    completer,
		entitlements: entitlements,
	}
}

func (s *chatService) Reply(ctx context.Context, userID int64, prompt string) (string, error) {
	return s.completeWithHistory(ctx, userID, assistantSystemPrompt, prompt)
}

func (s *chatService) CodeReply(ctx context.Context, userID int64, prompt string) (string, error) {
	return s.completeWithHistory(ctx, userID, codeSystemPrompt, prompt)
}

// VisionReply forwards an image reference plus caption. Vision requests are
// one-shot: no prior history is attached, only the reply is persisted.
func (s *chatService) VisionReply(ctx context.Context, userID int64, imageURL, caption string) (string, error) {
	model, err := s.modelFor(ctx, userID)
	if err != nil {
		return "", err
	}

	reply, err := s.completer.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.Message{
			openai.TextMessage("system", visionSystemPrompt),
			openai.VisionMessage(imageURL, caption),
		},
	})
	if err != nil {
		return "", err
	}

	if err := s.entitlements.AppendHistory(ctx, userID, models.RoleAssistant, reply); err != nil {
		return "", err
	}
	return reply, nil
}

func (s *chatService) completeWithHistory(ctx context.Context, userID int64, systemPrompt, prompt string) (string, error) {
	model, err := s.modelFor(ctx, userID)
	if err != nil {
		return "", err
	}

	// Context is fetched before the new prompt is appended so the prompt
	// appears exactly once in the request.
	history, err := s.entitlements.ContextHistory(ctx, userID)
	if err != nil {
		return "", err
	}

	messages := make([]openai.Message, 0, len(history)+2)
	messages = append(messages, openai.TextMessage("system", systemPrompt))
	for _, entry := range history {
		messages = append(messages, openai.TextMessage(entry.Role, entry.Content))
	}
	messages = append(messages, openai.TextMessage(models.RoleUser, prompt))

	if err := s.entitlements.AppendHistory(ctx, userID, models.RoleUser, prompt); err != nil {
		return "", err
	}

	reply, err := s.completer.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}

	if err := s.entitlements.AppendHistory(ctx, userID, models.RoleAssistant, reply); err != nil {
		return "", err
	}
	return reply, nil
}

// Premium buys access to the advanced model on top of unlimited use.
func (s *chatService) modelFor(ctx context.Context, userID int64) (string, error) {
	premium, err := s.entitlements.IsPremium(ctx, userID)
	if err != nil {
		return "", err
	}
	if premium {
		return ModelPremium, nil
	}
	return ModelStandard, nil
}
