package services

import (
	"context"
	"log"

	"github.com/vitaburn/vitaburn-engine/internal/core/domain"
)

// FallbackMessage is appended by callers after a stream failure, on top
// of whatever partial content was already decoded.
const FallbackMessage = "Sorry, I encountered an error. Please try again."

// AssistantClient streams a chat completion, invoking onDelta for every
// decoded text fragment. It returns the full content accumulated before
// any failure.
type AssistantClient interface {
	StreamChat(ctx context.Context, messages []domain.ChatMessage, userContext *domain.UserContext, onDelta func(string) error) (string, error)
}

type ChatService struct {
	client      AssistantClient
	predictions *PredictionService
}

func NewChatService(client AssistantClient, predictions *PredictionService) *ChatService {
	return &ChatService{
		client:      client,
		predictions: predictions,
	}
}

// Stream relays the transcript to the assistant with the user's activity
// summary attached. The summary is best-effort: a failure to build it is
// logged and the chat proceeds without context.
func (s *ChatService) Stream(ctx context.Context, userID string, messages []domain.ChatMessage, onDelta func(string) error) (string, error) {
	userContext := s.buildUserContext(ctx, userID)
	return s.client.StreamChat(ctx, messages, userContext, onDelta)
}

func (s *ChatService) buildUserContext(ctx context.Context, userID string) *domain.UserContext {
	uc, err := s.predictions.UserContext(ctx, userID)
	if err != nil {
		log.Printf("Chat: failed to build user context for %s: %v", userID, err)
		return nil
	}
	if uc.TotalPredictions == 0 {
		return nil
	}
	return uc
}
