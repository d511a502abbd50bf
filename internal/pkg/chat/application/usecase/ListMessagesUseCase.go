package usecase

import (
	"context"
	"fmt"

	chat "go-chatsync/internal/pkg/chat/application/domain"
	repository "go-chatsync/internal/pkg/chat/persistence/repository/port"
)

// ListMessagesInput carries parameters to fetch the log of a conversation
type ListMessagesInput struct {
	ConversationID string
}

// ListMessagesUseCase fetches the whole log of a conversation, oldest first
type ListMessagesUseCase struct {
	Repo repository.LogRepository
}

func NewListMessagesUseCase(repo repository.LogRepository) *ListMessagesUseCase {
	return &ListMessagesUseCase{Repo: repo}
}

func (uc *ListMessagesUseCase) Execute(ctx context.Context, in ListMessagesInput) ([]chat.Message, error) {
	if in.ConversationID == "" {
		return nil, fmt.Errorf("%w: conversationId is required", ErrInvalidInput)
	}
	msgs, err := uc.Repo.Read(ctx, in.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
