package usecase

import (
	"context"
	"fmt"

	chat "go-chatsync/internal/pkg/chat/application/domain"
	repository "go-chatsync/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the data needed to append a new message.
// Content is not validated here; the boundary rejects empty messages.
type SendMessageInput struct {
	ConversationID string
	Message        chat.Draft
}

// SendMessageUseCase appends one message and returns it with its server-assigned id
type SendMessageUseCase struct {
	Repo repository.LogRepository
}

func NewSendMessageUseCase(repo repository.LogRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	if in.ConversationID == "" {
		return nil, fmt.Errorf("%w: conversationId is required", ErrInvalidInput)
	}
	msg, err := uc.Repo.Append(ctx, in.ConversationID, in.Message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &msg, nil
}
