package usecase

import (
	"context"

	chat "go-chatsync/internal/pkg/chat/application/domain"
)

// ListConversationsUseCase serves the fixed conversation catalog
type ListConversationsUseCase struct {
	Catalog chat.Catalog
}

func NewListConversationsUseCase(catalog chat.Catalog) *ListConversationsUseCase {
	return &ListConversationsUseCase{Catalog: catalog}
}

// Execute returns a copy of the catalog; it never fails.
func (uc *ListConversationsUseCase) Execute(ctx context.Context) ([]chat.Conversation, error) {
	return uc.Catalog.Snapshot(), nil
}
