package repository

import (
	"context"

	chat "go-chatsync/internal/pkg/chat/application/domain"
)

// LogRepository defines persistence operations on the server-side copy of each conversation log.
// An absent log reads as empty. Appends assign id = len(log)+1 and are serialized per conversation.
type LogRepository interface {
	Read(ctx context.Context, conversationID string) ([]chat.Message, error)
	Append(ctx context.Context, conversationID string, draft chat.Draft) (chat.Message, error)
	// AppendOnce appends at most once per dedupeKey. When the key was already used it
	// returns the message appended back then and appended=false.
	AppendOnce(ctx context.Context, dedupeKey string, conversationID string, draft chat.Draft) (msg chat.Message, appended bool, err error)
}
