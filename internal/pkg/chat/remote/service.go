// Package remote holds the boundary the client core uses to reach the chat backend.
package remote

import (
	"context"

	chat "go-chatsync/internal/pkg/chat/application/domain"
)

// BroadcastRequest fans one message out to several conversations.
// ID is reused by retries so already-appended targets are not appended twice.
type BroadcastRequest struct {
	ID              string     `json:"broadcastId,omitempty"`
	ConversationIDs []string   `json:"chatIds"`
	Message         chat.Draft `json:"message"`
}

// Service is the chat backend as seen by the client core. Every call is a
// network round trip; callers must treat it as asynchronous.
type Service interface {
	ListConversations(ctx context.Context) ([]chat.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error)
	SendMessage(ctx context.Context, conversationID string, draft chat.Draft) (chat.Message, error)
	// Broadcast may return a receipt together with an error when only some targets were appended.
	Broadcast(ctx context.Context, req BroadcastRequest) (*chat.BroadcastReceipt, error)
}
