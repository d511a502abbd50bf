package remote

import (
	"context"
	"math/rand"
	"time"

	"github.com/op/go-logging"

	chat "go-chatsync/internal/pkg/chat/application/domain"
	"go-chatsync/internal/pkg/chat/application/usecase"
	repository "go-chatsync/internal/pkg/chat/persistence/repository/port"
)

var log = logging.MustGetLogger("remote")

// Simulated is the in-process mock backend. It runs the chat use cases and
// delays every response to model a network round trip.
type Simulated struct {
	listConversationsUC *usecase.ListConversationsUseCase
	listMessagesUC      *usecase.ListMessagesUseCase
	sendMessageUC       *usecase.SendMessageUseCase
	broadcastUC         *usecase.BroadcastUseCase

	// Delay returns the latency applied to one call; nil means no latency.
	Delay func() time.Duration
}

// NewSimulated wires the use cases over repo with the given catalog.
func NewSimulated(repo repository.LogRepository, catalog chat.Catalog) *Simulated {
	return &Simulated{
		listConversationsUC: usecase.NewListConversationsUseCase(catalog),
		listMessagesUC:      usecase.NewListMessagesUseCase(repo),
		sendMessageUC:       usecase.NewSendMessageUseCase(repo),
		broadcastUC:         usecase.NewBroadcastUseCase(repo),
	}
}

// FixedDelay returns a Delay of base plus a random share of jitter.
func FixedDelay(base, jitter time.Duration) func() time.Duration {
	return func() time.Duration {
		if jitter <= 0 {
			return base
		}
		return base + time.Duration(rand.Int63n(int64(jitter)))
	}
}

var _ Service = (*Simulated)(nil)

func (s *Simulated) ListConversations(ctx context.Context) ([]chat.Conversation, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.listConversationsUC.Execute(ctx)
}

func (s *Simulated) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.listMessagesUC.Execute(ctx, usecase.ListMessagesInput{ConversationID: conversationID})
}

func (s *Simulated) SendMessage(ctx context.Context, conversationID string, draft chat.Draft) (chat.Message, error) {
	if err := s.wait(ctx); err != nil {
		return chat.Message{}, err
	}
	msg, err := s.sendMessageUC.Execute(ctx, usecase.SendMessageInput{ConversationID: conversationID, Message: draft})
	if err != nil {
		return chat.Message{}, err
	}
	return *msg, nil
}

func (s *Simulated) Broadcast(ctx context.Context, req BroadcastRequest) (*chat.BroadcastReceipt, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.broadcastUC.Execute(ctx, usecase.BroadcastInput{
		BroadcastID:     req.ID,
		ConversationIDs: req.ConversationIDs,
		Message:         req.Message,
	})
}

func (s *Simulated) wait(ctx context.Context) error {
	if s.Delay == nil {
		return ctx.Err()
	}
	d := s.Delay()
	if d <= 0 {
		return ctx.Err()
	}
	log.Debugf("simulating %s of latency", d)
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
