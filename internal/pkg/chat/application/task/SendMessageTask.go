package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/op/go-logging"

	qport "go-chatsync/internal/infrastructure/queue/port"
	chat "go-chatsync/internal/pkg/chat/application/domain"
	"go-chatsync/internal/pkg/chat/application/usecase"
	repository "go-chatsync/internal/pkg/chat/persistence/repository/port"
)

var log = logging.MustGetLogger("task")

// SendMessageTaskType is the queue task name for sending a message within the chat domain.
const SendMessageTaskType = "chat:send_message"

// SendMessageTaskPayload is the JSON payload transported via the queue.
type SendMessageTaskPayload struct {
	ConversationID string     `json:"conversationId"`
	Message        chat.Draft `json:"message"`
}

// NewSendMessageTask encodes a queued send. The timestamp is captured at enqueue
// time so a delayed worker still records when the user sent it.
func NewSendMessageTask(conversationID string, draft chat.Draft, now time.Time) (qport.Task, error) {
	if draft.Timestamp == "" {
		draft.Timestamp = chat.FormatTimestamp(now)
	}
	b, err := json.Marshal(SendMessageTaskPayload{ConversationID: conversationID, Message: draft})
	if err != nil {
		return qport.Task{}, fmt.Errorf("encode task payload: %w", err)
	}
	return qport.Task{Type: SendMessageTaskType, Payload: b}, nil
}

// RegisterSendMessageTask binds the task handler to the provided server.
// The handler executes the SendMessageUseCase against repo.
func RegisterSendMessageTask(srv qport.Server, repo repository.LogRepository) {
	uc := usecase.NewSendMessageUseCase(repo)
	srv.Register(SendMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p SendMessageTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return fmt.Errorf("%w: %v", qport.ErrSkipRetry, err)
		}

		// give storage a reasonable time budget per task execution
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		msg, err := uc.Execute(ctx, usecase.SendMessageInput{ConversationID: p.ConversationID, Message: p.Message})
		if err != nil {
			// The retry/backoff policy is controlled by the adapter/server.
			return err
		}
		log.Infof("queued message appended to conversation %s as %d", p.ConversationID, msg.ID)
		return nil
	})
}
