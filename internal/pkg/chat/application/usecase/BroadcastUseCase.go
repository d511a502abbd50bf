package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/op/go-logging"

	chat "go-chatsync/internal/pkg/chat/application/domain"
	repository "go-chatsync/internal/pkg/chat/persistence/repository/port"
)

var log = logging.MustGetLogger("usecase")

// BroadcastInput carries one message and the conversations it goes to.
// BroadcastID identifies the operation across retries; it is generated when empty.
type BroadcastInput struct {
	BroadcastID     string
	ConversationIDs []string
	Message         chat.Draft
}

// BroadcastUseCase appends the same message to several independent logs.
// There is no transaction across conversations: targets appended before a
// failure stay appended, and a retry with the same BroadcastID skips them.
type BroadcastUseCase struct {
	Repo repository.LogRepository
	Now  func() time.Time
}

func NewBroadcastUseCase(repo repository.LogRepository) *BroadcastUseCase {
	return &BroadcastUseCase{Repo: repo, Now: time.Now}
}

// Execute returns the receipt even on failure so callers can see which targets landed.
func (uc *BroadcastUseCase) Execute(ctx context.Context, in BroadcastInput) (*chat.BroadcastReceipt, error) {
	if len(in.ConversationIDs) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, chat.ErrNoTargets)
	}
	for _, id := range in.ConversationIDs {
		if id == "" {
			return nil, fmt.Errorf("%w: chatIds must not contain empty ids", ErrInvalidInput)
		}
	}

	receipt := &chat.BroadcastReceipt{ID: in.BroadcastID}
	if receipt.ID == "" {
		receipt.ID = uuid.NewString()
	}

	// One wall-clock moment for every copy, even though ids diverge per conversation.
	draft := in.Message
	if draft.Timestamp == "" {
		now := time.Now
		if uc.Now != nil {
			now = uc.Now
		}
		draft.Timestamp = chat.FormatTimestamp(now())
	}

	var result *multierror.Error
	// A conversation named twice receives one copy.
	for _, id := range chat.UniqueIDs(in.ConversationIDs) {
		msg, appended, err := uc.Repo.AppendOnce(ctx, receipt.ID, id, draft)
		if err != nil {
			log.Warningf("broadcast %s: conversation %s: %v", receipt.ID, id, err)
			result = multierror.Append(result, fmt.Errorf("conversation %s: %w", id, err))
			if !appended {
				continue
			}
		}
		receipt.Deliveries = append(receipt.Deliveries, chat.Delivery{ConversationID: id, Message: msg})
	}

	if err := result.ErrorOrNil(); err != nil {
		return receipt, fmt.Errorf("%w: %v", ErrPartialBroadcast, err)
	}
	receipt.Success = true
	return receipt, nil
}
