package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/op/go-logging"

	kvport "go-chatsync/internal/infrastructure/kv/port"
	chat "go-chatsync/internal/pkg/chat/application/domain"
	repository "go-chatsync/internal/pkg/chat/persistence/repository/port"
)

var log = logging.MustGetLogger("repository")

// LogKey is the storage key holding the JSON array of a conversation's messages.
func LogKey(conversationID string) string {
	return "chat_" + conversationID
}

// KVLogRepository stores each conversation log as one JSON document in a key-value store.
type KVLogRepository struct {
	kv  kvport.Store
	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex // conversationID -> append lock
}

// NewKVLogRepository returns a repository over kv. now defaults to time.Now.
func NewKVLogRepository(kv kvport.Store, now func() time.Time) *KVLogRepository {
	if now == nil {
		now = time.Now
	}
	return &KVLogRepository{kv: kv, now: now, locks: make(map[string]*sync.Mutex)}
}

var _ repository.LogRepository = (*KVLogRepository)(nil)

func (r *KVLogRepository) Read(ctx context.Context, conversationID string) ([]chat.Message, error) {
	if r == nil || r.kv == nil {
		return nil, errors.New("KVLogRepository: nil store")
	}
	return r.load(ctx, LogKey(conversationID))
}

func (r *KVLogRepository) Append(ctx context.Context, conversationID string, draft chat.Draft) (chat.Message, error) {
	if r == nil || r.kv == nil {
		return chat.Message{}, errors.New("KVLogRepository: nil store")
	}
	unlock := r.lock(conversationID)
	defer unlock()
	return r.appendLocked(ctx, conversationID, draft)
}

func (r *KVLogRepository) AppendOnce(ctx context.Context, dedupeKey string, conversationID string, draft chat.Draft) (chat.Message, bool, error) {
	if r == nil || r.kv == nil {
		return chat.Message{}, false, errors.New("KVLogRepository: nil store")
	}
	if dedupeKey == "" {
		msg, err := r.Append(ctx, conversationID, draft)
		return msg, err == nil, err
	}

	unlock := r.lock(conversationID)
	defer unlock()

	marker := dedupeMarkerKey(dedupeKey, conversationID)
	raw, err := r.kv.Get(ctx, marker)
	switch {
	case err == nil:
		var prev chat.Message
		if err := json.Unmarshal([]byte(raw), &prev); err != nil {
			return chat.Message{}, false, fmt.Errorf("decode %s: %w", marker, err)
		}
		log.Debugf("%s already applied to conversation %s as message %d", dedupeKey, conversationID, prev.ID)
		return prev, false, nil
	case !errors.Is(err, kvport.ErrMiss):
		return chat.Message{}, false, err
	}

	key := LogKey(conversationID)
	msgs, err := r.load(ctx, key)
	if err != nil {
		return chat.Message{}, false, err
	}
	// Without a marker, a stamped copy already in the log still counts as applied.
	if prev, ok := findCopy(msgs, draft); ok {
		log.Infof("%s found in conversation %s as message %d without a marker", dedupeKey, conversationID, prev.ID)
		r.mark(ctx, marker, prev)
		return prev, false, nil
	}

	msg, err := r.write(ctx, key, msgs, draft)
	if err != nil {
		return chat.Message{}, false, err
	}
	r.mark(ctx, marker, msg)
	return msg, true, nil
}

// mark records that msg was appended under marker. The message is already
// durable, so a failed write is logged and left to findCopy on retry.
func (r *KVLogRepository) mark(ctx context.Context, marker string, msg chat.Message) {
	b, err := json.Marshal(msg)
	if err == nil {
		err = r.kv.Set(ctx, marker, string(b))
	}
	if err != nil {
		log.Warningf("record %s: %v", marker, err)
	}
}

// findCopy looks for a message finalized from draft. Only stamped drafts match:
// an unstamped draft gets a fresh timestamp on every attempt.
func findCopy(msgs []chat.Message, draft chat.Draft) (chat.Message, bool) {
	if draft.Timestamp == "" {
		return chat.Message{}, false
	}
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Draft() == draft {
			return msgs[i], true
		}
	}
	return chat.Message{}, false
}

func (r *KVLogRepository) appendLocked(ctx context.Context, conversationID string, draft chat.Draft) (chat.Message, error) {
	key := LogKey(conversationID)
	msgs, err := r.load(ctx, key)
	if err != nil {
		return chat.Message{}, err
	}
	return r.write(ctx, key, msgs, draft)
}

func (r *KVLogRepository) write(ctx context.Context, key string, msgs []chat.Message, draft chat.Draft) (chat.Message, error) {
	msg := draft.Finalize(chat.NextID(msgs), r.now())
	msgs = append(msgs, msg)

	b, err := json.Marshal(msgs)
	if err != nil {
		return chat.Message{}, err
	}
	if err := r.kv.Set(ctx, key, string(b)); err != nil {
		return chat.Message{}, err
	}
	return msg, nil
}

func (r *KVLogRepository) load(ctx context.Context, key string) ([]chat.Message, error) {
	raw, err := r.kv.Get(ctx, key)
	if errors.Is(err, kvport.ErrMiss) {
		return []chat.Message{}, nil
	}
	if err != nil {
		return nil, err
	}
	msgs := []chat.Message{}
	if raw == "" {
		return msgs, nil
	}
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return msgs, nil
}

// lock serializes the read-length/append pair of one conversation.
func (r *KVLogRepository) lock(conversationID string) func() {
	r.mu.Lock()
	l := r.locks[conversationID]
	if l == nil {
		l = new(sync.Mutex)
		r.locks[conversationID] = l
	}
	r.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func dedupeMarkerKey(dedupeKey, conversationID string) string {
	return "broadcast_" + dedupeKey + "_" + conversationID
}
