package adapter

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	kvadapter "go-chatsync/internal/infrastructure/kv/adapter"
	kvport "go-chatsync/internal/infrastructure/kv/port"
	chat "go-chatsync/internal/pkg/chat/application/domain"
)

var fixedNow = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

// flakyStore fails writes to keys that contain failOn.
type flakyStore struct {
	kvport.Store
	failOn string
}

var errUnavailable = errors.New("storage unavailable")

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	if f.failOn != "" && strings.Contains(key, f.failOn) {
		return errUnavailable
	}
	return f.Store.Set(ctx, key, value)
}

func newRepo() *KVLogRepository {
	return NewKVLogRepository(kvadapter.NewMemoryStore(), func() time.Time { return fixedNow })
}

func TestKVLogRepository_ReadUnknownIsEmpty(t *testing.T) {
	msgs, err := newRepo().Read(context.Background(), "1")
	if err != nil {
		t.Fatal(err)
	}
	if msgs == nil || len(msgs) != 0 {
		t.Errorf("Expected empty non-nil log, got %#v", msgs)
	}
}

func TestKVLogRepository_AppendAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	m1, err := r.Append(ctx, "1", chat.Draft{Sender: "You", Text: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	m2, err := r.Append(ctx, "1", chat.Draft{Sender: "You", Text: "again"})
	if err != nil {
		t.Fatal(err)
	}
	other, err := r.Append(ctx, "2", chat.Draft{Sender: "You", Text: "elsewhere"})
	if err != nil {
		t.Fatal(err)
	}
	if m1.ID != 1 || m2.ID != 2 {
		t.Errorf("Expected ids 1,2 got %d,%d", m1.ID, m2.ID)
	}
	if other.ID != 1 {
		t.Errorf("Ids are per conversation, expected 1 got %d", other.ID)
	}
	if m1.Timestamp != "2024-05-01T12:00:00.000Z" {
		t.Errorf("Unexpected timestamp %s", m1.Timestamp)
	}

	msgs, err := r.Read(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || msgs[0] != m1 || msgs[1] != m2 {
		t.Errorf("Unexpected log %+v", msgs)
	}
}

func TestKVLogRepository_StoresEmptyMessages(t *testing.T) {
	m, err := newRepo().Append(context.Background(), "1", chat.Draft{})
	if err != nil {
		t.Fatal(err)
	}
	if m.ID != 1 || m.Text != "" {
		t.Errorf("Unexpected message %+v", m)
	}
}

func TestKVLogRepository_ConcurrentAppendsKeepIDsUnique(t *testing.T) {
	ctx := context.Background()
	r := newRepo()

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := r.Append(ctx, "1", chat.Draft{Sender: "You", Text: "x"})
			if err != nil {
				t.Error(err)
				return
			}
			ids <- m.ID
		}()
	}
	wg.Wait()
	close(ids)

	var got []int
	for id := range ids {
		got = append(got, id)
	}
	sort.Ints(got)
	for i, id := range got {
		if id != i+1 {
			t.Fatalf("Expected ids 1..%d, got %v", n, got)
		}
	}
	msgs, _ := r.Read(ctx, "1")
	if len(msgs) != n {
		t.Errorf("Expected %d messages got %d", n, len(msgs))
	}
}

func TestKVLogRepository_AppendOnceDedupes(t *testing.T) {
	ctx := context.Background()
	r := newRepo()
	_, _ = r.Append(ctx, "1", chat.Draft{Text: "before"})

	first, appended, err := r.AppendOnce(ctx, "b1", "1", chat.Draft{Text: "hello all"})
	if err != nil || !appended {
		t.Fatalf("Expected first append, got appended=%v err=%v", appended, err)
	}
	again, appended, err := r.AppendOnce(ctx, "b1", "1", chat.Draft{Text: "hello all"})
	if err != nil {
		t.Fatal(err)
	}
	if appended {
		t.Error("Second AppendOnce with the same key must not append")
	}
	if again != first {
		t.Errorf("Expected %+v got %+v", first, again)
	}
	msgs, _ := r.Read(ctx, "1")
	if len(msgs) != 2 {
		t.Errorf("Expected 2 messages got %d", len(msgs))
	}

	// another key appends again
	if m, appended, _ := r.AppendOnce(ctx, "b2", "1", chat.Draft{Text: "hello all"}); !appended || m.ID != 3 {
		t.Errorf("Expected a fresh append with id 3, got %+v %v", m, appended)
	}
}

func TestKVLogRepository_StorageFailureIsolated(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Store: kvadapter.NewMemoryStore()}
	r := NewKVLogRepository(store, nil)

	if _, err := r.Append(ctx, "1", chat.Draft{Text: "ok"}); err != nil {
		t.Fatal(err)
	}
	store.failOn = LogKey("2")
	if _, err := r.Append(ctx, "2", chat.Draft{Text: "lost"}); !errors.Is(err, errUnavailable) {
		t.Fatalf("Expected storage failure, got %v", err)
	}
	msgs, err := r.Read(ctx, "1")
	if err != nil || len(msgs) != 1 {
		t.Errorf("Conversation 1 affected by failure: %+v %v", msgs, err)
	}
	if msgs, _ := r.Read(ctx, "2"); len(msgs) != 0 {
		t.Errorf("Failed append left data behind: %+v", msgs)
	}
}

func TestKVLogRepository_AppendOnceSurvivesLostMarker(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Store: kvadapter.NewMemoryStore(), failOn: "broadcast_"}
	r := NewKVLogRepository(store, func() time.Time { return fixedNow })
	draft := chat.Draft{Sender: "You", Text: "hello all", Timestamp: "2024-05-01T11:59:00.000Z"}

	first, appended, err := r.AppendOnce(ctx, "b1", "1", draft)
	if err != nil || !appended {
		t.Fatalf("A lost marker must not fail a durable append, got appended=%v err=%v", appended, err)
	}
	if _, err := r.Append(ctx, "1", chat.Draft{Sender: "A", Text: "reply"}); err != nil {
		t.Fatal(err)
	}

	store.failOn = ""
	again, appended, err := r.AppendOnce(ctx, "b1", "1", draft)
	if err != nil {
		t.Fatal(err)
	}
	if appended || again != first {
		t.Errorf("Retry appended a second copy: %+v appended=%v", again, appended)
	}
	msgs, _ := r.Read(ctx, "1")
	if len(msgs) != 2 {
		t.Errorf("Expected 2 messages got %+v", msgs)
	}

	// the marker is restored, so later retries take the fast path
	if _, err := store.Get(ctx, dedupeMarkerKey("b1", "1")); err != nil {
		t.Errorf("Marker not restored: %v", err)
	}
}
