package store

import (
	"context"
	"sync"
	"testing"
	"time"

	chat "go-chatsync/internal/pkg/chat/application/domain"
	"go-chatsync/internal/pkg/chat/client/status"
)

func msg(id int, text string) chat.Message {
	return chat.Message{ID: id, Sender: "You", Text: text, Timestamp: "2024-01-01T00:00:00.000Z"}
}

func TestReduceMessageSentCreatesLog(t *testing.T) {
	s := Reduce(State{}, MessageSent{ConversationID: "9", Message: msg(1, "hi")})
	if got := s.Log("9"); len(got) != 1 || got[0].Text != "hi" {
		t.Fatalf("unexpected log: %+v", got)
	}
}

func TestReduceDoesNotMutatePreviousState(t *testing.T) {
	s0 := Reduce(State{}, MessagesFetched{ConversationID: "1", Messages: []chat.Message{msg(1, "a")}})
	s1 := Reduce(s0, MessageSent{ConversationID: "1", Message: msg(2, "b")})
	s2 := Reduce(s0, MessageSent{ConversationID: "1", Message: msg(2, "c")})

	if len(s0.Log("1")) != 1 {
		t.Fatalf("previous state mutated: %+v", s0.Log("1"))
	}
	if s1.Log("1")[1].Text != "b" || s2.Log("1")[1].Text != "c" {
		t.Fatalf("branches share storage: %+v / %+v", s1.Log("1"), s2.Log("1"))
	}
}

func TestReduceMessagesFetchedReplacesLog(t *testing.T) {
	s := Reduce(State{}, MessagesFetched{ConversationID: "1", Messages: []chat.Message{msg(1, "a"), msg(2, "b")}})
	s = Reduce(s, MessagesFetched{ConversationID: "1", Messages: []chat.Message{msg(1, "z")}})
	if got := s.Log("1"); len(got) != 1 || got[0].Text != "z" {
		t.Fatalf("log not replaced: %+v", got)
	}
}

func TestReduceBroadcastUsesServerCopies(t *testing.T) {
	s := Reduce(State{}, MessagesFetched{ConversationID: "1", Messages: []chat.Message{msg(1, "a")}})
	draft := chat.Draft{Sender: "You", Text: "all", Timestamp: "2024-01-02T00:00:00.000Z"}
	s = Reduce(s, Broadcast{
		ConversationIDs: []string{"1", "2"},
		Message:         draft,
		Deliveries: []chat.Delivery{
			{ConversationID: "1", Message: draft.Finalize(7, time.Time{})},
			{ConversationID: "2", Message: draft.Finalize(3, time.Time{})},
		},
	})
	if got := s.Log("1"); len(got) != 2 || got[1].ID != 7 {
		t.Fatalf("conversation 1: %+v", got)
	}
	if got := s.Log("2"); len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("conversation 2: %+v", got)
	}
}

func TestReduceBroadcastFallsBackToLocalIDs(t *testing.T) {
	s := Reduce(State{}, MessagesFetched{ConversationID: "1", Messages: []chat.Message{msg(1, "a"), msg(2, "b")}})
	draft := chat.Draft{Sender: "You", Text: "all", Timestamp: "2024-01-02T00:00:00.000Z"}
	s = Reduce(s, Broadcast{ConversationIDs: []string{"1", "2"}, Message: draft})

	one, two := s.Log("1"), s.Log("2")
	if len(one) != 3 || one[2].ID != 3 {
		t.Fatalf("conversation 1: %+v", one)
	}
	if len(two) != 1 || two[0].ID != 1 {
		t.Fatalf("conversation 2: %+v", two)
	}
	if one[2].Timestamp != two[0].Timestamp {
		t.Fatalf("timestamps differ: %q vs %q", one[2].Timestamp, two[0].Timestamp)
	}
}

func TestReduceFailureLeavesLogs(t *testing.T) {
	s := Reduce(State{}, OperationStarted{Token: "t", Kind: status.KindSend})
	s = Reduce(s, MessageSent{ConversationID: "1", Message: msg(1, "a")})
	s = Reduce(s, OperationFailed{Token: "t", Err: "boom"})

	if len(s.Log("1")) != 1 {
		t.Fatalf("logs changed on failure: %+v", s.Log("1"))
	}
	if got := s.Status.Shared(); got.Pending || got.Error != "boom" {
		t.Fatalf("unexpected status: %+v", got)
	}
}

func TestReduceCompletionResolvesToken(t *testing.T) {
	s := Reduce(State{}, OperationStarted{Token: "t", Kind: status.KindFetch})
	if !s.Status.Shared().Pending {
		t.Fatal("expected pending after start")
	}
	s = Reduce(s, MessagesFetched{Token: "t", ConversationID: "1"})
	op, ok := s.Status.Operation("t")
	if !ok || op.Status.Pending || op.Status.Error != "" {
		t.Fatalf("unexpected operation: %+v", op)
	}
	if s.Log("1") == nil {
		t.Fatal("fetched empty log should be present, not nil")
	}
}

func TestStoreSeed(t *testing.T) {
	st := New(WithSeed(chat.SeedLogs()))
	defer st.Close()

	for id, log := range chat.SeedLogs() {
		if len(st.State().Log(id)) != len(log) {
			t.Fatalf("seed %s not applied", id)
		}
	}
}

func TestStoreDispatchAppliesInOrder(t *testing.T) {
	st := New()
	defer st.Close()
	ctx := context.Background()

	var seen []int
	var mu sync.Mutex
	st.Subscribe(func(s State) {
		mu.Lock()
		seen = append(seen, len(s.Log("1")))
		mu.Unlock()
	})

	for i := 1; i <= 3; i++ {
		s, err := st.Dispatch(ctx, MessageSent{ConversationID: "1", Message: msg(i, "x")})
		if err != nil {
			t.Fatalf("dispatch: %v", err)
		}
		if len(s.Log("1")) != i {
			t.Fatalf("dispatch %d returned %d messages", i, len(s.Log("1")))
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("subscriber saw %v", seen)
	}
}

func TestStoreConcurrentDispatch(t *testing.T) {
	st := New()
	defer st.Close()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := st.Dispatch(context.Background(), MessageSent{ConversationID: "1", Message: msg(i, "x")}); err != nil {
				t.Errorf("dispatch: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(st.State().Log("1")); got != n {
		t.Fatalf("expected %d messages, got %d", n, got)
	}
}

func TestStoreClosed(t *testing.T) {
	st := New()
	st.Close()
	st.Close()

	if _, err := st.Dispatch(context.Background(), MessageSent{ConversationID: "1"}); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestReduceBroadcastSkipsCopiesAlreadyFetched(t *testing.T) {
	draft := chat.Draft{Sender: "You", Text: "all", Timestamp: "2024-01-02T00:00:00.000Z"}
	copy1 := draft.Finalize(2, time.Time{})
	s := Reduce(State{}, MessagesFetched{ConversationID: "1", Messages: []chat.Message{msg(1, "a"), copy1}})
	s = Reduce(s, Broadcast{
		ConversationIDs: []string{"1"},
		Message:         draft,
		Deliveries:      []chat.Delivery{{ConversationID: "1", Message: copy1}},
	})
	if got := s.Log("1"); len(got) != 2 {
		t.Fatalf("copy applied twice: %+v", got)
	}
}

func TestReduceBroadcastWithoutTimestampNeedsServerCopies(t *testing.T) {
	s := Reduce(State{}, OperationStarted{Token: "b", Kind: status.KindBroadcast})
	s = Reduce(s, Broadcast{Token: "b", ConversationIDs: []string{"1"}, Message: chat.Draft{Sender: "You", Text: "all"}})

	if s.Log("1") != nil {
		t.Fatalf("unstamped copy applied: %+v", s.Log("1"))
	}
	op, _ := s.Status.Operation("b")
	if op.Status.Pending || op.Status.Error != ErrUnstampedBroadcast.Error() {
		t.Fatalf("unexpected operation: %+v", op)
	}

	// Copies stamped by the server do not need a draft timestamp.
	served := msg(1, "all")
	s = Reduce(s, Broadcast{
		ConversationIDs: []string{"1"},
		Message:         chat.Draft{Sender: "You", Text: "all"},
		Deliveries:      []chat.Delivery{{ConversationID: "1", Message: served}},
	})
	if got := s.Log("1"); len(got) != 1 || got[0] != served {
		t.Fatalf("server copy not applied: %+v", got)
	}
}

func TestReduceBroadcastRepeatedTargetAppendsOnce(t *testing.T) {
	draft := chat.Draft{Sender: "You", Text: "all", Timestamp: "2024-01-02T00:00:00.000Z"}
	s := Reduce(State{}, Broadcast{ConversationIDs: []string{"1", "1"}, Message: draft})
	if got := s.Log("1"); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected one copy, got %+v", got)
	}
}
