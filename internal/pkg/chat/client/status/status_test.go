package status

import (
	"encoding/json"
	"testing"
)

func TestBoard_Lifecycle(t *testing.T) {
	var b Board
	if b.Shared().Pending || b.AnyPending() {
		t.Fatal("Zero board must be idle")
	}

	b = b.Begin("a", KindSend)
	if !b.Shared().Pending || !b.AnyPending() {
		t.Error("Expected pending after Begin")
	}

	b = b.Succeed("a")
	if b.Shared() != (Status{}) || b.AnyPending() {
		t.Errorf("Expected idle after Succeed, got %+v", b.Shared())
	}

	b = b.Begin("b", KindFetch)
	b = b.Fail("b", "network down")
	if b.Shared() != (Status{Error: "network down"}) {
		t.Errorf("Unexpected shared status %+v", b.Shared())
	}
	op, ok := b.Operation("b")
	if !ok || op.Kind != KindFetch || op.Status.Error != "network down" || op.Status.Pending {
		t.Errorf("Unexpected operation %+v", op)
	}

	// a new operation clears the shared error
	b = b.Begin("c", KindBroadcast)
	if b.Shared().Error != "" {
		t.Error("Begin must clear the shared error")
	}
}

func TestBoard_SharedStatusIsLastWriteWins(t *testing.T) {
	var b Board
	b = b.Begin("slow", KindSend)
	b = b.Begin("fast", KindSend)
	b = b.Succeed("fast")

	if b.Shared().Pending {
		t.Error("Shared status must be stomped to pending=false by the first resolution")
	}
	if !b.AnyPending() || b.Pending() != 1 {
		t.Error("Aggregate view must still see the slow operation")
	}
	if op, _ := b.Operation("slow"); !op.Status.Pending {
		t.Error("Per-operation status of the slow operation must stay pending")
	}
}

func TestBoard_IsImmutable(t *testing.T) {
	var b Board
	before := b.Begin("a", KindSend)
	_ = before.Succeed("a")
	if op, _ := before.Operation("a"); !op.Status.Pending {
		t.Error("Succeed mutated the previous board")
	}
}

func TestBoard_Forget(t *testing.T) {
	var b Board
	b = b.Begin("a", KindSend).Begin("b", KindSend).Succeed("a")
	b = b.Forget("a").Forget("b")
	if _, ok := b.Operation("a"); ok {
		t.Error("Resolved token should be forgotten")
	}
	if _, ok := b.Operation("b"); !ok {
		t.Error("Pending token must not be forgotten")
	}
}

func TestStatus_JSON(t *testing.T) {
	b, _ := json.Marshal(Status{Pending: true})
	if string(b) != `{"pending":true,"error":null}` {
		t.Errorf("Unexpected JSON %s", b)
	}
	b, _ = json.Marshal(Status{Error: "boom"})
	if string(b) != `{"pending":false,"error":"boom"}` {
		t.Errorf("Unexpected JSON %s", b)
	}
	var s Status
	if err := json.Unmarshal([]byte(`{"pending":false,"error":"x"}`), &s); err != nil || s.Error != "x" {
		t.Errorf("Unexpected decode %+v %v", s, err)
	}
}
