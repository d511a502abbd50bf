package chat

import (
	"testing"
	"time"
)

func TestDraft_FinalizeStampsMissingTimestamp(t *testing.T) {
	now := time.Date(2024, time.March, 2, 9, 30, 15, 123456789, time.FixedZone("X", 3600))
	m := Draft{Sender: "You", Text: "hi"}.Finalize(4, now)
	if m.ID != 4 {
		t.Errorf("Expected id 4 got %d", m.ID)
	}
	if m.Timestamp != "2024-03-02T08:30:15.123Z" {
		t.Errorf("Unexpected timestamp %s", m.Timestamp)
	}
}

func TestDraft_FinalizeKeepsExplicitTimestamp(t *testing.T) {
	m := Draft{Sender: "You", Text: "hi", Timestamp: "2020-01-01T00:00:00.000Z"}.Finalize(1, time.Now())
	if m.Timestamp != "2020-01-01T00:00:00.000Z" {
		t.Errorf("Timestamp was overwritten: %s", m.Timestamp)
	}
}

func TestMessage_DraftRoundTrip(t *testing.T) {
	m := Message{ID: 7, Sender: "A", Text: "pic", Timestamp: "t", MediaURL: "u", MediaType: MediaTypeImage}
	if got := m.Draft().Finalize(7, time.Now()); got != m {
		t.Errorf("Expected %+v got %+v", m, got)
	}
}

func TestCatalog_SnapshotIsACopy(t *testing.T) {
	c := DefaultCatalog()
	snap := c.Snapshot()
	c[0].Name = "changed"
	if snap[0].Name != "General Chat" {
		t.Error("Snapshot shares storage with the catalog")
	}
	ids := IDs(snap)
	if len(ids) != 3 || ids[0] != "1" || ids[2] != "3" {
		t.Errorf("Unexpected ids %v", ids)
	}
}

func TestBroadcastReceipt_Delivered(t *testing.T) {
	r := BroadcastReceipt{Success: true, Deliveries: []Delivery{{ConversationID: "2", Message: Message{ID: 5}}}}
	if m, ok := r.Delivered("2"); !ok || m.ID != 5 {
		t.Errorf("Expected delivery with id 5, got %+v %v", m, ok)
	}
	if _, ok := r.Delivered("1"); ok {
		t.Error("Unexpected delivery for conversation 1")
	}
}

func TestUniqueIDs(t *testing.T) {
	got := UniqueIDs([]string{"2", "1", "2", "3", "1"})
	want := []string{"2", "1", "3"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v got %v", want, got)
		}
	}
}
