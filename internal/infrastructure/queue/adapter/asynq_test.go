package adapter

import (
	"reflect"
	"testing"
	"time"

	"go-chatsync/internal/infrastructure/queue/port"
)

func TestParseQueueWeights(t *testing.T) {
	got := parseQueueWeights(" chat=6, default=x ,=3,low")
	want := map[string]int{"chat": 6, "default": 1, "low": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v got %v", want, got)
	}
	if len(parseQueueWeights("")) != 0 {
		t.Error("Expected no queues for an empty string")
	}
}

func TestToAsynqOptions(t *testing.T) {
	if toAsynqOptions(nil) != nil {
		t.Error("Expected nil options")
	}
	opts := toAsynqOptions([]port.EnqueueOption{{Queue: ChatQueue, MaxRetry: 3, ProcessIn: time.Second}})
	if len(opts) != 3 {
		t.Errorf("Expected 3 options got %d", len(opts))
	}
}

func TestNewAsynqClient_RequiresURL(t *testing.T) {
	if _, err := NewAsynqClient(""); err == nil {
		t.Error("Expected an error without REDIS_URL")
	}
	if _, err := NewAsynqServer("", 0, ""); err == nil {
		t.Error("Expected an error without REDIS_URL")
	}
}
