package chat

import (
	"time"
)

// TimestampLayout is the ISO-8601 form used for every stored timestamp (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// MediaType represents the kind of attachment carried by a message
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Message is an immutable log entry in a conversation.
// ID is unique only within the owning conversation's log.
type Message struct {
	ID        int       `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp string    `json:"timestamp"`
	MediaURL  string    `json:"mediaUrl,omitempty"`
	MediaType MediaType `json:"mediaType,omitempty"`
}

// Draft is a message that has not been appended to a log yet, so it has no ID.
// Timestamp is optional; when empty the appending party stamps it.
type Draft struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp string    `json:"timestamp,omitempty"`
	MediaURL  string    `json:"mediaUrl,omitempty"`
	MediaType MediaType `json:"mediaType,omitempty"`
}

// Finalize assigns the identity of the message. An explicit draft timestamp is kept as-is.
func (d Draft) Finalize(id int, now time.Time) Message {
	ts := d.Timestamp
	if ts == "" {
		ts = FormatTimestamp(now)
	}
	return Message{
		ID:        id,
		Sender:    d.Sender,
		Text:      d.Text,
		Timestamp: ts,
		MediaURL:  d.MediaURL,
		MediaType: d.MediaType,
	}
}

// Draft strips the identity of m.
func (m Message) Draft() Draft {
	return Draft{
		Sender:    m.Sender,
		Text:      m.Text,
		Timestamp: m.Timestamp,
		MediaURL:  m.MediaURL,
		MediaType: m.MediaType,
	}
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NextID returns the identifier the next append into log must carry.
func NextID(log []Message) int {
	return len(log) + 1
}
