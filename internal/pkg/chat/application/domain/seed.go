package chat

import "time"

// SeedLogs returns the logs a fresh client starts with before anything is fetched.
func SeedLogs() map[string][]Message {
	at := func(h, m int) string {
		return FormatTimestamp(time.Date(2023, time.January, 1, h, m, 0, 0, time.UTC))
	}
	return map[string][]Message{
		"1": {
			{ID: 1, Sender: "User A", Text: "Hello, how are you?", Timestamp: at(10, 0)},
			{ID: 2, Sender: "You", Text: "I'm fine, thanks!", Timestamp: at(10, 1)},
			{ID: 3, Sender: "User A", Text: "See you later.", Timestamp: at(10, 2)},
		},
		"2": {
			{ID: 1, Sender: "User B", Text: "Hey!", Timestamp: at(11, 0)},
			{ID: 2, Sender: "You", Text: "Hi!", Timestamp: at(11, 1)},
			{ID: 3, Sender: "User B", Text: "See you soon.", Timestamp: at(11, 2)},
		},
		"3": {
			{ID: 1, Sender: "Chatbot", Text: "How can I assist you?", Timestamp: at(12, 0)},
		},
	}
}
