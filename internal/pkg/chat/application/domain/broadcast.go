package chat

// Delivery is the copy of a broadcast message appended to one conversation.
type Delivery struct {
	ConversationID string  `json:"chatId"`
	Message        Message `json:"message"`
}

// BroadcastReceipt is the success marker returned for a broadcast.
// Deliveries lists the server-assigned copies, one per target that was appended.
type BroadcastReceipt struct {
	ID         string     `json:"broadcastId"`
	Success    bool       `json:"success"`
	Deliveries []Delivery `json:"deliveries,omitempty"`
}

// Delivered returns the copy appended to conversationID, if any.
func (r BroadcastReceipt) Delivered(conversationID string) (Message, bool) {
	for _, d := range r.Deliveries {
		if d.ConversationID == conversationID {
			return d.Message, true
		}
	}
	return Message{}, false
}
