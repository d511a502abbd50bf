package store

import (
	"errors"
	"time"

	chat "go-chatsync/internal/pkg/chat/application/domain"
	"go-chatsync/internal/pkg/chat/client/status"
)

// State is the client-side view of the chat: the known conversations, one
// ordered log per conversation and the lifecycle of issued operations.
// States are never mutated in place; Reduce returns a new one.
type State struct {
	Conversations []chat.Conversation
	Logs          map[string][]chat.Message
	Status        status.Board
}

// Log returns the log of conversationID (nil when the conversation was never touched).
func (s State) Log(conversationID string) []chat.Message {
	return s.Logs[conversationID]
}

// ErrUnstampedBroadcast fails a Broadcast event that would need a client-side
// copy of a message without a timestamp. Such an event leaves the logs untouched.
var ErrUnstampedBroadcast = errors.New("store: broadcast message has no timestamp")

// Event is a state transition applied by Reduce.
type Event interface {
	isEvent()
}

// OperationStarted marks an operation as in flight.
type OperationStarted struct {
	Token status.Token
	Kind  status.Kind
}

// OperationFailed resolves an operation with an error message and leaves the logs untouched.
type OperationFailed struct {
	Token status.Token
	Err   string
}

// ConversationsListed replaces the known conversation catalog.
type ConversationsListed struct {
	Token         status.Token
	Conversations []chat.Conversation
}

// MessagesFetched replaces a conversation's log wholesale.
type MessagesFetched struct {
	Token          status.Token
	ConversationID string
	Messages       []chat.Message
}

// MessageSent appends a server-assigned message.
type MessageSent struct {
	Token          status.Token
	ConversationID string
	Message        chat.Message
}

// Broadcast appends one copy of Message to each distinct conversation in
// ConversationIDs. A copy found in Deliveries is applied as returned by the
// server and skipped when the log already holds it; any other target gets a
// client-side id of len(log)+1 and the Message timestamp, which must then be set.
type Broadcast struct {
	Token           status.Token
	ConversationIDs []string
	Message         chat.Draft
	Deliveries      []chat.Delivery
}

func (OperationStarted) isEvent()    {}
func (OperationFailed) isEvent()     {}
func (ConversationsListed) isEvent() {}
func (MessagesFetched) isEvent()     {}
func (MessageSent) isEvent()         {}
func (Broadcast) isEvent()           {}

// Reduce applies ev to s. Completion events carrying a Token also resolve
// that operation as succeeded; an empty Token leaves the status alone.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case OperationStarted:
		s.Status = s.Status.Begin(e.Token, e.Kind)
		return s

	case OperationFailed:
		s.Status = s.Status.Fail(e.Token, e.Err)
		return s

	case ConversationsListed:
		convs := make([]chat.Conversation, len(e.Conversations))
		copy(convs, e.Conversations)
		s.Conversations = convs
		return succeed(s, e.Token)

	case MessagesFetched:
		msgs := make([]chat.Message, len(e.Messages))
		copy(msgs, e.Messages)
		logs := cloneLogs(s.Logs, 1)
		logs[e.ConversationID] = msgs
		s.Logs = logs
		return succeed(s, e.Token)

	case MessageSent:
		logs := cloneLogs(s.Logs, 1)
		logs[e.ConversationID] = appendCopy(logs[e.ConversationID], e.Message)
		s.Logs = logs
		return succeed(s, e.Token)

	case Broadcast:
		delivered := make(map[string]chat.Message, len(e.Deliveries))
		for _, d := range e.Deliveries {
			delivered[d.ConversationID] = d.Message
		}
		ids := chat.UniqueIDs(e.ConversationIDs)
		if e.Message.Timestamp == "" {
			for _, id := range ids {
				if _, ok := delivered[id]; !ok {
					if e.Token != "" {
						s.Status = s.Status.Fail(e.Token, ErrUnstampedBroadcast.Error())
					}
					return s
				}
			}
		}
		logs := cloneLogs(s.Logs, len(ids))
		for _, id := range ids {
			msg, ok := delivered[id]
			if !ok {
				msg = e.Message.Finalize(chat.NextID(logs[id]), time.Time{})
			} else if present(logs[id], msg) {
				continue
			}
			logs[id] = appendCopy(logs[id], msg)
		}
		s.Logs = logs
		return succeed(s, e.Token)

	default:
		return s
	}
}

func succeed(s State, tok status.Token) State {
	if tok != "" {
		s.Status = s.Status.Succeed(tok)
	}
	return s
}

func cloneLogs(logs map[string][]chat.Message, extra int) map[string][]chat.Message {
	out := make(map[string][]chat.Message, len(logs)+extra)
	for k, v := range logs {
		out[k] = v
	}
	return out
}

// present reports whether a fetch already brought m into log at its id.
func present(log []chat.Message, m chat.Message) bool {
	return m.ID >= 1 && m.ID <= len(log) && log[m.ID-1] == m
}

// appendCopy never writes into the backing array of log, which older States may still share.
func appendCopy(log []chat.Message, m chat.Message) []chat.Message {
	out := make([]chat.Message, len(log), len(log)+1)
	copy(out, log)
	return append(out, m)
}
