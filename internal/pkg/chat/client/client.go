// Package client drives the chat backend from the client side. Every call
// is tracked in the store's status board and completes asynchronously: the
// call returns as soon as the operation is marked pending, and the result is
// applied to the store when the backend answers, in completion order.
package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/op/go-logging"

	chat "go-chatsync/internal/pkg/chat/application/domain"
	"go-chatsync/internal/pkg/chat/client/status"
	"go-chatsync/internal/pkg/chat/client/store"
	"go-chatsync/internal/pkg/chat/remote"
)

var log = logging.MustGetLogger("client")

// ErrNotBroadcast is returned when RetryBroadcast is given another kind of operation.
var ErrNotBroadcast = errors.New("client: operation is not a broadcast")

// Client issues tracked operations against a remote.Service and folds their
// results into a store.Store.
type Client struct {
	svc   remote.Service
	store *store.Store

	// Now stamps broadcast drafts at issue time.
	Now func() time.Time

	wg sync.WaitGroup
}

func New(svc remote.Service, st *store.Store) *Client {
	return &Client{svc: svc, store: st, Now: time.Now}
}

// Store returns the store the client writes into.
func (c *Client) Store() *store.Store {
	return c.store
}

// LoadConversations fetches the conversation catalog.
func (c *Client) LoadConversations(ctx context.Context) *Operation {
	return c.issue(ctx, status.KindListConversations, nil, func(ctx context.Context, tok status.Token) (result, error) {
		convs, err := c.svc.ListConversations(ctx)
		if err != nil {
			return result{}, err
		}
		return result{event: store.ConversationsListed{Token: tok, Conversations: convs}}, nil
	})
}

// FetchMessages replaces the local log of conversationID with the backend's.
func (c *Client) FetchMessages(ctx context.Context, conversationID string) *Operation {
	return c.issue(ctx, status.KindFetch, nil, func(ctx context.Context, tok status.Token) (result, error) {
		msgs, err := c.svc.ListMessages(ctx, conversationID)
		if err != nil {
			return result{}, err
		}
		return result{event: store.MessagesFetched{Token: tok, ConversationID: conversationID, Messages: msgs}}, nil
	})
}

// SendMessage appends draft to conversationID. The local log grows only once
// the backend has assigned the message its id.
func (c *Client) SendMessage(ctx context.Context, conversationID string, draft chat.Draft) *Operation {
	return c.issue(ctx, status.KindSend, nil, func(ctx context.Context, tok status.Token) (result, error) {
		msg, err := c.svc.SendMessage(ctx, conversationID, draft)
		if err != nil {
			return result{}, err
		}
		return result{event: store.MessageSent{Token: tok, ConversationID: conversationID, Message: msg}}, nil
	})
}

// Broadcast sends draft to every conversation known at the time of the call.
// Conversations that appear later are not targeted.
func (c *Client) Broadcast(ctx context.Context, draft chat.Draft) *Operation {
	return c.BroadcastTo(ctx, chat.IDs(c.store.State().Conversations), draft)
}

// BroadcastTo sends draft to each of conversationIDs, once per distinct id.
// The draft is stamped once here so every copy carries the same timestamp.
func (c *Client) BroadcastTo(ctx context.Context, conversationIDs []string, draft chat.Draft) *Operation {
	if draft.Timestamp == "" {
		draft.Timestamp = chat.FormatTimestamp(c.Now())
	}
	return c.broadcast(ctx, remote.BroadcastRequest{
		ID:              uuid.NewString(),
		ConversationIDs: chat.UniqueIDs(conversationIDs),
		Message:         draft,
	})
}

// RetryBroadcast re-issues a broadcast under the same broadcast id and
// timestamp. Conversations an earlier attempt already reached are not
// appended again; their existing copies come back in the receipt.
func (c *Client) RetryBroadcast(ctx context.Context, prev *Operation) *Operation {
	if prev == nil || prev.request == nil {
		return resolved(status.KindBroadcast, ErrNotBroadcast)
	}
	req := *prev.request
	req.ConversationIDs = append([]string(nil), prev.request.ConversationIDs...)
	return c.broadcast(ctx, req)
}

func (c *Client) broadcast(ctx context.Context, req remote.BroadcastRequest) *Operation {
	return c.issue(ctx, status.KindBroadcast, &req, func(ctx context.Context, tok status.Token) (result, error) {
		receipt, err := c.svc.Broadcast(ctx, req)
		if err != nil {
			// targets that landed stay out of the local logs until a retry succeeds
			return result{receipt: receipt}, err
		}
		if receipt == nil {
			receipt = &chat.BroadcastReceipt{ID: req.ID, Success: true}
		}
		return result{
			event: store.Broadcast{
				Token:           tok,
				ConversationIDs: req.ConversationIDs,
				Message:         req.Message,
				Deliveries:      receipt.Deliveries,
			},
			receipt: receipt,
		}, nil
	})
}

// Wait blocks until every operation issued so far has resolved.
func (c *Client) Wait() {
	c.wg.Wait()
}

type result struct {
	event   store.Event
	receipt *chat.BroadcastReceipt
}

type call func(ctx context.Context, tok status.Token) (result, error)

// issue marks the operation pending before returning, then completes it on
// its own goroutine. Cancelling ctx does not abort the operation: once the
// pending mark is applied, a completion event always follows.
func (c *Client) issue(ctx context.Context, kind status.Kind, req *remote.BroadcastRequest, fn call) *Operation {
	op := &Operation{
		Token:   status.Token(uuid.NewString()),
		Kind:    kind,
		request: req,
		done:    make(chan struct{}),
	}
	runCtx := context.WithoutCancel(ctx)
	if _, err := c.store.Dispatch(runCtx, store.OperationStarted{Token: op.Token, Kind: kind}); err != nil {
		// only a closed store refuses events, so nothing was marked pending
		op.resolve(err, nil)
		return op
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		res, err := fn(runCtx, op.Token)
		ev := res.event
		if err != nil {
			log.Warningf("%s %s failed: %v", kind, op.Token, err)
			ev = store.OperationFailed{Token: op.Token, Err: err.Error()}
		}
		if _, derr := c.store.Dispatch(runCtx, ev); derr != nil {
			log.Errorf("%s %s: result dropped: %v", kind, op.Token, derr)
			if err == nil {
				err = derr
			}
		}
		op.resolve(err, res.receipt)
	}()
	return op
}
