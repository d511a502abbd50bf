package client

import (
	"context"

	chat "go-chatsync/internal/pkg/chat/application/domain"
	"go-chatsync/internal/pkg/chat/client/status"
	"go-chatsync/internal/pkg/chat/remote"
)

// Operation is the handle of one issued call. It resolves exactly once, after
// its result has been applied to the store.
type Operation struct {
	Token status.Token
	Kind  status.Kind

	request *remote.BroadcastRequest
	done    chan struct{}
	err     error
	receipt *chat.BroadcastReceipt
}

func resolved(kind status.Kind, err error) *Operation {
	op := &Operation{Kind: kind, done: make(chan struct{})}
	op.resolve(err, nil)
	return op
}

func (o *Operation) resolve(err error, receipt *chat.BroadcastReceipt) {
	o.err = err
	o.receipt = receipt
	close(o.done)
}

// Done is closed once the operation has resolved.
func (o *Operation) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the operation resolves and returns its error.
func (o *Operation) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the error of a resolved operation, nil while it is pending.
func (o *Operation) Err() error {
	select {
	case <-o.done:
		return o.err
	default:
		return nil
	}
}

// Receipt returns the broadcast receipt, if any. A failed broadcast may still
// carry a receipt listing the conversations that were appended.
func (o *Operation) Receipt() *chat.BroadcastReceipt {
	select {
	case <-o.done:
		return o.receipt
	default:
		return nil
	}
}

// BroadcastID returns the id shared by every attempt of a broadcast.
func (o *Operation) BroadcastID() string {
	if o.request == nil {
		return ""
	}
	return o.request.ID
}
