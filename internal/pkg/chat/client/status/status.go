// Package status tracks the lifecycle of asynchronous operations issued
// against the chat backend.
//
// Two views are kept side by side. The shared Status is last-write-wins across
// all operations, so an operation that resolves early clears pending even while
// a later one is still outstanding. Per-operation entries keyed by Token do not
// interfere with each other and back the AnyPending aggregate.
package status

import (
	"encoding/json"
)

// Kind names the operation a token was issued for.
type Kind string

const (
	KindListConversations Kind = "listConversations"
	KindFetch             Kind = "fetch"
	KindSend              Kind = "send"
	KindBroadcast         Kind = "broadcast"
)

// Token is the opaque identity of one issued operation.
type Token string

// Status is the observable pending/error pair. An empty Error means no error.
type Status struct {
	Pending bool
	Error   string
}

type wireStatus struct {
	Pending bool    `json:"pending"`
	Error   *string `json:"error"`
}

// MarshalJSON renders {"pending": bool, "error": string|null}.
func (s Status) MarshalJSON() ([]byte, error) {
	w := wireStatus{Pending: s.Pending}
	if s.Error != "" {
		w.Error = &s.Error
	}
	return json.Marshal(w)
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var w wireStatus
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	s.Pending = w.Pending
	s.Error = ""
	if w.Error != nil {
		s.Error = *w.Error
	}
	return nil
}

// Operation is the per-token view of one operation.
type Operation struct {
	Kind   Kind
	Status Status
}

// Board is an immutable value; every transition returns a new Board.
type Board struct {
	shared Status
	ops    map[Token]Operation
}

// Shared returns the last-write-wins status.
func (b Board) Shared() Status {
	return b.shared
}

// Operation returns the status of the operation issued under tok.
func (b Board) Operation(tok Token) (Operation, bool) {
	op, ok := b.ops[tok]
	return op, ok
}

// AnyPending reports whether any issued operation has not resolved yet.
func (b Board) AnyPending() bool {
	for _, op := range b.ops {
		if op.Status.Pending {
			return true
		}
	}
	return false
}

// Pending returns the number of unresolved operations.
func (b Board) Pending() int {
	n := 0
	for _, op := range b.ops {
		if op.Status.Pending {
			n++
		}
	}
	return n
}

// Begin marks tok as in flight: idle -> pending. The shared error is cleared.
func (b Board) Begin(tok Token, kind Kind) Board {
	next := b.with(tok, Operation{Kind: kind, Status: Status{Pending: true}})
	next.shared = Status{Pending: true}
	return next
}

// Succeed resolves tok: pending -> success.
func (b Board) Succeed(tok Token) Board {
	op := b.ops[tok]
	op.Status = Status{}
	next := b.with(tok, op)
	next.shared = Status{}
	return next
}

// Fail resolves tok with a human-readable message: pending -> failed.
func (b Board) Fail(tok Token, msg string) Board {
	if msg == "" {
		msg = "unknown error"
	}
	op := b.ops[tok]
	op.Status = Status{Error: msg}
	next := b.with(tok, op)
	next.shared = Status{Error: msg}
	return next
}

// Forget drops the per-operation entry of a resolved tok. Pending tokens are kept.
func (b Board) Forget(tok Token) Board {
	op, ok := b.ops[tok]
	if !ok || op.Status.Pending {
		return b
	}
	next := Board{shared: b.shared, ops: make(map[Token]Operation, len(b.ops))}
	for k, v := range b.ops {
		if k != tok {
			next.ops[k] = v
		}
	}
	return next
}

func (b Board) with(tok Token, op Operation) Board {
	next := Board{shared: b.shared, ops: make(map[Token]Operation, len(b.ops)+1)}
	for k, v := range b.ops {
		next.ops[k] = v
	}
	next.ops[tok] = op
	return next
}
