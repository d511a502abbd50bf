package store

import (
	"context"
	"errors"
	"sync"

	"github.com/op/go-logging"

	chat "go-chatsync/internal/pkg/chat/application/domain"
)

var log = logging.MustGetLogger("store")

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = errors.New("store: closed")

// Store owns the client State. Every transition runs on a single goroutine in
// the order events are accepted, so no two transitions ever interleave.
type Store struct {
	events chan envelope
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once

	mu          sync.RWMutex
	state       State
	subscribers []func(State)
}

type envelope struct {
	ev      Event
	applied chan State
}

// Option configures a Store.
type Option func(*State)

// WithSeed pre-populates conversation logs.
func WithSeed(logs map[string][]chat.Message) Option {
	return func(s *State) {
		for id, msgs := range logs {
			cp := make([]chat.Message, len(msgs))
			copy(cp, msgs)
			s.Logs[id] = cp
		}
	}
}

// WithConversations sets the initially known conversation catalog.
func WithConversations(convs []chat.Conversation) Option {
	return func(s *State) {
		s.Conversations = make([]chat.Conversation, len(convs))
		copy(s.Conversations, convs)
	}
}

// New starts the event loop of a Store.
func New(opts ...Option) *Store {
	initial := State{Logs: make(map[string][]chat.Message)}
	for _, opt := range opts {
		opt(&initial)
	}
	s := &Store{
		events: make(chan envelope),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		state:  initial,
	}
	go s.loop()
	return s
}

// Dispatch hands ev to the event loop and returns the state right after it was applied.
// Once accepted, an event is applied even if ctx ends while waiting.
func (s *Store) Dispatch(ctx context.Context, ev Event) (State, error) {
	env := envelope{ev: ev, applied: make(chan State, 1)}
	select {
	case s.events <- env:
	case <-s.quit:
		return State{}, ErrClosed
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
	select {
	case st := <-env.applied:
		return st, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// State returns the latest state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to observe every new state. fn runs on the event loop
// and must not call Dispatch.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Close stops the event loop. Events not yet accepted are rejected with ErrClosed.
func (s *Store) Close() {
	s.once.Do(func() { close(s.quit) })
	<-s.done
}

func (s *Store) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case env := <-s.events:
			s.mu.Lock()
			next := Reduce(s.state, env.ev)
			s.state = next
			subs := s.subscribers
			s.mu.Unlock()

			log.Debugf("applied %T", env.ev)
			for _, fn := range subs {
				fn(next)
			}
			env.applied <- next
		}
	}
}
