package chat

import "errors"

// ErrNoTargets is returned when a broadcast names no conversation.
var ErrNoTargets = errors.New("chat: broadcast has no target conversations")
