package usecase

import "errors"

var (
	// ErrPersistence indicates an infrastructure/repository failure inside a use case
	ErrPersistence = errors.New("chat use case persistence error")
	// ErrInvalidInput indicates a request the use case refuses before touching storage
	ErrInvalidInput = errors.New("chat use case invalid input")
	// ErrPartialBroadcast indicates that at least one target of a broadcast was not appended.
	// Targets appended before the failure are kept.
	ErrPartialBroadcast = errors.New("broadcast failed for some conversations")
)
