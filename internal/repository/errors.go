// Package repository provides the data access layer.
package repository

import "errors"

// Sentinel errors returned by the repositories. Callers distinguish them
// with errors.Is; the services map them onto the user-facing failure kinds.
var (
	// ErrStoreUnavailable marks connectivity or server-side failures of
	// the knowledge store.
	ErrStoreUnavailable = errors.New("knowledge store unavailable")

	// ErrQueryMalformed marks a search request the store rejected.
	ErrQueryMalformed = errors.New("knowledge store rejected the query")

	// ErrHistoryWrite marks a failed persistence of the conversation
	// history.
	ErrHistoryWrite = errors.New("failed to persist conversation history")
)
