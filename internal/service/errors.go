// Package service contains the business logic of the QA pipeline.
package service

import "errors"

// Failure kinds of the pipeline. Remote-call errors are converted into
// these at the component that makes the call; the orchestrator only ever
// sees this taxonomy and decides degradation per kind.
var (
	// ErrEmbeddingUnavailable: the embedding provider is unreachable or
	// rejected the call. The orchestrator degrades to zero passages.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrRetrievalUnavailable: the knowledge store is unreachable.
	// Degraded the same way as ErrEmbeddingUnavailable.
	ErrRetrievalUnavailable = errors.New("knowledge store unavailable")

	// ErrRetrievalQuery: the knowledge store rejected the search request.
	ErrRetrievalQuery = errors.New("knowledge store query failed")

	// ErrGenerationUnavailable: the generation model is unreachable or
	// timed out. The orchestrator answers with the fixed apology text.
	ErrGenerationUnavailable = errors.New("generation model unavailable")

	// ErrHistoryPersistence: the conversation log could not be written.
	// Logged only, never surfaced to the user.
	ErrHistoryPersistence = errors.New("history persistence failed")
)
