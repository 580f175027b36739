package repository

import (
	"context"

	"hissenet-chatbot/internal/model"
)

// HistoryRepository is the bounded, write-through conversation log.
//
// AppendTurn is the only mutator. Implementations serialize concurrent
// AppendTurn calls so the persisted sequence never interleaves partial
// writes, and they flush the full sequence synchronously on every call.
// Load never fails on missing or corrupt state: it returns an empty
// history instead, so a damaged log is discarded rather than fatal.
type HistoryRepository interface {
	Load(ctx context.Context) ([]model.ChatMessage, error)
	AppendTurn(ctx context.Context, question, answer string) error
}

// capMessages trims the message sequence to at most 2*maxTurns entries,
// dropping the oldest first.
func capMessages(messages []model.ChatMessage, maxTurns int) []model.ChatMessage {
	if maxTurns <= 0 {
		return messages
	}
	max := maxTurns * 2
	if len(messages) > max {
		messages = messages[len(messages)-max:]
	}
	return messages
}
