package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"hissenet-chatbot/internal/model"
	"hissenet-chatbot/pkg/log"
)

// fileHistoryRepository persists the conversation as a human-readable JSON
// array of {"type": "human"|"ai", "content": ...} records. The file is
// fully rewritten on every turn.
type fileHistoryRepository struct {
	path     string
	maxTurns int
	mu       sync.Mutex
}

// NewFileHistoryRepository creates a HistoryRepository backed by a JSON
// file at path, capped at maxTurns turns.
func NewFileHistoryRepository(path string, maxTurns int) HistoryRepository {
	return &fileHistoryRepository{path: path, maxTurns: maxTurns}
}

func (r *fileHistoryRepository) Load(ctx context.Context) ([]model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(), nil
}

// load reads the persisted history. Missing file means no history yet;
// a file that cannot be parsed is discarded with a warning.
func (r *fileHistoryRepository) load() []model.ChatMessage {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("[HistoryRepository] failed to read history file '%s': %v", r.path, err)
		}
		return []model.ChatMessage{}
	}

	var records []model.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warnf("[HistoryRepository] history file '%s' is malformed, starting empty: %v", r.path, err)
		return []model.ChatMessage{}
	}

	messages := make([]model.ChatMessage, 0, len(records))
	for _, rec := range records {
		msg, ok := model.MessageFromRecord(rec)
		if !ok {
			log.Warnf("[HistoryRepository] skipping history record with unknown type '%s'", rec.Type)
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}

func (r *fileHistoryRepository) AppendTurn(ctx context.Context, question, answer string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages := r.load()
	messages = append(messages,
		model.ChatMessage{Role: model.RoleHuman, Content: question},
		model.ChatMessage{Role: model.RoleAssistant, Content: answer},
	)
	messages = capMessages(messages, r.maxTurns)

	records := make([]model.HistoryRecord, 0, len(messages))
	for _, msg := range messages {
		records = append(records, msg.ToRecord())
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHistoryWrite, err)
	}

	// Write to a temp file in the same directory, then rename, so a crash
	// mid-write never leaves a truncated history behind.
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHistoryWrite, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrHistoryWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrHistoryWrite, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrHistoryWrite, err)
	}
	return nil
}
