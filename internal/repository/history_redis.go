package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"hissenet-chatbot/internal/model"
	"hissenet-chatbot/pkg/log"

	"github.com/go-redis/redis/v8"
)

// historyKV is the slice of the redis API the history store needs.
// *redis.Client satisfies it.
type historyKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// redisHistoryRepository keeps the conversation as one JSON-marshalled
// message slice under a single key, rewritten on every turn.
type redisHistoryRepository struct {
	redisClient historyKV
	key         string
	maxTurns    int
	mu          sync.Mutex
}

// NewRedisHistoryRepository creates a Redis-backed HistoryRepository.
func NewRedisHistoryRepository(redisClient historyKV, key string, maxTurns int) HistoryRepository {
	if key == "" {
		key = "chatbot:history"
	}
	return &redisHistoryRepository{
		redisClient: redisClient,
		key:         key,
		maxTurns:    maxTurns,
	}
}

func (r *redisHistoryRepository) Load(ctx context.Context) ([]model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx), nil
}

func (r *redisHistoryRepository) load(ctx context.Context) []model.ChatMessage {
	jsonData, err := r.redisClient.Get(ctx, r.key).Result()
	if err == redis.Nil {
		return []model.ChatMessage{}
	}
	if err != nil {
		log.Warnf("[HistoryRepository] failed to read history from redis: %v", err)
		return []model.ChatMessage{}
	}
	var messages []model.ChatMessage
	if err := json.Unmarshal([]byte(jsonData), &messages); err != nil {
		log.Warnf("[HistoryRepository] history key '%s' is malformed, starting empty: %v", r.key, err)
		return []model.ChatMessage{}
	}
	return messages
}

func (r *redisHistoryRepository) AppendTurn(ctx context.Context, question, answer string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages := r.load(ctx)
	messages = append(messages,
		model.ChatMessage{Role: model.RoleHuman, Content: question},
		model.ChatMessage{Role: model.RoleAssistant, Content: answer},
	)
	messages = capMessages(messages, r.maxTurns)

	jsonData, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHistoryWrite, err)
	}
	if err := r.redisClient.Set(ctx, r.key, jsonData, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrHistoryWrite, err)
	}
	return nil
}
