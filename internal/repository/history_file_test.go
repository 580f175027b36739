package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"hissenet-chatbot/internal/model"
	"hissenet-chatbot/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.Init("error", "json", "")
}

func newTestRepo(t *testing.T, maxTurns int) (HistoryRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chatHistory.json")
	return NewFileHistoryRepository(path, maxTurns), path
}

func TestFileHistory_LoadMissingFile(t *testing.T) {
	repo, _ := newTestRepo(t, 5)

	messages, err := repo.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestFileHistory_AppendTurnRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t, 5)

	err := repo.AppendTurn(context.Background(), "Portföy nasıl oluşturulur?", "Portföyler menüsünden.")
	require.NoError(t, err)

	messages, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, model.ChatMessage{Role: model.RoleHuman, Content: "Portföy nasıl oluşturulur?"}, messages[0])
	assert.Equal(t, model.ChatMessage{Role: model.RoleAssistant, Content: "Portföyler menüsünden."}, messages[1])
}

func TestFileHistory_PersistedFormat(t *testing.T) {
	repo, path := newTestRepo(t, 5)

	require.NoError(t, repo.AppendTurn(context.Background(), "soru", "cevap"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []model.HistoryRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, model.HistoryRecord{Type: "human", Content: "soru"}, records[0])
	assert.Equal(t, model.HistoryRecord{Type: "ai", Content: "cevap"}, records[1])
}

func TestFileHistory_FIFOEviction(t *testing.T) {
	const maxTurns = 3
	repo, _ := newTestRepo(t, maxTurns)

	for i := 0; i < 7; i++ {
		q := fmt.Sprintf("soru-%d", i)
		a := fmt.Sprintf("cevap-%d", i)
		require.NoError(t, repo.AppendTurn(context.Background(), q, a))
	}

	messages, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, maxTurns*2)

	// The survivors are exactly the three most recent turns, oldest first.
	for i := 0; i < maxTurns; i++ {
		turn := 7 - maxTurns + i
		assert.Equal(t, fmt.Sprintf("soru-%d", turn), messages[i*2].Content)
		assert.Equal(t, fmt.Sprintf("cevap-%d", turn), messages[i*2+1].Content)
	}
}

func TestFileHistory_MalformedFileResetsEmpty(t *testing.T) {
	repo, path := newTestRepo(t, 5)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	messages, err := repo.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, messages)

	// A following append starts a fresh history instead of failing.
	require.NoError(t, repo.AppendTurn(context.Background(), "q", "a"))
	messages, err = repo.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestFileHistory_LoadWithoutMutationLeavesFileUntouched(t *testing.T) {
	repo, path := newTestRepo(t, 5)
	require.NoError(t, repo.AppendTurn(context.Background(), "q", "a"))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = repo.Load(context.Background())
	require.NoError(t, err)
	_, err = repo.Load(context.Background())
	require.NoError(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFileHistory_ConcurrentAppends(t *testing.T) {
	repo, _ := newTestRepo(t, 10)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = repo.AppendTurn(context.Background(), "soru-a", "cevap-a")
	}()
	go func() {
		defer wg.Done()
		_ = repo.AppendTurn(context.Background(), "soru-b", "cevap-b")
	}()
	wg.Wait()

	messages, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 4, "both turns must survive in some serialized order")

	// Each turn must be intact: a human message immediately followed by
	// its assistant message.
	seen := map[string]bool{}
	for i := 0; i < len(messages); i += 2 {
		assert.Equal(t, model.RoleHuman, messages[i].Role)
		assert.Equal(t, model.RoleAssistant, messages[i+1].Role)
		seen[messages[i].Content] = true
	}
	assert.True(t, seen["soru-a"])
	assert.True(t, seen["soru-b"])
}
