package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
server:
  port: "8000"
  mode: "release"
log:
  level: "info"
  format: "json"
elasticsearch:
  addresses: "http://localhost:9200"
  index_name: "knowledge_base"
  timeout_seconds: 10
embedding:
  model: "gemini-embedding-001"
  dimensions: 3072
llm:
  model: "gemini-2.5-flash"
  generation:
    temperature: 0.5
  prompt:
    no_result_text: "Bu konuda elimde bilgi bulunmuyor."
chat:
  score_threshold: 0.3
  num_candidates: 100
  result_limit: 3
  max_turns: 5
  history:
    backend: "file"
    path: "./chatHistory.json"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInit_LoadsAllSections(t *testing.T) {
	Init(writeConfig(t, testYAML))

	assert.Equal(t, "8000", Conf.Server.Port)
	assert.Equal(t, "knowledge_base", Conf.Elasticsearch.IndexName)
	assert.Equal(t, 10, Conf.Elasticsearch.TimeoutSeconds)
	assert.Equal(t, "gemini-embedding-001", Conf.Embedding.Model)
	assert.Equal(t, 3072, Conf.Embedding.Dimensions)
	assert.Equal(t, 0.5, Conf.LLM.Generation.Temperature)
	assert.Equal(t, 0.3, Conf.Chat.ScoreThreshold)
	assert.Equal(t, 100, Conf.Chat.NumCandidates)
	assert.Equal(t, 3, Conf.Chat.ResultLimit)
	assert.Equal(t, 5, Conf.Chat.MaxTurns)
	assert.Equal(t, "file", Conf.Chat.History.Backend)
}

func TestInit_EnvOverridesAPIKeys(t *testing.T) {
	t.Setenv("EMBEDDING_API_KEY", "env-embed-key")
	t.Setenv("LLM_API_KEY", "env-llm-key")

	Init(writeConfig(t, testYAML))

	assert.Equal(t, "env-embed-key", Conf.Embedding.APIKey)
	assert.Equal(t, "env-llm-key", Conf.LLM.APIKey)
}

func TestInit_MissingFilePanics(t *testing.T) {
	assert.Panics(t, func() {
		Init(filepath.Join(t.TempDir(), "missing.yaml"))
	})
}
