package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hissenet-chatbot/internal/config"
	"hissenet-chatbot/internal/model"
	"hissenet-chatbot/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLLMClient is a test double for llm.Client.
type mockLLMClient struct {
	answer string
	err    error

	called      bool
	gotMessages []llm.Message
}

func (m *mockLLMClient) ChatCompletion(ctx context.Context, messages []llm.Message, gen *llm.GenerationParams) (string, error) {
	m.called = true
	m.gotMessages = messages
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func testPromptConfig() config.LLMPromptConfig {
	return config.LLMPromptConfig{
		Rules:        "Sadece bağlamdaki bilgiler üzerinden cevap ver.",
		NoResultText: "Bu konuda elimde bilgi bulunmuyor.",
	}
}

func TestGenerate_PromptContainsPassagesAndQuestion(t *testing.T) {
	client := &mockLLMClient{answer: "cevap"}
	svc := NewGeneratorService(client, testPromptConfig())

	passages := []model.RetrievedPassage{
		{Question: "q1", Answer: "Portföyler menüsünden Yeni Portföy Oluştur'a tıklayın.", Score: 0.8},
		{Question: "q2", Answer: "Emirler menüsünden ulaşılır.", Score: 0.5},
	}

	answer, err := svc.Generate(context.Background(), "portföy oluşturma", passages)

	require.NoError(t, err)
	assert.Equal(t, "cevap", answer)
	require.Len(t, client.gotMessages, 2)

	system := client.gotMessages[0]
	assert.Equal(t, "system", system.Role)
	assert.Contains(t, system.Content, "Sadece bağlamdaki bilgiler")
	assert.Contains(t, system.Content, "Yeni Portföy Oluştur")
	assert.Contains(t, system.Content, "Emirler menüsünden")
	// Passage order of the store is kept in the context block.
	assert.Less(t,
		strings.Index(system.Content, "Yeni Portföy Oluştur"),
		strings.Index(system.Content, "Emirler menüsünden"))

	user := client.gotMessages[1]
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "portföy oluşturma", user.Content)
}

func TestGenerate_ZeroPassagesSkipsModel(t *testing.T) {
	client := &mockLLMClient{answer: "should never be used"}
	svc := NewGeneratorService(client, testPromptConfig())

	answer, err := svc.Generate(context.Background(), "alakasız soru", nil)

	require.NoError(t, err)
	assert.Equal(t, "Bu konuda elimde bilgi bulunmuyor.", answer)
	assert.False(t, client.called, "the model must not be called with an empty context")
}

func TestGenerate_ZeroPassagesDefaultText(t *testing.T) {
	svc := NewGeneratorService(&mockLLMClient{}, config.LLMPromptConfig{})

	answer, err := svc.Generate(context.Background(), "soru", []model.RetrievedPassage{})

	require.NoError(t, err)
	assert.NotEmpty(t, answer)
	assert.Equal(t, "Bu konuda elimde bilgi bulunmuyor.", answer)
}

func TestGenerate_ModelFailure(t *testing.T) {
	client := &mockLLMClient{err: errors.New("timeout")}
	svc := NewGeneratorService(client, testPromptConfig())

	_, err := svc.Generate(context.Background(), "soru", []model.RetrievedPassage{{Answer: "a", Score: 0.8}})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
}
