package service

import (
	"context"
	"fmt"
	"strings"

	"hissenet-chatbot/internal/config"
	"hissenet-chatbot/internal/model"
	"hissenet-chatbot/pkg/llm"
	"hissenet-chatbot/pkg/log"
)

// GeneratorService produces the final answer from the question and the
// retrieved passages.
type GeneratorService interface {
	Generate(ctx context.Context, question string, passages []model.RetrievedPassage) (string, error)
}

type generatorService struct {
	llmClient llm.Client
	promptCfg config.LLMPromptConfig
}

// NewGeneratorService creates a GeneratorService. The instruction rules
// and the no-information text come from config so the deployment language
// is not hardcoded.
func NewGeneratorService(llmClient llm.Client, promptCfg config.LLMPromptConfig) GeneratorService {
	return &generatorService{
		llmClient: llmClient,
		promptCfg: promptCfg,
	}
}

// Generate assembles the grounded prompt and calls the generation model.
// With zero passages the model is not called at all: the configured
// no-information text is returned directly, which keeps an empty context
// from ever producing a fabricated answer.
func (s *generatorService) Generate(ctx context.Context, question string, passages []model.RetrievedPassage) (string, error) {
	if len(passages) == 0 {
		log.Infof("[GeneratorService] no passages above threshold, returning no-information answer")
		return s.noResultText(), nil
	}

	systemMsg := s.buildSystemMessage(passages)
	messages := []llm.Message{
		{Role: "system", Content: systemMsg},
		{Role: "user", Content: question},
	}

	answer, err := s.llmClient.ChatCompletion(ctx, messages, nil)
	if err != nil {
		log.Errorf("[GeneratorService] chat completion failed: %v", err)
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	return answer, nil
}

// buildSystemMessage combines the instruction rules with the context
// block. Passage answers are concatenated in the order received.
func (s *generatorService) buildSystemMessage(passages []model.RetrievedPassage) string {
	var sys strings.Builder
	if s.promptCfg.Rules != "" {
		sys.WriteString(s.promptCfg.Rules)
		sys.WriteString("\n\n")
	}
	sys.WriteString("Context:\n")
	for i, p := range passages {
		sys.WriteString(fmt.Sprintf("[%d] %s\n", i+1, p.Answer))
	}
	return sys.String()
}

func (s *generatorService) noResultText() string {
	if s.promptCfg.NoResultText != "" {
		return s.promptCfg.NoResultText
	}
	return "Bu konuda elimde bilgi bulunmuyor."
}
