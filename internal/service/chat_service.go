package service

import (
	"context"

	"hissenet-chatbot/internal/config"
	"hissenet-chatbot/internal/model"
	"hissenet-chatbot/internal/repository"
	"hissenet-chatbot/pkg/log"
)

// ChatService is the single entry point of the QA pipeline.
type ChatService interface {
	// Answer runs retrieve -> generate -> history update for one user
	// message and always returns a coherent string: a grounded answer,
	// the no-information text, or the fixed apology. It never returns
	// an error to the caller.
	Answer(ctx context.Context, message string) string
}

type chatService struct {
	retrievalService RetrievalService
	generatorService GeneratorService
	historyRepo      repository.HistoryRepository
	apology          string
}

// NewChatService creates a ChatService.
func NewChatService(retrievalService RetrievalService, generatorService GeneratorService, historyRepo repository.HistoryRepository, promptCfg config.LLMPromptConfig) ChatService {
	apology := promptCfg.Apology
	if apology == "" {
		apology = "Bir hata oluştu. Tekrar deneyin."
	}
	return &chatService{
		retrievalService: retrievalService,
		generatorService: generatorService,
		historyRepo:      historyRepo,
		apology:          apology,
	}
}

// Answer drives one request through the pipeline stages in order:
// embedding and search inside Retrieve, then Generate, then the history
// update. Retrieval failures degrade to an empty passage list so the
// generator still produces the no-information answer; a generation
// failure short-circuits to the apology and skips the history update.
// An empty message is not rejected, it simply retrieves nothing useful.
func (s *chatService) Answer(ctx context.Context, message string) string {
	log.Infof("[ChatService] handling message, len=%d", len(message))

	passages, err := s.retrievalService.Retrieve(ctx, message)
	if err != nil {
		// Treated as no results: the generator's fallback rule fires.
		log.Errorf("[ChatService] retrieval degraded to empty context: %v", err)
		passages = []model.RetrievedPassage{}
	}

	answer, err := s.generatorService.Generate(ctx, message, passages)
	if err != nil {
		log.Errorf("[ChatService] generation failed: %v", err)
		return s.apology
	}

	// History is best-effort and not part of the answer's correctness:
	// the turn is saved with a background context so a cancelled request
	// still records a successfully generated answer, and a write failure
	// is only logged.
	if err := s.historyRepo.AppendTurn(context.Background(), message, answer); err != nil {
		log.Errorf("[ChatService] failed to save conversation turn: %v", err)
	}

	return answer
}
