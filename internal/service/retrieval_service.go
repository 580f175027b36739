package service

import (
	"context"
	"errors"
	"fmt"

	"hissenet-chatbot/internal/config"
	"hissenet-chatbot/internal/model"
	"hissenet-chatbot/internal/repository"
	"hissenet-chatbot/pkg/embedding"
	"hissenet-chatbot/pkg/log"
)

// RetrievalService turns a free-text query into grounded passages.
type RetrievalService interface {
	// Retrieve embeds the query and runs the similarity search. The
	// result keeps the store's descending-score order; no re-ranking
	// happens here. An empty result is a legitimate outcome.
	Retrieve(ctx context.Context, query string) ([]model.RetrievedPassage, error)
}

type retrievalService struct {
	embeddingClient embedding.Client
	knowledgeRepo   repository.KnowledgeRepository
	scoreThreshold  float64
	numCandidates   int
	resultLimit     int
}

// NewRetrievalService creates a RetrievalService with the configured
// retrieval knobs. The score threshold materially changes recall and
// precision, which is why it lives in config rather than in code.
func NewRetrievalService(embeddingClient embedding.Client, knowledgeRepo repository.KnowledgeRepository, cfg config.ChatConfig) RetrievalService {
	numCandidates := cfg.NumCandidates
	if numCandidates <= 0 {
		numCandidates = 100
	}
	resultLimit := cfg.ResultLimit
	if resultLimit <= 0 {
		resultLimit = 3
	}
	return &retrievalService{
		embeddingClient: embeddingClient,
		knowledgeRepo:   knowledgeRepo,
		scoreThreshold:  cfg.ScoreThreshold,
		numCandidates:   numCandidates,
		resultLimit:     resultLimit,
	}
}

func (s *retrievalService) Retrieve(ctx context.Context, query string) ([]model.RetrievedPassage, error) {
	queryVector, err := s.embeddingClient.CreateEmbedding(ctx, query)
	if err != nil {
		log.Errorf("[RetrievalService] failed to embed query: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}

	passages, err := s.knowledgeRepo.Search(ctx, queryVector, s.numCandidates, s.resultLimit, s.scoreThreshold)
	if err != nil {
		log.Errorf("[RetrievalService] similarity search failed: %v", err)
		if errors.Is(err, repository.ErrQueryMalformed) {
			return nil, fmt.Errorf("%w: %v", ErrRetrievalQuery, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}

	log.Infof("[RetrievalService] query yielded %d passages", len(passages))
	return passages, nil
}
