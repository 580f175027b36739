package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hissenet-chatbot/internal/model"
	"hissenet-chatbot/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
)

// KnowledgeRepository runs similarity searches over the knowledge index.
type KnowledgeRepository interface {
	// Search returns at most limit passages ordered by descending score,
	// every one of them with score >= scoreThreshold. Zero hits is a
	// valid outcome and yields an empty slice, not an error.
	Search(ctx context.Context, queryVector []float32, numCandidates, limit int, scoreThreshold float64) ([]model.RetrievedPassage, error)
}

type esKnowledgeRepository struct {
	esClient  *elasticsearch.Client
	indexName string
	timeout   time.Duration
}

// NewKnowledgeRepository creates an Elasticsearch-backed KnowledgeRepository.
// timeoutSeconds bounds a single search round-trip; non-positive values
// fall back to 10 seconds.
func NewKnowledgeRepository(esClient *elasticsearch.Client, indexName string, timeoutSeconds int) KnowledgeRepository {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}
	return &esKnowledgeRepository{
		esClient:  esClient,
		indexName: indexName,
		timeout:   time.Duration(timeoutSeconds) * time.Second,
	}
}

// Search runs a top-level knn query against question_embedding. k is the
// result cap, num_candidates bounds how many index entries the engine
// examines before ranking. The engine already returns hits in descending
// score order; both the threshold filter and the limit cap are enforced
// here on whatever comes back, so neither approximate-recall behavior
// nor an over-long engine response leaks past the contract.
func (r *esKnowledgeRepository) Search(ctx context.Context, queryVector []float32, numCandidates, limit int, scoreThreshold float64) ([]model.RetrievedPassage, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	esQuery := map[string]interface{}{
		"knn": map[string]interface{}{
			"field":          "question_embedding",
			"query_vector":   queryVector,
			"k":              limit,
			"num_candidates": numCandidates,
		},
		"size":    limit,
		"_source": []string{"record_id", "question", "answer"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return nil, fmt.Errorf("failed to encode es query: %w", err)
	}

	res, err := r.esClient.Search(
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(r.indexName),
		r.esClient.Search.WithBody(&buf),
	)
	if err != nil {
		log.Errorf("[KnowledgeRepository] search request failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("[KnowledgeRepository] elasticsearch returned an error, status: %s", res.Status())
		if res.StatusCode >= http.StatusBadRequest && res.StatusCode < http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: status %s", ErrQueryMalformed, res.Status())
		}
		return nil, fmt.Errorf("%w: status %s", ErrStoreUnavailable, res.Status())
	}

	var esResponse struct {
		Hits struct {
			Hits []struct {
				Source model.KnowledgeRecord `json:"_source"`
				Score  float64               `json:"_score"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		log.Errorf("[KnowledgeRepository] failed to decode search response: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	passages := make([]model.RetrievedPassage, 0, limit)
	for _, hit := range esResponse.Hits.Hits {
		if limit > 0 && len(passages) == limit {
			break
		}
		if hit.Score < scoreThreshold {
			continue
		}
		passages = append(passages, model.RetrievedPassage{
			Question: hit.Source.Question,
			Answer:   hit.Source.Answer,
			Score:    hit.Score,
		})
	}

	log.Infof("[KnowledgeRepository] search returned %d hits, %d above threshold %.2f",
		len(esResponse.Hits.Hits), len(passages), scoreThreshold)
	return passages, nil
}
