// Package pipeline implements the offline corpus ingestion flow.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"hissenet-chatbot/internal/config"
	"hissenet-chatbot/internal/model"
	"hissenet-chatbot/pkg/embedding"
	"hissenet-chatbot/pkg/log"

	"github.com/google/uuid"
)

// RecordIndexer writes knowledge records into the search index.
type RecordIndexer interface {
	IndexRecord(ctx context.Context, indexName string, rec model.KnowledgeRecord) error
}

// Ingestor turns a raw support document into embedded, indexed knowledge
// records. The input format is one "question: answer" pair per line.
type Ingestor struct {
	embeddingClient embedding.Client
	indexer         RecordIndexer
	esCfg           config.ElasticsearchConfig
	embeddingCfg    config.EmbeddingConfig
}

// NewIngestor creates an Ingestor.
func NewIngestor(embeddingClient embedding.Client, indexer RecordIndexer, esCfg config.ElasticsearchConfig, embeddingCfg config.EmbeddingConfig) *Ingestor {
	return &Ingestor{
		embeddingClient: embeddingClient,
		indexer:         indexer,
		esCfg:           esCfg,
		embeddingCfg:    embeddingCfg,
	}
}

// Run reads the corpus file, embeds every question and indexes the
// resulting records. Records whose embedding call fails or whose vector
// dimension does not match the configured index dimension are skipped
// with a warning and never indexed with a partial or zero-filled vector.
// Returns the number of records indexed.
func (p *Ingestor) Run(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read corpus file: %w", err)
	}

	records := parseCorpus(string(data))
	log.Infof("[Ingestor] parsed %d question/answer records from '%s'", len(records), path)
	if len(records) == 0 {
		return 0, fmt.Errorf("no records found in corpus file '%s'", path)
	}

	indexed := 0
	for i, rec := range records {
		vector, err := p.embeddingClient.CreateEmbedding(ctx, rec.Question)
		if err != nil {
			log.Warnf("[Ingestor] skipping record %d (%q): embedding failed: %v", i, rec.Question, err)
			continue
		}
		if p.embeddingCfg.Dimensions > 0 && len(vector) != p.embeddingCfg.Dimensions {
			log.Warnf("[Ingestor] skipping record %d (%q): dimension %d does not match configured %d",
				i, rec.Question, len(vector), p.embeddingCfg.Dimensions)
			continue
		}

		rec.QuestionEmbedding = vector
		rec.ModelVersion = p.embeddingCfg.Model

		if err := p.indexer.IndexRecord(ctx, p.esCfg.IndexName, rec); err != nil {
			log.Errorf("[Ingestor] failed to index record %d (%q): %v", i, rec.Question, err)
			return indexed, fmt.Errorf("failed to index record %q: %w", rec.Question, err)
		}
		indexed++
	}

	log.Infof("[Ingestor] ingestion finished, %d/%d records indexed", indexed, len(records))
	return indexed, nil
}

// parseCorpus splits the raw document into question/answer records. One
// record per line, question and answer separated by the first colon.
// Blank lines and lines without a colon are skipped.
func parseCorpus(text string) []model.KnowledgeRecord {
	var records []model.KnowledgeRecord
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		question, answer, found := strings.Cut(line, ":")
		if !found {
			log.Warnf("[Ingestor] skipping line without separator: %q", line)
			continue
		}
		question = strings.TrimSpace(question)
		answer = strings.TrimSpace(answer)
		if question == "" || answer == "" {
			continue
		}
		records = append(records, model.KnowledgeRecord{
			RecordID: uuid.NewString(),
			Question: question,
			Answer:   answer,
		})
	}
	return records
}
