// Package main is the one-shot corpus ingestion tool. It reads a support
// document of "question: answer" lines, embeds every question and indexes
// the records into the knowledge index.
package main

import (
	"context"
	"flag"

	"hissenet-chatbot/internal/config"
	"hissenet-chatbot/internal/model"
	"hissenet-chatbot/internal/pipeline"
	"hissenet-chatbot/pkg/embedding"
	"hissenet-chatbot/pkg/es"
	"hissenet-chatbot/pkg/log"

	"github.com/joho/godotenv"
)

// esIndexer adapts the package-level es client to pipeline.RecordIndexer.
type esIndexer struct{}

func (esIndexer) IndexRecord(ctx context.Context, indexName string, rec model.KnowledgeRecord) error {
	return es.IndexRecord(ctx, indexName, rec)
}

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "path to the config file")
	corpusPath := flag.String("file", "./steps.txt", "path to the corpus file")
	flag.Parse()

	_ = godotenv.Load()

	config.Init(*configPath)
	cfg := config.Conf

	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()

	if err := es.InitES(cfg.Elasticsearch, cfg.Embedding.Dimensions); err != nil {
		log.Fatal("failed to initialize elasticsearch", err)
	}

	embeddingClient := embedding.NewClient(cfg.Embedding)
	ingestor := pipeline.NewIngestor(embeddingClient, esIndexer{}, cfg.Elasticsearch, cfg.Embedding)

	indexed, err := ingestor.Run(context.Background(), *corpusPath)
	if err != nil {
		log.Fatal("ingestion failed", err)
	}
	log.Infof("ingestion complete, %d records indexed into '%s'", indexed, cfg.Elasticsearch.IndexName)
}
