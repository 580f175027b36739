// Package main is the chatbot server entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hissenet-chatbot/internal/config"
	"hissenet-chatbot/internal/handler"
	"hissenet-chatbot/internal/middleware"
	"hissenet-chatbot/internal/repository"
	"hissenet-chatbot/internal/service"
	"hissenet-chatbot/pkg/database"
	"hissenet-chatbot/pkg/embedding"
	"hissenet-chatbot/pkg/es"
	"hissenet-chatbot/pkg/llm"
	"hissenet-chatbot/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "path to the config file")
	flag.Parse()

	// API keys live in .env; absence is fine when they are in the
	// environment already or in the YAML file.
	_ = godotenv.Load()

	config.Init(*configPath)
	cfg := config.Conf

	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("logger initialized")

	if err := es.InitES(cfg.Elasticsearch, cfg.Embedding.Dimensions); err != nil {
		log.Fatal("failed to initialize elasticsearch", err)
	}

	historyRepo := newHistoryRepository(cfg)
	knowledgeRepo := repository.NewKnowledgeRepository(es.ESClient, cfg.Elasticsearch.IndexName, cfg.Elasticsearch.TimeoutSeconds)

	embeddingClient := embedding.NewClient(cfg.Embedding)
	llmClient := llm.NewClient(cfg.LLM)

	retrievalService := service.NewRetrievalService(embeddingClient, knowledgeRepo, cfg.Chat)
	generatorService := service.NewGeneratorService(llmClient, cfg.LLM.Prompt)
	chatService := service.NewChatService(retrievalService, generatorService, historyRepo, cfg.LLM.Prompt)

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	r.GET("/healthz", handler.Health)
	api := r.Group("/api")
	{
		api.POST("/chat", handler.NewChatHandler(chatService).Chat)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP server shutdown failed: %v", err)
	}
	log.Info("server stopped")
}

// newHistoryRepository builds the configured conversation history backend.
// The file store is the default; Redis is only connected when selected.
func newHistoryRepository(cfg config.Config) repository.HistoryRepository {
	maxTurns := cfg.Chat.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 5
	}
	switch cfg.Chat.History.Backend {
	case "redis":
		database.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		return repository.NewRedisHistoryRepository(database.RDB, cfg.Chat.History.Key, maxTurns)
	default:
		path := cfg.Chat.History.Path
		if path == "" {
			path = "./chatHistory.json"
		}
		return repository.NewFileHistoryRepository(path, maxTurns)
	}
}
