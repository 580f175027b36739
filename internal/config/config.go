// Package config loads and holds the application configuration.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Conf is the global configuration, populated by Init.
var Conf Config

// Config mirrors the structure of config.yaml.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Log           LogConfig           `mapstructure:"log"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Embedding     EmbeddingConfig     `mapstructure:"embedding"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Chat          ChatConfig          `mapstructure:"chat"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// ElasticsearchConfig holds the knowledge index connection settings.
type ElasticsearchConfig struct {
	Addresses      string `mapstructure:"addresses"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	IndexName      string `mapstructure:"index_name"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// RedisConfig holds Redis settings, used when the conversation history
// backend is "redis".
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EmbeddingConfig holds the embedding model settings.
type EmbeddingConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	Dimensions     int    `mapstructure:"dimensions"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// LLMConfig holds the generation model settings.
type LLMConfig struct {
	APIKey         string              `mapstructure:"api_key"`
	BaseURL        string              `mapstructure:"base_url"`
	Model          string              `mapstructure:"model"`
	TimeoutSeconds int                 `mapstructure:"timeout_seconds"`
	Generation     LLMGenerationConfig `mapstructure:"generation"`
	Prompt         LLMPromptConfig     `mapstructure:"prompt"`
}

// LLMGenerationConfig carries optional sampling parameters.
type LLMGenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// LLMPromptConfig configures the instruction template. All user-visible
// strings live here so the deployment language is not baked into code.
type LLMPromptConfig struct {
	Rules        string `mapstructure:"rules"`
	NoResultText string `mapstructure:"no_result_text"`
	Apology      string `mapstructure:"apology"`
}

// ChatConfig holds the retrieval and history knobs of the pipeline.
type ChatConfig struct {
	ScoreThreshold float64       `mapstructure:"score_threshold"`
	NumCandidates  int           `mapstructure:"num_candidates"`
	ResultLimit    int           `mapstructure:"result_limit"`
	MaxTurns       int           `mapstructure:"max_turns"`
	History        HistoryConfig `mapstructure:"history"`
}

// HistoryConfig selects and configures the conversation history store.
type HistoryConfig struct {
	Backend string `mapstructure:"backend"` // "file" or "redis"
	Path    string `mapstructure:"path"`    // file backend
	Key     string `mapstructure:"key"`     // redis backend
}

// Init reads the YAML file at configPath into Conf. API keys may be
// supplied via EMBEDDING_API_KEY / LLM_API_KEY and take precedence over
// the file.
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("failed to read config file: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("failed to unmarshal config: %w", err))
	}

	if key := os.Getenv("EMBEDDING_API_KEY"); key != "" {
		Conf.Embedding.APIKey = key
	}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		Conf.LLM.APIKey = key
	}
}
