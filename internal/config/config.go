package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port      int              `json:"port"`
	LogConfig logger.LogConfig `json:"log_config"`
	Database  DatabaseConfig   `json:"database"`
	FileStore FileStoreConfig  `json:"file_store"`
	AI        AIConfig         `json:"ai"`
	Rag       RagConfig        `json:"rag"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
	DSN      string `json:"dsn"`
}

type FileStoreConfig struct {
	Type      string      `json:"type"`
	PublicURL string      `json:"public_url"`
	Data      interface{} `json:"data"`
}

type AIConfig struct {
	Provider      string      `json:"provider"`
	Model         string      `json:"model"`
	EmbedModel    string      `json:"embed_model"`
	EmbedDim      int         `json:"embed_dim"`
	Timeout       int         `json:"timeout"`
	MaxInputChars int         `json:"max_input_chars"`
	Data          interface{} `json:"data"`
}

type RagConfig struct {
	ChunkMaxChars     int     `json:"chunk_max_chars"`
	RankTopK          int     `json:"rank_top_k"`
	ChatTopK          int     `json:"chat_top_k"`
	CompareTopK       int     `json:"compare_top_k"`
	ScoreThreshold    float32 `json:"score_threshold"`
	ContextMaxChars   int     `json:"context_max_chars"`
	Temperature       float32 `json:"temperature"`
	MaxOutputTokens   int     `json:"max_output_tokens"`
	MaxRankCandidates int     `json:"max_rank_candidates"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	if cfg.FileStore.Type == "local" && cfg.FileStore.Data == nil {
		cfg.FileStore.Data = map[string]interface{}{"dir": "./data/resumes"}
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.Model == "" || cfg.AI.EmbedModel == "" {
		return nil, fmt.Errorf("ai.model and ai.embed_model are required")
	}
	if cfg.AI.EmbedDim == 0 {
		return nil, fmt.Errorf("ai.embed_dim is required and must match the index schema")
	}
	applyRagDefaults(&cfg.Rag)
	return &cfg, nil
}

func applyRagDefaults(r *RagConfig) {
	if r.ChunkMaxChars <= 0 {
		r.ChunkMaxChars = 1000
	}
	if r.RankTopK <= 0 {
		r.RankTopK = 20
	}
	if r.ChatTopK <= 0 {
		r.ChatTopK = 20
	}
	if r.CompareTopK <= 0 {
		r.CompareTopK = 8
	}
	if r.ScoreThreshold <= 0 {
		r.ScoreThreshold = 0.25
	}
	if r.ContextMaxChars <= 0 {
		r.ContextMaxChars = 24000
	}
	if r.Temperature <= 0 {
		r.Temperature = 0.1
	}
	if r.MaxOutputTokens <= 0 {
		r.MaxOutputTokens = 2048
	}
	if r.MaxRankCandidates <= 0 {
		r.MaxRankCandidates = 5
	}
}
