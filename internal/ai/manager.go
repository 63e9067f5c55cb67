package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Task type hints forwarded to embedding providers that support them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

type ManagerConfig struct {
	Timeout         int // seconds per external call
	MaxInputChars   int
	EmbedDim        int
	Temperature     float32
	MaxOutputTokens int
}

// Manager fronts the configured generator and embedder with per-call
// timeouts and embedding-dimension validation.
type Manager struct {
	generator IGenerator
	embedder  IEmbedder
	cfg       ManagerConfig
}

func NewManager(generator IGenerator, embedder IEmbedder, cfg ManagerConfig) *Manager {
	return &Manager{
		generator: generator,
		embedder:  embedder,
		cfg:       cfg,
	}
}

func (m *Manager) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if m.embedder == nil {
		return nil, fmt.Errorf("embedder not configured")
	}
	ctx, cancel := m.callContext(ctx)
	defer cancel()
	values, err := m.embedder.Embed(ctx, text, taskType)
	if err != nil {
		return nil, err
	}
	if m.cfg.EmbedDim > 0 && len(values) != m.cfg.EmbedDim {
		return nil, fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(values), m.cfg.EmbedDim)
	}
	return values, nil
}

// Complete runs a fully assembled prompt through the language model.
func (m *Manager) Complete(ctx context.Context, prompt string) (string, error) {
	if m.generator == nil {
		return "", fmt.Errorf("generator not configured")
	}
	if m.cfg.MaxInputChars > 0 && len(prompt) > m.cfg.MaxInputChars {
		return "", fmt.Errorf("prompt exceeds max input size: %d > %d", len(prompt), m.cfg.MaxInputChars)
	}
	ctx, cancel := m.callContext(ctx)
	defer cancel()
	resp, err := m.generator.Generate(ctx, prompt, GenOptions{
		Temperature:     m.cfg.Temperature,
		MaxOutputTokens: m.cfg.MaxOutputTokens,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp)
	if text == "" {
		return "", fmt.Errorf("empty ai response")
	}
	return text, nil
}

func (m *Manager) EmbeddingModelName() string {
	if m.embedder == nil {
		return ""
	}
	return m.embedder.ModelName()
}

func (m *Manager) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
	}
	return ctx, func() {}
}
