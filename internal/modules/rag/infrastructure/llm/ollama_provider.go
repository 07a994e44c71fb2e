package llm

import (
	"context"
	"strings"
	"time"

	"WebMind/internal/modules/rag/domain/rag"

	ollamaModel "github.com/cloudwego/eino-ext/components/model/ollama"
)

const defaultOllamaBaseURL = "http://localhost:11434"

func newOllamaProvider(ctx context.Context, cfg *rag.ProviderConfig) (Provider, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	cm, err := ollamaModel.NewChatModel(ctx, &ollamaModel.ChatModelConfig{
		BaseURL: baseURL,
		Model:   cfg.Model,
		Timeout: 2 * time.Minute,
	})
	if err != nil {
		return nil, rag.WrapError(rag.ErrKindConfiguration, "build ollama chat model failed", err)
	}
	return &chatModelProvider{
		cm:          cm,
		kind:        rag.ProviderKindOllama,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}
