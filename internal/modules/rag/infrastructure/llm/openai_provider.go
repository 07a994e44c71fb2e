package llm

import (
	"context"
	"strings"
	"time"

	"WebMind/internal/modules/rag/domain/rag"

	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
)

func newOpenAIProvider(ctx context.Context, cfg *rag.ProviderConfig) (Provider, error) {
	cm, err := openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: strings.TrimSpace(cfg.BaseURL),
		Timeout: 2 * time.Minute,
	})
	if err != nil {
		return nil, rag.WrapError(rag.ErrKindConfiguration, "build openai chat model failed", err)
	}
	return &chatModelProvider{
		cm:          cm,
		kind:        rag.ProviderKindOpenAI,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}
