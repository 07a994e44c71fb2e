package llm

import (
	"context"
	"strings"
	"time"

	"WebMind/internal/modules/rag/domain/rag"

	arkModel "github.com/cloudwego/eino-ext/components/model/ark"
)

func newArkProvider(ctx context.Context, cfg *rag.ProviderConfig) (Provider, error) {
	timeout := 2 * time.Minute
	retryTimes := 2

	cm, err := arkModel.NewChatModel(ctx, &arkModel.ChatModelConfig{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    strings.TrimSpace(cfg.BaseURL),
		Timeout:    &timeout,
		RetryTimes: &retryTimes,
	})
	if err != nil {
		return nil, rag.WrapError(rag.ErrKindConfiguration, "build ark chat model failed", err)
	}
	return &chatModelProvider{
		cm:          cm,
		kind:        rag.ProviderKindArk,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}
