package service

import (
	"context"
	"strings"

	ragRequest "WebMind/internal/modules/rag/application/dto/request"
	ragRespond "WebMind/internal/modules/rag/application/dto/respond"
	"WebMind/internal/modules/rag/domain/rag"
	"WebMind/internal/modules/rag/infrastructure/llm"
	"WebMind/pkg/xerr"
)

type ProviderService interface {
	// Current 查看当前生效的生成后端
	Current(ctx context.Context) (*ragRespond.ProviderRespond, error)

	// Switch 切换生成后端：校验通过才落盘，对所有进程实例生效
	Switch(ctx context.Context, req ragRequest.SwitchProviderRequest) (*ragRespond.ProviderRespond, error)
}

type providerService struct {
	resolver *llm.Resolver
}

func NewProviderService(resolver *llm.Resolver) ProviderService {
	return &providerService{resolver: resolver}
}

func (s *providerService) Current(ctx context.Context) (*ragRespond.ProviderRespond, error) {
	cfg, err := s.resolver.Current(ctx)
	if err != nil {
		return nil, err
	}
	return toProviderRespond(cfg), nil
}

func (s *providerService) Switch(ctx context.Context, req ragRequest.SwitchProviderRequest) (*ragRespond.ProviderRespond, error) {
	kind, ok := rag.ParseProviderKind(req.Provider)
	if !ok {
		return nil, xerr.New(xerr.BadRequest, "unknown provider: "+strings.TrimSpace(req.Provider))
	}

	cfg := &rag.ProviderConfig{
		Kind:        kind,
		Model:       strings.TrimSpace(req.Model),
		BaseURL:     strings.TrimSpace(req.BaseURL),
		APIKey:      strings.TrimSpace(req.APIKey),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	if err := s.resolver.SwitchTo(ctx, cfg); err != nil {
		return nil, err
	}
	return toProviderRespond(cfg), nil
}

func toProviderRespond(cfg *rag.ProviderConfig) *ragRespond.ProviderRespond {
	return &ragRespond.ProviderRespond{
		Provider:    string(cfg.Kind),
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		HasAPIKey:   strings.TrimSpace(cfg.APIKey) != "",
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
}
