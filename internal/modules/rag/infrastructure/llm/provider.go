package llm

import (
	"context"
	"strings"

	"WebMind/internal/modules/rag/domain/rag"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Provider 文本生成后端的统一接口
//
// 实例由 ProviderConfig 构建，构建后不可变；切换配置通过 Resolver 重建实例完成。
type Provider interface {
	// Generate 基于拼好的 prompt 生成回答；后端不可达/调用失败返回 unavailable 类别错误
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Kind 后端类型
	Kind() rag.ProviderKind

	// Model 生效的模型名
	Model() string
}

// Constructor 从校验过的配置构建 Provider
type Constructor func(ctx context.Context, cfg *rag.ProviderConfig) (Provider, error)

// constructors 封闭的后端注册表：新增后端在这里登记
var constructors = map[rag.ProviderKind]Constructor{
	rag.ProviderKindOllama: newOllamaProvider,
	rag.ProviderKindOpenAI: newOpenAIProvider,
	rag.ProviderKindArk:    newArkProvider,
}

// NewProvider 按配置构建生成后端；未知类型返回 configuration_error
func NewProvider(ctx context.Context, cfg *rag.ProviderConfig) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctor, ok := constructors[cfg.Kind]
	if !ok {
		return nil, rag.NewErrorf(rag.ErrKindConfiguration, "unknown provider kind: %q", cfg.Kind)
	}
	return ctor(ctx, cfg)
}

// chatModelProvider 把 eino 的 BaseChatModel 适配成 Provider
type chatModelProvider struct {
	cm          model.BaseChatModel
	kind        rag.ProviderKind
	model       string
	temperature float32
	maxTokens   int
}

var _ Provider = (*chatModelProvider)(nil)

func (p *chatModelProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	msgs := make([]*schema.Message, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		msgs = append(msgs, schema.SystemMessage(systemPrompt))
	}
	msgs = append(msgs, schema.UserMessage(userPrompt))

	var opts []model.Option
	if p.temperature > 0 {
		opts = append(opts, model.WithTemperature(p.temperature))
	}
	if p.maxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(p.maxTokens))
	}

	out, err := p.cm.Generate(ctx, msgs, opts...)
	if err != nil {
		return "", rag.WrapError(rag.ErrKindUnavailable, "generation request failed", err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", rag.NewError(rag.ErrKindUnavailable, "generation returned empty content")
	}
	return out.Content, nil
}

func (p *chatModelProvider) Kind() rag.ProviderKind { return p.kind }

func (p *chatModelProvider) Model() string { return p.model }
