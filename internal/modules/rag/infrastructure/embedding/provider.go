package embedding

import (
	"context"
	"os"
	"strings"
	"time"

	"WebMind/internal/config"
	"WebMind/internal/modules/rag/domain/rag"
	"WebMind/internal/modules/rag/domain/repository"

	arkEmbed "github.com/cloudwego/eino-ext/components/embedding/ark"
	dashscopeEmbed "github.com/cloudwego/eino-ext/components/embedding/dashscope"
	openaIEmbed "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"
)

// NewEmbedderFromConfig 按静态配置构建向量化后端
//
// 嵌入模型与生成模型不同：它决定索引里向量的几何结构，
// 运行期切换会让新旧向量不可比，所以只允许静态配置、进程生命周期内固定。
func NewEmbedderFromConfig(ctx context.Context, conf *config.Config) (repository.Embedder, error) {
	if conf == nil {
		return nil, rag.NewError(rag.ErrKindConfiguration, "nil config")
	}

	ec := conf.AIConfig.Embedding
	provider := strings.ToLower(strings.TrimSpace(ec.Provider))
	model := strings.TrimSpace(ec.Model)
	dim := ec.Dimensions
	if dim <= 0 {
		dim = 384
	}

	switch provider {
	case "", "mock":
		return NewMockEmbedder(dim), nil

	case "openai":
		apiKey := strings.TrimSpace(ec.APIKey)
		if apiKey == "" {
			apiKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		}
		baseURL := strings.TrimSpace(ec.BaseURL)
		if baseURL == "" {
			baseURL = strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
		}
		if apiKey == "" || model == "" {
			return nil, rag.NewError(rag.ErrKindConfiguration, "openai embedding missing apiKey/model")
		}

		timeout := 30 * time.Second
		if ec.TimeoutSeconds > 0 {
			timeout = time.Duration(ec.TimeoutSeconds) * time.Second
		}

		localDim := dim
		em, err := openaIEmbed.NewEmbedder(ctx, &openaIEmbed.EmbeddingConfig{
			APIKey:     apiKey,
			Model:      model,
			BaseURL:    baseURL,
			Timeout:    timeout,
			Dimensions: &localDim,
		})
		if err != nil {
			return nil, rag.WrapError(rag.ErrKindConfiguration, "build openai embedder failed", err)
		}
		return newEinoEmbedder(em, dim), nil

	case "ark":
		apiKey := strings.TrimSpace(ec.APIKey)
		if apiKey == "" {
			apiKey = strings.TrimSpace(os.Getenv("ARK_API_KEY"))
		}
		baseURL := strings.TrimSpace(ec.BaseURL)
		if baseURL == "" {
			baseURL = strings.TrimSpace(os.Getenv("ARK_BASE_URL"))
		}
		if apiKey == "" || model == "" {
			return nil, rag.NewError(rag.ErrKindConfiguration, "ark embedding missing apiKey/model")
		}

		em, err := arkEmbed.NewEmbedder(ctx, &arkEmbed.EmbeddingConfig{
			APIKey:  apiKey,
			Model:   model,
			BaseURL: baseURL,
		})
		if err != nil {
			return nil, rag.WrapError(rag.ErrKindConfiguration, "build ark embedder failed", err)
		}
		return newEinoEmbedder(em, dim), nil

	case "dashscope":
		apiKey := strings.TrimSpace(ec.APIKey)
		if apiKey == "" {
			apiKey = strings.TrimSpace(os.Getenv("DASHSCOPE_API_KEY"))
		}
		if apiKey == "" || model == "" {
			return nil, rag.NewError(rag.ErrKindConfiguration, "dashscope embedding missing apiKey/model")
		}

		localDim := dim
		de, err := dashscopeEmbed.NewEmbedder(ctx, &dashscopeEmbed.EmbeddingConfig{
			Model:      model,
			APIKey:     apiKey,
			Dimensions: &localDim,
		})
		if err != nil {
			return nil, rag.WrapError(rag.ErrKindConfiguration, "build dashscope embedder failed", err)
		}
		return newEinoEmbedder(de, dim), nil

	default:
		return nil, rag.NewErrorf(rag.ErrKindConfiguration, "unknown embedding provider: %s", provider)
	}
}

// einoEmbedder 把 eino 的 embedding.Embedder 适配成 domain 的 repository.Embedder
type einoEmbedder struct {
	inner embedding.Embedder
	dim   int
}

var _ repository.Embedder = (*einoEmbedder)(nil)

func newEinoEmbedder(inner embedding.Embedder, dim int) *einoEmbedder {
	return &einoEmbedder{inner: inner, dim: dim}
}

func (e *einoEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *einoEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}
	vecs, err := e.inner.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, rag.WrapError(rag.ErrKindUnavailable, "embedding request failed", err)
	}
	if len(vecs) != len(texts) {
		return nil, rag.NewErrorf(rag.ErrKindUnavailable, "embedding cardinality mismatch, got=%d want=%d", len(vecs), len(texts))
	}
	return vecs, nil
}

func (e *einoEmbedder) Dimension() int { return e.dim }
