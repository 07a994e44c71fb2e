package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"WebMind/internal/modules/rag/domain/rag"
	"WebMind/internal/modules/rag/domain/repository"
	"WebMind/internal/modules/rag/infrastructure/llm"
)

const (
	// NoContextAnswer 索引里检索不到任何相关内容时的固定回答，不调用生成后端
	NoContextAnswer = "I couldn't find any relevant information in the knowledge base to answer your question."

	systemPrompt = "You are a helpful assistant. Answer the question using only the provided context. If the context does not contain enough information, say so explicitly."

	previewChars = 200
)

// ProviderResolver 每次查询都重新解析生成后端（共享配置可能已被其他实例切换）
type ProviderResolver interface {
	Resolve(ctx context.Context) (llm.Provider, error)
}

type QuerySource struct {
	DocumentID string
	Url        string
	Title      string
	ChunkIndex int
	Score      float32
	Preview    string
}

type QueryResult struct {
	Answer       string
	Sources      []QuerySource
	ProviderKind rag.ProviderKind
	Model        string
}

// QueryPipeline 查询管线：向量化 → 相似检索 → 组装上下文 → 生成
type QueryPipeline struct {
	embedder repository.Embedder
	store    repository.VectorStore
	resolver ProviderResolver
	topK     int
}

func NewQueryPipeline(embedder repository.Embedder, store repository.VectorStore, resolver ProviderResolver, topK int) (*QueryPipeline, error) {
	if embedder == nil || store == nil || resolver == nil {
		return nil, errors.New("query pipeline missing dependency")
	}
	if topK <= 0 {
		topK = 5
	}
	return &QueryPipeline{embedder: embedder, store: store, resolver: resolver, topK: topK}, nil
}

// Query 执行一次问答；topK <= 0 时使用构造时的默认值
func (p *QueryPipeline) Query(ctx context.Context, question string, topK int) (*QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, rag.NewError(rag.ErrKindEmptyInput, "question is empty")
	}
	if topK <= 0 {
		topK = p.topK
	}

	provider, err := p.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	vec, err := p.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	hits, err := p.store.Search(ctx, toFloat32(vec), topK)
	if err != nil {
		return nil, err
	}

	if len(hits) == 0 {
		return &QueryResult{
			Answer:       NoContextAnswer,
			Sources:      []QuerySource{},
			ProviderKind: provider.Kind(),
			Model:        provider.Model(),
		}, nil
	}

	contextText := buildContext(hits)
	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, question)

	answer, err := provider.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	sources := make([]QuerySource, 0, len(hits))
	for _, h := range hits {
		sources = append(sources, QuerySource{
			DocumentID: h.DocumentID,
			Url:        h.Url,
			Title:      h.Title,
			ChunkIndex: h.ChunkIndex,
			Score:      h.Score,
			Preview:    preview(h.Content),
		})
	}

	return &QueryResult{
		Answer:       answer,
		Sources:      sources,
		ProviderKind: provider.Kind(),
		Model:        provider.Model(),
	}, nil
}

// buildContext 把命中片段拼成生成用上下文，每段标注来源 URL
func buildContext(hits []repository.VectorSearchHit) string {
	parts := make([]string, 0, len(hits))
	for _, h := range hits {
		parts = append(parts, fmt.Sprintf("[Source: %s]\n%s", h.Url, h.Content))
	}
	return strings.Join(parts, "\n\n")
}

// preview 截取片段预览，按字符（rune）截断避免劈开多字节字符
func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewChars {
		return content
	}
	return string(runes[:previewChars]) + "..."
}
