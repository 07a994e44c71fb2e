package service

import (
	"context"
	"strings"

	ragRequest "WebMind/internal/modules/rag/application/dto/request"
	ragRespond "WebMind/internal/modules/rag/application/dto/respond"
	"WebMind/internal/modules/rag/infrastructure/pipeline"
	"WebMind/pkg/xerr"
)

type QueryService interface {
	// Query 知识库问答：检索相关片段并让生成后端作答
	Query(ctx context.Context, req ragRequest.QueryRequest) (*ragRespond.QueryRespond, error)
}

type queryService struct {
	pipeline *pipeline.QueryPipeline
}

func NewQueryService(p *pipeline.QueryPipeline) QueryService {
	return &queryService{pipeline: p}
}

func (s *queryService) Query(ctx context.Context, req ragRequest.QueryRequest) (*ragRespond.QueryRespond, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, xerr.New(xerr.BadRequest, "missing question")
	}

	result, err := s.pipeline.Query(ctx, req.Question, req.TopK)
	if err != nil {
		return nil, err
	}

	sources := make([]ragRespond.QuerySourceItem, 0, len(result.Sources))
	for _, src := range result.Sources {
		sources = append(sources, ragRespond.QuerySourceItem{
			DocID:      src.DocumentID,
			Url:        src.Url,
			Title:      src.Title,
			ChunkIndex: src.ChunkIndex,
			Score:      src.Score,
			Preview:    src.Preview,
		})
	}

	return &ragRespond.QueryRespond{
		Answer:   result.Answer,
		Sources:  sources,
		Provider: string(result.ProviderKind),
		Model:    result.Model,
	}, nil
}
