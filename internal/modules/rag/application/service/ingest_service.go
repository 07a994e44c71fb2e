package service

import (
	"context"
	"net/url"
	"strings"

	ragRequest "WebMind/internal/modules/rag/application/dto/request"
	ragRespond "WebMind/internal/modules/rag/application/dto/respond"
	"WebMind/internal/modules/rag/domain/rag"
	ragRepo "WebMind/internal/modules/rag/domain/repository"
	"WebMind/internal/modules/rag/infrastructure/queue"
	"WebMind/pkg/xerr"
	"WebMind/pkg/zlog"

	"go.uber.org/zap"
)

type IngestService interface {
	// SubmitURL 提交网页摄取：新 URL 建档并入队；已存在则按状态决定是否重试
	SubmitURL(ctx context.Context, req ragRequest.IngestURLRequest) (*ragRespond.IngestAccepted, error)

	// GetStatus 查询单个文档的摄取状态
	GetStatus(ctx context.Context, docID string) (*ragRespond.DocumentItem, error)

	// ListDocuments 分页列出文档
	ListDocuments(ctx context.Context, req ragRequest.ListDocumentsRequest) (*ragRespond.DocumentListRespond, error)
}

type ingestService struct {
	docRepo    ragRepo.DocumentRepository
	dispatcher *queue.IngestDispatcher
}

func NewIngestService(docRepo ragRepo.DocumentRepository, dispatcher *queue.IngestDispatcher) IngestService {
	return &ingestService{docRepo: docRepo, dispatcher: dispatcher}
}

func (s *ingestService) SubmitURL(ctx context.Context, req ragRequest.IngestURLRequest) (*ragRespond.IngestAccepted, error) {
	// 校验先于一切副作用：非法 URL 不建档、不入队
	rawURL := strings.TrimSpace(req.Url)
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	doc, isNew, err := s.docRepo.Submit(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if isNew {
		if err := s.enqueue(ctx, doc.Id, doc.Url); err != nil {
			return nil, err
		}
		return &ragRespond.IngestAccepted{
			DocID:   doc.Id,
			Url:     doc.Url,
			Status:  rag.DocumentStatusPending,
			Message: "URL accepted for processing",
		}, nil
	}

	switch doc.Status {
	case rag.DocumentStatusFailed:
		// 失败重试是唯一的回退边：CAS 失败说明已被并发重试方抢先，原样返回即可
		ok, err := s.docRepo.TryMarkRetrying(ctx, doc.Id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &ragRespond.IngestAccepted{
				DocID:   doc.Id,
				Url:     doc.Url,
				Status:  rag.DocumentStatusPending,
				Message: "URL already queued for retry",
			}, nil
		}
		if err := s.enqueue(ctx, doc.Id, doc.Url); err != nil {
			return nil, err
		}
		return &ragRespond.IngestAccepted{
			DocID:   doc.Id,
			Url:     doc.Url,
			Status:  rag.DocumentStatusPending,
			Message: "URL re-queued for processing",
		}, nil

	default:
		// pending/processing/completed：不重复入队，保证同一文档至多一个在途任务
		return &ragRespond.IngestAccepted{
			DocID:   doc.Id,
			Url:     doc.Url,
			Status:  doc.Status,
			Message: "URL already exists",
		}, nil
	}
}

func (s *ingestService) enqueue(ctx context.Context, docID, docURL string) error {
	if err := s.dispatcher.Enqueue(ctx, docID, docURL); err != nil {
		// 入队失败时文档停在 pending 会永远没人处理，记成 failed 让用户可以重试
		zlog.Error("enqueue ingest job failed", zap.String("doc_id", docID), zap.Error(err))
		_ = s.docRepo.MarkFailed(ctx, docID, "failed to enqueue ingest job")
		return xerr.ErrUnavailable
	}
	return nil
}

func (s *ingestService) GetStatus(ctx context.Context, docID string) (*ragRespond.DocumentItem, error) {
	docID = strings.TrimSpace(docID)
	if docID == "" {
		return nil, xerr.New(xerr.BadRequest, "missing doc_id")
	}

	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, xerr.ErrNotFound
	}
	item := toDocumentItem(doc)
	return &item, nil
}

func (s *ingestService) ListDocuments(ctx context.Context, req ragRequest.ListDocumentsRequest) (*ragRespond.DocumentListRespond, error) {
	status := strings.TrimSpace(req.Status)
	if status != "" && !rag.IsValidStatus(status) {
		return nil, xerr.New(xerr.BadRequest, "invalid status filter")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	docs, total, err := s.docRepo.List(ctx, status, limit, req.Offset)
	if err != nil {
		return nil, err
	}

	items := make([]ragRespond.DocumentItem, 0, len(docs))
	for i := range docs {
		items = append(items, toDocumentItem(&docs[i]))
	}
	return &ragRespond.DocumentListRespond{Total: total, Items: items}, nil
}

// validateURL 只接受带主机名的 http/https 绝对地址
func validateURL(rawURL string) error {
	if rawURL == "" {
		return xerr.New(xerr.BadRequest, "missing url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return xerr.New(xerr.BadRequest, "invalid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return xerr.New(xerr.BadRequest, "url scheme must be http or https")
	}
	if u.Host == "" {
		return xerr.New(xerr.BadRequest, "url missing host")
	}
	return nil
}

func toDocumentItem(doc *rag.Document) ragRespond.DocumentItem {
	item := ragRespond.DocumentItem{
		DocID:      doc.Id,
		Url:        doc.Url,
		Status:     doc.Status,
		ChunkCount: doc.ChunkCount,
		CreatedAt:  doc.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:  doc.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if doc.Title.Valid {
		item.Title = doc.Title.String
	}
	if doc.Status == rag.DocumentStatusFailed && doc.ErrorMessage.Valid {
		item.ErrorMessage = doc.ErrorMessage.String
	}
	return item
}
