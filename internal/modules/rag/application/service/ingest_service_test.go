package service

import (
	"context"
	"errors"
	"testing"

	ragRequest "WebMind/internal/modules/rag/application/dto/request"
	"WebMind/internal/modules/rag/domain/rag"
	"WebMind/internal/modules/rag/domain/repository"
	"WebMind/internal/modules/rag/infrastructure/mq"
	"WebMind/internal/modules/rag/infrastructure/persistence"
	"WebMind/internal/modules/rag/infrastructure/queue"
	"WebMind/pkg/xerr"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type capturePublisher struct {
	messages []mq.Message
	err      error
}

func (p *capturePublisher) Publish(_ context.Context, msg mq.Message) (mq.PublishResult, error) {
	if p.err != nil {
		return mq.PublishResult{}, p.err
	}
	p.messages = append(p.messages, msg)
	return mq.PublishResult{}, nil
}

func (p *capturePublisher) Close() error { return nil }

func newIngestServiceEnv(t *testing.T) (IngestService, repository.DocumentRepository, *capturePublisher) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&rag.Document{}))
	docRepo := persistence.NewDocumentRepository(db)

	pub := &capturePublisher{}
	dispatcher, err := queue.NewIngestDispatcher(pub, "webmind.ingest.jobs")
	require.NoError(t, err)

	return NewIngestService(docRepo, dispatcher), docRepo, pub
}

func TestSubmitURLRejectsInvalidURL(t *testing.T) {
	svc, _, pub := newIngestServiceEnv(t)
	ctx := context.Background()

	for _, bad := range []string{"", "   ", "ftp://example.com/file", "not a url", "example.com/no-scheme", "https://"} {
		_, err := svc.SubmitURL(ctx, ragRequest.IngestURLRequest{Url: bad})
		require.Error(t, err, "url: %q", bad)

		var ce *xerr.CodeError
		require.True(t, errors.As(err, &ce), "url: %q", bad)
		require.Equal(t, xerr.BadRequest, ce.Code)
	}
	// 校验失败不能有任何副作用
	require.Empty(t, pub.messages)
}

func TestSubmitURLCreatesAndEnqueues(t *testing.T) {
	svc, _, pub := newIngestServiceEnv(t)

	out, err := svc.SubmitURL(context.Background(), ragRequest.IngestURLRequest{Url: "https://example.com/a"})
	require.NoError(t, err)
	require.Equal(t, rag.DocumentStatusPending, out.Status)
	require.NotEmpty(t, out.DocID)
	require.Len(t, pub.messages, 1)
	require.Equal(t, out.DocID, string(pub.messages[0].Key))
}

func TestSubmitURLDoesNotReEnqueueInFlight(t *testing.T) {
	svc, _, pub := newIngestServiceEnv(t)
	ctx := context.Background()

	first, err := svc.SubmitURL(ctx, ragRequest.IngestURLRequest{Url: "https://example.com/a"})
	require.NoError(t, err)

	// pending 状态重复提交：同一文档，不再入队
	second, err := svc.SubmitURL(ctx, ragRequest.IngestURLRequest{Url: "https://example.com/a"})
	require.NoError(t, err)
	require.Equal(t, first.DocID, second.DocID)
	require.Len(t, pub.messages, 1)
}

func TestSubmitURLRetriesFailedDocument(t *testing.T) {
	svc, docRepo, pub := newIngestServiceEnv(t)
	ctx := context.Background()

	first, err := svc.SubmitURL(ctx, ragRequest.IngestURLRequest{Url: "https://example.com/a"})
	require.NoError(t, err)

	ok, err := docRepo.TryMarkProcessing(ctx, first.DocID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, docRepo.MarkFailed(ctx, first.DocID, "fetch_error: boom"))

	out, err := svc.SubmitURL(ctx, ragRequest.IngestURLRequest{Url: "https://example.com/a"})
	require.NoError(t, err)
	require.Equal(t, first.DocID, out.DocID)
	require.Equal(t, rag.DocumentStatusPending, out.Status)
	require.Len(t, pub.messages, 2)

	got, err := docRepo.GetByID(ctx, first.DocID)
	require.NoError(t, err)
	require.Equal(t, rag.DocumentStatusPending, got.Status)
	require.Empty(t, got.ErrorMessage.String)
}

func TestSubmitURLEnqueueFailureMarksFailed(t *testing.T) {
	svc, docRepo, pub := newIngestServiceEnv(t)
	pub.err = errors.New("broker down")
	ctx := context.Background()

	_, err := svc.SubmitURL(ctx, ragRequest.IngestURLRequest{Url: "https://example.com/a"})
	require.Error(t, err)

	// 入队失败的文档标记为 failed，之后可以重试
	doc, err := docRepo.GetByURL(ctx, "https://example.com/a")
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.Equal(t, rag.DocumentStatusFailed, doc.Status)
}

func TestGetStatusNotFound(t *testing.T) {
	svc, _, _ := newIngestServiceEnv(t)

	_, err := svc.GetStatus(context.Background(), "no-such-id")
	require.Error(t, err)

	var ce *xerr.CodeError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, xerr.NotFound, ce.Code)
}

func TestGetStatusExposesErrorOnlyWhenFailed(t *testing.T) {
	svc, docRepo, _ := newIngestServiceEnv(t)
	ctx := context.Background()

	out, err := svc.SubmitURL(ctx, ragRequest.IngestURLRequest{Url: "https://example.com/a"})
	require.NoError(t, err)

	ok, err := docRepo.TryMarkProcessing(ctx, out.DocID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, docRepo.MarkFailed(ctx, out.DocID, "extraction_error: insufficient content"))

	item, err := svc.GetStatus(ctx, out.DocID)
	require.NoError(t, err)
	require.Equal(t, rag.DocumentStatusFailed, item.Status)
	require.Equal(t, "extraction_error: insufficient content", item.ErrorMessage)
}

func TestListDocumentsRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newIngestServiceEnv(t)

	_, err := svc.ListDocuments(context.Background(), ragRequest.ListDocumentsRequest{Status: "archived"})
	require.Error(t, err)

	var ce *xerr.CodeError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, xerr.BadRequest, ce.Code)
}

func TestListDocumentsPagination(t *testing.T) {
	svc, _, _ := newIngestServiceEnv(t)
	ctx := context.Background()

	for _, u := range []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"} {
		_, err := svc.SubmitURL(ctx, ragRequest.IngestURLRequest{Url: u})
		require.NoError(t, err)
	}

	out, err := svc.ListDocuments(ctx, ragRequest.ListDocumentsRequest{Limit: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, out.Total)
	require.Len(t, out.Items, 2)

	out, err = svc.ListDocuments(ctx, ragRequest.ListDocumentsRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, out.Total)
	require.Len(t, out.Items, 1)
}
