package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"WebMind/internal/modules/rag/domain/rag"
	"WebMind/internal/modules/rag/domain/repository"
	"WebMind/internal/modules/rag/infrastructure/chunking"
	"WebMind/internal/modules/rag/infrastructure/embedding"
	"WebMind/internal/modules/rag/infrastructure/extractor"
	"WebMind/internal/modules/rag/infrastructure/mq"
	"WebMind/internal/modules/rag/infrastructure/persistence"
	"WebMind/internal/modules/rag/infrastructure/pipeline"
	"WebMind/internal/modules/rag/infrastructure/vectordb"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type workerEnv struct {
	worker  *IngestConsumerWorker
	docRepo repository.DocumentRepository
	store   *vectordb.MemoryVectorStore
}

func newWorkerEnv(t *testing.T) *workerEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&rag.Document{}))
	docRepo := persistence.NewDocumentRepository(db)

	chunker, err := chunking.NewWordChunker(500, 50)
	require.NoError(t, err)

	embedder := embedding.NewMockEmbedder(64)
	store := vectordb.NewMemoryVectorStore()
	require.NoError(t, store.EnsureCollection(context.Background(), 64))

	p, err := pipeline.NewIngestPipeline(extractor.NewHTMLExtractor(5*time.Second), chunker, embedder, store, docRepo)
	require.NoError(t, err)

	return &workerEnv{
		worker:  NewIngestConsumerWorker(nil, docRepo, p, time.Minute),
		docRepo: docRepo,
		store:   store,
	}
}

func jobMessage(t *testing.T, docID, url string) mq.Message {
	t.Helper()
	payload, err := json.Marshal(IngestJob{DocID: docID, Url: url})
	require.NoError(t, err)
	return mq.Message{Topic: "webmind.ingest.jobs", Key: []byte(docID), Value: payload}
}

func htmlPage(nWords int) string {
	parts := make([]string, nWords)
	for i := range parts {
		parts[i] = fmt.Sprintf("word%d", i)
	}
	return "<html><head><title>Page</title></head><body><p>" + strings.Join(parts, " ") + "</p></body></html>"
}

func TestHandleProcessesPendingDocument(t *testing.T) {
	env := newWorkerEnv(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(htmlPage(200)))
	}))
	defer srv.Close()

	doc, _, err := env.docRepo.Submit(ctx, srv.URL)
	require.NoError(t, err)

	require.NoError(t, env.worker.Handle(ctx, jobMessage(t, doc.Id, srv.URL)))

	got, err := env.docRepo.GetByID(ctx, doc.Id)
	require.NoError(t, err)
	require.Equal(t, rag.DocumentStatusCompleted, got.Status)
	require.Equal(t, 1, got.ChunkCount)
}

func TestHandleSkipsNonPendingDocument(t *testing.T) {
	env := newWorkerEnv(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(htmlPage(200)))
	}))
	defer srv.Close()

	doc, _, err := env.docRepo.Submit(ctx, srv.URL)
	require.NoError(t, err)
	require.NoError(t, env.worker.Handle(ctx, jobMessage(t, doc.Id, srv.URL)))
	require.Equal(t, 1, env.store.Len())

	// 重复投递：文档已 completed，CAS 失败直接跳过，索引不变
	require.NoError(t, env.worker.Handle(ctx, jobMessage(t, doc.Id, srv.URL)))
	require.Equal(t, 1, env.store.Len())

	got, err := env.docRepo.GetByID(ctx, doc.Id)
	require.NoError(t, err)
	require.Equal(t, rag.DocumentStatusCompleted, got.Status)
}

func TestHandleRecordsBusinessFailure(t *testing.T) {
	env := newWorkerEnv(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	doc, _, err := env.docRepo.Submit(ctx, srv.URL)
	require.NoError(t, err)

	// 业务失败记入文档并提交 offset（返回 nil），不触发重投
	require.NoError(t, env.worker.Handle(ctx, jobMessage(t, doc.Id, srv.URL)))

	got, err := env.docRepo.GetByID(ctx, doc.Id)
	require.NoError(t, err)
	require.Equal(t, rag.DocumentStatusFailed, got.Status)
	require.Contains(t, got.ErrorMessage.String, "fetch_error")
}

func TestHandleIgnoresGarbageMessages(t *testing.T) {
	env := newWorkerEnv(t)
	ctx := context.Background()

	require.NoError(t, env.worker.Handle(ctx, mq.Message{Topic: "t", Value: []byte("not json")}))
	require.NoError(t, env.worker.Handle(ctx, mq.Message{Topic: "t", Value: []byte(`{"doc_id":"","url":""}`)}))

	// 未知文档（可能已被清理）：跳过且不报错
	require.NoError(t, env.worker.Handle(ctx, jobMessage(t, "no-such-doc", "https://example.com/x")))
}

func TestScrubErrMsgRedactsCredentials(t *testing.T) {
	require.Equal(t, "redacted", scrubErrMsg("invalid api_key provided"))
	require.Equal(t, "redacted", scrubErrMsg("401 unauthorized: sk-abc123"))
	require.Equal(t, "plain failure", scrubErrMsg("  plain failure "))

	long := strings.Repeat("e", 300)
	require.Len(t, scrubErrMsg(long), 255)
}
