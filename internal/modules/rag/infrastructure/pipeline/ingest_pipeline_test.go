package pipeline

import (
	"context"
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
	"WebMind/internal/modules/rag/infrastructure/persistence"
	"WebMind/internal/modules/rag/infrastructure/vectordb"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type ingestEnv struct {
	pipeline *IngestPipeline
	store    *vectordb.MemoryVectorStore
	docRepo  repository.DocumentRepository
}

func newIngestEnv(t *testing.T) *ingestEnv {
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

	p, err := NewIngestPipeline(extractor.NewHTMLExtractor(5*time.Second), chunker, embedder, store, docRepo)
	require.NoError(t, err)

	return &ingestEnv{pipeline: p, store: store, docRepo: docRepo}
}

func pageOfWords(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("word%d", i)
	}
	return "<html><head><title>Long Article</title></head><body><p>" +
		strings.Join(parts, " ") + "</p></body></html>"
}

func TestIngestLongPageProducesTwoChunks(t *testing.T) {
	env := newIngestEnv(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(pageOfWords(550)))
	}))
	defer srv.Close()

	doc, _, err := env.docRepo.Submit(ctx, srv.URL)
	require.NoError(t, err)
	ok, err := env.docRepo.TryMarkProcessing(ctx, doc.Id)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, env.pipeline.Ingest(ctx, doc.Id, srv.URL))

	got, err := env.docRepo.GetByID(ctx, doc.Id)
	require.NoError(t, err)
	require.Equal(t, rag.DocumentStatusCompleted, got.Status)
	require.Equal(t, "Long Article", got.Title.String)
	require.Equal(t, 2, got.ChunkCount)
	require.Equal(t, 2, env.store.Len())
}

func TestIngestIsIdempotentOnReprocess(t *testing.T) {
	env := newIngestEnv(t)
	ctx := context.Background()

	content := pageOfWords(550)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(content))
	}))
	defer srv.Close()

	doc, _, err := env.docRepo.Submit(ctx, srv.URL)
	require.NoError(t, err)

	require.NoError(t, env.pipeline.Ingest(ctx, doc.Id, srv.URL))
	require.Equal(t, 2, env.store.Len())

	// 页面变短后重新处理：旧向量点不能残留
	content = pageOfWords(100)
	require.NoError(t, env.pipeline.Ingest(ctx, doc.Id, srv.URL))
	require.Equal(t, 1, env.store.Len())

	got, err := env.docRepo.GetByID(ctx, doc.Id)
	require.NoError(t, err)
	require.Equal(t, 1, got.ChunkCount)
}

func TestIngestFailureLeavesNoVectors(t *testing.T) {
	env := newIngestEnv(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>tiny</p></body></html>"))
	}))
	defer srv.Close()

	doc, _, err := env.docRepo.Submit(ctx, srv.URL)
	require.NoError(t, err)

	err = env.pipeline.Ingest(ctx, doc.Id, srv.URL)
	require.Error(t, err)
	require.True(t, rag.IsKind(err, rag.ErrKindExtraction))
	require.Equal(t, 0, env.store.Len())

	// 管线只返回错误，状态记账由调用方负责
	got, err := env.docRepo.GetByID(ctx, doc.Id)
	require.NoError(t, err)
	require.Equal(t, rag.DocumentStatusPending, got.Status)
}
