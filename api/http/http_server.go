package http

import (
	"context"
	"fmt"
	"strings"
	"time"

	"WebMind/internal/config"
	"WebMind/internal/initial"
	ragService "WebMind/internal/modules/rag/application/service"
	"WebMind/internal/modules/rag/domain/rag"
	ragRepo "WebMind/internal/modules/rag/domain/repository"
	"WebMind/internal/modules/rag/infrastructure/chunking"
	"WebMind/internal/modules/rag/infrastructure/embedding"
	"WebMind/internal/modules/rag/infrastructure/extractor"
	"WebMind/internal/modules/rag/infrastructure/llm"
	"WebMind/internal/modules/rag/infrastructure/persistence"
	"WebMind/internal/modules/rag/infrastructure/pipeline"
	"WebMind/internal/modules/rag/infrastructure/queue"
	"WebMind/internal/modules/rag/infrastructure/vectordb"
	ragHandler "WebMind/internal/modules/rag/interface/http"
	"WebMind/pkg/redis"
	"WebMind/pkg/ssl"
	"WebMind/pkg/zlog"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

var GE *gin.Engine

// IngestWorker 摄取任务消费者，由 main 在独立 goroutine 中运行
var IngestWorker *queue.IngestConsumerWorker

func init() {
	conf := config.GetConfig()
	ctx := context.Background()

	GE = gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	GE.Use(cors.New(corsConfig))
	GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))

	// 向量化后端：静态配置，进程生命周期内固定
	embedder, err := embedding.NewEmbedderFromConfig(ctx, conf)
	if err != nil {
		zlog.Fatal(fmt.Sprintf("embedder init failed: %v", err))
		return
	}

	store := buildVectorStore(conf, embedder.Dimension())
	if err := store.EnsureCollection(ctx, embedder.Dimension()); err != nil {
		zlog.Fatal(fmt.Sprintf("ensure vector collection failed: %v", err))
		return
	}

	docRepo := persistence.NewDocumentRepository(initial.GormDB)

	chunker := buildChunker(conf)
	fetchTimeout := time.Duration(conf.IngestConfig.FetchTimeoutSecs) * time.Second
	htmlExtractor := extractor.NewHTMLExtractor(fetchTimeout)

	ingestPipeline, err := pipeline.NewIngestPipeline(htmlExtractor, chunker, embedder, store, docRepo)
	if err != nil {
		zlog.Fatal(fmt.Sprintf("ingest pipeline init failed: %v", err))
		return
	}

	// 生成后端配置共享在 Redis；未配置 Redis 时退化为进程内存储（仅限单机）
	var configStore ragRepo.ProviderConfigStore
	if redis.IsConnected() {
		configStore = llm.NewRedisProviderConfigStore()
	} else {
		zlog.Warn("Redis 未配置，生成后端切换只对当前进程生效")
		configStore = llm.NewMemoryProviderConfigStore()
	}

	kind, _ := rag.ParseProviderKind(conf.AIConfig.ChatModel.Provider)
	if kind == "" {
		kind = rag.ProviderKindOllama
	}
	defaults := rag.ProviderConfig{
		Kind:        kind,
		Model:       strings.TrimSpace(conf.AIConfig.ChatModel.Model),
		BaseURL:     strings.TrimSpace(conf.AIConfig.ChatModel.BaseURL),
		APIKey:      strings.TrimSpace(conf.AIConfig.ChatModel.APIKey),
		Temperature: conf.AIConfig.ChatModel.Temperature,
		MaxTokens:   conf.AIConfig.ChatModel.MaxTokens,
	}
	resolver := llm.NewResolver(configStore, defaults)

	queryPipeline, err := pipeline.NewQueryPipeline(embedder, store, resolver, conf.IngestConfig.TopK)
	if err != nil {
		zlog.Fatal(fmt.Sprintf("query pipeline init failed: %v", err))
		return
	}

	if initial.KafkaPublisher == nil {
		zlog.Fatal("Kafka 未配置，摄取队列无法工作")
		return
	}
	dispatcher, err := queue.NewIngestDispatcher(initial.KafkaPublisher, initial.IngestTopic())
	if err != nil {
		zlog.Fatal(fmt.Sprintf("ingest dispatcher init failed: %v", err))
		return
	}

	consumer, err := initial.NewIngestConsumer()
	if err != nil {
		zlog.Fatal(fmt.Sprintf("ingest consumer init failed: %v", err))
		return
	}
	jobTimeout := time.Duration(conf.IngestConfig.JobTimeoutMinutes) * time.Minute
	IngestWorker = queue.NewIngestConsumerWorker(consumer, docRepo, ingestPipeline, jobTimeout)

	ingestSvc := ragService.NewIngestService(docRepo, dispatcher)
	querySvc := ragService.NewQueryService(queryPipeline)
	providerSvc := ragService.NewProviderService(resolver)

	ingestH := ragHandler.NewIngestHandler(ingestSvc)
	queryH := ragHandler.NewQueryHandler(querySvc)
	providerH := ragHandler.NewProviderHandler(providerSvc)

	GE.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"app":     conf.MainConfig.AppName,
			"version": conf.MainConfig.Version,
			"status":  "ok",
		})
	})

	GE.POST("/ingest-url", ingestH.SubmitURL)
	GE.GET("/status/:doc_id", ingestH.GetStatus)
	GE.GET("/documents", ingestH.ListDocuments)
	GE.POST("/query", queryH.Query)
	GE.GET("/provider", providerH.Current)
	GE.POST("/provider/switch", providerH.Switch)
}

func buildVectorStore(conf *config.Config, dim int) ragRepo.VectorStore {
	backend := strings.ToLower(strings.TrimSpace(conf.VectorStoreConfig.Backend))
	if backend == "memory" {
		zlog.Info("vector store backend: memory")
		return vectordb.NewMemoryVectorStore()
	}

	if initial.MilvusClient == nil {
		zlog.Warn("Milvus 未配置，向量索引退化为内存实现（重启即丢）")
		return vectordb.NewMemoryVectorStore()
	}

	metricType := entity.MetricType(strings.TrimSpace(conf.MilvusConfig.MetricType))
	if metricType == "" {
		metricType = entity.COSINE
	}
	ms, err := vectordb.NewMilvusStore(initial.MilvusClient, conf.MilvusConfig.CollectionName, dim, metricType)
	if err != nil {
		zlog.Fatal(fmt.Sprintf("milvus store init failed: %v", err))
		return nil
	}
	mvs, err := vectordb.NewMilvusVectorStore(ms)
	if err != nil {
		zlog.Fatal(fmt.Sprintf("milvus vector store init failed: %v", err))
		return nil
	}
	return mvs
}

func buildChunker(conf *config.Config) pipeline.Chunker {
	size := conf.IngestConfig.ChunkSize
	overlap := conf.IngestConfig.ChunkOverlap
	strategy := strings.ToLower(strings.TrimSpace(conf.IngestConfig.ChunkStrategy))

	if strategy == "recursive" {
		c, err := chunking.NewRecursiveChunker(size, overlap)
		if err != nil {
			zlog.Fatal(fmt.Sprintf("recursive chunker init failed: %v", err))
			return nil
		}
		return c
	}

	c, err := chunking.NewWordChunker(size, overlap)
	if err != nil {
		zlog.Fatal(fmt.Sprintf("word chunker init failed: %v", err))
		return nil
	}
	return c
}
