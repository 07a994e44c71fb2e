package queue

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"WebMind/internal/modules/rag/domain/repository"
	"WebMind/internal/modules/rag/infrastructure/mq"
	"WebMind/internal/modules/rag/infrastructure/pipeline"
	"WebMind/pkg/zlog"

	"go.uber.org/zap"
)

const defaultJobTimeout = 10 * time.Minute

// IngestConsumerWorker 消费摄取任务并驱动摄取管线
//
// 投递语义是 at-least-once，幂等靠两层保障：
// 1. 处理前的 pending → processing CAS，重复投递/并发抢占的失败方直接跳过；
// 2. 管线本身的重索引是幂等的（先删旧点再写新点）。
// 业务失败（抓取/抽取/向量化出错）记入文档后提交 offset，不重投；
// 只有基础设施错误（查库失败等）才返回 error 触发重投。
type IngestConsumerWorker struct {
	consumer   mq.Consumer
	docRepo    repository.DocumentRepository
	pipeline   *pipeline.IngestPipeline
	jobTimeout time.Duration
}

func NewIngestConsumerWorker(consumer mq.Consumer, docRepo repository.DocumentRepository, p *pipeline.IngestPipeline, jobTimeout time.Duration) *IngestConsumerWorker {
	if jobTimeout <= 0 {
		jobTimeout = defaultJobTimeout
	}
	return &IngestConsumerWorker{consumer: consumer, docRepo: docRepo, pipeline: p, jobTimeout: jobTimeout}
}

func (w *IngestConsumerWorker) Run(ctx context.Context) error {
	if w == nil || w.consumer == nil {
		return errors.New("consumer is nil")
	}
	if w.docRepo == nil {
		return errors.New("document repo is nil")
	}
	if w.pipeline == nil {
		return errors.New("pipeline is nil")
	}
	return w.consumer.Run(ctx, w)
}

func (w *IngestConsumerWorker) Handle(ctx context.Context, msg mq.Message) error {
	var job IngestJob
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		zlog.Warn("ingest consumer invalid payload", zap.String("topic", msg.Topic), zap.Error(err))
		return nil
	}
	if strings.TrimSpace(job.DocID) == "" || strings.TrimSpace(job.Url) == "" {
		zlog.Warn("ingest consumer missing doc_id/url", zap.String("topic", msg.Topic))
		return nil
	}

	doc, err := w.docRepo.GetByID(ctx, job.DocID)
	if err != nil {
		zlog.Warn("ingest consumer get document failed", zap.String("doc_id", job.DocID), zap.Error(err))
		return err
	}
	if doc == nil {
		return nil
	}

	ok, err := w.docRepo.TryMarkProcessing(ctx, doc.Id)
	if err != nil {
		zlog.Warn("ingest consumer mark processing failed", zap.String("doc_id", doc.Id), zap.Error(err))
		return err
	}
	if !ok {
		// 不在 pending：重复投递或他人已抢到，跳过
		return nil
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	if procErr := w.pipeline.Ingest(jobCtx, doc.Id, job.Url); procErr != nil {
		msg := scrubErrMsg(procErr.Error())
		if err := w.docRepo.MarkFailed(ctx, doc.Id, msg); err != nil {
			zlog.Warn("ingest consumer mark failed failed", zap.String("doc_id", doc.Id), zap.Error(err))
			return err
		}
		zlog.Warn("ingest job failed",
			zap.String("doc_id", doc.Id),
			zap.String("url", job.Url),
			zap.String("error", msg))
		return nil
	}

	return nil
}

// scrubErrMsg 失败原因入库前清洗：疑似凭证一律打码，超长截断
func scrubErrMsg(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	low := strings.ToLower(s)
	if strings.Contains(low, "api_key") || strings.Contains(low, "apikey") || strings.Contains(low, "secret") || strings.Contains(s, "sk-") {
		return "redacted"
	}
	if len(s) > 255 {
		return s[:255]
	}
	return s
}
