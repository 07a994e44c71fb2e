package queue

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"WebMind/internal/modules/rag/infrastructure/mq"
	"WebMind/pkg/zlog"

	"go.uber.org/zap"
)

// IngestJob 摄取任务的消息载荷
type IngestJob struct {
	DocID string `json:"doc_id"`
	Url   string `json:"url"`
}

// IngestDispatcher 把摄取任务投递到消息队列
//
// 消息 key 取文档 ID：哈希分区把同一文档的任务路由到同一分区，
// 重复提交/重试的任务在分区内串行到达，配合消费端的状态 CAS 实现去重。
type IngestDispatcher struct {
	publisher mq.Publisher
	topic     string
}

func NewIngestDispatcher(publisher mq.Publisher, topic string) (*IngestDispatcher, error) {
	if publisher == nil {
		return nil, errors.New("publisher is nil")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, errors.New("ingest topic is empty")
	}
	return &IngestDispatcher{publisher: publisher, topic: topic}, nil
}

func (d *IngestDispatcher) Enqueue(ctx context.Context, docID, url string) error {
	payload, err := json.Marshal(IngestJob{DocID: docID, Url: url})
	if err != nil {
		return err
	}

	res, err := d.publisher.Publish(ctx, mq.Message{
		Topic: d.topic,
		Key:   []byte(docID),
		Value: payload,
	})
	if err != nil {
		return err
	}

	zlog.Info("ingest job enqueued",
		zap.String("doc_id", docID),
		zap.Int32("partition", res.Partition),
		zap.Int64("offset", res.Offset))
	return nil
}
