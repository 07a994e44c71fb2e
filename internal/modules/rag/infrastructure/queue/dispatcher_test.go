package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"WebMind/internal/modules/rag/infrastructure/mq"

	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	messages []mq.Message
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, msg mq.Message) (mq.PublishResult, error) {
	if p.err != nil {
		return mq.PublishResult{}, p.err
	}
	p.messages = append(p.messages, msg)
	return mq.PublishResult{Partition: 0, Offset: int64(len(p.messages))}, nil
}

func (p *fakePublisher) Close() error { return nil }

func TestEnqueuePublishesKeyedPayload(t *testing.T) {
	pub := &fakePublisher{}
	d, err := NewIngestDispatcher(pub, "webmind.ingest.jobs")
	require.NoError(t, err)

	require.NoError(t, d.Enqueue(context.Background(), "doc-123", "https://example.com/a"))
	require.Len(t, pub.messages, 1)

	msg := pub.messages[0]
	require.Equal(t, "webmind.ingest.jobs", msg.Topic)
	// key 取文档 ID，保证同一文档路由到同一分区
	require.Equal(t, "doc-123", string(msg.Key))

	var job IngestJob
	require.NoError(t, json.Unmarshal(msg.Value, &job))
	require.Equal(t, "doc-123", job.DocID)
	require.Equal(t, "https://example.com/a", job.Url)
}

func TestEnqueuePropagatesPublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	d, err := NewIngestDispatcher(pub, "webmind.ingest.jobs")
	require.NoError(t, err)

	require.Error(t, d.Enqueue(context.Background(), "doc-123", "https://example.com/a"))
}

func TestNewIngestDispatcherValidation(t *testing.T) {
	_, err := NewIngestDispatcher(nil, "topic")
	require.Error(t, err)

	_, err = NewIngestDispatcher(&fakePublisher{}, "  ")
	require.Error(t, err)
}
