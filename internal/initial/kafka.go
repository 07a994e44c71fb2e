package initial

import (
	"fmt"
	"strings"

	"WebMind/internal/config"
	"WebMind/internal/modules/rag/infrastructure/mq"
	"WebMind/internal/modules/rag/infrastructure/mq/kafka"
	"WebMind/pkg/zlog"
)

var KafkaPublisher mq.Publisher

// IngestTopic 摄取任务使用的 topic
func IngestTopic() string {
	topic := strings.TrimSpace(config.GetConfig().KafkaConfig.IngestTopic)
	if topic == "" {
		topic = "webmind.ingest.jobs"
	}
	return topic
}

func init() {
	conf := config.GetConfig()
	brokers := conf.KafkaConfig.Brokers
	if len(brokers) == 0 {
		zlog.Info("Kafka 未配置，跳过初始化")
		return
	}

	topic := IngestTopic()

	if err := kafka.EnsureTopic(kafka.TopicAdminConfig{
		Brokers:  brokers,
		ClientID: conf.KafkaConfig.ClientID,
	}, topic, conf.KafkaConfig.Partitions, conf.KafkaConfig.Replication); err != nil {
		zlog.Fatal(fmt.Sprintf("kafka ensure topic failed: %v", err))
		return
	}

	pub, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:  brokers,
		ClientID: conf.KafkaConfig.ClientID,
	})
	if err != nil {
		zlog.Fatal(fmt.Sprintf("kafka publisher init failed: %v", err))
		return
	}
	KafkaPublisher = pub
}

// NewIngestConsumer 为消费端建立独立连接（与生产端分离，互不影响关闭顺序）
func NewIngestConsumer() (mq.Consumer, error) {
	conf := config.GetConfig()
	topic := IngestTopic()
	groupID := strings.TrimSpace(conf.KafkaConfig.ConsumerGroupID)
	if groupID == "" {
		groupID = "webmind-ingest-workers"
	}
	return kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:  conf.KafkaConfig.Brokers,
		GroupID:  groupID,
		Topics:   []string{topic},
		ClientID: conf.KafkaConfig.ClientID,
	})
}
