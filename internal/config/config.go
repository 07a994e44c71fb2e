package config

import (
	"log"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
)

type MainConfig struct {
	AppName string `toml:"appName"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Version string `toml:"version"`
}

type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

type LogConfig struct {
	LogPath string `toml:"logPath"`
}

type MilvusConfig struct {
	Address        string `toml:"address"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	DBName         string `toml:"dbName"`
	CollectionName string `toml:"collectionName"`
	MetricType     string `toml:"metricType"`
}

// VectorStoreConfig 选择向量存储后端：milvus 或 memory（开发/测试用）
type VectorStoreConfig struct {
	Backend string `toml:"backend"`
}

type KafkaConfig struct {
	Brokers         []string `toml:"brokers"`
	ClientID        string   `toml:"clientID"`
	IngestTopic     string   `toml:"ingestTopic"`
	ConsumerGroupID string   `toml:"consumerGroupID"`
	Partitions      int32    `toml:"partitions"`
	Replication     int16    `toml:"replication"`
}

type RedisConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"poolSize"`
	MinIdleConns int    `toml:"minIdleConns"`
}

type AIEmbeddingConfig struct {
	Provider       string `toml:"provider"`
	APIKey         string `toml:"apiKey"`
	BaseURL        string `toml:"baseURL"`
	Region         string `toml:"region"`
	Model          string `toml:"model"`
	Dimensions     int    `toml:"dimensions"`
	TimeoutSeconds int    `toml:"timeoutSeconds"`
}

// AIChatModelConfig 默认生成后端配置；运行期可通过切换接口覆盖（共享于 Redis）
type AIChatModelConfig struct {
	Provider       string  `toml:"provider"`
	APIKey         string  `toml:"apiKey"`
	BaseURL        string  `toml:"baseURL"`
	Model          string  `toml:"model"`
	Temperature    float32 `toml:"temperature"`
	MaxTokens      int     `toml:"maxTokens"`
	TimeoutSeconds int     `toml:"timeoutSeconds"`
}

type AIConfig struct {
	Embedding AIEmbeddingConfig `toml:"embedding"`
	ChatModel AIChatModelConfig `toml:"chatModel"`
}

// IngestConfig 摄取管线参数
type IngestConfig struct {
	ChunkSize         int    `toml:"chunkSize"`
	ChunkOverlap      int    `toml:"chunkOverlap"`
	ChunkStrategy     string `toml:"chunkStrategy"` // words（默认）或 recursive
	TopK              int    `toml:"topK"`
	FetchTimeoutSecs  int    `toml:"fetchTimeoutSeconds"`
	JobTimeoutMinutes int    `toml:"jobTimeoutMinutes"`
}

type Config struct {
	MainConfig        `toml:"mainConfig"`
	MysqlConfig       `toml:"mysqlConfig"`
	LogConfig         `toml:"logConfig"`
	MilvusConfig      `toml:"milvusConfig"`
	VectorStoreConfig `toml:"vectorStoreConfig"`
	KafkaConfig       `toml:"kafkaConfig"`
	RedisConfig       `toml:"redisConfig"`
	AIConfig          `toml:"aiConfig"`
	IngestConfig      `toml:"ingestConfig"`
}

var (
	config   *Config
	loadOnce sync.Once
)

func LoadConfig() error {
	configPath := os.Getenv("WEBMIND_CONFIG")
	if configPath == "" {
		configPath = "configs/config_local.toml"
	}
	config = defaultConfig()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Printf("加载配置文件失败: %v, 使用默认设置", err)
		return err
	}
	return nil
}

func GetConfig() *Config {
	loadOnce.Do(func() {
		if config == nil {
			_ = LoadConfig()
		}
	})
	return config
}

func defaultConfig() *Config {
	return &Config{
		MainConfig: MainConfig{AppName: "WebMind", Host: "0.0.0.0", Port: 8000, Version: "1.0.0"},
		IngestConfig: IngestConfig{
			ChunkSize:         500,
			ChunkOverlap:      50,
			ChunkStrategy:     "words",
			TopK:              5,
			FetchTimeoutSecs:  30,
			JobTimeoutMinutes: 10,
		},
		MilvusConfig:      MilvusConfig{CollectionName: "web_documents", MetricType: "COSINE"},
		VectorStoreConfig: VectorStoreConfig{Backend: "milvus"},
		AIConfig: AIConfig{
			Embedding: AIEmbeddingConfig{Provider: "mock", Dimensions: 384},
			ChatModel: AIChatModelConfig{Provider: "ollama", BaseURL: "http://localhost:11434", Model: "llama2", Temperature: 0.7, MaxTokens: 500},
		},
	}
}
