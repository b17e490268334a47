package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/address-locator/internal/parser"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Nguồn dữ liệu tham chiếu
const (
	SourceFile  = "file"
	SourceMongo = "mongo"
)

// AppConfig cấu hình HTTP server
type AppConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatasetConfig nguồn dữ liệu tham chiếu
type DatasetConfig struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
}

// MongoConfig kết nối MongoDB
type MongoConfig struct {
	URL        string `mapstructure:"url"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// RedisConfig cache L2
type RedisConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// CacheConfig cache L1
type CacheConfig struct {
	L1Size int `mapstructure:"l1_size"`
}

// MeilisearchConfig đồng bộ bản ghi tham chiếu
type MeilisearchConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	URL       string `mapstructure:"url"`
	MasterKey string `mapstructure:"master_key"`
	Index     string `mapstructure:"index"`
	BatchSize int    `mapstructure:"batch_size"`
}

// SuggestConfig gợi ý khi không tìm thấy
type SuggestConfig struct {
	Limit         int     `mapstructure:"limit"`
	MinSimilarity float64 `mapstructure:"min_similarity"`
}

// BatchConfig xử lý batch
type BatchConfig struct {
	Workers  int `mapstructure:"workers"`
	MaxItems int `mapstructure:"max_items"`
}

// ScoringConfig trọng số chấm điểm
type ScoringConfig struct {
	Weights parser.Weights `mapstructure:"weights"`
}

// Config cấu hình toàn bộ service
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Dataset     DatasetConfig     `mapstructure:"dataset"`
	Mongo       MongoConfig       `mapstructure:"mongo"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Meilisearch MeilisearchConfig `mapstructure:"meilisearch"`
	Suggest     SuggestConfig     `mapstructure:"suggest"`
	Batch       BatchConfig       `mapstructure:"batch"`
	Scoring     ScoringConfig     `mapstructure:"scoring"`
}

// Load đọc cấu hình từ .env, file YAML và biến môi trường (APP_PORT, REDIS_URL, ...).
// path rỗng thì tìm config/app.yaml và app.yaml; không có file vẫn dùng mặc định.
func Load(path string) (*Config, error) {
	// .env là tùy chọn
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("app")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("lỗi đọc file cấu hình: %w", err)
		}
	}

	cfg := &Config{Scoring: ScoringConfig{Weights: parser.DefaultWeights()}}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("lỗi parse cấu hình: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate kiểm tra các giá trị bắt buộc
func (c *Config) Validate() error {
	switch c.Dataset.Source {
	case SourceFile:
		if c.Dataset.Path == "" {
			return errors.New("dataset.path không được để trống")
		}
	case SourceMongo:
		if c.Mongo.URL == "" || c.Mongo.Collection == "" {
			return errors.New("mongo.url và mongo.collection không được để trống")
		}
	default:
		return fmt.Errorf("dataset.source không hợp lệ: %q", c.Dataset.Source)
	}
	if c.Batch.MaxItems <= 0 || c.Batch.Workers <= 0 {
		return errors.New("batch.workers và batch.max_items phải lớn hơn 0")
	}
	if c.Suggest.MinSimilarity < 0 || c.Suggest.MinSimilarity > 1 {
		return fmt.Errorf("suggest.min_similarity phải trong [0,1]: %v", c.Suggest.MinSimilarity)
	}
	if err := c.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("lỗi cấu hình scoring.weights: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")

	v.SetDefault("dataset.source", SourceFile)
	v.SetDefault("dataset.path", "data/addresses.json")

	v.SetDefault("mongo.url", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "address_locator")
	v.SetDefault("mongo.collection", "addresses")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379")
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("cache.l1_size", 10000)

	v.SetDefault("meilisearch.enabled", false)
	v.SetDefault("meilisearch.url", "http://localhost:7700")
	v.SetDefault("meilisearch.master_key", "")
	v.SetDefault("meilisearch.index", "address_records")
	v.SetDefault("meilisearch.batch_size", 1000)

	v.SetDefault("suggest.limit", 5)
	v.SetDefault("suggest.min_similarity", 0.8)

	v.SetDefault("batch.workers", 8)
	v.SetDefault("batch.max_items", 1000)
}
