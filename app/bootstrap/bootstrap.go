// Package bootstrap khởi tạo các thành phần dùng chung cho HTTP server và CLI
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/address-locator/app/config"
	"github.com/address-locator/app/models"
	"github.com/address-locator/app/services"
	"github.com/address-locator/internal/gazetteer"
	"github.com/address-locator/internal/metrics"
	"github.com/address-locator/internal/normalizer"
	"github.com/address-locator/internal/parser"
	"github.com/address-locator/internal/search"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// InitLogger khởi tạo structured logger theo môi trường
func InitLogger(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("lỗi khởi tạo logger: %w", err)
	}
	return logger, nil
}

// ConnectMongo kết nối MongoDB và trả về collection chứa dữ liệu tham chiếu
func ConnectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Collection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, nil, fmt.Errorf("lỗi kết nối MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("lỗi ping MongoDB: %w", err)
	}

	return client, client.Database(cfg.Database).Collection(cfg.Collection), nil
}

// LoadRecords đọc dữ liệu tham chiếu từ nguồn đã cấu hình
func LoadRecords(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]models.AddressRecord, error) {
	switch cfg.Dataset.Source {
	case config.SourceMongo:
		client, collection, err := ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("Lỗi ngắt kết nối MongoDB", zap.Error(err))
			}
		}()
		records, err := gazetteer.LoadMongo(ctx, collection)
		if err != nil {
			return nil, err
		}
		logger.Info("Đã tải dữ liệu tham chiếu từ MongoDB",
			zap.String("collection", cfg.Mongo.Collection),
			zap.Int("records", len(records)))
		return records, nil
	default:
		records, err := gazetteer.LoadFile(cfg.Dataset.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("Đã tải dữ liệu tham chiếu từ file",
			zap.String("path", cfg.Dataset.Path),
			zap.Int("records", len(records)))
		return records, nil
	}
}

// BuildParser dựng chỉ mục và bộ phân giải từ dữ liệu tham chiếu
func BuildParser(cfg *config.Config, records []models.AddressRecord, logger *zap.Logger) (*parser.AddressParser, error) {
	n, err := normalizer.NewTextNormalizer()
	if err != nil {
		return nil, fmt.Errorf("lỗi khởi tạo normalizer: %w", err)
	}
	idx, err := gazetteer.Build(records, n)
	if err != nil {
		return nil, err
	}

	stats := idx.Stats()
	logger.Info("Đã dựng chỉ mục tham chiếu",
		zap.Int("records", stats.Records),
		zap.Int("skipped", stats.Skipped),
		zap.Int("ward_names", stats.WardNames),
		zap.Int("tokens", stats.Tokens))
	if stats.Skipped > 0 {
		logger.Warn("Bỏ qua bản ghi thiếu tên phường/xã", zap.Int("skipped", stats.Skipped))
	}

	return parser.NewAddressParser(idx, cfg.Scoring.Weights, logger)
}

// NewCache tạo cache kết quả: LRU luôn bật, Redis khi redis.enabled
func NewCache(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*services.HybridCacheService, error) {
	local, err := services.NewCacheService(cfg.Cache.L1Size, logger)
	if err != nil {
		return nil, err
	}
	if !cfg.Redis.Enabled {
		return services.NewHybridCacheService(local, nil, m, logger), nil
	}

	redisCache, err := services.NewRedisCacheService(cfg.Redis.URL, cfg.Redis.TTL, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Đã bật Redis cache", zap.Duration("ttl", cfg.Redis.TTL))
	return services.NewHybridCacheService(local, redisCache, m, logger), nil
}

// NewSearcher tạo RecordIndexer, nil khi Meilisearch bị tắt
func NewSearcher(cfg *config.Config, logger *zap.Logger) *search.RecordIndexer {
	if !cfg.Meilisearch.Enabled {
		return nil
	}
	indexer := search.NewRecordIndexer(search.SearchConfig{
		Host:      cfg.Meilisearch.URL,
		APIKey:    cfg.Meilisearch.MasterKey,
		IndexName: cfg.Meilisearch.Index,
		BatchSize: cfg.Meilisearch.BatchSize,
	}, logger)
	if err := indexer.Health(); err != nil {
		logger.Warn("Meilisearch chưa sẵn sàng", zap.Error(err))
	}
	return indexer
}

// ServiceConfig tham số AddressService từ cấu hình
func ServiceConfig(cfg *config.Config) services.AddressServiceConfig {
	return services.AddressServiceConfig{
		SuggestLimit:  cfg.Suggest.Limit,
		MinSimilarity: cfg.Suggest.MinSimilarity,
		Workers:       cfg.Batch.Workers,
		MaxBatch:      cfg.Batch.MaxItems,
	}
}
