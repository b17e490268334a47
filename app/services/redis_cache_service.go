package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/address-locator/app/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultRedisPrefix = "addr_locator:"
	defaultRedisTTL    = 24 * time.Hour
	redisScanCount     = 500
)

// RedisCacheService cache service sử dụng Redis
type RedisCacheService struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration

	// Stats
	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisCacheService tạo mới Redis cache service và kiểm tra kết nối
func NewRedisCacheService(redisURL string, ttl time.Duration, logger *zap.Logger) (*RedisCacheService, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("lỗi parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("không thể kết nối Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = defaultRedisTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCacheService{
		client: client,
		logger: logger,
		prefix: defaultRedisPrefix,
		ttl:    ttl,
	}, nil
}

// Get lấy kết quả phân giải từ cache
func (rcs *RedisCacheService) Get(ctx context.Context, key string) (*models.Resolution, bool, error) {
	cacheKey := rcs.prefix + key

	val, err := rcs.client.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		rcs.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lỗi get từ Redis: %w", err)
	}

	var result models.Resolution
	if err := json.Unmarshal(val, &result); err != nil {
		return nil, false, fmt.Errorf("lỗi unmarshal cache data: %w", err)
	}

	rcs.hits.Add(1)
	rcs.logger.Debug("Redis cache hit", zap.String("key", key))
	return &result, true, nil
}

// Set lưu kết quả phân giải vào cache
func (rcs *RedisCacheService) Set(ctx context.Context, key string, result *models.Resolution) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("lỗi marshal cache data: %w", err)
	}

	if err := rcs.client.Set(ctx, rcs.prefix+key, data, rcs.ttl).Err(); err != nil {
		return fmt.Errorf("lỗi set vào Redis: %w", err)
	}
	return nil
}

// Delete xóa key khỏi cache
func (rcs *RedisCacheService) Delete(ctx context.Context, key string) error {
	if err := rcs.client.Del(ctx, rcs.prefix+key).Err(); err != nil {
		return fmt.Errorf("lỗi delete từ Redis: %w", err)
	}
	return nil
}

// Clear xóa toàn bộ key có prefix của service
func (rcs *RedisCacheService) Clear(ctx context.Context) error {
	deleted := 0
	iter := rcs.client.Scan(ctx, 0, rcs.prefix+"*", redisScanCount).Iterator()
	batch := make([]string, 0, redisScanCount)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == redisScanCount {
			if err := rcs.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("lỗi xóa keys: %w", err)
			}
			deleted += len(batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("lỗi lấy danh sách keys: %w", err)
	}
	if len(batch) > 0 {
		if err := rcs.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("lỗi xóa keys: %w", err)
		}
		deleted += len(batch)
	}

	rcs.logger.Info("Đã clear Redis cache", zap.Int("keys_deleted", deleted))
	return nil
}

// GetStats lấy thống kê cache
func (rcs *RedisCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	hits, misses := rcs.hits.Load(), rcs.misses.Load()
	stats := &CacheStats{
		HitRate:   hitRate(hits, misses),
		TotalHits: hits,
		TotalMiss: misses,
	}

	var cursor uint64
	for {
		keys, next, err := rcs.client.Scan(ctx, cursor, rcs.prefix+"*", redisScanCount).Result()
		if err != nil {
			rcs.logger.Warn("Không thể đếm key Redis", zap.Error(err))
			break
		}
		stats.TotalItems += int64(len(keys))
		if next == 0 {
			break
		}
		cursor = next
	}
	return stats, nil
}

// Close đóng kết nối Redis
func (rcs *RedisCacheService) Close() error {
	return rcs.client.Close()
}
