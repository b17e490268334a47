package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/address-locator/app/models"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// defaultL1Size số kết quả tối đa giữ trong bộ nhớ
const defaultL1Size = 10000

// CacheService cache in-memory LRU cho kết quả phân giải
type CacheService struct {
	cache  *lru.Cache[string, *models.Resolution]
	logger *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCacheService tạo mới CacheService với kích thước tối đa size
func NewCacheService(size int, logger *zap.Logger) (*CacheService, error) {
	if size <= 0 {
		size = defaultL1Size
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := lru.New[string, *models.Resolution](size)
	if err != nil {
		return nil, fmt.Errorf("lỗi tạo LRU cache: %w", err)
	}
	return &CacheService{cache: cache, logger: logger}, nil
}

// Get lấy kết quả từ cache
func (cs *CacheService) Get(_ context.Context, key string) (*models.Resolution, bool, error) {
	res, ok := cs.cache.Get(key)
	if !ok {
		cs.misses.Add(1)
		return nil, false, nil
	}
	cs.hits.Add(1)
	return cloneResolution(res), true, nil
}

// Set lưu kết quả vào cache
func (cs *CacheService) Set(_ context.Context, key string, result *models.Resolution) error {
	if result == nil {
		return nil
	}
	if evicted := cs.cache.Add(key, cloneResolution(result)); evicted {
		cs.logger.Debug("LRU cache evict", zap.String("key", key))
	}
	return nil
}

// Delete xóa key khỏi cache
func (cs *CacheService) Delete(_ context.Context, key string) error {
	cs.cache.Remove(key)
	return nil
}

// Clear xóa toàn bộ cache
func (cs *CacheService) Clear(_ context.Context) error {
	n := cs.cache.Len()
	cs.cache.Purge()
	cs.logger.Info("Đã clear LRU cache", zap.Int("keys_deleted", n))
	return nil
}

// GetStats lấy thống kê cache
func (cs *CacheService) GetStats(_ context.Context) (*CacheStats, error) {
	hits, misses := cs.hits.Load(), cs.misses.Load()
	return &CacheStats{
		HitRate:    hitRate(hits, misses),
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: int64(cs.cache.Len()),
	}, nil
}

// Close không cần giải phóng tài nguyên
func (cs *CacheService) Close() error { return nil }
