package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/address-locator/app/models"
	"github.com/address-locator/internal/metrics"
	"go.uber.org/zap"
)

// HybridCacheService cache service kết hợp LRU in-memory (L1) + Redis (L2).
// L2 có thể nil khi Redis bị tắt.
type HybridCacheService struct {
	local   *CacheService
	shared  ICacheService
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHybridCacheService tạo mới hybrid cache service
func NewHybridCacheService(local *CacheService, shared ICacheService, m *metrics.Metrics, logger *zap.Logger) *HybridCacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HybridCacheService{local: local, shared: shared, metrics: m, logger: logger}
}

// Get lấy kết quả từ cache (LRU trước, Redis sau)
func (hcs *HybridCacheService) Get(ctx context.Context, key string) (*models.Resolution, bool, error) {
	// 1. LRU (L1)
	if result, found, _ := hcs.local.Get(ctx, key); found {
		hcs.hit(metrics.TierL1)
		return result, true, nil
	}
	if hcs.shared == nil {
		return nil, false, nil
	}

	// 2. Redis (L2)
	result, found, err := hcs.shared.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		hcs.logger.Debug("Cache miss (cả LRU & Redis)", zap.String("key", key))
		return nil, false, nil
	}

	// 3. Đồng bộ Redis -> LRU
	_ = hcs.local.Set(ctx, key, result)
	hcs.hit(metrics.TierL2)
	return result, true, nil
}

// Set lưu kết quả vào cả 2 tầng
func (hcs *HybridCacheService) Set(ctx context.Context, key string, result *models.Resolution) error {
	_ = hcs.local.Set(ctx, key, result)
	if hcs.shared == nil {
		return nil
	}
	if err := hcs.shared.Set(ctx, key, result); err != nil {
		return fmt.Errorf("lỗi lưu cache L2: %w", err)
	}
	return nil
}

// Delete xóa key khỏi cả 2 tầng
func (hcs *HybridCacheService) Delete(ctx context.Context, key string) error {
	_ = hcs.local.Delete(ctx, key)
	if hcs.shared == nil {
		return nil
	}
	return hcs.shared.Delete(ctx, key)
}

// Clear xóa toàn bộ cache
func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	errs := []error{hcs.local.Clear(ctx)}
	if hcs.shared != nil {
		errs = append(errs, hcs.shared.Clear(ctx))
	}
	return errors.Join(errs...)
}

// GetStats thống kê gộp. TotalItems chỉ tính tầng LRU.
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	l1, _ := hcs.local.GetStats(ctx)
	stats := *l1
	if hcs.shared == nil {
		return &stats, nil
	}

	l2, err := hcs.shared.GetStats(ctx)
	if err != nil {
		hcs.logger.Warn("Không lấy được thống kê L2", zap.Error(err))
		return &stats, nil
	}
	// Miss ở L1 được tính lại ở L2 nên chỉ cộng hit
	stats.TotalHits += l2.TotalHits
	stats.TotalMiss = l2.TotalMiss
	stats.HitRate = hitRate(stats.TotalHits, stats.TotalMiss)
	return &stats, nil
}

// Close đóng kết nối L2
func (hcs *HybridCacheService) Close() error {
	if hcs.shared == nil {
		return nil
	}
	return hcs.shared.Close()
}

func (hcs *HybridCacheService) hit(tier string) {
	if hcs.metrics != nil {
		hcs.metrics.CacheHit(tier)
	}
}
