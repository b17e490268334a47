package services

import (
	"context"

	"github.com/address-locator/app/models"
)

// CacheStats thống kê cache
type CacheStats struct {
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// ICacheService interface định nghĩa các method cần thiết cho cache kết quả phân giải.
// Key là chuỗi đã chuẩn hóa.
type ICacheService interface {
	// Get lấy kết quả phân giải từ cache
	Get(ctx context.Context, key string) (*models.Resolution, bool, error)

	// Set lưu kết quả phân giải vào cache
	Set(ctx context.Context, key string, result *models.Resolution) error

	// Delete xóa một key khỏi cache
	Delete(ctx context.Context, key string) error

	// Clear xóa tất cả cache
	Clear(ctx context.Context) error

	// GetStats lấy thống kê cache
	GetStats(ctx context.Context) (*CacheStats, error)

	// Close đóng kết nối (nếu cần)
	Close() error
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// cloneResolution bản sao độc lập để caller sửa không ảnh hưởng cache
func cloneResolution(r *models.Resolution) *models.Resolution {
	if r == nil {
		return nil
	}
	out := *r
	out.Records = append([]models.AddressRecord(nil), r.Records...)
	if r.Records != nil && out.Records == nil {
		out.Records = []models.AddressRecord{}
	}
	if r.Suggestions != nil {
		out.Suggestions = append([]models.WardSuggestion(nil), r.Suggestions...)
	}
	return &out
}
