package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/address-locator/app/models"
	"github.com/address-locator/internal/gazetteer"
	"go.uber.org/zap"
)

// ErrSearchDisabled chưa cấu hình Meilisearch
var ErrSearchDisabled = errors.New("Meilisearch chưa được bật")

// RecordSearcher đồng bộ và tra cứu bản ghi tham chiếu trên search engine
type RecordSearcher interface {
	ConfigureIndex() error
	SeedRecords(records []models.AddressRecord) (int, error)
	Search(query string, limit int) ([]models.AddressRecord, error)
}

// AdminService service quản lý admin functions
type AdminService struct {
	index     *gazetteer.Index
	cache     ICacheService
	searcher  RecordSearcher
	logger    *zap.Logger
	startTime time.Time
}

// SyncResult kết quả đồng bộ Meilisearch
type SyncResult struct {
	RecordsIndexed   int   `json:"records_indexed"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

// SystemStats thống kê hệ thống
type SystemStats struct {
	Index         gazetteer.Stats        `json:"index"`
	Cache         *CacheStats            `json:"cache,omitempty"`
	SearchEnabled bool                   `json:"search_enabled"`
	Uptime        string                 `json:"uptime"`
	MemoryUsage   map[string]interface{} `json:"memory_usage"`
}

// NewAdminService tạo mới AdminService. cache và searcher có thể nil.
func NewAdminService(index *gazetteer.Index, cache ICacheService, searcher RecordSearcher, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		index:     index,
		cache:     cache,
		searcher:  searcher,
		logger:    logger,
		startTime: time.Now(),
	}
}

// GetSystemStats lấy thống kê chỉ mục, cache và bộ nhớ
func (as *AdminService) GetSystemStats(ctx context.Context) (*SystemStats, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := &SystemStats{
		Index:         as.index.Stats(),
		SearchEnabled: as.searcher != nil,
		Uptime:        time.Since(as.startTime).Round(time.Second).String(),
		MemoryUsage: map[string]interface{}{
			"alloc_mb":       bToMb(m.Alloc),
			"total_alloc_mb": bToMb(m.TotalAlloc),
			"sys_mb":         bToMb(m.Sys),
			"num_gc":         m.NumGC,
		},
	}

	if as.cache != nil {
		cacheStats, err := as.cache.GetStats(ctx)
		if err != nil {
			return nil, fmt.Errorf("lỗi lấy thống kê cache: %w", err)
		}
		stats.Cache = cacheStats
	}
	return stats, nil
}

// ClearCache xóa toàn bộ cache kết quả
func (as *AdminService) ClearCache(ctx context.Context) error {
	if as.cache == nil {
		return nil
	}
	if err := as.cache.Clear(ctx); err != nil {
		return fmt.Errorf("lỗi xóa cache: %w", err)
	}
	as.logger.Info("Đã xóa cache kết quả")
	return nil
}

// SyncSearch cấu hình index và đẩy toàn bộ bản ghi tham chiếu lên Meilisearch
func (as *AdminService) SyncSearch(_ context.Context) (*SyncResult, error) {
	if as.searcher == nil {
		return nil, ErrSearchDisabled
	}
	start := time.Now()

	if err := as.searcher.ConfigureIndex(); err != nil {
		return nil, err
	}
	n, err := as.searcher.SeedRecords(as.index.Records())
	if err != nil {
		return nil, fmt.Errorf("lỗi đồng bộ Meilisearch: %w", err)
	}

	result := &SyncResult{
		RecordsIndexed:   n,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
	as.logger.Info("Đã đồng bộ Meilisearch",
		zap.Int("records", n),
		zap.Int64("processing_time_ms", result.ProcessingTimeMs))
	return result, nil
}

// SearchRecords tra cứu bản ghi tham chiếu trên Meilisearch
func (as *AdminService) SearchRecords(query string, limit int) ([]models.AddressRecord, error) {
	if as.searcher == nil {
		return nil, ErrSearchDisabled
	}
	return as.searcher.Search(query, limit)
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
