package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/address-locator/app/models"
	"github.com/address-locator/internal/metrics"
	"github.com/address-locator/internal/parser"
	"go.uber.org/zap"
)

// Giá trị mặc định khi cấu hình để trống
const (
	defaultSuggestLimit  = 5
	defaultMinSimilarity = 0.8
	defaultBatchWorkers  = 8
	defaultMaxBatch      = 1000
)

var (
	// ErrEmptyAddress địa chỉ rỗng hoặc chỉ có khoảng trắng
	ErrEmptyAddress = errors.New("địa chỉ không được để trống")
	// ErrEmptyBatch batch không có địa chỉ nào
	ErrEmptyBatch = errors.New("batch không có địa chỉ nào")
	// ErrBatchTooLarge batch vượt quá số lượng cho phép
	ErrBatchTooLarge = errors.New("batch vượt quá số lượng cho phép")
)

// AddressServiceConfig tham số vận hành của AddressService
type AddressServiceConfig struct {
	SuggestLimit  int
	MinSimilarity float64
	Workers       int
	MaxBatch      int
}

// ResolveResult kết quả phân giải kèm thông tin xử lý
type ResolveResult struct {
	Resolution     *models.Resolution
	CacheHit       bool
	ProcessingTime time.Duration
}

// AddressService service xử lý logic phân giải địa chỉ
type AddressService struct {
	parser    *parser.AddressParser
	cache     ICacheService
	metrics   *metrics.Metrics
	config    AddressServiceConfig
	logger    *zap.Logger
	startTime time.Time
}

// NewAddressService tạo mới AddressService. cache và m có thể nil.
func NewAddressService(p *parser.AddressParser, cache ICacheService, m *metrics.Metrics, config AddressServiceConfig, logger *zap.Logger) *AddressService {
	if config.SuggestLimit <= 0 {
		config.SuggestLimit = defaultSuggestLimit
	}
	if config.MinSimilarity <= 0 {
		config.MinSimilarity = defaultMinSimilarity
	}
	if config.Workers <= 0 {
		config.Workers = defaultBatchWorkers
	}
	if config.MaxBatch <= 0 {
		config.MaxBatch = defaultMaxBatch
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if m != nil {
		m.IndexRecords.Set(float64(p.Index().Stats().Records))
	}
	return &AddressService{
		parser:    p,
		cache:     cache,
		metrics:   m,
		config:    config,
		logger:    logger,
		startTime: time.Now(),
	}
}

// MaxBatch số địa chỉ tối đa mỗi batch
func (as *AddressService) MaxBatch() int { return as.config.MaxBatch }

// Resolve phân giải một địa chỉ
func (as *AddressService) Resolve(ctx context.Context, text string) (*ResolveResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyAddress
	}
	return as.resolve(ctx, text), nil
}

func (as *AddressService) resolve(ctx context.Context, text string) *ResolveResult {
	start := time.Now()
	normalized := as.parser.Normalize(text)

	if res, ok := as.cached(ctx, normalized); ok {
		elapsed := time.Since(start)
		as.observe(res.Status, elapsed)
		return &ResolveResult{Resolution: res, CacheHit: true, ProcessingTime: elapsed}
	}

	res := as.parser.ResolveNormalized(normalized)
	if !res.Matched() {
		query := res.WardPhrase
		if query == "" {
			query = normalized
		}
		res.Suggestions = as.parser.Suggest(query, as.config.SuggestLimit, as.config.MinSimilarity)
	}

	if as.cache != nil {
		if err := as.cache.Set(ctx, normalized, &res); err != nil {
			as.cacheError("Lỗi lưu cache, bỏ qua", err)
		}
	}

	elapsed := time.Since(start)
	as.observe(res.Status, elapsed)
	as.logger.Debug("Đã phân giải địa chỉ",
		zap.String("raw", text),
		zap.String("normalized", normalized),
		zap.String("status", res.Status),
		zap.Int("results", len(res.Records)),
		zap.Duration("elapsed", elapsed))
	return &ResolveResult{Resolution: &res, ProcessingTime: elapsed}
}

func (as *AddressService) cached(ctx context.Context, key string) (*models.Resolution, bool) {
	if as.cache == nil {
		return nil, false
	}
	res, found, err := as.cache.Get(ctx, key)
	if err != nil {
		as.cacheError("Lỗi đọc cache, bỏ qua", err)
		return nil, false
	}
	return res, found
}

func (as *AddressService) cacheError(msg string, err error) {
	as.logger.Warn(msg, zap.Error(err))
	if as.metrics != nil {
		as.metrics.CacheErrors.Inc()
	}
}

func (as *AddressService) observe(status string, elapsed time.Duration) {
	if as.metrics != nil {
		as.metrics.ObserveResolve(status, elapsed)
	}
}

// ResolveBatch phân giải nhiều địa chỉ song song, giữ nguyên thứ tự đầu vào.
// Địa chỉ rỗng trong batch cho kết quả không tìm thấy thay vì lỗi.
func (as *AddressService) ResolveBatch(ctx context.Context, texts []string) ([]*ResolveResult, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(texts) > as.config.MaxBatch {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(texts), as.config.MaxBatch)
	}
	if as.metrics != nil {
		as.metrics.BatchItems.Add(float64(len(texts)))
	}

	results := make([]*ResolveResult, len(texts))
	sem := make(chan struct{}, as.config.Workers)
	var wg sync.WaitGroup

loop:
	for i, text := range texts {
		select {
		case <-ctx.Done():
			break loop
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = as.resolve(ctx, text)
		}(i, text)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("lỗi xử lý batch: %w", err)
	}

	as.logger.Info("Batch completed", zap.Int("total_addresses", len(texts)))
	return results, nil
}

// GetStartTime lấy thời gian khởi động service
func (as *AddressService) GetStartTime() time.Time {
	return as.startTime
}
