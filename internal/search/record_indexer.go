// Package search đồng bộ dữ liệu tham chiếu sang Meilisearch cho giao diện tra cứu
package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/address-locator/app/models"
	"github.com/address-locator/internal/normalizer"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

// defaultBatchSize số document mỗi lần AddDocuments
const defaultBatchSize = 1000

// ErrNoRecords không có bản ghi để đồng bộ
var ErrNoRecords = errors.New("không có dữ liệu để seed")

// recordNamespace namespace sinh ID ổn định cho document
var recordNamespace = uuid.MustParse("6f1c2a9e-3d4b-5e6f-8a7b-9c0d1e2f3a4b")

// SearchConfig cấu hình cho Meilisearch
type SearchConfig struct {
	Host      string
	APIKey    string
	IndexName string
	BatchSize int
}

// documentIndex phần API index Meilisearch được dùng tới
type documentIndex interface {
	UpdateSettings(request *meilisearch.Settings) (*meilisearch.TaskInfo, error)
	AddDocuments(documentsPtr interface{}, primaryKey ...string) (*meilisearch.TaskInfo, error)
	Search(query string, request *meilisearch.SearchRequest) (*meilisearch.SearchResponse, error)
}

// RecordDocument document lưu trong Meilisearch cho một bản ghi tham chiếu
type RecordDocument struct {
	ID                 string `json:"id"`
	Ward               string `json:"ward"`
	District           string `json:"district"`
	Province           string `json:"province"`
	NewWard            string `json:"newward"`
	NewProvince        string `json:"newprov"`
	FullNew            string `json:"fullnew"`
	NormalizedWard     string `json:"normalized_ward"`
	NormalizedDistrict string `json:"normalized_district"`
	NormalizedProvince string `json:"normalized_province"`
}

// RecordIndexer đẩy bản ghi tham chiếu vào Meilisearch và tra cứu lại
type RecordIndexer struct {
	client    meilisearch.ServiceManager
	index     documentIndex
	batchSize int
	logger    *zap.Logger
}

// NewRecordIndexer tạo mới RecordIndexer với Meilisearch client
func NewRecordIndexer(config SearchConfig, logger *zap.Logger) *RecordIndexer {
	client := meilisearch.New(config.Host, meilisearch.WithAPIKey(config.APIKey))
	ri := newRecordIndexer(client.Index(config.IndexName), config.BatchSize, logger)
	ri.client = client
	return ri
}

func newRecordIndexer(index documentIndex, batchSize int, logger *zap.Logger) *RecordIndexer {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordIndexer{index: index, batchSize: batchSize, logger: logger}
}

// Health kiểm tra kết nối Meilisearch
func (ri *RecordIndexer) Health() error {
	if ri.client == nil {
		return nil
	}
	health, err := ri.client.Health()
	if err != nil {
		return fmt.Errorf("không thể kết nối Meilisearch: %w", err)
	}
	if health.Status != "available" {
		return fmt.Errorf("Meilisearch chưa sẵn sàng: %s", health.Status)
	}
	return nil
}

// ConfigureIndex cấu hình thuộc tính tìm kiếm, lọc và synonyms
func (ri *RecordIndexer) ConfigureIndex() error {
	enabled := true
	task, err := ri.index.UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{
			"ward", "normalized_ward",
			"district", "normalized_district",
			"province", "normalized_province",
			"newward", "fullnew",
		},
		FilterableAttributes: []string{"normalized_district", "normalized_province", "newprov"},
		SortableAttributes:   []string{"normalized_ward"},
		RankingRules:         []string{"words", "typo", "proximity", "attribute", "sort", "exactness"},
		StopWords:            []string{"phuong", "xa", "quan", "huyen", "tinh"},
		Synonyms: map[string][]string{
			"tp":  {"thanh pho"},
			"hcm": {"ho chi minh", "sai gon"},
			"q":   {"quan"},
			"p":   {"phuong"},
		},
		TypoTolerance: &meilisearch.TypoTolerance{
			Enabled: enabled,
			MinWordSizeForTypos: meilisearch.MinWordSizeForTypos{
				OneTypo:  3,
				TwoTypos: 7,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("lỗi cấu hình index: %w", err)
	}

	ri.logger.Info("Đã cấu hình index Meilisearch", zap.Int64("task_uid", task.TaskUID))
	return nil
}

// NewRecordDocument chuyển bản ghi tham chiếu thành document.
// ID sinh từ tên ba cấp nên seed lại không tạo bản trùng.
func NewRecordDocument(rec models.AddressRecord) RecordDocument {
	key := strings.Join([]string{rec.Ward, rec.District, rec.Province}, "|")
	return RecordDocument{
		ID:                 uuid.NewSHA1(recordNamespace, []byte(key)).String(),
		Ward:               rec.Ward,
		District:           rec.District,
		Province:           rec.Province,
		NewWard:            rec.NewWard,
		NewProvince:        rec.NewProvince,
		FullNew:            rec.FullNew,
		NormalizedWard:     normalizer.FoldASCII(rec.Ward),
		NormalizedDistrict: normalizer.FoldASCII(rec.District),
		NormalizedProvince: normalizer.FoldASCII(rec.Province),
	}
}

// SeedRecords nạp bản ghi theo lô, trả về số document đã gửi
func (ri *RecordIndexer) SeedRecords(records []models.AddressRecord) (int, error) {
	if len(records) == 0 {
		return 0, ErrNoRecords
	}

	sent := 0
	for start := 0; start < len(records); start += ri.batchSize {
		end := start + ri.batchSize
		if end > len(records) {
			end = len(records)
		}

		batch := make([]RecordDocument, 0, end-start)
		for _, rec := range records[start:end] {
			batch = append(batch, NewRecordDocument(rec))
		}

		task, err := ri.index.AddDocuments(batch, "id")
		if err != nil {
			return sent, fmt.Errorf("lỗi thêm documents batch %d-%d: %w", start, end, err)
		}
		sent += len(batch)

		ri.logger.Info("Đã thêm batch documents",
			zap.Int("from", start),
			zap.Int("to", end),
			zap.Int64("task_uid", task.TaskUID))
	}

	ri.logger.Info("Đã seed data thành công", zap.Int("total_documents", sent))
	return sent, nil
}

// Search tra cứu bản ghi tham chiếu theo text tự do
func (ri *RecordIndexer) Search(query string, limit int) ([]models.AddressRecord, error) {
	result, err := ri.index.Search(query, &meilisearch.SearchRequest{Limit: int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("lỗi tìm kiếm Meilisearch: %w", err)
	}
	return parseSearchResults(result), nil
}

// parseSearchResults parse kết quả từ Meilisearch thành AddressRecord
func parseSearchResults(result *meilisearch.SearchResponse) []models.AddressRecord {
	var records []models.AddressRecord
	for _, hit := range result.Hits {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		field := func(key string) string {
			s, _ := hitMap[key].(string)
			return s
		}
		records = append(records, models.AddressRecord{
			Ward:        field("ward"),
			District:    field("district"),
			Province:    field("province"),
			NewWard:     field("newward"),
			NewProvince: field("newprov"),
			FullNew:     field("fullnew"),
		})
	}
	return records
}
