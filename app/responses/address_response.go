package responses

import (
	"github.com/address-locator/app/models"
)

// LocationResult một kết quả trả về cho người dùng
type LocationResult struct {
	Ward     string `json:"ward"`     // Phường/xã
	District string `json:"district"` // Quận/huyện
	City     string `json:"city"`     // Tỉnh/thành phố
	NewProv  string `json:"newprov"`  // Tỉnh sau sáp nhập
	NewWard  string `json:"newward"`  // Phường/xã sau sáp nhập
	FullNew  string `json:"fullnew"`  // Địa chỉ đầy đủ sau sáp nhập
}

// IdentifyLocationResponse response phân giải địa chỉ
type IdentifyLocationResponse struct {
	Success     bool                    `json:"success"`               // Có kết quả hay không
	Results     []LocationResult        `json:"results"`               // Kết quả phù hợp nhất
	Message     string                  `json:"message"`               // Thông báo
	Warning     string                  `json:"warning,omitempty"`     // Cảnh báo khi không tìm thấy
	Suggestions []models.WardSuggestion `json:"suggestions,omitempty"` // Gợi ý phường/xã gần đúng
}

// ResolveResponse response phân giải kèm chi tiết xử lý
type ResolveResponse struct {
	IdentifyLocationResponse
	Normalized       string `json:"normalized"`             // Input đã chuẩn hóa
	WardPhrase       string `json:"ward_phrase,omitempty"`  // Cụm phường/xã trích xuất được
	HigherAdmin      string `json:"higher_admin,omitempty"` // Quận/tỉnh nhận diện được
	ProcessingTimeMs int64  `json:"processing_time_ms"`     // Thời gian xử lý (ms)
	CacheHit         bool   `json:"cache_hit"`              // Có hit cache không
}

// BatchResolveResponse response phân giải hàng loạt
type BatchResolveResponse struct {
	Total            int               `json:"total"`              // Tổng số địa chỉ
	Matched          int               `json:"matched"`            // Số địa chỉ tìm thấy
	Results          []ResolveResponse `json:"results"`            // Kết quả theo đúng thứ tự đầu vào
	ProcessingTimeMs int64             `json:"processing_time_ms"` // Thời gian xử lý (ms)
}

// SyncSearchResponse response đồng bộ Meilisearch
type SyncSearchResponse struct {
	RecordsIndexed   int    `json:"records_indexed"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
	Message          string `json:"message"`
}

// SearchRecordsResponse response tra cứu Meilisearch
type SearchRecordsResponse struct {
	Query   string                 `json:"query"`
	Total   int                    `json:"total"`
	Records []models.AddressRecord `json:"records"`
}

// ErrorResponse response lỗi
type ErrorResponse struct {
	Error     string      `json:"error"`                // Mã lỗi
	Message   string      `json:"message"`              // Thông báo lỗi
	Details   interface{} `json:"details,omitempty"`    // Chi tiết lỗi
	Timestamp string      `json:"timestamp"`            // Thời gian xảy ra lỗi
	RequestID string      `json:"request_id,omitempty"` // ID của request
}

// SuccessResponse response thành công
type SuccessResponse struct {
	Success   bool        `json:"success"`        // Có thành công không
	Message   string      `json:"message"`        // Thông báo
	Data      interface{} `json:"data,omitempty"` // Dữ liệu
	Timestamp string      `json:"timestamp"`      // Thời gian
}

// HealthCheckResponse response kiểm tra sức khỏe
type HealthCheckResponse struct {
	Status    string            `json:"status"`    // Trạng thái sức khỏe
	Timestamp string            `json:"timestamp"` // Thời gian kiểm tra
	Uptime    string            `json:"uptime"`    // Thời gian hoạt động
	Version   string            `json:"version"`   // Phiên bản
	Services  map[string]string `json:"services"`  // Trạng thái các service
}

// NewIdentifyLocationResponse chuyển Resolution sang dạng trả về cho người dùng
func NewIdentifyLocationResponse(res *models.Resolution) IdentifyLocationResponse {
	out := IdentifyLocationResponse{
		Success:     len(res.Records) > 0,
		Results:     make([]LocationResult, 0, len(res.Records)),
		Message:     res.Message,
		Warning:     res.Warning,
		Suggestions: res.Suggestions,
	}
	for _, r := range res.Records {
		out.Results = append(out.Results, LocationResult{
			Ward:     r.Ward,
			District: r.District,
			City:     r.Province,
			NewProv:  r.NewProvince,
			NewWard:  r.NewWard,
			FullNew:  r.FullNew,
		})
	}
	return out
}
