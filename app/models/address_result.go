package models

// Resolution status constants
const (
	StatusMatched = "matched"
	StatusNoMatch = "no_match"
)

// Thông báo trả về cho người dùng
const (
	MessageNoMatch = "Không tìm thấy địa chỉ phù hợp nào. Vui lòng kiểm tra lại thông tin nhập vào."
	WarningNoMatch = "No matching address found."
)

// Resolution kết quả phân giải một địa chỉ
type Resolution struct {
	Records     []AddressRecord  `json:"records"`
	Status      string           `json:"status"`
	Message     string           `json:"message"`
	Warning     string           `json:"warning,omitempty"`
	Normalized  string           `json:"normalized"`            // Input đã chuẩn hóa
	WardPhrase  string           `json:"ward_phrase,omitempty"` // Cụm phường/xã trích xuất được
	HigherAdmin string           `json:"higher_admin,omitempty"`
	Suggestions []WardSuggestion `json:"suggestions,omitempty"`
}

// Matched có ít nhất một kết quả
func (r *Resolution) Matched() bool {
	return r != nil && len(r.Records) > 0
}

// WardSuggestion gợi ý phường/xã gần đúng khi không tìm thấy kết quả
type WardSuggestion struct {
	Ward       string  `json:"ward"`
	District   string  `json:"district"`
	Province   string  `json:"province"`
	Similarity float64 `json:"similarity"`
}
