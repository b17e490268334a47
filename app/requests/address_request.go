package requests

// IdentifyLocationRequest request phân giải một địa chỉ
type IdentifyLocationRequest struct {
	Text string `json:"text"` // Địa chỉ tự do cần phân giải
}

// BatchResolveRequest request phân giải hàng loạt địa chỉ
type BatchResolveRequest struct {
	Texts []string `json:"texts" binding:"required"` // Danh sách địa chỉ, giữ nguyên thứ tự
}

// SearchRecordsQuery query tra cứu bản ghi tham chiếu trên Meilisearch
type SearchRecordsQuery struct {
	Query string `form:"q" binding:"required"`
	Limit int    `form:"limit,default=10" binding:"min=1,max=100"`
}
