package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/address-locator/app/requests"
	"github.com/address-locator/app/responses"
	"github.com/address-locator/app/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminController controller xử lý các request admin
type AdminController struct {
	adminService *services.AdminService
	logger       *zap.Logger
}

// NewAdminController tạo mới AdminController
func NewAdminController(adminService *services.AdminService, logger *zap.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// GetStats lấy thống kê chỉ mục và cache
func (ac *AdminController) GetStats(c *gin.Context) {
	stats, err := ac.adminService.GetSystemStats(c.Request.Context())
	if err != nil {
		ac.logger.Error("Lỗi lấy stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse(c, "STATS_ERROR", "Lỗi lấy stats: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "OK",
		Data:      stats,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// ClearCache xóa toàn bộ cache kết quả
func (ac *AdminController) ClearCache(c *gin.Context) {
	startTime := time.Now()

	if err := ac.adminService.ClearCache(c.Request.Context()); err != nil {
		ac.logger.Error("Lỗi xóa cache", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse(c, "CACHE_ERROR", "Lỗi xóa cache: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: true,
		Message: "Đã xóa cache thành công",
		Data: map[string]interface{}{
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// SyncSearch đồng bộ bản ghi tham chiếu sang Meilisearch
func (ac *AdminController) SyncSearch(c *gin.Context) {
	result, err := ac.adminService.SyncSearch(c.Request.Context())
	if errors.Is(err, services.ErrSearchDisabled) {
		c.JSON(http.StatusServiceUnavailable, errorResponse(c, "SEARCH_DISABLED", err.Error()))
		return
	}
	if err != nil {
		ac.logger.Error("Lỗi đồng bộ Meilisearch", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse(c, "SYNC_ERROR", "Lỗi đồng bộ Meilisearch: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, responses.SyncSearchResponse{
		RecordsIndexed:   result.RecordsIndexed,
		ProcessingTimeMs: result.ProcessingTimeMs,
		Message:          "Đồng bộ Meilisearch thành công",
	})
}

// SearchRecords tra cứu bản ghi tham chiếu trên Meilisearch
func (ac *AdminController) SearchRecords(c *gin.Context) {
	var query requests.SearchRecordsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(c, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error()))
		return
	}

	records, err := ac.adminService.SearchRecords(query.Query, query.Limit)
	if errors.Is(err, services.ErrSearchDisabled) {
		c.JSON(http.StatusServiceUnavailable, errorResponse(c, "SEARCH_DISABLED", err.Error()))
		return
	}
	if err != nil {
		ac.logger.Error("Lỗi tra cứu Meilisearch", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse(c, "SEARCH_ERROR", "Lỗi tra cứu Meilisearch: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, responses.SearchRecordsResponse{
		Query:   query.Query,
		Total:   len(records),
		Records: records,
	})
}
