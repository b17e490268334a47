package controllers

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/address-locator/app/requests"
	"github.com/address-locator/app/responses"
	"github.com/address-locator/app/services"
	"github.com/address-locator/helpers/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MessageEmptyAddress thông báo khi input rỗng
const MessageEmptyAddress = "Vui lòng nhập địa chỉ."

// AddressController controller xử lý các request liên quan đến địa chỉ
type AddressController struct {
	addressService *services.AddressService
	logger         *zap.Logger
}

// NewAddressController tạo mới AddressController
func NewAddressController(addressService *services.AddressService, logger *zap.Logger) *AddressController {
	return &AddressController{
		addressService: addressService,
		logger:         logger,
	}
}

// IdentifyLocation phân giải địa chỉ, trả về dạng rút gọn cho giao diện
func (ac *AddressController) IdentifyLocation(c *gin.Context) {
	result, ok := ac.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, responses.NewIdentifyLocationResponse(result.Resolution))
}

// Resolve phân giải địa chỉ kèm chi tiết xử lý
func (ac *AddressController) Resolve(c *gin.Context) {
	result, ok := ac.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newResolveResponse(result))
}

func (ac *AddressController) resolve(c *gin.Context) (*services.ResolveResult, bool) {
	var req requests.IdentifyLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(c, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error()))
		return nil, false
	}

	result, err := ac.addressService.Resolve(c.Request.Context(), req.Text)
	if errors.Is(err, services.ErrEmptyAddress) {
		c.JSON(http.StatusBadRequest, responses.IdentifyLocationResponse{
			Success: false,
			Results: []responses.LocationResult{},
			Message: MessageEmptyAddress,
		})
		return nil, false
	}
	if err != nil {
		ac.logger.Error("Lỗi phân giải địa chỉ", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse(c, "RESOLVE_ERROR", "Lỗi phân giải địa chỉ: "+err.Error()))
		return nil, false
	}
	return result, true
}

// BatchResolve phân giải hàng loạt địa chỉ. ?format=ndjson trả về từng dòng,
// nén gzip nếu client chấp nhận.
func (ac *AddressController) BatchResolve(c *gin.Context) {
	var req requests.BatchResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(c, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error()))
		return
	}

	startTime := time.Now()
	results, err := ac.addressService.ResolveBatch(c.Request.Context(), req.Texts)
	switch {
	case errors.Is(err, services.ErrEmptyBatch):
		c.JSON(http.StatusBadRequest, errorResponse(c, "EMPTY_BATCH", err.Error()))
		return
	case errors.Is(err, services.ErrBatchTooLarge):
		c.JSON(http.StatusBadRequest, errorResponse(c, "TOO_MANY_ADDRESSES", err.Error()))
		return
	case err != nil:
		ac.logger.Error("Lỗi xử lý batch", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse(c, "BATCH_ERROR", "Lỗi xử lý batch: "+err.Error()))
		return
	}

	out := make([]responses.ResolveResponse, len(results))
	matched := 0
	for i, r := range results {
		out[i] = newResolveResponse(r)
		if out[i].Success {
			matched++
		}
	}

	if c.Query("format") == "ndjson" {
		gzipEnabled := strings.Contains(c.GetHeader("Accept-Encoding"), "gzip")
		ac.streamNDJSONResults(c, out, gzipEnabled)
		return
	}

	c.JSON(http.StatusOK, responses.BatchResolveResponse{
		Total:            len(out),
		Matched:          matched,
		Results:          out,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

// HealthCheck kiểm tra sức khỏe service
func (ac *AddressController) HealthCheck(c *gin.Context) {
	uptime := time.Since(ac.addressService.GetStartTime())

	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    uptime.Round(time.Second).String(),
		Version:   utils.Version,
		Services: map[string]string{
			"address_resolver": "healthy",
		},
	})
}

// streamNDJSONResults ghi kết quả theo format NDJSON với hỗ trợ gzip
func (ac *AddressController) streamNDJSONResults(c *gin.Context, results []responses.ResolveResponse, gzipEnabled bool) {
	c.Header("Content-Type", "application/x-ndjson")
	if gzipEnabled {
		c.Header("Content-Encoding", "gzip")
	}
	c.Status(http.StatusOK)

	var writer gin.ResponseWriter = c.Writer
	if gzipEnabled {
		gzWriter := gzip.NewWriter(c.Writer)
		defer gzWriter.Close()
		writer = &gzipResponseWriter{
			ResponseWriter: c.Writer,
			gzWriter:       gzWriter,
		}
	}

	encoder := json.NewEncoder(writer)
	for _, result := range results {
		if err := encoder.Encode(result); err != nil {
			ac.logger.Error("Lỗi encode NDJSON", zap.Error(err))
			return
		}
		writer.Flush()
	}
}

// gzipResponseWriter wrapper cho gzip writer
type gzipResponseWriter struct {
	gin.ResponseWriter
	gzWriter *gzip.Writer
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	return w.gzWriter.Write(data)
}

func (w *gzipResponseWriter) Flush() {
	_ = w.gzWriter.Flush()
	w.ResponseWriter.Flush()
}

func newResolveResponse(r *services.ResolveResult) responses.ResolveResponse {
	return responses.ResolveResponse{
		IdentifyLocationResponse: responses.NewIdentifyLocationResponse(r.Resolution),
		Normalized:               r.Resolution.Normalized,
		WardPhrase:               r.Resolution.WardPhrase,
		HigherAdmin:              r.Resolution.HigherAdmin,
		ProcessingTimeMs:         r.ProcessingTime.Milliseconds(),
		CacheHit:                 r.CacheHit,
	}
}

func errorResponse(c *gin.Context, code, message string) responses.ErrorResponse {
	return responses.ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: c.GetString(utils.RequestIDKey),
	}
}
