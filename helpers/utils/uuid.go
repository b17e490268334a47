package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Version phiên bản service
const Version = "1.0.0"

// Request ID
const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// GenerateUUID tạo UUID v4
func GenerateUUID() string {
	return uuid.NewString()
}

// RequestID middleware gắn X-Request-ID cho mỗi request, giữ nguyên ID client gửi lên
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = GenerateUUID()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
