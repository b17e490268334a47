package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/address-locator/app/controllers"
	"github.com/address-locator/app/services"
	"github.com/address-locator/helpers/utils"
	"github.com/address-locator/internal/gazetteer"
	"github.com/address-locator/internal/metrics"
	"github.com/address-locator/internal/normalizer"
	"github.com/address-locator/internal/parser"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	n, err := normalizer.NewTextNormalizer()
	require.NoError(t, err)
	records, err := gazetteer.LoadFile("../internal/gazetteer/testdata/addresses.json")
	require.NoError(t, err)
	idx, err := gazetteer.Build(records, n)
	require.NoError(t, err)
	p, err := parser.NewAddressParser(idx, parser.DefaultWeights(), zap.NewNop())
	require.NoError(t, err)

	m := metrics.New()
	addressService := services.NewAddressService(p, nil, m, services.AddressServiceConfig{}, zap.NewNop())
	adminService := services.NewAdminService(idx, nil, nil, zap.NewNop())

	router := gin.New()
	SetupAllRoutes(router,
		controllers.NewAddressController(addressService, zap.NewNop()),
		controllers.NewAdminController(adminService, zap.NewNop()),
		m, zap.NewNop())
	return router
}

func serve(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRoutes_Registered(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/docs", "", http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/ready", "", http.StatusOK},
		{http.MethodGet, "/live", "", http.StatusOK},
		{http.MethodGet, "/v1/health", "", http.StatusOK},
		{http.MethodPost, "/api/identify-location", `{"text":"Phường Bến Nghé, Quận 1"}`, http.StatusOK},
		{http.MethodPost, "/v1/addresses/resolve", `{"text":"Phường 12, Quận 10"}`, http.StatusOK},
		{http.MethodPost, "/v1/addresses/resolve/batch", `{"texts":["Bồ Đề"]}`, http.StatusOK},
		{http.MethodGet, "/v1/admin/stats", "", http.StatusOK},
		{http.MethodPost, "/v1/admin/cache/clear", "", http.StatusOK},
		{http.MethodPost, "/v1/admin/search/sync", "", http.StatusServiceUnavailable},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(router, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRoutes_RequestID(t *testing.T) {
	router := newTestRouter(t)

	w := serve(router, http.MethodGet, "/health", "", nil)
	assert.Len(t, w.Header().Get(utils.RequestIDHeader), 36)

	w = serve(router, http.MethodGet, "/health", "", map[string]string{utils.RequestIDHeader: "req-123"})
	assert.Equal(t, "req-123", w.Header().Get(utils.RequestIDHeader))

	w = serve(router, http.MethodPost, "/v1/addresses/resolve", `{"text":`, map[string]string{utils.RequestIDHeader: "req-456"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"request_id":"req-456"`)
}

func TestRoutes_Metrics(t *testing.T) {
	router := newTestRouter(t)
	serve(router, http.MethodPost, "/api/identify-location", `{"text":"Phường Bến Nghé, Quận 1"}`, nil)

	w := serve(router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `address_resolutions_total{status="matched"} 1`)
	assert.Contains(t, body, "reference_index_records 14")
	assert.Contains(t, body, "go_goroutines")
}
