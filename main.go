package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/address-locator/app/bootstrap"
	"github.com/address-locator/app/config"
	"github.com/address-locator/app/controllers"
	"github.com/address-locator/app/services"
	"github.com/address-locator/internal/metrics"
	"github.com/address-locator/routes"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	// 2. Khởi tạo logger
	logger, err := bootstrap.InitLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("Cannot initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting Address Locator Service",
		zap.String("env", cfg.App.Env),
		zap.String("dataset_source", cfg.Dataset.Source))

	// 3. Tải dữ liệu tham chiếu và dựng chỉ mục
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	records, err := bootstrap.LoadRecords(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to load reference dataset", zap.Error(err))
	}

	addressParser, err := bootstrap.BuildParser(cfg, records, logger)
	if err != nil {
		logger.Fatal("Failed to build address parser", zap.Error(err))
	}

	// 4. Metrics và cache (LRU L1 + Redis L2)
	m := metrics.New()
	cacheService, err := bootstrap.NewCache(cfg, m, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer func() {
		if err := cacheService.Close(); err != nil {
			logger.Warn("Error closing cache", zap.Error(err))
		}
	}()

	// 5. Khởi tạo services
	addressService := services.NewAddressService(addressParser, cacheService, m, bootstrap.ServiceConfig(cfg), logger)

	var searcher services.RecordSearcher
	if indexer := bootstrap.NewSearcher(cfg, logger); indexer != nil {
		searcher = indexer
	}
	adminService := services.NewAdminService(addressParser.Index(), cacheService, searcher, logger)

	// 6. Khởi tạo controllers
	addressController := controllers.NewAddressController(addressService, logger)
	adminController := controllers.NewAdminController(adminService, logger)

	// 7. Khởi tạo Gin router
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, addressController, adminController, m, logger)

	// 8. Khởi động server
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Address Locator Service starting", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
