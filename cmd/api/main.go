package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/xrp-tax-service/internal/config"
	"github.com/Dan9191/xrp-tax-service/internal/handler"
	"github.com/Dan9191/xrp-tax-service/internal/health"
	"github.com/Dan9191/xrp-tax-service/internal/integrations/coingecko"
	"github.com/Dan9191/xrp-tax-service/internal/pricing"
	"github.com/Dan9191/xrp-tax-service/internal/service"
	"github.com/Dan9191/xrp-tax-service/internal/tax"
	"github.com/Dan9191/xrp-tax-service/internal/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger("xrp-tax-service", cfg.LogLevel, cfg.LogFormat)
	logger.WithFields(logrus.Fields{
		"coingecko_url": cfg.CoinGeckoURL,
		"coin":          cfg.CoinID,
		"vs_currency":   cfg.VsCurrency,
		"ui_strategy":   cfg.UIPriceStrategy,
		"snapshot_tz":   cfg.SnapshotLocation.String(),
	}).Info("Configuration loaded")

	// Initialize layers
	cg := coingecko.NewClient(cfg, logger)
	ranged := pricing.NewRangeResolver(cg, cfg.CoinID, cfg.VsCurrency, logger)
	snapshot := pricing.NewSnapshotResolver(cg, cfg.CoinID, cfg.VsCurrency, cfg.SnapshotLocation, logger)
	svc, err := service.NewService(tax.Default(), ranged, snapshot, cfg.UIPriceStrategy, logger)
	if err != nil {
		logger.Fatalf("Failed to create service: %v", err)
	}
	h := handler.NewHandler(svc, logger)

	// Provider probe
	checker := health.NewChecker(cg, cfg.HTTPTimeout, logger)
	if err := checker.Start(cfg.ProbeSchedule); err != nil {
		logger.Fatalf("Failed to schedule provider probe: %v", err)
	}
	defer checker.Stop()

	// Setup router
	r := handler.NewRouter(h, checker.Handler(), pricing.CacheTTL, logger)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 10*time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
}
