// Package main is the entry point for the stockyard background worker.
// It periodically scans the stock ledger and reports products that have
// fallen to or below their minimum stock level.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"stockyard/internal/domain/reports"
	"stockyard/internal/infrastructure/storage/postgres"
	"stockyard/internal/infrastructure/storage/postgres/report_repo"
	"stockyard/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting stockyard worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	reportService := reports.NewService(report_repo.NewReportRepo(txManager))

	interval := getEnvDuration("LOW_STOCK_CHECK_INTERVAL", 5*time.Minute)
	monitor := NewLowStockMonitor(reportService, log, interval)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		monitor.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// LowStockMonitor periodically checks for products below their reorder
// threshold and surfaces them in the logs.
type LowStockMonitor struct {
	reports  *reports.Service
	log      *logger.Logger
	interval time.Duration
}

func NewLowStockMonitor(svc *reports.Service, log *logger.Logger, interval time.Duration) *LowStockMonitor {
	return &LowStockMonitor{
		reports:  svc,
		log:      log.WithComponent("low-stock-monitor"),
		interval: interval,
	}
}

// Run checks immediately and then on every tick until the context is
// cancelled.
func (m *LowStockMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.check(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *LowStockMonitor) check(ctx context.Context) {
	report, err := m.reports.GetLowStock(ctx, reports.LowStockFilter{})
	if err != nil {
		m.log.Errorw("low stock check failed", "error", err)
		return
	}

	if report.TotalItems == 0 {
		m.log.Debug("no products below minimum stock level")
		return
	}

	for _, item := range report.Items {
		m.log.Warnw("product below minimum stock level",
			"product_id", item.ProductID,
			"product", item.ProductName,
			"warehouse_id", item.WarehouseID,
			"warehouse", item.WarehouseName,
			"quantity", item.Quantity,
			"minimum_level", item.MinimumLevel,
			"shortage", item.Shortage,
		)
	}

	m.log.Infow("low stock check completed", "items", report.TotalItems)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
