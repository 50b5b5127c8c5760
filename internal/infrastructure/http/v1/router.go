// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockyard/internal/core/numerator"
	"stockyard/internal/core/security"
	"stockyard/internal/domain/auditlog"
	"stockyard/internal/domain/catalogs/client"
	"stockyard/internal/domain/catalogs/product"
	"stockyard/internal/domain/catalogs/supplier"
	"stockyard/internal/domain/catalogs/warehouse"
	"stockyard/internal/domain/documents"
	"stockyard/internal/domain/documents/incoming"
	"stockyard/internal/domain/documents/outgoing"
	"stockyard/internal/domain/ledger"
	"stockyard/internal/domain/reports"
	"stockyard/internal/infrastructure/http/v1/handlers"
	"stockyard/internal/infrastructure/http/v1/middleware"
	"stockyard/internal/infrastructure/storage/postgres"
	"stockyard/internal/infrastructure/storage/postgres/audit_repo"
	"stockyard/internal/infrastructure/storage/postgres/catalog_repo"
	"stockyard/internal/infrastructure/storage/postgres/document_repo"
	"stockyard/internal/infrastructure/storage/postgres/ledger_repo"
	"stockyard/internal/infrastructure/storage/postgres/report_repo"
	"stockyard/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (health checks)
	Pool *postgres.Pool

	// TxManager coordinates database transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Numerator for document number generation
	Numerator numerator.Generator

	// Policy is the access policy evaluated per route group
	Policy *security.AccessPolicy
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Repositories
	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(cfg.TxManager)
	supplierRepo := catalog_repo.NewSupplierRepo(cfg.TxManager)
	clientRepo := catalog_repo.NewClientRepo(cfg.TxManager)
	stockRepo := ledger_repo.NewStockRepo(cfg.TxManager)
	incomingRepo := document_repo.NewIncomingRepo(cfg.TxManager)
	outgoingRepo := document_repo.NewOutgoingRepo(cfg.TxManager)
	reportRepo := report_repo.NewReportRepo(cfg.TxManager)

	logRepo, err := audit_repo.NewLogRepo(cfg.TxManager)
	if err != nil {
		return nil, err
	}

	// Services
	productService := product.NewService(productRepo, cfg.TxManager, cfg.Numerator)
	warehouseService := warehouse.NewService(warehouseRepo, cfg.TxManager, cfg.Numerator)
	supplierService := supplier.NewService(supplierRepo, cfg.TxManager, cfg.Numerator)
	clientService := client.NewService(clientRepo, cfg.TxManager, cfg.Numerator)
	stockService := ledger.NewService(stockRepo)
	auditService := auditlog.NewService(logRepo)
	reportService := reports.NewService(reportRepo)

	incomingService := incoming.NewService(
		incomingRepo, productRepo, supplierRepo, warehouseRepo,
		stockService, auditService, cfg.Numerator, cfg.TxManager,
	)
	outgoingService := outgoing.NewService(
		outgoingRepo, productRepo, clientRepo, warehouseRepo,
		stockService, auditService, cfg.Numerator, cfg.TxManager,
	)
	resolver := documents.NewResolver(incomingService, outgoingService)

	baseHandler := handlers.NewBaseHandler()

	// API v1 (all routes require authentication)
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.Auth(cfg.JWTValidator))

	// Catalogs
	catalogs := apiV1.Group("/catalog")
	{
		productHandler := handlers.NewProductHandler(baseHandler, productService)
		productGroup := catalogs.Group("/products")
		RegisterCatalogRoutes(productGroup, productHandler, cfg.Policy)
		productGroup.GET("/sku/:sku",
			middleware.RequireAction(cfg.Policy, security.ActionCatalogRead),
			productHandler.GetBySKU)

		RegisterCatalogRoutes(catalogs.Group("/warehouses"),
			handlers.NewWarehouseHandler(baseHandler, warehouseService), cfg.Policy)
		RegisterCatalogRoutes(catalogs.Group("/suppliers"),
			handlers.NewSupplierHandler(baseHandler, supplierService), cfg.Policy)
		RegisterCatalogRoutes(catalogs.Group("/clients"),
			handlers.NewClientHandler(baseHandler, clientService), cfg.Policy)
	}

	// Documents
	docs := apiV1.Group("/documents")
	{
		RegisterDocumentRoutes(docs.Group("/incoming"),
			handlers.NewIncomingHandler(baseHandler, incomingService), cfg.Policy)
		RegisterDocumentRoutes(docs.Group("/outgoing"),
			handlers.NewOutgoingHandler(baseHandler, outgoingService), cfg.Policy)

		// Direction-agnostic lookup
		documentHandler := handlers.NewDocumentHandler(baseHandler, resolver)
		docs.GET("/:id",
			middleware.RequireAction(cfg.Policy, security.ActionDocumentRead),
			documentHandler.Get)
	}

	// Stock ledger (read-only)
	stockHandler := handlers.NewStockHandler(baseHandler, stockService)
	stock := apiV1.Group("/stock")
	stock.Use(middleware.RequireAction(cfg.Policy, security.ActionStockRead))
	{
		stock.GET("", stockHandler.List)
		stock.GET("/quantity", stockHandler.GetQuantity)
	}

	// Audit logs (read-only)
	logsHandler := handlers.NewLogsHandler(baseHandler, auditService)
	logs := apiV1.Group("/logs")
	logs.Use(middleware.RequireAction(cfg.Policy, security.ActionLogsRead))
	{
		logs.GET("/stock", logsHandler.ListStock)
		logs.GET("/documents", logsHandler.ListDocuments)
	}

	// Reports
	reportsHandler := handlers.NewReportsHandler(baseHandler, reportService)
	reportsGroup := apiV1.Group("/reports")
	reportsGroup.Use(middleware.RequireAction(cfg.Policy, security.ActionReportsRead))
	{
		reportsGroup.GET("/stock-balance", reportsHandler.GetStockBalance)
		reportsGroup.GET("/low-stock", reportsHandler.GetLowStock)
		reportsGroup.GET("/document-journal", reportsHandler.GetDocumentJournal)
	}

	return router, nil
}
