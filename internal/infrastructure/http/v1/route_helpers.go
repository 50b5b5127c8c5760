// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockyard/internal/core/security"
	"stockyard/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
// All catalog handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// This eliminates the need to manually wire up routes for each catalog.
//
// Usage:
//
//	repo := catalog_repo.NewWarehouseRepo(txManager)
//	service := warehouse.NewService(repo, txManager, numerator)
//	handler := handlers.NewWarehouseHandler(baseHandler, service)
//	RegisterCatalogRoutes(catalogs.Group("/warehouses"), handler, policy)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, policy *security.AccessPolicy) {
	read := middleware.RequireAction(policy, security.ActionCatalogRead)
	write := middleware.RequireAction(policy, security.ActionCatalogWrite)

	group.GET("", read, handler.List)
	group.POST("", write, handler.Create)
	group.GET("/:id", read, handler.Get)
	group.PUT("/:id", write, handler.Update)
	group.DELETE("/:id", write, handler.Delete)
	group.POST("/:id/deletion-mark", write, handler.SetDeletionMark)
}

// DocumentRouteHandler defines the interface for document handlers.
// Documents are immutable: create and read only.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	GetByNumber(c *gin.Context)
}

// RegisterDocumentRoutes registers create + read routes for a document
// direction.
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler, policy *security.AccessPolicy) {
	read := middleware.RequireAction(policy, security.ActionDocumentRead)
	create := middleware.RequireAction(policy, security.ActionDocumentCreate)

	group.GET("", read, handler.List)
	group.POST("", create, handler.Create)
	group.GET("/:id", read, handler.Get)
	group.GET("/number/:number", read, handler.GetByNumber)
}
