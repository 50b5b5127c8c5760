package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/domain/ledger"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// StockHandler serves stock ledger read endpoints.
// Mutations happen exclusively through documents; there is no endpoint
// that writes stock directly.
type StockHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewStockHandler creates a stock handler.
func NewStockHandler(base *BaseHandler, service *ledger.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetQuantity handles GET /stock/quantity?productId=&warehouseId=.
// A pair without a stock row reports quantity 0.
func (h *StockHandler) GetQuantity(c *gin.Context) {
	productID, err := id.Parse(c.Query("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id").WithDetail("field", "productId"))
		return
	}
	warehouseID, err := id.Parse(c.Query("warehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouse id").WithDetail("field", "warehouseId"))
		return
	}

	qty, err := h.service.CurrentQuantity(c.Request.Context(), productID, warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StockQuantityResponse{
		ProductID:   productID.String(),
		WarehouseID: warehouseID.String(),
		Quantity:    qty.Int64(),
	})
}

// List handles GET /stock - list stock rows with filtering.
func (h *StockHandler) List(c *gin.Context) {
	filter := ledger.Filter{
		ExcludeZero: c.Query("excludeZero") == "true",
		Limit:       h.ParseIntQuery(c, "limit", 100),
		Offset:      h.ParseIntQuery(c, "offset", 0),
	}

	for _, v := range c.QueryArray("productId") {
		parsed, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid product id").WithDetail("field", "productId"))
			return
		}
		filter.ProductIDs = append(filter.ProductIDs, parsed)
	}
	for _, v := range c.QueryArray("warehouseId") {
		parsed, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid warehouse id").WithDetail("field", "warehouseId"))
			return
		}
		filter.WarehouseIDs = append(filter.WarehouseIDs, parsed)
	}

	rows, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockRowResponse, len(rows))
	for i, row := range rows {
		items[i] = dto.FromStockRow(row)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
