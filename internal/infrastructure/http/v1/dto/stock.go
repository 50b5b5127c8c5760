package dto

import (
	"time"

	"stockyard/internal/core/entity"
)

// StockRowResponse represents one (product, warehouse) stock row.
type StockRowResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	WarehouseID string    `json:"warehouseId"`
	Quantity    int64     `json:"quantity"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromStockRow creates response DTO from a stock row.
func FromStockRow(row entity.StockRow) StockRowResponse {
	return StockRowResponse{
		ID:          row.ID.String(),
		ProductID:   row.ProductID.String(),
		WarehouseID: row.WarehouseID.String(),
		Quantity:    row.Quantity.Int64(),
		UpdatedAt:   row.UpdatedAt,
	}
}

// StockQuantityResponse is the response for a single quantity lookup.
// A pair without a stock row reports quantity 0.
type StockQuantityResponse struct {
	ProductID   string `json:"productId"`
	WarehouseID string `json:"warehouseId"`
	Quantity    int64  `json:"quantity"`
}
