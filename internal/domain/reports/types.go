// Package reports provides report generation services.
package reports

import (
	"time"

	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

// --- Stock Balance Report ---

// StockBalanceFilter defines filter for the stock balance report.
type StockBalanceFilter struct {
	WarehouseIDs []id.ID
	ProductIDs   []id.ID

	// Exclude rows with zero on-hand quantity
	ExcludeZero bool

	// Pagination
	Limit  int
	Offset int
}

// StockBalanceItem represents a single row in the stock balance report.
type StockBalanceItem struct {
	WarehouseID   id.ID  `json:"warehouseId"`
	WarehouseName string `json:"warehouseName"`
	ProductID     id.ID  `json:"productId"`
	ProductName   string `json:"productName"`
	ProductSKU    string `json:"productSku,omitempty"`
	Quantity      int64  `json:"quantity"`
}

// StockBalanceReport represents the full stock balance report.
type StockBalanceReport struct {
	GeneratedAt time.Time          `json:"generatedAt"`
	Items       []StockBalanceItem `json:"items"`
	TotalItems  int                `json:"totalItems"`

	// Summary
	TotalQuantity int64 `json:"totalQuantity"`
}

// --- Low Stock Report ---

// LowStockFilter defines filter for the low stock report.
type LowStockFilter struct {
	WarehouseIDs []id.ID
	ProductIDs   []id.ID

	// Pagination
	Limit  int
	Offset int
}

// LowStockItem is a (product, warehouse) pair whose on-hand quantity is
// at or below the product's minimum stock level.
type LowStockItem struct {
	WarehouseID   id.ID  `json:"warehouseId"`
	WarehouseName string `json:"warehouseName"`
	ProductID     id.ID  `json:"productId"`
	ProductName   string `json:"productName"`
	ProductSKU    string `json:"productSku,omitempty"`
	Quantity      int64  `json:"quantity"`
	MinimumLevel  int64  `json:"minimumLevel"`
	Shortage      int64  `json:"shortage"`
}

// LowStockReport represents the full low stock report.
type LowStockReport struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Items       []LowStockItem `json:"items"`
	TotalItems  int            `json:"totalItems"`
}

// --- Document Journal ---

// DocumentJournalFilter defines filter for the document journal.
type DocumentJournalFilter struct {
	// Period
	FromDate *time.Time
	ToDate   *time.Time

	// "incoming", "outgoing", or empty for both
	DocumentType string

	// Search by number
	NumberContains string

	// Filters by references
	WarehouseIDs    []id.ID
	CounterpartyIDs []id.ID

	// Sorting
	SortBy    string // "date", "number", "type", "amount"
	SortOrder string // "asc", "desc"

	// Pagination
	Limit  int
	Offset int
}

// DocumentJournalItem represents a document in the journal.
// CounterpartyName is the supplier for incoming and the client for
// outgoing documents.
type DocumentJournalItem struct {
	ID           id.ID     `json:"id"`
	DocumentType string    `json:"documentType"`
	Number       string    `json:"number"`
	Date         time.Time `json:"date"`

	CounterpartyID   id.ID  `json:"counterpartyId"`
	CounterpartyName string `json:"counterpartyName"`

	WarehouseID   id.ID  `json:"warehouseId"`
	WarehouseName string `json:"warehouseName"`

	TotalQuantity int64       `json:"totalQuantity"`
	TotalAmount   types.Money `json:"totalAmount"`

	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy,omitempty"`
}

// DocumentJournal represents the document journal result.
type DocumentJournal struct {
	Items      []DocumentJournalItem `json:"items"`
	TotalCount int                   `json:"totalCount"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`

	// Summary by document type
	Summary []DocumentTypeSummary `json:"summary,omitempty"`
}

// DocumentTypeSummary provides count and totals by document type.
type DocumentTypeSummary struct {
	DocumentType  string      `json:"documentType"`
	Count         int         `json:"count"`
	TotalQuantity int64       `json:"totalQuantity"`
	TotalAmount   types.Money `json:"totalAmount"`
}
