// Package ledger provides the stock ledger: current quantity per
// (product, warehouse) with atomic increase and validated decrease.
package ledger

import (
	"context"

	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

// Repository defines persistence operations for stock rows.
//
// GetForUpdate, Create and AddQuantity must be called inside an ambient
// transaction; implementations reject calls without one.
type Repository interface {
	// Get returns the stock row for (product, warehouse).
	// Returns a not-found error if the pair has never received stock.
	Get(ctx context.Context, productID, warehouseID id.ID) (entity.StockRow, error)

	// GetForUpdate returns the stock row with an exclusive row lock held
	// until the enclosing transaction commits or rolls back.
	GetForUpdate(ctx context.Context, productID, warehouseID id.ID) (entity.StockRow, error)

	// Create inserts a new zero-quantity stock row. If a concurrent
	// transaction inserted the pair first, Create succeeds without
	// inserting; callers re-read with GetForUpdate to lock the row that
	// won.
	Create(ctx context.Context, row entity.StockRow) error

	// AddQuantity atomically adds delta to the row and returns the updated
	// row. delta may be negative; the quantity >= 0 check happens in the
	// service under the row lock, backed by a DB constraint.
	AddQuantity(ctx context.Context, stockID id.ID, delta types.Quantity) (entity.StockRow, error)

	// List returns stock rows matching the filter.
	List(ctx context.Context, filter Filter) ([]entity.StockRow, error)
}

// Filter for stock row listings.
type Filter struct {
	ProductIDs   []id.ID
	WarehouseIDs []id.ID
	ExcludeZero  bool
	Limit        int
	Offset       int
}
