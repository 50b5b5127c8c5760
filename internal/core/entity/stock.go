// Package entity provides core domain entities.
package entity

import (
	"time"

	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

// OperationKind defines the direction of a stock mutation.
type OperationKind string

const (
	// OperationReceipt increases stock (goods received from a supplier)
	OperationReceipt OperationKind = "receipt"
	// OperationShipment decreases stock (goods shipped to a client)
	OperationShipment OperationKind = "shipment"
)

// StockRow is the current on-hand quantity for one (product, warehouse)
// pair. It is the only mutable entity in the ledger; every mutation is
// paired with exactly one stock log entry in the same transaction.
//
// Invariant: Quantity >= 0 at all times. Rows are created lazily with
// quantity 0 on first receipt and never deleted.
type StockRow struct {
	ID id.ID `db:"id" json:"id"`

	// Dimensions
	ProductID   id.ID `db:"product_id" json:"productId"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Current quantity
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewStockRow creates an empty stock row for a (product, warehouse) pair.
func NewStockRow(productID, warehouseID id.ID) StockRow {
	now := time.Now().UTC()
	return StockRow{
		ID:          id.New(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
