// Package incoming provides the incoming document: receipt of goods
// from a supplier into a warehouse.
package incoming

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

// Incoming represents a receipt document: the immutable header plus the
// supplier/warehouse transaction record and its line items.
type Incoming struct {
	entity.Document

	// Supplier the goods were received from
	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	// Warehouse the goods were received into
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// TotalAmount is the sum of line extensions, recomputed at commit.
	// Derived value; the items are authoritative.
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Table part: received goods
	Items []Item `db:"-" json:"items"`
}

// Item represents a line in the incoming document.
type Item struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	// Product reference
	ProductID id.ID `db:"product_id" json:"productId"`

	// Quantity received
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UnitPrice is the product's purchase price captured at commit
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// Amount = Quantity × UnitPrice
	Amount types.Money `db:"amount" json:"amount"`
}

// NewIncoming creates a new incoming document.
func NewIncoming(supplierID, warehouseID id.ID) *Incoming {
	return &Incoming{
		Document:    entity.NewDocument(entity.DocumentTypeIncoming),
		SupplierID:  supplierID,
		WarehouseID: warehouseID,
		TotalAmount: types.ZeroMoney(),
		Items:       make([]Item, 0),
	}
}

// AddItem appends a line. Prices and totals are filled in by the service
// at commit time from the product catalog.
func (d *Incoming) AddItem(productID id.ID, quantity types.Quantity) {
	d.Items = append(d.Items, Item{
		LineID:    id.New(),
		LineNo:    len(d.Items) + 1,
		ProductID: productID,
		Quantity:  quantity,
	})
}

// Validate implements entity.Validatable.
// Checks run before the unit of work opens; nothing is touched on failure.
func (d *Incoming) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(d.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if id.IsNil(d.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}

	if len(d.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range d.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if !item.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}
