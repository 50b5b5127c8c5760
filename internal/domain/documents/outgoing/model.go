// Package outgoing provides the outgoing document: shipment of goods
// to a client out of a warehouse.
package outgoing

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

// Outgoing represents a shipment document: the immutable header plus the
// client/warehouse transaction record and its line items.
type Outgoing struct {
	entity.Document

	// Client the goods were shipped to
	ClientID id.ID `db:"client_id" json:"clientId"`

	// Warehouse the goods were shipped from
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// TotalAmount is the sum of line extensions, recomputed at commit.
	// Derived value; the items are authoritative.
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Table part: shipped goods
	Items []Item `db:"-" json:"items"`
}

// Item represents a line in the outgoing document.
type Item struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	// Product reference
	ProductID id.ID `db:"product_id" json:"productId"`

	// Quantity shipped
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UnitPrice is the product's selling price captured at commit
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// Amount = Quantity × UnitPrice
	Amount types.Money `db:"amount" json:"amount"`
}

// NewOutgoing creates a new outgoing document.
func NewOutgoing(clientID, warehouseID id.ID) *Outgoing {
	return &Outgoing{
		Document:    entity.NewDocument(entity.DocumentTypeOutgoing),
		ClientID:    clientID,
		WarehouseID: warehouseID,
		TotalAmount: types.ZeroMoney(),
		Items:       make([]Item, 0),
	}
}

// AddItem appends a line. Prices and totals are filled in by the service
// at commit time from the product catalog.
func (d *Outgoing) AddItem(productID id.ID, quantity types.Quantity) {
	d.Items = append(d.Items, Item{
		LineID:    id.New(),
		LineNo:    len(d.Items) + 1,
		ProductID: productID,
		Quantity:  quantity,
	})
}

// Validate implements entity.Validatable.
// Checks run before the unit of work opens; nothing is touched on failure.
// Stock sufficiency is not checked here: that happens under row locks
// inside the transaction.
func (d *Outgoing) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(d.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
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
