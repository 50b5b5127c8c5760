// Package product provides the Product catalog.
// Products are the goods tracked by the stock ledger.
package product

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/types"
)

// Product represents a tracked good.
// Price and threshold fields may be edited through the catalog; identity
// fields are immutable once the product is referenced by a transaction line.
type Product struct {
	entity.Catalog

	// SKU is the unique stock keeping unit / serial (optional)
	SKU *string `db:"sku" json:"sku,omitempty"`

	// PurchasePrice is the unit price when receiving from a supplier
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`

	// SellingPrice is the unit price when shipping to a client
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// MinimumStockLevel is the reorder threshold for low-stock reporting
	MinimumStockLevel types.Quantity `db:"minimum_stock_level" json:"minimumStockLevel"`

	// Description is a detailed description
	Description *string `db:"description" json:"description,omitempty"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name string) *Product {
	return &Product{
		Catalog:       entity.NewCatalog(code, name),
		PurchasePrice: types.ZeroMoney(),
		SellingPrice:  types.ZeroMoney(),
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.PurchasePrice.IsNegative() {
		return apperror.NewValidation("purchase price cannot be negative").
			WithDetail("field", "purchasePrice")
	}

	if p.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price cannot be negative").
			WithDetail("field", "sellingPrice")
	}

	if p.MinimumStockLevel.IsNegative() {
		return apperror.NewValidation("minimum stock level cannot be negative").
			WithDetail("field", "minimumStockLevel")
	}

	return nil
}

// HasSKU returns true if the product carries a stock keeping unit.
func (p *Product) HasSKU() bool {
	return p.SKU != nil && *p.SKU != ""
}
