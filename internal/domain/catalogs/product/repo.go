package product

import (
	"context"

	"stockyard/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetBySKU retrieves product by its unique SKU.
	GetBySKU(ctx context.Context, sku string) (*Product, error)
}
