// Package incoming provides the incoming document repository contract.
package incoming

import (
	"context"
	"time"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
)

// Repository defines operations for incoming documents.
// Documents are append-only: no update or delete operations exist.
type Repository interface {
	// Create inserts the document header and transaction record.
	// Must be called inside an ambient transaction.
	Create(ctx context.Context, doc *Incoming) error

	// SetTotalAmount persists the recomputed total on the transaction record.
	SetTotalAmount(ctx context.Context, doc *Incoming) error

	// SaveItems inserts the line items.
	SaveItems(ctx context.Context, docID id.ID, items []Item) error

	GetByID(ctx context.Context, docID id.ID) (*Incoming, error)
	GetByNumber(ctx context.Context, number string) (*Incoming, error)
	GetItems(ctx context.Context, docID id.ID) ([]Item, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Incoming], error)
}

// ListFilter for filtering incoming documents.
type ListFilter struct {
	domain.ListFilter

	SupplierID  *id.ID
	WarehouseID *id.ID
	DateFrom    *time.Time
	DateTo      *time.Time
}
