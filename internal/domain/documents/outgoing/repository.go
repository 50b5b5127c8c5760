package outgoing

import (
	"context"
	"time"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
)

// Repository defines operations for outgoing documents.
// Documents are append-only: no update or delete operations exist.
type Repository interface {
	// Create inserts the document header and transaction record.
	// Must be called inside an ambient transaction.
	Create(ctx context.Context, doc *Outgoing) error

	// SetTotalAmount persists the recomputed total on the transaction record.
	SetTotalAmount(ctx context.Context, doc *Outgoing) error

	// SaveItems inserts the line items.
	SaveItems(ctx context.Context, docID id.ID, items []Item) error

	GetByID(ctx context.Context, docID id.ID) (*Outgoing, error)
	GetByNumber(ctx context.Context, number string) (*Outgoing, error)
	GetItems(ctx context.Context, docID id.ID) ([]Item, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Outgoing], error)
}

// ListFilter for filtering outgoing documents.
type ListFilter struct {
	domain.ListFilter

	ClientID    *id.ID
	WarehouseID *id.ID
	DateFrom    *time.Time
	DateTo      *time.Time
}
