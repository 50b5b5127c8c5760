package auditlog

import (
	"context"
	"time"

	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
)

// Repository defines persistence for audit entries.
// Insert-only: no update or delete operations exist.
//
// CreateStockLog and CreateDocumentLog must be called inside an ambient
// transaction; implementations reject calls without one.
type Repository interface {
	CreateStockLog(ctx context.Context, log StockLog) error
	CreateDocumentLog(ctx context.Context, log DocumentLog) error

	ListStockLogs(ctx context.Context, filter Filter) ([]StockLog, error)
	ListDocumentLogs(ctx context.Context, filter Filter) ([]DocumentLog, error)

	// CountStockLogs returns the number of stock log entries matching the
	// filter (used for audit correspondence checks).
	CountStockLogs(ctx context.Context, filter Filter) (int64, error)
}

// Filter for audit log listings.
type Filter struct {
	StockID     *id.ID
	DocumentID  *id.ID
	Operation   *entity.OperationKind
	Actor       string
	FromDate    *time.Time
	ToDate      *time.Time
	Limit       int
	Offset      int
}
