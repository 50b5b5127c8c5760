package reports

import (
	"context"
)

// Repository defines report data access interface.
type Repository interface {
	// Stock reports
	GetStockBalanceReport(ctx context.Context, filter StockBalanceFilter) (*StockBalanceReport, error)
	GetLowStockReport(ctx context.Context, filter LowStockFilter) (*LowStockReport, error)

	// Document journal
	GetDocumentJournal(ctx context.Context, filter DocumentJournalFilter) (*DocumentJournal, error)
	GetDocumentTypeSummary(ctx context.Context, filter DocumentJournalFilter) ([]DocumentTypeSummary, error)
}
