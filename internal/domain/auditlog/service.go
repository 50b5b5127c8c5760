package auditlog

import (
	"context"
	"encoding/json"
	"fmt"

	appctx "stockyard/internal/core/context"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
)

// Service appends audit entries. Called exclusively from within the
// document engine's transaction, never from outside it.
type Service struct {
	repo Repository
}

// NewService creates a new audit log service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordStock appends one entry for a stock mutation.
// The actor is taken from the request context.
func (s *Service) RecordStock(ctx context.Context, stockID id.ID, op entity.OperationKind, details string) (StockLog, error) {
	log := NewStockLog(stockID, op, appctx.GetUserID(ctx), details)
	if err := s.repo.CreateStockLog(ctx, log); err != nil {
		return StockLog{}, fmt.Errorf("record stock log: %w", err)
	}
	return log, nil
}

// RecordDocument appends one entry for a created document. The snapshot
// argument is the document itself; it is stored as JSON so the entry
// preserves what was committed even if referenced catalogs change later.
func (s *Service) RecordDocument(ctx context.Context, documentID id.ID, docType entity.DocumentType, op entity.OperationKind, snapshot any) (DocumentLog, error) {
	var payload json.RawMessage
	if snapshot != nil {
		data, err := json.Marshal(snapshot)
		if err != nil {
			return DocumentLog{}, fmt.Errorf("marshal document snapshot: %w", err)
		}
		payload = data
	}

	log := NewDocumentLog(documentID, docType, op, appctx.GetUserID(ctx), payload)
	if err := s.repo.CreateDocumentLog(ctx, log); err != nil {
		return DocumentLog{}, fmt.Errorf("record document log: %w", err)
	}
	return log, nil
}

// ListStockLogs returns stock log entries matching the filter.
func (s *Service) ListStockLogs(ctx context.Context, filter Filter) ([]StockLog, error) {
	normalizeFilter(&filter)
	return s.repo.ListStockLogs(ctx, filter)
}

// ListDocumentLogs returns document log entries matching the filter.
func (s *Service) ListDocumentLogs(ctx context.Context, filter Filter) ([]DocumentLog, error) {
	normalizeFilter(&filter)
	return s.repo.ListDocumentLogs(ctx, filter)
}

func normalizeFilter(f *Filter) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if f.Limit > 1000 {
		f.Limit = 1000
	}
}
