package dto

import (
	"encoding/json"
	"time"

	"stockyard/internal/domain/auditlog"
)

// StockLogResponse represents one stock mutation log entry.
type StockLogResponse struct {
	ID        string    `json:"id"`
	StockID   string    `json:"stockId"`
	Operation string    `json:"operation"`
	Actor     string    `json:"actor,omitempty"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromStockLog creates response DTO from a stock log entry.
func FromStockLog(log auditlog.StockLog) StockLogResponse {
	return StockLogResponse{
		ID:        log.ID.String(),
		StockID:   log.StockID.String(),
		Operation: string(log.Operation),
		Actor:     log.Actor,
		Details:   log.Details,
		CreatedAt: log.CreatedAt,
	}
}

// DocumentLogResponse represents one document log entry.
type DocumentLogResponse struct {
	ID           string          `json:"id"`
	DocumentID   string          `json:"documentId"`
	DocumentType string          `json:"documentType"`
	Operation    string          `json:"operation"`
	Actor        string          `json:"actor,omitempty"`
	Snapshot     json.RawMessage `json:"snapshot,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// FromDocumentLog creates response DTO from a document log entry.
func FromDocumentLog(log auditlog.DocumentLog) DocumentLogResponse {
	return DocumentLogResponse{
		ID:           log.ID.String(),
		DocumentID:   log.DocumentID.String(),
		DocumentType: string(log.DocumentType),
		Operation:    string(log.Operation),
		Actor:        log.Actor,
		Snapshot:     log.Snapshot,
		CreatedAt:    log.CreatedAt,
	}
}
