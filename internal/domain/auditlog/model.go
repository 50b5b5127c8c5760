// Package auditlog provides the append-only audit trail: one record per
// stock mutation and one per document created. Entries are written inside
// the same transaction as the mutation they describe, so an entry's
// existence proves the mutation committed.
package auditlog

import (
	"encoding/json"
	"time"

	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
)

// StockLog records one stock mutation.
type StockLog struct {
	ID id.ID `db:"id" json:"id"`

	// StockID references the mutated stock row
	StockID id.ID `db:"stock_id" json:"stockId"`

	// Operation: receipt or shipment
	Operation entity.OperationKind `db:"operation" json:"operation"`

	// Actor is the user who caused the mutation
	Actor string `db:"actor" json:"actor"`

	// Details is a free-text description ("received: 5", "shipped: 7")
	Details string `db:"details" json:"details"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewStockLog creates a stock log entry.
func NewStockLog(stockID id.ID, op entity.OperationKind, actor, details string) StockLog {
	return StockLog{
		ID:        id.New(),
		StockID:   stockID,
		Operation: op,
		Actor:     actor,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
}

// DocumentLog records one transaction-level event.
// DocumentType separates incoming from outgoing entries.
type DocumentLog struct {
	ID id.ID `db:"id" json:"id"`

	// DocumentID references the created document
	DocumentID id.ID `db:"document_id" json:"documentId"`

	// DocumentType: incoming or outgoing
	DocumentType entity.DocumentType `db:"document_type" json:"documentType"`

	// Operation: receipt or shipment
	Operation entity.OperationKind `db:"operation" json:"operation"`

	// Actor is the user who created the document
	Actor string `db:"actor" json:"actor"`

	// Snapshot is the document payload as it was at commit time.
	// Large snapshots are stored compressed; the repository handles
	// that transparently.
	Snapshot json.RawMessage `db:"snapshot" json:"snapshot,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewDocumentLog creates a document log entry.
func NewDocumentLog(documentID id.ID, docType entity.DocumentType, op entity.OperationKind, actor string, snapshot json.RawMessage) DocumentLog {
	return DocumentLog{
		ID:           id.New(),
		DocumentID:   documentID,
		DocumentType: docType,
		Operation:    op,
		Actor:        actor,
		Snapshot:     snapshot,
		CreatedAt:    time.Now().UTC(),
	}
}
