package entity

import (
	"context"
	"time"

	"stockyard/internal/core/apperror"
)

// DocumentType distinguishes the two movement directions.
type DocumentType string

const (
	// DocumentTypeIncoming - receipt from a supplier
	DocumentTypeIncoming DocumentType = "incoming"
	// DocumentTypeOutgoing - shipment to a client
	DocumentTypeOutgoing DocumentType = "outgoing"
)

// Document is the immutable header shared by incoming and outgoing
// transactions. A header exists only together with its transaction record,
// its items, and the stock mutations they caused; partially built documents
// never survive a transaction rollback.
type Document struct {
	BaseDocument

	// Number is the document number (auto-generated, unique within type+year)
	Number string `db:"number" json:"number"`

	// Type is the movement direction
	Type DocumentType `db:"doc_type" json:"type"`

	// Date is the server-assigned creation timestamp of the movement
	Date time.Time `db:"date" json:"date"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document header with generated ID.
func NewDocument(docType DocumentType) Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Type:         docType,
		Date:         time.Now().UTC(),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Type != DocumentTypeIncoming && d.Type != DocumentTypeOutgoing {
		return apperror.NewValidation("unknown document type").
			WithDetail("field", "type")
	}

	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	return nil
}
