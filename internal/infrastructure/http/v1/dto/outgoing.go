package dto

import (
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/internal/domain/documents/outgoing"
)

// --- Request DTOs ---

// CreateOutgoingRequest represents a request to create an outgoing document.
type CreateOutgoingRequest struct {
	Number      string                `json:"number,omitempty"`
	ClientID    string                `json:"clientId" binding:"required"`
	WarehouseID string                `json:"warehouseId" binding:"required"`
	Comment     string                `json:"comment,omitempty"`
	Items       []DocumentLineRequest `json:"items" binding:"required,min=1,dive"`
}

// ToEntity converts request to domain entity.
func (r *CreateOutgoingRequest) ToEntity() (*outgoing.Outgoing, error) {
	clientID, err := id.Parse(r.ClientID)
	if err != nil {
		return nil, apperror.NewValidation("invalid client id").WithDetail("field", "clientId")
	}
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return nil, apperror.NewValidation("invalid warehouse id").WithDetail("field", "warehouseId")
	}

	doc := outgoing.NewOutgoing(clientID, warehouseID)
	doc.Number = r.Number
	doc.Comment = r.Comment

	for i, line := range r.Items {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return nil, apperror.NewValidation("invalid product id").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		doc.AddItem(productID, types.Quantity(line.Quantity))
	}

	return doc, nil
}

// --- Response DTOs ---

// OutgoingResponse represents an outgoing document in API responses.
type OutgoingResponse struct {
	ID          string                 `json:"id"`
	Number      string                 `json:"number"`
	Type        string                 `json:"type"`
	Date        time.Time              `json:"date"`
	ClientID    string                 `json:"clientId"`
	WarehouseID string                 `json:"warehouseId"`
	TotalAmount types.Money            `json:"totalAmount"`
	Comment     string                 `json:"comment,omitempty"`
	Items       []DocumentLineResponse `json:"items,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	CreatedBy   string                 `json:"createdBy,omitempty"`
}

// FromOutgoing converts domain entity to response DTO.
func FromOutgoing(doc *outgoing.Outgoing) *OutgoingResponse {
	resp := &OutgoingResponse{
		ID:          doc.ID.String(),
		Number:      doc.Number,
		Type:        string(doc.Type),
		Date:        doc.Date,
		ClientID:    doc.ClientID.String(),
		WarehouseID: doc.WarehouseID.String(),
		TotalAmount: doc.TotalAmount,
		Comment:     doc.Comment,
		CreatedAt:   doc.CreatedAt,
		CreatedBy:   doc.CreatedBy,
	}

	resp.Items = make([]DocumentLineResponse, len(doc.Items))
	for i, item := range doc.Items {
		resp.Items[i] = DocumentLineResponse{
			LineID:    item.LineID.String(),
			LineNo:    item.LineNo,
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity.Int64(),
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		}
	}

	return resp
}
