package dto

import (
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/internal/domain/documents/incoming"
)

// --- Request DTOs ---

// CreateIncomingRequest represents a request to create an incoming document.
// Prices are not accepted: they are captured from the product catalog at
// commit time.
type CreateIncomingRequest struct {
	Number      string               `json:"number,omitempty"`
	SupplierID  string               `json:"supplierId" binding:"required"`
	WarehouseID string               `json:"warehouseId" binding:"required"`
	Comment     string               `json:"comment,omitempty"`
	Items       []DocumentLineRequest `json:"items" binding:"required,min=1,dive"`
}

// DocumentLineRequest represents a line in a create request.
type DocumentLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

// ToEntity converts request to domain entity.
func (r *CreateIncomingRequest) ToEntity() (*incoming.Incoming, error) {
	supplierID, err := id.Parse(r.SupplierID)
	if err != nil {
		return nil, apperror.NewValidation("invalid supplier id").WithDetail("field", "supplierId")
	}
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return nil, apperror.NewValidation("invalid warehouse id").WithDetail("field", "warehouseId")
	}

	doc := incoming.NewIncoming(supplierID, warehouseID)
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

// IncomingResponse represents an incoming document in API responses.
type IncomingResponse struct {
	ID          string                 `json:"id"`
	Number      string                 `json:"number"`
	Type        string                 `json:"type"`
	Date        time.Time              `json:"date"`
	SupplierID  string                 `json:"supplierId"`
	WarehouseID string                 `json:"warehouseId"`
	TotalAmount types.Money            `json:"totalAmount"`
	Comment     string                 `json:"comment,omitempty"`
	Items       []DocumentLineResponse `json:"items,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	CreatedBy   string                 `json:"createdBy,omitempty"`
}

// DocumentLineResponse represents a line in API responses.
type DocumentLineResponse struct {
	LineID    string      `json:"lineId"`
	LineNo    int         `json:"lineNo"`
	ProductID string      `json:"productId"`
	Quantity  int64       `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`
	Amount    types.Money `json:"amount"`
}

// FromIncoming converts domain entity to response DTO.
func FromIncoming(doc *incoming.Incoming) *IncomingResponse {
	resp := &IncomingResponse{
		ID:          doc.ID.String(),
		Number:      doc.Number,
		Type:        string(doc.Type),
		Date:        doc.Date,
		SupplierID:  doc.SupplierID.String(),
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
