package dto

import (
	"time"

	"stockyard/internal/core/types"
	"stockyard/internal/domain/documents"
)

// DocumentViewResponse is the direction-agnostic document representation
// returned by the generic document lookup.
type DocumentViewResponse struct {
	ID             string                 `json:"id"`
	Number         string                 `json:"number"`
	Type           string                 `json:"type"`
	Date           time.Time              `json:"date"`
	CounterpartyID string                 `json:"counterpartyId"`
	WarehouseID    string                 `json:"warehouseId"`
	TotalAmount    types.Money            `json:"totalAmount"`
	Comment        string                 `json:"comment,omitempty"`
	Items          []DocumentLineResponse `json:"items,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	CreatedBy      string                 `json:"createdBy,omitempty"`
}

// FromDocumentView converts the unified view to a response DTO.
func FromDocumentView(view *documents.View) *DocumentViewResponse {
	resp := &DocumentViewResponse{
		ID:             view.ID.String(),
		Number:         view.Number,
		Type:           string(view.Type),
		Date:           view.Date,
		CounterpartyID: view.CounterpartyID.String(),
		WarehouseID:    view.WarehouseID.String(),
		TotalAmount:    view.TotalAmount,
		Comment:        view.Comment,
		CreatedAt:      view.CreatedAt,
		CreatedBy:      view.CreatedBy,
	}

	resp.Items = make([]DocumentLineResponse, len(view.Items))
	for i, item := range view.Items {
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
