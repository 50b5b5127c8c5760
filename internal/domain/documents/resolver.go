// Package documents provides a type-agnostic view over incoming and
// outgoing documents.
package documents

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/internal/domain/documents/incoming"
	"stockyard/internal/domain/documents/outgoing"
)

// View is a unified read model for a document of either direction.
// CounterpartyID is the supplier for incoming and the client for
// outgoing documents.
type View struct {
	entity.Document

	CounterpartyID id.ID       `json:"counterpartyId"`
	WarehouseID    id.ID       `json:"warehouseId"`
	TotalAmount    types.Money `json:"totalAmount"`
	Items          []ItemView  `json:"items"`
}

// ItemView is a unified read model for a document line.
type ItemView struct {
	LineID    id.ID          `json:"lineId"`
	LineNo    int            `json:"lineNo"`
	ProductID id.ID          `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
	UnitPrice types.Money    `json:"unitPrice"`
	Amount    types.Money    `json:"amount"`
}

// Resolver retrieves a document by ID without knowing its direction.
type Resolver struct {
	incoming *incoming.Service
	outgoing *outgoing.Service
}

// NewResolver creates a new document resolver.
func NewResolver(in *incoming.Service, out *outgoing.Service) *Resolver {
	return &Resolver{incoming: in, outgoing: out}
}

// Resolve looks the document up in both stores. IDs are unique across
// directions, so at most one lookup succeeds.
func (r *Resolver) Resolve(ctx context.Context, docID id.ID) (*View, error) {
	in, err := r.incoming.GetByID(ctx, docID)
	if err == nil {
		return fromIncoming(in), nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	out, err := r.outgoing.GetByID(ctx, docID)
	if err == nil {
		return fromOutgoing(out), nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	return nil, apperror.NewNotFound("document", docID.String())
}

func fromIncoming(doc *incoming.Incoming) *View {
	items := make([]ItemView, len(doc.Items))
	for i, item := range doc.Items {
		items[i] = ItemView{
			LineID:    item.LineID,
			LineNo:    item.LineNo,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		}
	}
	return &View{
		Document:       doc.Document,
		CounterpartyID: doc.SupplierID,
		WarehouseID:    doc.WarehouseID,
		TotalAmount:    doc.TotalAmount,
		Items:          items,
	}
}

func fromOutgoing(doc *outgoing.Outgoing) *View {
	items := make([]ItemView, len(doc.Items))
	for i, item := range doc.Items {
		items[i] = ItemView{
			LineID:    item.LineID,
			LineNo:    item.LineNo,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		}
	}
	return &View{
		Document:       doc.Document,
		CounterpartyID: doc.ClientID,
		WarehouseID:    doc.WarehouseID,
		TotalAmount:    doc.TotalAmount,
		Items:          items,
	}
}
