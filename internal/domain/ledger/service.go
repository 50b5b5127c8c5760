package ledger

import (
	"context"
	"fmt"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/pkg/logger"
)

// Service enforces the ledger invariant: every stock row holds a
// non-negative quantity at every observable point in time.
//
// Increase and Decrease are called by the document engine inside its
// transaction; the row lock taken here is held until that transaction
// commits, so concurrent shipments of the same (product, warehouse)
// serialize at the sufficiency check.
type Service struct {
	repo Repository
}

// NewService creates a new stock ledger service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// Mutation is the result of one stock mutation: the updated row plus the
// audit detail string the caller must log in the same transaction.
type Mutation struct {
	Stock  entity.StockRow
	Detail string
}

// Increase adds qty to the (product, warehouse) stock row, creating the
// row with quantity 0 on first receipt. Never fails for lack of stock.
func (s *Service) Increase(ctx context.Context, productID, warehouseID id.ID, qty types.Quantity) (Mutation, error) {
	if !qty.IsPositive() {
		return Mutation{}, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", qty.Int64())
	}

	row, err := s.repo.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		if !apperror.IsNotFound(err) {
			return Mutation{}, fmt.Errorf("lock stock row: %w", err)
		}
		// Lazy creation: the row starts at zero and is never deleted.
		// A concurrent first receipt may insert the pair between the miss
		// and our insert; Create tolerates the lost race, and the re-read
		// locks whichever row landed.
		if err := s.repo.Create(ctx, entity.NewStockRow(productID, warehouseID)); err != nil {
			return Mutation{}, fmt.Errorf("create stock row: %w", err)
		}
		row, err = s.repo.GetForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return Mutation{}, fmt.Errorf("lock stock row: %w", err)
		}
	}

	updated, err := s.repo.AddQuantity(ctx, row.ID, qty)
	if err != nil {
		return Mutation{}, fmt.Errorf("increase stock: %w", err)
	}

	logger.Debug(ctx, "stock increased",
		"product_id", productID,
		"warehouse_id", warehouseID,
		"quantity", qty.Int64(),
		"balance", updated.Quantity.Int64(),
	)

	return Mutation{
		Stock:  updated,
		Detail: fmt.Sprintf("received: %d", qty.Int64()),
	}, nil
}

// Decrease subtracts qty from the (product, warehouse) stock row after a
// sufficiency check under an exclusive row lock. A missing row counts as
// zero available. On shortage the enclosing transaction must be rolled
// back; no row is touched.
func (s *Service) Decrease(ctx context.Context, productID, warehouseID id.ID, qty types.Quantity) (Mutation, error) {
	if !qty.IsPositive() {
		return Mutation{}, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", qty.Int64())
	}

	row, err := s.repo.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return Mutation{}, apperror.NewInsufficientStock(
				productID.String(), warehouseID.String(), qty.Int64(), 0)
		}
		return Mutation{}, fmt.Errorf("lock stock row: %w", err)
	}

	if row.Quantity < qty {
		return Mutation{}, apperror.NewInsufficientStock(
			productID.String(), warehouseID.String(), qty.Int64(), row.Quantity.Int64())
	}

	updated, err := s.repo.AddQuantity(ctx, row.ID, -qty)
	if err != nil {
		return Mutation{}, fmt.Errorf("decrease stock: %w", err)
	}

	logger.Debug(ctx, "stock decreased",
		"product_id", productID,
		"warehouse_id", warehouseID,
		"quantity", qty.Int64(),
		"balance", updated.Quantity.Int64(),
	)

	return Mutation{
		Stock:  updated,
		Detail: fmt.Sprintf("shipped: %d", qty.Int64()),
	}, nil
}

// CurrentQuantity returns the on-hand quantity for (product, warehouse).
// Absence of a row is semantically zero stock, never an error.
func (s *Service) CurrentQuantity(ctx context.Context, productID, warehouseID id.ID) (types.Quantity, error) {
	row, err := s.repo.Get(ctx, productID, warehouseID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get stock row: %w", err)
	}
	return row.Quantity, nil
}

// GetRow returns the stock row for (product, warehouse).
func (s *Service) GetRow(ctx context.Context, productID, warehouseID id.ID) (entity.StockRow, error) {
	return s.repo.Get(ctx, productID, warehouseID)
}

// List returns stock rows matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]entity.StockRow, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.repo.List(ctx, filter)
}
