// Package ledger_repo provides the PostgreSQL implementation of the
// stock ledger repository.
//
// The stock table carries a CHECK (quantity >= 0) constraint as a second
// line of defense behind the service-level sufficiency check.
package ledger_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/internal/domain/ledger"
	"stockyard/internal/infrastructure/storage/postgres"
)

const stockTable = "stock"

var stockColumns = []string{
	"id", "product_id", "warehouse_id", "quantity", "created_at", "updated_at",
}

// Compile-time check that StockRepo implements ledger.Repository.
var _ ledger.Repository = (*StockRepo)(nil)

// StockRepo implements ledger.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock ledger repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get returns the stock row for (product, warehouse).
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID id.ID) (entity.StockRow, error) {
	var row entity.StockRow

	q := r.builder.Select(stockColumns...).
		From(stockTable).
		Where(squirrel.Eq{
			"product_id":   productID,
			"warehouse_id": warehouseID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return row, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return row, apperror.NewNotFound(stockTable, productID.String()+"/"+warehouseID.String())
		}
		return row, fmt.Errorf("get stock row: %w", err)
	}

	return row, nil
}

// GetForUpdate returns the stock row with an exclusive row lock.
// The lock is held until the enclosing transaction finishes, so
// concurrent documents touching the same pair serialize here.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID id.ID) (entity.StockRow, error) {
	var row entity.StockRow

	if _, err := r.txManager.RequireTx(ctx); err != nil {
		return row, err
	}

	sql := `
		SELECT id, product_id, warehouse_id, quantity, created_at, updated_at
		FROM stock
		WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE
	`

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, sql, productID, warehouseID); err != nil {
		if pgxscan.NotFound(err) {
			return row, apperror.NewNotFound(stockTable, productID.String()+"/"+warehouseID.String())
		}
		return row, fmt.Errorf("get stock row for update: %w", err)
	}

	return row, nil
}

// Create inserts a new zero-quantity stock row. Two first receipts of the
// same pair can race here: neither holds a row lock yet, so the insert
// tolerates the loss and the caller re-reads FOR UPDATE to land on
// whichever row won.
func (r *StockRepo) Create(ctx context.Context, row entity.StockRow) error {
	if _, err := r.txManager.RequireTx(ctx); err != nil {
		return err
	}

	q := r.builder.Insert(stockTable).
		Columns(stockColumns...).
		Values(row.ID, row.ProductID, row.WarehouseID, row.Quantity, row.CreatedAt, row.UpdatedAt).
		Suffix("ON CONFLICT (product_id, warehouse_id) DO NOTHING")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert stock row: %w", err)
	}

	return nil
}

// AddQuantity atomically adds delta to the row and returns the updated row.
func (r *StockRepo) AddQuantity(ctx context.Context, stockID id.ID, delta types.Quantity) (entity.StockRow, error) {
	var row entity.StockRow

	if _, err := r.txManager.RequireTx(ctx); err != nil {
		return row, err
	}

	sql := `
		UPDATE stock
		SET quantity = quantity + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, product_id, warehouse_id, quantity, created_at, updated_at
	`

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, sql, stockID, delta); err != nil {
		if pgxscan.NotFound(err) {
			return row, apperror.NewNotFound(stockTable, stockID.String())
		}
		// Check violation (23514): the quantity would go negative. The
		// service checks sufficiency first, so reaching this means a gap
		// in that check.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return row, apperror.NewBusinessRule(apperror.CodeInsufficientStock, "stock quantity cannot go negative").
				WithDetail("stock_id", stockID.String()).
				WithCause(err)
		}
		return row, fmt.Errorf("add quantity: %w", err)
	}

	return row, nil
}

// List returns stock rows matching the filter, ordered by dimensions.
func (r *StockRepo) List(ctx context.Context, filter ledger.Filter) ([]entity.StockRow, error) {
	q := r.builder.Select(stockColumns...).
		From(stockTable)

	if len(filter.ProductIDs) > 0 {
		q = q.Where(squirrel.Eq{"product_id": filter.ProductIDs})
	}
	if len(filter.WarehouseIDs) > 0 {
		q = q.Where(squirrel.Eq{"warehouse_id": filter.WarehouseIDs})
	}
	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": int64(0)})
	}

	q = q.OrderBy("product_id", "warehouse_id")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []entity.StockRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list stock rows: %w", err)
	}

	return rows, nil
}
