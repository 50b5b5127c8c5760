package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/domain"
	"stockyard/internal/domain/documents/incoming"
	"stockyard/internal/infrastructure/storage/postgres"
)

const (
	incomingTable      = "doc_incoming"
	incomingItemsTable = "doc_incoming_items"
)

var incomingTxCols = []string{"supplier_id", "warehouse_id", "total_amount"}

// Compile-time check that IncomingRepo implements incoming.Repository.
var _ incoming.Repository = (*IncomingRepo)(nil)

// IncomingRepo implements incoming.Repository.
type IncomingRepo struct {
	baseDocumentRepo
}

// NewIncomingRepo creates a new incoming document repository.
func NewIncomingRepo(txManager *postgres.TxManager) *IncomingRepo {
	return &IncomingRepo{
		baseDocumentRepo: newBaseDocumentRepo(txManager, entity.DocumentTypeIncoming),
	}
}

// Create inserts the document header and the incoming transaction record.
func (r *IncomingRepo) Create(ctx context.Context, doc *incoming.Incoming) error {
	if err := r.insertHeader(ctx, &doc.Document); err != nil {
		return err
	}

	q := r.Builder().
		Insert(incomingTable).
		Columns("document_id", "supplier_id", "warehouse_id", "total_amount").
		Values(doc.ID, doc.SupplierID, doc.WarehouseID, doc.TotalAmount)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert transaction: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert incoming transaction: %w", err)
	}

	return nil
}

// SetTotalAmount persists the recomputed total on the transaction record.
func (r *IncomingRepo) SetTotalAmount(ctx context.Context, doc *incoming.Incoming) error {
	if _, err := r.txManager.RequireTx(ctx); err != nil {
		return err
	}

	q := r.Builder().
		Update(incomingTable).
		Set("total_amount", doc.TotalAmount).
		Where(squirrel.Eq{"document_id": doc.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update total: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update total amount: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(incomingTable, doc.ID.String())
	}

	return nil
}

// SaveItems inserts the line items via the COPY protocol.
func (r *IncomingRepo) SaveItems(ctx context.Context, docID id.ID, items []incoming.Item) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([][]any, len(items))
	for i, item := range items {
		rows[i] = []any{
			item.LineID, docID, item.LineNo, item.ProductID,
			item.Quantity, item.UnitPrice, item.Amount,
		}
	}

	return r.copyItems(ctx, incomingItemsTable, rows)
}

// GetByID retrieves an incoming document header (without items).
func (r *IncomingRepo) GetByID(ctx context.Context, docID id.ID) (*incoming.Incoming, error) {
	doc := &incoming.Incoming{}

	q := r.headerSelect(incomingTable, incomingTxCols).
		Where(squirrel.Eq{"d.id": docID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("document", docID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}

	return doc, nil
}

// GetByNumber retrieves an incoming document by number.
func (r *IncomingRepo) GetByNumber(ctx context.Context, number string) (*incoming.Incoming, error) {
	doc := &incoming.Incoming{}

	q := r.headerSelect(incomingTable, incomingTxCols).
		Where(squirrel.Eq{"d.number": number})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("document", number)
		}
		return nil, fmt.Errorf("get by number: %w", err)
	}

	return doc, nil
}

// GetItems retrieves line items ordered by line number.
func (r *IncomingRepo) GetItems(ctx context.Context, docID id.ID) ([]incoming.Item, error) {
	q := r.Builder().
		Select("line_id", "line_no", "product_id", "quantity", "unit_price", "amount").
		From(incomingItemsTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []incoming.Item
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	return items, nil
}

// List retrieves incoming documents with filtering.
func (r *IncomingRepo) List(ctx context.Context, filter incoming.ListFilter) (domain.ListResult[*incoming.Incoming], error) {
	result := domain.ListResult[*incoming.Incoming]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.headerSelect(incomingTable, incomingTxCols)

	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"t.supplier_id": *filter.SupplierID})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"t.warehouse_id": *filter.WarehouseID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"d.date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"d.date": *filter.DateTo})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"d.number": "%" + filter.Search + "%"})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy, incomingTxCols)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}

	return result, nil
}
