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
	"stockyard/internal/domain/documents/outgoing"
	"stockyard/internal/infrastructure/storage/postgres"
)

const (
	outgoingTable      = "doc_outgoing"
	outgoingItemsTable = "doc_outgoing_items"
)

var outgoingTxCols = []string{"client_id", "warehouse_id", "total_amount"}

// Compile-time check that OutgoingRepo implements outgoing.Repository.
var _ outgoing.Repository = (*OutgoingRepo)(nil)

// OutgoingRepo implements outgoing.Repository.
type OutgoingRepo struct {
	baseDocumentRepo
}

// NewOutgoingRepo creates a new outgoing document repository.
func NewOutgoingRepo(txManager *postgres.TxManager) *OutgoingRepo {
	return &OutgoingRepo{
		baseDocumentRepo: newBaseDocumentRepo(txManager, entity.DocumentTypeOutgoing),
	}
}

// Create inserts the document header and the outgoing transaction record.
func (r *OutgoingRepo) Create(ctx context.Context, doc *outgoing.Outgoing) error {
	if err := r.insertHeader(ctx, &doc.Document); err != nil {
		return err
	}

	q := r.Builder().
		Insert(outgoingTable).
		Columns("document_id", "client_id", "warehouse_id", "total_amount").
		Values(doc.ID, doc.ClientID, doc.WarehouseID, doc.TotalAmount)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert transaction: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert outgoing transaction: %w", err)
	}

	return nil
}

// SetTotalAmount persists the recomputed total on the transaction record.
func (r *OutgoingRepo) SetTotalAmount(ctx context.Context, doc *outgoing.Outgoing) error {
	if _, err := r.txManager.RequireTx(ctx); err != nil {
		return err
	}

	q := r.Builder().
		Update(outgoingTable).
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
		return apperror.NewNotFound(outgoingTable, doc.ID.String())
	}

	return nil
}

// SaveItems inserts the line items via the COPY protocol.
func (r *OutgoingRepo) SaveItems(ctx context.Context, docID id.ID, items []outgoing.Item) error {
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

	return r.copyItems(ctx, outgoingItemsTable, rows)
}

// GetByID retrieves an outgoing document header (without items).
func (r *OutgoingRepo) GetByID(ctx context.Context, docID id.ID) (*outgoing.Outgoing, error) {
	doc := &outgoing.Outgoing{}

	q := r.headerSelect(outgoingTable, outgoingTxCols).
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

// GetByNumber retrieves an outgoing document by number.
func (r *OutgoingRepo) GetByNumber(ctx context.Context, number string) (*outgoing.Outgoing, error) {
	doc := &outgoing.Outgoing{}

	q := r.headerSelect(outgoingTable, outgoingTxCols).
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
func (r *OutgoingRepo) GetItems(ctx context.Context, docID id.ID) ([]outgoing.Item, error) {
	q := r.Builder().
		Select("line_id", "line_no", "product_id", "quantity", "unit_price", "amount").
		From(outgoingItemsTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []outgoing.Item
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	return items, nil
}

// List retrieves outgoing documents with filtering.
func (r *OutgoingRepo) List(ctx context.Context, filter outgoing.ListFilter) (domain.ListResult[*outgoing.Outgoing], error) {
	result := domain.ListResult[*outgoing.Outgoing]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.headerSelect(outgoingTable, outgoingTxCols)

	if filter.ClientID != nil {
		q = q.Where(squirrel.Eq{"t.client_id": *filter.ClientID})
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

	orderBy, err := r.parseOrderBy(filter.OrderBy, outgoingTxCols)
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
