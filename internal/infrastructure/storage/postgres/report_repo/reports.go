// Package report_repo provides PostgreSQL implementations for report
// repositories. Reports read committed state only; they never join the
// ledger's row locks.
package report_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockyard/internal/core/apperror"
	"stockyard/internal/domain/reports"
	"stockyard/internal/infrastructure/storage/postgres"
)

// Compile-time check that ReportRepo implements reports.Repository.
var _ reports.Repository = (*ReportRepo)(nil)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetStockBalanceReport generates the stock balance report with product
// and warehouse names resolved.
func (r *ReportRepo) GetStockBalanceReport(ctx context.Context, filter reports.StockBalanceFilter) (*reports.StockBalanceReport, error) {
	q := r.builder.Select(
		"s.warehouse_id",
		"w.name AS warehouse_name",
		"s.product_id",
		"p.name AS product_name",
		"COALESCE(p.sku, '') AS product_sku",
		"s.quantity",
	).
		From("stock s").
		Join("cat_warehouses w ON w.id = s.warehouse_id").
		Join("cat_products p ON p.id = s.product_id")

	if len(filter.WarehouseIDs) > 0 {
		q = q.Where(squirrel.Eq{"s.warehouse_id": filter.WarehouseIDs})
	}
	if len(filter.ProductIDs) > 0 {
		q = q.Where(squirrel.Eq{"s.product_id": filter.ProductIDs})
	}
	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"s.quantity": int64(0)})
	}

	q = q.OrderBy("w.name", "p.name")

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

	var items []reports.StockBalanceItem
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("stock balance report: %w", err)
	}

	var totalQuantity int64
	for _, item := range items {
		totalQuantity += item.Quantity
	}

	return &reports.StockBalanceReport{
		GeneratedAt:   time.Now().UTC(),
		Items:         items,
		TotalItems:    len(items),
		TotalQuantity: totalQuantity,
	}, nil
}

// GetLowStockReport lists (product, warehouse) pairs whose on-hand
// quantity is at or below the product's minimum stock level, worst
// shortages first.
func (r *ReportRepo) GetLowStockReport(ctx context.Context, filter reports.LowStockFilter) (*reports.LowStockReport, error) {
	q := r.builder.Select(
		"s.warehouse_id",
		"w.name AS warehouse_name",
		"s.product_id",
		"p.name AS product_name",
		"COALESCE(p.sku, '') AS product_sku",
		"s.quantity",
		"p.minimum_stock_level AS minimum_level",
		"p.minimum_stock_level - s.quantity AS shortage",
	).
		From("stock s").
		Join("cat_warehouses w ON w.id = s.warehouse_id").
		Join("cat_products p ON p.id = s.product_id").
		Where(squirrel.Expr("s.quantity <= p.minimum_stock_level")).
		Where(squirrel.Eq{"p.deletion_mark": false})

	if len(filter.WarehouseIDs) > 0 {
		q = q.Where(squirrel.Eq{"s.warehouse_id": filter.WarehouseIDs})
	}
	if len(filter.ProductIDs) > 0 {
		q = q.Where(squirrel.Eq{"s.product_id": filter.ProductIDs})
	}

	q = q.OrderBy("shortage DESC", "w.name", "p.name")

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

	var items []reports.LowStockItem
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("low stock report: %w", err)
	}

	return &reports.LowStockReport{
		GeneratedAt: time.Now().UTC(),
		Items:       items,
		TotalItems:  len(items),
	}, nil
}

// journalUnion is the parameterless union of both document directions
// with counterparty and warehouse names and per-document quantity totals.
const journalUnion = `
	SELECT d.id,
	       d.doc_type AS document_type,
	       d.number,
	       d.date,
	       t.supplier_id AS counterparty_id,
	       cp.name AS counterparty_name,
	       t.warehouse_id,
	       w.name AS warehouse_name,
	       COALESCE(iq.total_quantity, 0) AS total_quantity,
	       t.total_amount,
	       d.comment,
	       d.created_at,
	       d.created_by
	FROM documents d
	JOIN doc_incoming t ON t.document_id = d.id
	JOIN cat_suppliers cp ON cp.id = t.supplier_id
	JOIN cat_warehouses w ON w.id = t.warehouse_id
	LEFT JOIN (
		SELECT document_id, SUM(quantity) AS total_quantity
		FROM doc_incoming_items GROUP BY document_id
	) iq ON iq.document_id = d.id
	UNION ALL
	SELECT d.id,
	       d.doc_type AS document_type,
	       d.number,
	       d.date,
	       t.client_id AS counterparty_id,
	       cp.name AS counterparty_name,
	       t.warehouse_id,
	       w.name AS warehouse_name,
	       COALESCE(oq.total_quantity, 0) AS total_quantity,
	       t.total_amount,
	       d.comment,
	       d.created_at,
	       d.created_by
	FROM documents d
	JOIN doc_outgoing t ON t.document_id = d.id
	JOIN cat_clients cp ON cp.id = t.client_id
	JOIN cat_warehouses w ON w.id = t.warehouse_id
	LEFT JOIN (
		SELECT document_id, SUM(quantity) AS total_quantity
		FROM doc_outgoing_items GROUP BY document_id
	) oq ON oq.document_id = d.id
`

func (r *ReportRepo) journalSelect(cols string, filter reports.DocumentJournalFilter) squirrel.SelectBuilder {
	q := r.builder.Select(cols).
		From("(" + journalUnion + ") j")

	if filter.DocumentType != "" {
		q = q.Where(squirrel.Eq{"j.document_type": filter.DocumentType})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"j.date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"j.date": *filter.ToDate})
	}
	if filter.NumberContains != "" {
		q = q.Where(squirrel.ILike{"j.number": "%" + filter.NumberContains + "%"})
	}
	if len(filter.WarehouseIDs) > 0 {
		q = q.Where(squirrel.Eq{"j.warehouse_id": filter.WarehouseIDs})
	}
	if len(filter.CounterpartyIDs) > 0 {
		q = q.Where(squirrel.Eq{"j.counterparty_id": filter.CounterpartyIDs})
	}

	return q
}

// GetDocumentJournal returns documents of both directions in one listing.
func (r *ReportRepo) GetDocumentJournal(ctx context.Context, filter reports.DocumentJournalFilter) (*reports.DocumentJournal, error) {
	journal := &reports.DocumentJournal{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	countQ := r.journalSelect("COUNT(*)", filter)
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&journal.TotalCount); err != nil {
		return nil, fmt.Errorf("count journal: %w", err)
	}

	orderBy, err := journalOrderBy(filter.SortBy, filter.SortOrder)
	if err != nil {
		return nil, err
	}

	q := r.journalSelect("j.*", filter).OrderBy(orderBy)

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

	if err := pgxscan.Select(ctx, querier, &journal.Items, sql, args...); err != nil {
		return nil, fmt.Errorf("document journal: %w", err)
	}

	return journal, nil
}

// GetDocumentTypeSummary returns count and totals per document type for
// the same filter as the journal listing.
func (r *ReportRepo) GetDocumentTypeSummary(ctx context.Context, filter reports.DocumentJournalFilter) ([]reports.DocumentTypeSummary, error) {
	q := r.journalSelect(
		"j.document_type, COUNT(*) AS count, COALESCE(SUM(j.total_quantity), 0) AS total_quantity, COALESCE(SUM(j.total_amount), 0) AS total_amount",
		filter,
	).GroupBy("j.document_type").OrderBy("j.document_type")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var summary []reports.DocumentTypeSummary
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &summary, sql, args...); err != nil {
		return nil, fmt.Errorf("document type summary: %w", err)
	}

	return summary, nil
}

func journalOrderBy(sortBy, sortOrder string) (string, error) {
	cols := map[string]string{
		"date":   "j.date",
		"number": "j.number",
		"type":   "j.document_type",
		"amount": "j.total_amount",
	}

	col, ok := cols[sortBy]
	if !ok {
		return "", apperror.NewValidation("invalid sort field").WithDetail("sortBy", sortBy)
	}

	direction := strings.ToUpper(sortOrder)
	if direction != "ASC" && direction != "DESC" {
		return "", apperror.NewValidation("invalid sort order").WithDetail("sortOrder", sortOrder)
	}

	return col + " " + direction, nil
}
