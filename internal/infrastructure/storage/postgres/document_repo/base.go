// Package document_repo provides PostgreSQL implementations for document
// repositories.
//
// Storage layout follows the domain model: one shared header table
// (documents) plus a transaction table and an items table per direction.
// Documents are append-only, so the repos expose no update or delete.
package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/infrastructure/storage/postgres"
)

const documentsTable = "documents"

// itemColumns is shared by both item tables.
var itemColumns = []string{
	"line_id", "document_id", "line_no", "product_id",
	"quantity", "unit_price", "amount",
}

// baseDocumentRepo holds the pieces common to both document repos.
type baseDocumentRepo struct {
	txManager *postgres.TxManager
	batch     *postgres.BatchInserter
	docType   entity.DocumentType
}

func newBaseDocumentRepo(txManager *postgres.TxManager, docType entity.DocumentType) baseDocumentRepo {
	return baseDocumentRepo{
		txManager: txManager,
		batch:     postgres.NewBatchInserter(txManager),
		docType:   docType,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *baseDocumentRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *baseDocumentRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// insertHeader inserts the shared document header row.
// Callers must hold an ambient transaction: a header without its
// transaction record must never become visible.
func (r *baseDocumentRepo) insertHeader(ctx context.Context, doc *entity.Document) error {
	if _, err := r.txManager.RequireTx(ctx); err != nil {
		return err
	}

	data := postgres.StructToMap(doc)
	headerData := make(map[string]any, len(data))
	for _, col := range postgres.ExtractDBColumns[entity.Document]() {
		if val, ok := data[col]; ok {
			headerData[col] = val
		}
	}

	q := r.Builder().
		Insert(documentsTable).
		SetMap(headerData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert header: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert document header: %w", err)
	}

	return nil
}

// headerSelect builds a SELECT joining the header with the direction's
// transaction table, aliased so pgxscan maps onto the document struct.
func (r *baseDocumentRepo) headerSelect(txTable string, txCols []string) squirrel.SelectBuilder {
	cols := make([]string, 0, 16)
	for _, col := range postgres.ExtractDBColumns[entity.Document]() {
		cols = append(cols, "d."+col)
	}
	for _, col := range txCols {
		cols = append(cols, "t."+col)
	}

	return r.Builder().
		Select(cols...).
		From(documentsTable + " d").
		Join(txTable + " t ON t.document_id = d.id").
		Where(squirrel.Eq{"d.doc_type": r.docType})
}

// copyItems bulk-inserts line items via the COPY protocol.
func (r *baseDocumentRepo) copyItems(ctx context.Context, table string, rows [][]any) error {
	n, err := r.batch.CopyFromSlice(ctx, table, itemColumns, rows)
	if err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	if n != int64(len(rows)) {
		return fmt.Errorf("insert items: inserted %d of %d rows", n, len(rows))
	}
	return nil
}

func (r *baseDocumentRepo) parseOrderBy(orderBy string, txCols []string) (string, error) {
	allowed := map[string]struct{}{
		"number":     {},
		"date":       {},
		"created_at": {},
	}
	for _, col := range txCols {
		allowed[col] = struct{}{}
	}

	if strings.TrimSpace(orderBy) == "" {
		return "d.date DESC", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if _, ok := allowed[field]; !ok {
		return "", apperror.NewValidation("invalid orderBy").
			WithDetail("orderBy", orderBy).
			WithDetail("field", field)
	}

	alias := "d."
	for _, col := range txCols {
		if col == field {
			alias = "t."
			break
		}
	}

	return alias + field + " " + direction, nil
}
