package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// BatchInserter performs bulk inserts using the PostgreSQL COPY protocol.
// Used for document line items and seed data, where one round-trip per
// row would dominate the commit time.
type BatchInserter struct {
	txManager *TxManager
}

// NewBatchInserter creates a new batch inserter.
func NewBatchInserter(txManager *TxManager) *BatchInserter {
	return &BatchInserter{txManager: txManager}
}

// CopyFromSlice performs a bulk insert from a slice of rows.
// Each row is []any matching columns. Requires an ambient transaction:
// COPY outside the document's transaction would break atomicity.
func (b *BatchInserter) CopyFromSlice(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	tx, err := b.txManager.RequireTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", table, err)
	}

	return tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
}
