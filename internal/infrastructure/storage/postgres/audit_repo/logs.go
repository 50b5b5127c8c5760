// Package audit_repo provides the PostgreSQL implementation of the
// audit log repository. Both tables are insert-only; there is no code
// path that updates or deletes an entry.
package audit_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"stockyard/internal/domain/auditlog"
	"stockyard/internal/infrastructure/storage/postgres"
)

const (
	stockLogsTable    = "log_stock"
	documentLogsTable = "log_documents"
)

// CompressionAlgo specifies the compression algorithm used for snapshots.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// compressThreshold is the snapshot size above which zstd kicks in.
// Typical documents are well under this; bulk imports with hundreds of
// lines are not.
const compressThreshold = 4 * 1024

// Compile-time check that LogRepo implements auditlog.Repository.
var _ auditlog.Repository = (*LogRepo)(nil)

// LogRepo implements auditlog.Repository.
type LogRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
}

// NewLogRepo creates a new audit log repository.
func NewLogRepo(txManager *postgres.TxManager) (*LogRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &LogRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		encoder:   encoder,
		decoder:   decoder,
	}, nil
}

// CreateStockLog appends one stock log entry.
// Requires an ambient transaction: an entry must commit together with
// the mutation it describes.
func (r *LogRepo) CreateStockLog(ctx context.Context, log auditlog.StockLog) error {
	if _, err := r.txManager.RequireTx(ctx); err != nil {
		return err
	}

	q := r.builder.Insert(stockLogsTable).
		Columns("id", "stock_id", "operation", "actor", "details", "created_at").
		Values(log.ID, log.StockID, log.Operation, log.Actor, log.Details, log.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert stock log: %w", err)
	}

	return nil
}

// CreateDocumentLog appends one document log entry.
// Large snapshots are stored zstd-compressed.
func (r *LogRepo) CreateDocumentLog(ctx context.Context, log auditlog.DocumentLog) error {
	if _, err := r.txManager.RequireTx(ctx); err != nil {
		return err
	}

	snapshot := []byte(log.Snapshot)
	var compressed []byte
	algo := CompressionNone
	if len(snapshot) > compressThreshold {
		compressed = r.encoder.EncodeAll(snapshot, nil)
		snapshot = nil
		algo = CompressionZstd
	}

	q := r.builder.Insert(documentLogsTable).
		Columns(
			"id", "document_id", "document_type", "operation", "actor",
			"snapshot", "snapshot_compressed", "compression_algo", "created_at",
		).
		Values(
			log.ID, log.DocumentID, log.DocumentType, log.Operation, log.Actor,
			snapshot, compressed, algo, log.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert document log: %w", err)
	}

	return nil
}

// ListStockLogs returns stock log entries matching the filter, newest first.
func (r *LogRepo) ListStockLogs(ctx context.Context, filter auditlog.Filter) ([]auditlog.StockLog, error) {
	q := r.builder.Select("id", "stock_id", "operation", "actor", "details", "created_at").
		From(stockLogsTable)

	q = applyStockFilter(q, filter)
	q = q.OrderBy("created_at DESC", "id DESC")

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

	var logs []auditlog.StockLog
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &logs, sql, args...); err != nil {
		return nil, fmt.Errorf("list stock logs: %w", err)
	}

	return logs, nil
}

// ListDocumentLogs returns document log entries matching the filter,
// newest first. Compressed snapshots are decompressed transparently.
func (r *LogRepo) ListDocumentLogs(ctx context.Context, filter auditlog.Filter) ([]auditlog.DocumentLog, error) {
	q := r.builder.Select(
		"id", "document_id", "document_type", "operation", "actor",
		"snapshot", "snapshot_compressed", "compression_algo", "created_at",
	).From(documentLogsTable)

	if filter.DocumentID != nil {
		q = q.Where(squirrel.Eq{"document_id": *filter.DocumentID})
	}
	if filter.Operation != nil {
		q = q.Where(squirrel.Eq{"operation": *filter.Operation})
	}
	if filter.Actor != "" {
		q = q.Where(squirrel.Eq{"actor": filter.Actor})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}

	q = q.OrderBy("created_at DESC", "id DESC")

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

	rows, err := r.txManager.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list document logs: %w", err)
	}
	defer rows.Close()

	var logs []auditlog.DocumentLog
	for rows.Next() {
		var log auditlog.DocumentLog
		var snapshot, compressed []byte
		var algo CompressionAlgo

		err := rows.Scan(
			&log.ID, &log.DocumentID, &log.DocumentType, &log.Operation, &log.Actor,
			&snapshot, &compressed, &algo, &log.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document log: %w", err)
		}

		if algo == CompressionZstd && len(compressed) > 0 {
			decompressed, err := r.decoder.DecodeAll(compressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress snapshot: %w", err)
			}
			snapshot = decompressed
		}
		log.Snapshot = snapshot

		logs = append(logs, log)
	}

	return logs, rows.Err()
}

// CountStockLogs returns the number of stock log entries matching the filter.
func (r *LogRepo) CountStockLogs(ctx context.Context, filter auditlog.Filter) (int64, error) {
	q := r.builder.Select("COUNT(*)").From(stockLogsTable)
	q = applyStockFilter(q, filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count stock logs: %w", err)
	}

	return count, nil
}

func applyStockFilter(q squirrel.SelectBuilder, filter auditlog.Filter) squirrel.SelectBuilder {
	if filter.StockID != nil {
		q = q.Where(squirrel.Eq{"stock_id": *filter.StockID})
	}
	if filter.Operation != nil {
		q = q.Where(squirrel.Eq{"operation": *filter.Operation})
	}
	if filter.Actor != "" {
		q = q.Where(squirrel.Eq{"actor": filter.Actor})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}
	return q
}
