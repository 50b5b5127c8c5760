package auditlog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "stockyard/internal/core/context"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
)

type fakeRepo struct {
	stockLogs    []StockLog
	documentLogs []DocumentLog
	lastFilter   Filter
}

func (r *fakeRepo) CreateStockLog(ctx context.Context, log StockLog) error {
	r.stockLogs = append(r.stockLogs, log)
	return nil
}

func (r *fakeRepo) CreateDocumentLog(ctx context.Context, log DocumentLog) error {
	r.documentLogs = append(r.documentLogs, log)
	return nil
}

func (r *fakeRepo) ListStockLogs(ctx context.Context, filter Filter) ([]StockLog, error) {
	r.lastFilter = filter
	return r.stockLogs, nil
}

func (r *fakeRepo) ListDocumentLogs(ctx context.Context, filter Filter) ([]DocumentLog, error) {
	r.lastFilter = filter
	return r.documentLogs, nil
}

func (r *fakeRepo) CountStockLogs(ctx context.Context, filter Filter) (int64, error) {
	return int64(len(r.stockLogs)), nil
}

func actorCtx(userID string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{UserID: userID})
}

func TestRecordStock_TakesActorFromContext(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	stockID := id.New()
	log, err := svc.RecordStock(actorCtx("alice"), stockID, entity.OperationReceipt, "received: 5")
	require.NoError(t, err)

	assert.Equal(t, stockID, log.StockID)
	assert.Equal(t, entity.OperationReceipt, log.Operation)
	assert.Equal(t, "alice", log.Actor)
	assert.Equal(t, "received: 5", log.Details)
	require.Len(t, repo.stockLogs, 1)
}

func TestRecordDocument_MarshalsSnapshot(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	snapshot := map[string]any{"number": "INC-2026-00001", "total": "32.50"}
	docID := id.New()

	log, err := svc.RecordDocument(actorCtx("alice"), docID, entity.DocumentTypeIncoming, entity.OperationReceipt, snapshot)
	require.NoError(t, err)

	assert.Equal(t, docID, log.DocumentID)
	assert.Equal(t, entity.DocumentTypeIncoming, log.DocumentType)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(log.Snapshot, &decoded))
	assert.Equal(t, "INC-2026-00001", decoded["number"])
}

func TestRecordDocument_NilSnapshot(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	log, err := svc.RecordDocument(actorCtx("alice"), id.New(), entity.DocumentTypeOutgoing, entity.OperationShipment, nil)
	require.NoError(t, err)
	assert.Nil(t, log.Snapshot)
}

func TestList_NormalizesLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.ListStockLogs(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastFilter.Limit)

	_, err = svc.ListDocumentLogs(ctx, Filter{Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, 1000, repo.lastFilter.Limit)
}
