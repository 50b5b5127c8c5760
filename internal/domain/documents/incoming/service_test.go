package incoming

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockyard/internal/core/apperror"
	appctx "stockyard/internal/core/context"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/numerator"
	"stockyard/internal/core/types"
	"stockyard/internal/domain"
	"stockyard/internal/domain/auditlog"
	"stockyard/internal/domain/catalogs/product"
	"stockyard/internal/domain/catalogs/supplier"
	"stockyard/internal/domain/catalogs/warehouse"
	"stockyard/internal/domain/ledger"
)

// --- fakes ---

// Catalog fakes embed the repository interface; only the methods the
// service actually calls are implemented.

type fakeProductRepo struct {
	product.Repository
	byID map[id.ID]*product.Product
}

func (f *fakeProductRepo) GetByID(ctx context.Context, entityID id.ID) (*product.Product, error) {
	p, ok := f.byID[entityID]
	if !ok {
		return nil, apperror.NewNotFound("product", entityID.String())
	}
	return p, nil
}

type fakeSupplierRepo struct {
	supplier.Repository
	byID map[id.ID]*supplier.Supplier
}

func (f *fakeSupplierRepo) GetByID(ctx context.Context, entityID id.ID) (*supplier.Supplier, error) {
	s, ok := f.byID[entityID]
	if !ok {
		return nil, apperror.NewNotFound("supplier", entityID.String())
	}
	return s, nil
}

type fakeWarehouseRepo struct {
	warehouse.Repository
	byID map[id.ID]*warehouse.Warehouse
}

func (f *fakeWarehouseRepo) GetByID(ctx context.Context, entityID id.ID) (*warehouse.Warehouse, error) {
	w, ok := f.byID[entityID]
	if !ok {
		return nil, apperror.NewNotFound("warehouse", entityID.String())
	}
	return w, nil
}

type fakeDocRepo struct {
	created  *Incoming
	items    []Item
	totalSet bool
}

func (f *fakeDocRepo) Create(ctx context.Context, doc *Incoming) error {
	f.created = doc
	return nil
}

func (f *fakeDocRepo) SetTotalAmount(ctx context.Context, doc *Incoming) error {
	f.totalSet = true
	return nil
}

func (f *fakeDocRepo) SaveItems(ctx context.Context, docID id.ID, items []Item) error {
	f.items = items
	return nil
}

func (f *fakeDocRepo) GetByID(ctx context.Context, docID id.ID) (*Incoming, error) {
	if f.created != nil && f.created.ID == docID {
		return f.created, nil
	}
	return nil, apperror.NewNotFound("incoming document", docID.String())
}

func (f *fakeDocRepo) GetByNumber(ctx context.Context, number string) (*Incoming, error) {
	return nil, apperror.NewNotFound("incoming document", number)
}

func (f *fakeDocRepo) GetItems(ctx context.Context, docID id.ID) ([]Item, error) {
	return f.items, nil
}

func (f *fakeDocRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Incoming], error) {
	return domain.ListResult[*Incoming]{}, nil
}

// fakeStockRepo records the order in which rows are locked.
type fakeStockRepo struct {
	rows      map[string]entity.StockRow
	lockOrder []id.ID
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{rows: make(map[string]entity.StockRow)}
}

func stockKey(productID, warehouseID id.ID) string {
	return productID.String() + "|" + warehouseID.String()
}

func (r *fakeStockRepo) Get(ctx context.Context, productID, warehouseID id.ID) (entity.StockRow, error) {
	row, ok := r.rows[stockKey(productID, warehouseID)]
	if !ok {
		return entity.StockRow{}, apperror.NewNotFound("stock", "")
	}
	return row, nil
}

func (r *fakeStockRepo) GetForUpdate(ctx context.Context, productID, warehouseID id.ID) (entity.StockRow, error) {
	r.lockOrder = append(r.lockOrder, productID)
	return r.Get(ctx, productID, warehouseID)
}

func (r *fakeStockRepo) Create(ctx context.Context, row entity.StockRow) error {
	r.rows[stockKey(row.ProductID, row.WarehouseID)] = row
	return nil
}

func (r *fakeStockRepo) AddQuantity(ctx context.Context, stockID id.ID, delta types.Quantity) (entity.StockRow, error) {
	for k, row := range r.rows {
		if row.ID == stockID {
			row.Quantity += delta
			r.rows[k] = row
			return row, nil
		}
	}
	return entity.StockRow{}, apperror.NewNotFound("stock", stockID.String())
}

func (r *fakeStockRepo) List(ctx context.Context, filter ledger.Filter) ([]entity.StockRow, error) {
	return nil, nil
}

func (r *fakeStockRepo) seed(productID, warehouseID id.ID, qty int64) {
	row := entity.NewStockRow(productID, warehouseID)
	row.Quantity = types.NewQuantity(qty)
	r.rows[stockKey(productID, warehouseID)] = row
}

func (r *fakeStockRepo) quantity(productID, warehouseID id.ID) int64 {
	return r.rows[stockKey(productID, warehouseID)].Quantity.Int64()
}

// fakeAuditRepo records audit entries.
type fakeAuditRepo struct {
	stockLogs    []auditlog.StockLog
	documentLogs []auditlog.DocumentLog
}

func (r *fakeAuditRepo) CreateStockLog(ctx context.Context, log auditlog.StockLog) error {
	r.stockLogs = append(r.stockLogs, log)
	return nil
}

func (r *fakeAuditRepo) CreateDocumentLog(ctx context.Context, log auditlog.DocumentLog) error {
	r.documentLogs = append(r.documentLogs, log)
	return nil
}

func (r *fakeAuditRepo) ListStockLogs(ctx context.Context, filter auditlog.Filter) ([]auditlog.StockLog, error) {
	return r.stockLogs, nil
}

func (r *fakeAuditRepo) ListDocumentLogs(ctx context.Context, filter auditlog.Filter) ([]auditlog.DocumentLog, error) {
	return r.documentLogs, nil
}

func (r *fakeAuditRepo) CountStockLogs(ctx context.Context, filter auditlog.Filter) (int64, error) {
	return int64(len(r.stockLogs)), nil
}

// fakeTxManager runs the function directly and records outcomes.
type fakeTxManager struct {
	runs       int
	rolledBack bool
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.runs++
	if err := fn(ctx); err != nil {
		m.rolledBack = true
		return err
	}
	return nil
}

// --- fixture ---

type fixture struct {
	service   *Service
	docRepo   *fakeDocRepo
	stockRepo *fakeStockRepo
	auditRepo *fakeAuditRepo
	txManager *fakeTxManager

	supplierID  id.ID
	warehouseID id.ID
}

func newFixture(t *testing.T, products ...*product.Product) *fixture {
	t.Helper()

	sup := supplier.NewSupplier("SUP-001", "Northwind Traders")
	wh := warehouse.NewWarehouse("WH-001", "Main Warehouse")

	productRepo := &fakeProductRepo{byID: make(map[id.ID]*product.Product)}
	for _, p := range products {
		productRepo.byID[p.ID] = p
	}

	docRepo := &fakeDocRepo{}
	stockRepo := newFakeStockRepo()
	auditRepo := &fakeAuditRepo{}
	txManager := &fakeTxManager{}

	service := NewService(
		docRepo,
		productRepo,
		&fakeSupplierRepo{byID: map[id.ID]*supplier.Supplier{sup.ID: sup}},
		&fakeWarehouseRepo{byID: map[id.ID]*warehouse.Warehouse{wh.ID: wh}},
		ledger.NewService(stockRepo),
		auditlog.NewService(auditRepo),
		&numerator.MockGenerator{},
		txManager,
	)

	return &fixture{
		service:     service,
		docRepo:     docRepo,
		stockRepo:   stockRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		supplierID:  sup.ID,
		warehouseID: wh.ID,
	}
}

func actorContext(userID string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: userID,
		Roles:  []string{"storekeeper"},
	})
}

func newTestProduct(code, name, purchasePrice string) *product.Product {
	p := product.NewProduct(code, name)
	p.PurchasePrice = types.MustMoney(purchasePrice)
	return p
}

// --- tests ---

func TestCreate_ReceiptIncreasesStock(t *testing.T) {
	// X has 10 on hand, Y has never been received.
	x := newTestProduct("PRD-00001", "Bolt M8", "2.50")
	y := newTestProduct("PRD-00002", "Washer M8", "1.00")
	fx := newFixture(t, x, y)
	fx.stockRepo.seed(x.ID, fx.warehouseID, 10)

	doc := NewIncoming(fx.supplierID, fx.warehouseID)
	doc.AddItem(x.ID, 5)
	doc.AddItem(y.ID, 20)

	err := fx.service.Create(actorContext("alice"), doc)
	require.NoError(t, err)

	assert.Equal(t, int64(15), fx.stockRepo.quantity(x.ID, fx.warehouseID))
	assert.Equal(t, int64(20), fx.stockRepo.quantity(y.ID, fx.warehouseID))

	// One stock log per line, one document log for the whole receipt.
	require.Len(t, fx.auditRepo.stockLogs, 2)
	details := []string{fx.auditRepo.stockLogs[0].Details, fx.auditRepo.stockLogs[1].Details}
	assert.Contains(t, details, "received: 5")
	assert.Contains(t, details, "received: 20")
	for _, log := range fx.auditRepo.stockLogs {
		assert.Equal(t, entity.OperationReceipt, log.Operation)
		assert.Equal(t, "alice", log.Actor)
	}

	require.Len(t, fx.auditRepo.documentLogs, 1)
	assert.Equal(t, doc.ID, fx.auditRepo.documentLogs[0].DocumentID)
	assert.Equal(t, entity.DocumentTypeIncoming, fx.auditRepo.documentLogs[0].DocumentType)
	assert.NotEmpty(t, fx.auditRepo.documentLogs[0].Snapshot)

	assert.Equal(t, "alice", doc.CreatedBy)
	assert.Equal(t, 1, fx.txManager.runs)
	assert.False(t, fx.txManager.rolledBack)
}

func TestCreate_PricesLinesFromCatalog(t *testing.T) {
	x := newTestProduct("PRD-00001", "Bolt M8", "2.50")
	y := newTestProduct("PRD-00002", "Washer M8", "1.00")
	fx := newFixture(t, x, y)

	doc := NewIncoming(fx.supplierID, fx.warehouseID)
	doc.AddItem(x.ID, 5)
	doc.AddItem(y.ID, 20)

	require.NoError(t, fx.service.Create(actorContext("alice"), doc))

	// 5 * 2.50 + 20 * 1.00
	assert.True(t, doc.TotalAmount.Equal(types.MustMoney("32.50")),
		"total = %s", doc.TotalAmount)
	assert.True(t, doc.Items[0].UnitPrice.Equal(types.MustMoney("2.50")))
	assert.True(t, doc.Items[0].Amount.Equal(types.MustMoney("12.50")))
	assert.True(t, fx.docRepo.totalSet)
}

func TestCreate_GeneratesNumberWhenEmpty(t *testing.T) {
	x := newTestProduct("PRD-00001", "Bolt M8", "2.50")
	fx := newFixture(t, x)

	doc := NewIncoming(fx.supplierID, fx.warehouseID)
	doc.AddItem(x.ID, 1)

	require.NoError(t, fx.service.Create(actorContext("alice"), doc))
	assert.Equal(t, "MOCK-2026-00001", doc.Number)
}

func TestCreate_KeepsExplicitNumber(t *testing.T) {
	x := newTestProduct("PRD-00001", "Bolt M8", "2.50")
	fx := newFixture(t, x)

	doc := NewIncoming(fx.supplierID, fx.warehouseID)
	doc.Number = "INC-OPENING"
	doc.AddItem(x.ID, 1)

	require.NoError(t, fx.service.Create(actorContext("alice"), doc))
	assert.Equal(t, "INC-OPENING", doc.Number)
}

func TestCreate_UnknownSupplierRejectedBeforeTransaction(t *testing.T) {
	x := newTestProduct("PRD-00001", "Bolt M8", "2.50")
	fx := newFixture(t, x)

	doc := NewIncoming(id.New(), fx.warehouseID)
	doc.AddItem(x.ID, 1)

	err := fx.service.Create(actorContext("alice"), doc)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	// Rejected before the unit of work opened: nothing written anywhere.
	assert.Equal(t, 0, fx.txManager.runs)
	assert.Nil(t, fx.docRepo.created)
	assert.Empty(t, fx.auditRepo.stockLogs)
}

func TestCreate_EmptyItemsRejected(t *testing.T) {
	fx := newFixture(t)

	doc := NewIncoming(fx.supplierID, fx.warehouseID)

	err := fx.service.Create(actorContext("alice"), doc)
	require.Error(t, err)
	assert.Equal(t, 0, fx.txManager.runs)
}

func TestCreate_LocksRowsInProductOrder(t *testing.T) {
	a := newTestProduct("PRD-00001", "Bolt M8", "1.00")
	b := newTestProduct("PRD-00002", "Washer M8", "1.00")
	c := newTestProduct("PRD-00003", "Nut M8", "1.00")
	fx := newFixture(t, a, b, c)

	doc := NewIncoming(fx.supplierID, fx.warehouseID)
	// Deliberately unordered lines.
	doc.AddItem(c.ID, 1)
	doc.AddItem(a.ID, 2)
	doc.AddItem(b.ID, 3)

	require.NoError(t, fx.service.Create(actorContext("alice"), doc))

	// Rows are locked in sorted product order regardless of line order.
	// A fresh row is locked twice (miss, create, re-lock), so collapse
	// consecutive repeats before checking the order.
	locked := make([]id.ID, 0, 3)
	for _, pid := range fx.stockRepo.lockOrder {
		if len(locked) == 0 || locked[len(locked)-1] != pid {
			locked = append(locked, pid)
		}
	}
	require.Len(t, locked, 3)
	assert.True(t, sort.SliceIsSorted(locked, func(i, j int) bool {
		return locked[i].String() < locked[j].String()
	}))

	// The stored lines keep the entry order.
	require.Len(t, fx.docRepo.items, 3)
	assert.Equal(t, c.ID, fx.docRepo.items[0].ProductID)
	assert.Equal(t, a.ID, fx.docRepo.items[1].ProductID)
	assert.Equal(t, b.ID, fx.docRepo.items[2].ProductID)
	assert.Equal(t, 1, fx.docRepo.items[0].LineNo)
	assert.Equal(t, 3, fx.docRepo.items[2].LineNo)
}

func TestCreate_InactiveWarehouseRejected(t *testing.T) {
	x := newTestProduct("PRD-00001", "Bolt M8", "2.50")
	fx := newFixture(t, x)

	wh := warehouse.NewWarehouse("WH-002", "Mothballed")
	wh.IsActive = false
	fx.service.warehouses.(*fakeWarehouseRepo).byID[wh.ID] = wh

	doc := NewIncoming(fx.supplierID, wh.ID)
	doc.AddItem(x.ID, 1)

	err := fx.service.Create(actorContext("alice"), doc)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, 0, fx.txManager.runs)
}
