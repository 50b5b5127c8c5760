package outgoing

import (
	"context"
	"sync"
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
	"stockyard/internal/domain/catalogs/client"
	"stockyard/internal/domain/catalogs/product"
	"stockyard/internal/domain/catalogs/warehouse"
	"stockyard/internal/domain/ledger"
)

// --- fakes ---

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

type fakeClientRepo struct {
	client.Repository
	byID map[id.ID]*client.Client
}

func (f *fakeClientRepo) GetByID(ctx context.Context, entityID id.ID) (*client.Client, error) {
	c, ok := f.byID[entityID]
	if !ok {
		return nil, apperror.NewNotFound("client", entityID.String())
	}
	return c, nil
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
	created  *Outgoing
	items    []Item
	totalSet bool
}

func (f *fakeDocRepo) Create(ctx context.Context, doc *Outgoing) error {
	f.created = doc
	return nil
}

func (f *fakeDocRepo) SetTotalAmount(ctx context.Context, doc *Outgoing) error {
	f.totalSet = true
	return nil
}

func (f *fakeDocRepo) SaveItems(ctx context.Context, docID id.ID, items []Item) error {
	f.items = items
	return nil
}

func (f *fakeDocRepo) GetByID(ctx context.Context, docID id.ID) (*Outgoing, error) {
	if f.created != nil && f.created.ID == docID {
		return f.created, nil
	}
	return nil, apperror.NewNotFound("outgoing document", docID.String())
}

func (f *fakeDocRepo) GetByNumber(ctx context.Context, number string) (*Outgoing, error) {
	return nil, apperror.NewNotFound("outgoing document", number)
}

func (f *fakeDocRepo) GetItems(ctx context.Context, docID id.ID) ([]Item, error) {
	return f.items, nil
}

func (f *fakeDocRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Outgoing], error) {
	return domain.ListResult[*Outgoing]{}, nil
}

type fakeStockRepo struct {
	rows map[string]entity.StockRow
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

// heldLocks collects the row locks a transaction has taken so the tx
// manager can release them when the transaction finishes.
type heldLocks struct {
	mus []*sync.Mutex
}

func (h *heldLocks) holds(mu *sync.Mutex) bool {
	for _, held := range h.mus {
		if held == mu {
			return true
		}
	}
	return false
}

type heldLocksKey struct{}

// lockingTxManager pairs with lockingStockRepo: row locks acquired inside
// the function are released when it returns, commit and rollback alike.
type lockingTxManager struct{}

func (m *lockingTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	held := &heldLocks{}
	err := fn(context.WithValue(ctx, heldLocksKey{}, held))
	for _, mu := range held.mus {
		mu.Unlock()
	}
	return err
}

// lockingStockRepo serializes transactions touching the same stock row
// the way FOR UPDATE does: the lock taken in GetForUpdate is held until
// the enclosing transaction finishes.
type lockingStockRepo struct {
	mu       sync.Mutex
	rows     map[string]entity.StockRow
	rowLocks map[string]*sync.Mutex
}

func newLockingStockRepo() *lockingStockRepo {
	return &lockingStockRepo{
		rows:     make(map[string]entity.StockRow),
		rowLocks: make(map[string]*sync.Mutex),
	}
}

func (r *lockingStockRepo) Get(ctx context.Context, productID, warehouseID id.ID) (entity.StockRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[stockKey(productID, warehouseID)]
	if !ok {
		return entity.StockRow{}, apperror.NewNotFound("stock", "")
	}
	return row, nil
}

func (r *lockingStockRepo) GetForUpdate(ctx context.Context, productID, warehouseID id.ID) (entity.StockRow, error) {
	r.mu.Lock()
	lock, ok := r.rowLocks[stockKey(productID, warehouseID)]
	if !ok {
		lock = &sync.Mutex{}
		r.rowLocks[stockKey(productID, warehouseID)] = lock
	}
	r.mu.Unlock()

	if held, ok := ctx.Value(heldLocksKey{}).(*heldLocks); ok && !held.holds(lock) {
		lock.Lock()
		held.mus = append(held.mus, lock)
	}

	return r.Get(ctx, productID, warehouseID)
}

func (r *lockingStockRepo) Create(ctx context.Context, row entity.StockRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[stockKey(row.ProductID, row.WarehouseID)]; !ok {
		r.rows[stockKey(row.ProductID, row.WarehouseID)] = row
	}
	return nil
}

func (r *lockingStockRepo) AddQuantity(ctx context.Context, stockID id.ID, delta types.Quantity) (entity.StockRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, row := range r.rows {
		if row.ID == stockID {
			row.Quantity += delta
			r.rows[k] = row
			return row, nil
		}
	}
	return entity.StockRow{}, apperror.NewNotFound("stock", stockID.String())
}

func (r *lockingStockRepo) List(ctx context.Context, filter ledger.Filter) ([]entity.StockRow, error) {
	return nil, nil
}

func (r *lockingStockRepo) seed(productID, warehouseID id.ID, qty int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := entity.NewStockRow(productID, warehouseID)
	row.Quantity = types.NewQuantity(qty)
	r.rows[stockKey(productID, warehouseID)] = row
}

func (r *lockingStockRepo) quantity(productID, warehouseID id.ID) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[stockKey(productID, warehouseID)].Quantity.Int64()
}

// --- fixture ---

type fixture struct {
	service   *Service
	docRepo   *fakeDocRepo
	stockRepo *fakeStockRepo
	auditRepo *fakeAuditRepo
	txManager *fakeTxManager

	clientID    id.ID
	warehouseID id.ID
}

func newFixture(t *testing.T, products ...*product.Product) *fixture {
	t.Helper()

	cl := client.NewClient("CLI-001", "City Office Supplies")
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
		&fakeClientRepo{byID: map[id.ID]*client.Client{cl.ID: cl}},
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
		clientID:    cl.ID,
		warehouseID: wh.ID,
	}
}

func actorContext(userID string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: userID,
		Roles:  []string{"storekeeper"},
	})
}

func newTestProduct(code, name, sellingPrice string) *product.Product {
	p := product.NewProduct(code, name)
	p.SellingPrice = types.MustMoney(sellingPrice)
	return p
}

// --- tests ---

func TestCreate_ShipmentDecreasesStock(t *testing.T) {
	// 10 on hand, ship 7, 3 remain.
	x := newTestProduct("PRD-00001", "Bolt M8", "4.00")
	fx := newFixture(t, x)
	fx.stockRepo.seed(x.ID, fx.warehouseID, 10)

	doc := NewOutgoing(fx.clientID, fx.warehouseID)
	doc.AddItem(x.ID, 7)

	err := fx.service.Create(actorContext("bob"), doc)
	require.NoError(t, err)

	assert.Equal(t, int64(3), fx.stockRepo.quantity(x.ID, fx.warehouseID))

	require.Len(t, fx.auditRepo.stockLogs, 1)
	assert.Equal(t, entity.OperationShipment, fx.auditRepo.stockLogs[0].Operation)
	assert.Equal(t, "shipped: 7", fx.auditRepo.stockLogs[0].Details)
	assert.Equal(t, "bob", fx.auditRepo.stockLogs[0].Actor)

	require.Len(t, fx.auditRepo.documentLogs, 1)
	assert.Equal(t, entity.DocumentTypeOutgoing, fx.auditRepo.documentLogs[0].DocumentType)
	assert.Equal(t, entity.OperationShipment, fx.auditRepo.documentLogs[0].Operation)

	// 7 * 4.00
	assert.True(t, doc.TotalAmount.Equal(types.MustMoney("28.00")),
		"total = %s", doc.TotalAmount)
}

func TestCreate_InsufficientStockRollsBack(t *testing.T) {
	// 10 on hand, ship 11: the whole document fails.
	x := newTestProduct("PRD-00001", "Bolt M8", "4.00")
	fx := newFixture(t, x)
	fx.stockRepo.seed(x.ID, fx.warehouseID, 10)

	doc := NewOutgoing(fx.clientID, fx.warehouseID)
	doc.AddItem(x.ID, 11)

	err := fx.service.Create(actorContext("bob"), doc)
	require.Error(t, err)
	require.True(t, apperror.IsInsufficientStock(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, x.ID.String(), appErr.Details["product_id"])
	assert.Equal(t, fx.warehouseID.String(), appErr.Details["warehouse_id"])
	assert.Equal(t, int64(11), appErr.Details["requested"])
	assert.Equal(t, int64(10), appErr.Details["available"])

	// The sufficiency check fails under the lock; the transaction is
	// rolled back with the stock untouched and no audit entries.
	assert.True(t, fx.txManager.rolledBack)
	assert.Equal(t, int64(10), fx.stockRepo.quantity(x.ID, fx.warehouseID))
	assert.Empty(t, fx.auditRepo.stockLogs)
	assert.Empty(t, fx.auditRepo.documentLogs)
}

func TestCreate_NeverReceivedProductFails(t *testing.T) {
	x := newTestProduct("PRD-00001", "Bolt M8", "4.00")
	fx := newFixture(t, x)

	doc := NewOutgoing(fx.clientID, fx.warehouseID)
	doc.AddItem(x.ID, 1)

	err := fx.service.Create(actorContext("bob"), doc)
	require.Error(t, err)
	require.True(t, apperror.IsInsufficientStock(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, int64(0), appErr.Details["available"])
}

func TestCreate_MultiLineShortageAbortsWholeDocument(t *testing.T) {
	// First line would succeed, second is short: nothing may survive.
	a := newTestProduct("PRD-00001", "Bolt M8", "1.00")
	b := newTestProduct("PRD-00002", "Washer M8", "1.00")
	fx := newFixture(t, a, b)
	fx.stockRepo.seed(a.ID, fx.warehouseID, 100)
	fx.stockRepo.seed(b.ID, fx.warehouseID, 2)

	doc := NewOutgoing(fx.clientID, fx.warehouseID)
	doc.AddItem(a.ID, 50)
	doc.AddItem(b.ID, 5)

	err := fx.service.Create(actorContext("bob"), doc)
	require.Error(t, err)
	require.True(t, apperror.IsInsufficientStock(err))
	assert.True(t, fx.txManager.rolledBack)
	assert.Empty(t, fx.auditRepo.documentLogs)
}

func TestCreate_ConcurrentShipmentsSerializeOnStockRow(t *testing.T) {
	// 10 on hand, two concurrent shipments of 7 each: the row lock makes
	// one win and leaves the other short. Never both, never neither.
	x := newTestProduct("PRD-00001", "Bolt M8", "4.00")
	cl := client.NewClient("CLI-001", "City Office Supplies")
	wh := warehouse.NewWarehouse("WH-001", "Main Warehouse")

	stockRepo := newLockingStockRepo()
	stockRepo.seed(x.ID, wh.ID, 10)
	txManager := &lockingTxManager{}

	newShipper := func() *Service {
		return NewService(
			&fakeDocRepo{},
			&fakeProductRepo{byID: map[id.ID]*product.Product{x.ID: x}},
			&fakeClientRepo{byID: map[id.ID]*client.Client{cl.ID: cl}},
			&fakeWarehouseRepo{byID: map[id.ID]*warehouse.Warehouse{wh.ID: wh}},
			ledger.NewService(stockRepo),
			auditlog.NewService(&fakeAuditRepo{}),
			&numerator.MockGenerator{},
			txManager,
		)
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		svc := newShipper()
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc := NewOutgoing(cl.ID, wh.ID)
			doc.AddItem(x.ID, 7)
			errs <- svc.Create(actorContext("bob"), doc)
		}()
	}
	wg.Wait()
	close(errs)

	var shipped, short int
	for err := range errs {
		if err == nil {
			shipped++
			continue
		}
		require.True(t, apperror.IsInsufficientStock(err), "unexpected error: %v", err)
		short++
	}

	assert.Equal(t, 1, shipped)
	assert.Equal(t, 1, short)
	assert.Equal(t, int64(3), stockRepo.quantity(x.ID, wh.ID))
}

func TestCreate_UnknownClientRejectedBeforeTransaction(t *testing.T) {
	x := newTestProduct("PRD-00001", "Bolt M8", "4.00")
	fx := newFixture(t, x)
	fx.stockRepo.seed(x.ID, fx.warehouseID, 10)

	doc := NewOutgoing(id.New(), fx.warehouseID)
	doc.AddItem(x.ID, 1)

	err := fx.service.Create(actorContext("bob"), doc)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, 0, fx.txManager.runs)
	assert.Nil(t, fx.docRepo.created)
}

func TestCreate_GeneratesNumberWhenEmpty(t *testing.T) {
	x := newTestProduct("PRD-00001", "Bolt M8", "4.00")
	fx := newFixture(t, x)
	fx.stockRepo.seed(x.ID, fx.warehouseID, 10)

	doc := NewOutgoing(fx.clientID, fx.warehouseID)
	doc.AddItem(x.ID, 1)

	require.NoError(t, fx.service.Create(actorContext("bob"), doc))
	assert.Equal(t, "MOCK-2026-00001", doc.Number)
}
