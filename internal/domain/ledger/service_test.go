package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

// fakeStockRepo is an in-memory Repository. Locking semantics are not
// simulated; GetForUpdate behaves like Get.
type fakeStockRepo struct {
	rows map[string]entity.StockRow
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{rows: make(map[string]entity.StockRow)}
}

func key(productID, warehouseID id.ID) string {
	return productID.String() + "|" + warehouseID.String()
}

func (r *fakeStockRepo) Get(ctx context.Context, productID, warehouseID id.ID) (entity.StockRow, error) {
	row, ok := r.rows[key(productID, warehouseID)]
	if !ok {
		return entity.StockRow{}, apperror.NewNotFound("stock", key(productID, warehouseID))
	}
	return row, nil
}

func (r *fakeStockRepo) GetForUpdate(ctx context.Context, productID, warehouseID id.ID) (entity.StockRow, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *fakeStockRepo) Create(ctx context.Context, row entity.StockRow) error {
	r.rows[key(row.ProductID, row.WarehouseID)] = row
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

func (r *fakeStockRepo) List(ctx context.Context, filter Filter) ([]entity.StockRow, error) {
	out := make([]entity.StockRow, 0, len(r.rows))
	for _, row := range r.rows {
		if filter.ExcludeZero && row.Quantity.IsZero() {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// seed puts an existing row with the given quantity into the repo.
func (r *fakeStockRepo) seed(productID, warehouseID id.ID, qty int64) entity.StockRow {
	row := entity.NewStockRow(productID, warehouseID)
	row.Quantity = types.NewQuantity(qty)
	r.rows[key(productID, warehouseID)] = row
	return row
}

func TestIncrease_CreatesRowLazily(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()

	mutation, err := svc.Increase(ctx, productID, warehouseID, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(5), mutation.Stock.Quantity.Int64())
	assert.Equal(t, "received: 5", mutation.Detail)

	// The row now exists and survives further mutations.
	row, err := repo.Get(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), row.Quantity.Int64())
}

// racingStockRepo simulates losing the first-receipt insert race: by the
// time Create runs, a rival transaction has already inserted the pair, so
// Create inserts nothing of its own.
type racingStockRepo struct {
	*fakeStockRepo
	rival entity.StockRow
}

func (r *racingStockRepo) Create(ctx context.Context, row entity.StockRow) error {
	r.rows[key(r.rival.ProductID, r.rival.WarehouseID)] = r.rival
	return nil
}

func TestIncrease_LostCreateRaceLandsOnWinningRow(t *testing.T) {
	productID := id.New()
	warehouseID := id.New()

	rival := entity.NewStockRow(productID, warehouseID)
	rival.Quantity = types.NewQuantity(20)

	repo := &racingStockRepo{fakeStockRepo: newFakeStockRepo(), rival: rival}
	svc := NewService(repo)

	mutation, err := svc.Increase(context.Background(), productID, warehouseID, 5)
	require.NoError(t, err)

	assert.Equal(t, rival.ID, mutation.Stock.ID)
	assert.Equal(t, int64(25), mutation.Stock.Quantity.Int64())
	assert.Equal(t, "received: 5", mutation.Detail)
}

func TestIncrease_AddsToExistingRow(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()
	repo.seed(productID, warehouseID, 10)

	mutation, err := svc.Increase(ctx, productID, warehouseID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), mutation.Stock.Quantity.Int64())
	assert.Equal(t, "received: 5", mutation.Detail)
}

func TestIncrease_RejectsNonPositiveQuantity(t *testing.T) {
	svc := NewService(newFakeStockRepo())
	ctx := context.Background()

	for _, qty := range []types.Quantity{0, -3} {
		_, err := svc.Increase(ctx, id.New(), id.New(), qty)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	}
}

func TestDecrease_SufficientStock(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()
	repo.seed(productID, warehouseID, 10)

	mutation, err := svc.Decrease(ctx, productID, warehouseID, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), mutation.Stock.Quantity.Int64())
	assert.Equal(t, "shipped: 7", mutation.Detail)
}

func TestDecrease_ExactBalanceReachesZero(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()
	repo.seed(productID, warehouseID, 10)

	mutation, err := svc.Decrease(ctx, productID, warehouseID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), mutation.Stock.Quantity.Int64())

	// The row is kept at zero, not deleted.
	row, err := repo.Get(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), row.Quantity.Int64())
}

func TestDecrease_InsufficientStock(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()
	repo.seed(productID, warehouseID, 10)

	_, err := svc.Decrease(ctx, productID, warehouseID, 11)
	require.Error(t, err)
	require.True(t, apperror.IsInsufficientStock(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, productID.String(), appErr.Details["product_id"])
	assert.Equal(t, warehouseID.String(), appErr.Details["warehouse_id"])
	assert.Equal(t, int64(11), appErr.Details["requested"])
	assert.Equal(t, int64(10), appErr.Details["available"])

	// Quantity untouched.
	row, err := repo.Get(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), row.Quantity.Int64())
}

func TestDecrease_MissingRowCountsAsZero(t *testing.T) {
	svc := NewService(newFakeStockRepo())
	ctx := context.Background()

	_, err := svc.Decrease(ctx, id.New(), id.New(), 1)
	require.Error(t, err)
	require.True(t, apperror.IsInsufficientStock(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, int64(1), appErr.Details["requested"])
	assert.Equal(t, int64(0), appErr.Details["available"])
}

func TestCurrentQuantity_AbsentRowIsZero(t *testing.T) {
	svc := NewService(newFakeStockRepo())
	ctx := context.Background()

	qty, err := svc.CurrentQuantity(ctx, id.New(), id.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty.Int64())
}

func TestCurrentQuantity_ExistingRow(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	productID := id.New()
	warehouseID := id.New()
	repo.seed(productID, warehouseID, 42)

	qty, err := svc.CurrentQuantity(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), qty.Int64())
}

func TestList_ClampsLimit(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	repo.seed(id.New(), id.New(), 1)

	rows, err := svc.List(ctx, Filter{Limit: -1})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = svc.List(ctx, Filter{ExcludeZero: true})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
