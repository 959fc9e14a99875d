package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/application/service"
	"github.com/sangkips/dairy-coop-api/internal/config"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	domainRepo "github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/internal/infrastructure/repository"
	"github.com/sangkips/dairy-coop-api/internal/testutil"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/sangkips/dairy-coop-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// racingItemRepo lets another writer move the balance between the ledger's read and its write.
// The other write shares the ledger's transaction, so it only persists when the ledger commits.
type racingItemRepo struct {
	domainRepo.ItemRepository
	once  sync.Once
	other func(ctx context.Context, id uuid.UUID)
}

func (r *racingItemRepo) CompareAndSetBalance(ctx context.Context, id uuid.UUID, expected, next decimal.Decimal) (bool, error) {
	r.once.Do(func() { r.other(ctx, id) })
	return r.ItemRepository.CompareAndSetBalance(ctx, id, expected, next)
}

func (h *harness) racingLedger(t *testing.T, balanceSetByOther string) *service.StockLedger {
	t.Helper()
	racing := &racingItemRepo{
		ItemRepository: h.itemRepo,
		other: func(ctx context.Context, id uuid.UUID) {
			require.NoError(t, h.itemRepo.SetBalance(ctx, id, testutil.Dec(t, balanceSetByOther)))
		},
	}
	return service.NewStockLedger(repository.NewTransactor(h.db), racing, h.stockRepo, logger.Discard(), nil)
}

// =============================================================================
// COMPARE AND SET
// =============================================================================

func TestCompareAndSetBalance_StaleExpectationWritesNothing(t *testing.T) {
	// GIVEN: an item holding 50
	h := newHarness(t)
	item := h.newItem(t, "Milk 1L", "52", "50")

	// WHEN: a writer still believes the balance is 60
	ok, err := h.itemRepo.CompareAndSetBalance(h.ctx, item.ID, testutil.Dec(t, "60"), testutil.Dec(t, "20"))

	// THEN
	require.NoError(t, err)
	assert.False(t, ok)
	testutil.AssertDecimal(t, "50", h.balance(t, item.ID))

	ok, err = h.itemRepo.CompareAndSetBalance(h.ctx, item.ID, testutil.Dec(t, "50"), testutil.Dec(t, "20"))
	require.NoError(t, err)
	assert.True(t, ok)
	testutil.AssertDecimal(t, "20", h.balance(t, item.ID))
}

func TestStockOut_RechecksAfterBalanceMovedUnderneath(t *testing.T) {
	// GIVEN: 50 on hand; another writer takes it down to 5 after this stock out read 50
	h := newHarness(t)
	item := h.newItem(t, "Curd 500g", "30", "50")
	ledger := h.racingLedger(t, "5")

	// WHEN
	_, err := ledger.StockOut(h.ctx, &service.StockOutInput{ItemID: item.ID, Quantity: testutil.Dec(t, "40")})

	// THEN: the stale 50 is never used to pass the check
	assert.True(t, apperror.IsType(err, apperror.TypeInsufficientStock))
	assert.Equal(t, int64(0), h.count(t, &entity.StockTransaction{}, "item_id = ? AND kind = ?", item.ID, enum.StockOut))
}

func TestStockOut_RetryKeepsOtherWritersStock(t *testing.T) {
	// GIVEN: 50 on hand; another writer raises it to 70 after this stock out read 50
	h := newHarness(t)
	item := h.newItem(t, "Curd 1kg", "55", "50")
	ledger := h.racingLedger(t, "70")

	// WHEN
	row, err := ledger.StockOut(h.ctx, &service.StockOutInput{ItemID: item.ID, Quantity: testutil.Dec(t, "40")})

	// THEN: 70 - 40, not the lost-update 50 - 40
	require.NoError(t, err)
	testutil.AssertDecimal(t, "30", row.BalanceAfter)
	testutil.AssertDecimal(t, "30", h.balance(t, item.ID))
}

func TestStockOut_ConcurrentWritersCannotBothDrawOnSameStock(t *testing.T) {
	// GIVEN: 50 on hand in a database with separate connections per writer
	h := newHarnessOn(t, testutil.NewFileDB(t), config.VoucherPolicyLenient)
	item := h.newItem(t, "Ghee 1kg", "600", "50")

	// WHEN: two writers each take 40 at the same time
	start := make(chan struct{})
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = h.stock.StockOut(context.Background(), &service.StockOutInput{
				ItemID:   item.ID,
				Quantity: testutil.Dec(t, "40"),
			})
		}(i)
	}
	close(start)
	wg.Wait()

	// THEN: exactly one wins and the loser sees InsufficientStock
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperror.IsType(err, apperror.TypeInsufficientStock), err.Error())
	}
	assert.Equal(t, 1, succeeded)
	testutil.AssertDecimal(t, "10", h.balance(t, item.ID))
	assert.Equal(t, int64(1), h.count(t, &entity.StockTransaction{}, "item_id = ? AND kind = ?", item.ID, enum.StockOut))
	assertSnapshotsChain(t, h, item.ID)
}

func assertSnapshotsChain(t *testing.T, h *harness, itemID uuid.UUID) {
	t.Helper()
	rows, err := h.stockRepo.ListByItem(h.ctx, itemID)
	require.NoError(t, err)
	running := decimal.Zero
	for _, row := range rows {
		running = running.Add(row.Delta())
		testutil.AssertDecimal(t, running.String(), row.BalanceAfter)
	}
}
