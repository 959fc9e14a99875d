package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/dairy-coop-api/internal/application/service"
	"github.com/sangkips/dairy-coop-api/internal/config"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	domainRepo "github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/internal/infrastructure/repository"
	"github.com/sangkips/dairy-coop-api/internal/testutil"
	"github.com/sangkips/dairy-coop-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staleSequenceRepo answers the next voucher number lookups as if nothing had been issued,
// the view a writer has when another one inserts between its read and its insert
type staleSequenceRepo struct {
	domainRepo.SequenceRepository
	staleVoucherReads int
}

func (r *staleSequenceRepo) ListByPrefix(ctx context.Context, target domainRepo.SequenceTarget, prefix string, limit int) ([]string, error) {
	if target == domainRepo.VoucherNumbers && r.staleVoucherReads > 0 {
		r.staleVoucherReads--
		return nil, nil
	}
	return r.SequenceRepository.ListByPrefix(ctx, target, prefix, limit)
}

// recordingLocker hands out releases that report what a fresh connection can see at release time
type recordingLocker struct {
	mu       sync.Mutex
	keys     []string
	onUnlock func(key string)
}

func (l *recordingLocker) Obtain(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	l.keys = append(l.keys, key)
	l.mu.Unlock()
	return func() { l.onUnlock(key) }, nil
}

func TestRecordPayment_RetriesAfterReceiptNumberCollision(t *testing.T) {
	// GIVEN: a sale with one receipt already numbered
	f := newSalesFixture(t)
	sale, err := f.sales.CreateSale(f.ctx, saleOf(t, &f.customer.ID, f.item.ID, "10"))
	require.NoError(t, err)
	_, err = f.sales.RecordPayment(f.ctx, sale.ID, &service.PaymentInput{Amount: testutil.Dec(t, "100")})
	require.NoError(t, err)

	stale := &staleSequenceRepo{SequenceRepository: repository.NewSequenceRepository(f.db), staleVoucherReads: 1}
	sequences := service.NewSequenceAllocator(stale, nil, logger.Discard(), nil)
	transactor := repository.NewTransactor(f.db)
	poster := service.NewPoster(transactor, f.ledgerRepo, f.voucherRepo, sequences, logger.Discard(), nil)
	sales := service.NewSalesService(transactor, repository.NewSalesTransactionRepository(f.db),
		repository.NewCustomerRepository(f.db), f.stockRepo, f.voucherRepo, f.composer, f.stock, poster, sequences)

	// WHEN: the next receipt first picks the number already taken
	paid, err := sales.RecordPayment(f.ctx, sale.ID, &service.PaymentInput{Amount: testutil.Dec(t, "200")})

	// THEN: the payment is rerun once with a fresh number and applied exactly once
	require.NoError(t, err)
	testutil.AssertDecimal(t, "300", paid.PaidAmount)
	testutil.AssertDecimal(t, "820", f.dueBy(t))
	testutil.AssertDecimal(t, "300", f.systemLedger(t, service.LedgerCash, enum.LedgerAsset).CurrentBalance)

	vouchers, err := f.voucherRepo.ListByReference(f.ctx, string(enum.ReferenceSale), sale.ID)
	require.NoError(t, err)
	require.Len(t, vouchers, 3)
	numbers := map[string]bool{}
	for _, v := range vouchers {
		numbers[v.VoucherNumber] = true
	}
	assert.Len(t, numbers, 3)
}

func TestPost_ReleasesSequenceLockAfterOuterCommit(t *testing.T) {
	// GIVEN: a poster whose lock release checks what other connections can see
	h := newHarnessOn(t, testutil.NewFileDB(t), config.VoucherPolicyLenient)
	cash := h.systemLedger(t, service.LedgerCash, enum.LedgerAsset)
	roundOff := h.systemLedger(t, service.LedgerRoundOff, enum.LedgerExpense)

	visibleAtRelease := int64(-1)
	locker := &recordingLocker{onUnlock: func(string) {
		var n int64
		require.NoError(t, h.db.Model(&entity.Voucher{}).Count(&n).Error)
		visibleAtRelease = n
	}}
	sequences := service.NewSequenceAllocator(repository.NewSequenceRepository(h.db), locker, logger.Discard(), nil)
	transactor := repository.NewTransactor(h.db)
	poster := service.NewPoster(transactor, h.ledgerRepo, h.voucherRepo, sequences, logger.Discard(), nil)

	// WHEN: the journal is posted inside a larger unit of work
	err := transactor.WithinTransaction(h.ctx, func(ctx context.Context) error {
		_, err := poster.PostJournal(ctx, time.Now(), "rounding", []service.ManualEntry{
			{LedgerID: roundOff.ID, Debit: testutil.Dec(t, "0.40")},
			{LedgerID: cash.ID, Credit: testutil.Dec(t, "0.40")},
		})
		return err
	})

	// THEN: the lock was held until the voucher was committed
	require.NoError(t, err)
	require.Len(t, locker.keys, 1)
	assert.Equal(t, int64(1), visibleAtRelease)
}

func TestOnTransactionEnd_RunsAfterRollbackToo(t *testing.T) {
	h := newHarness(t)
	transactor := repository.NewTransactor(h.db)
	released := false

	err := transactor.WithinTransaction(h.ctx, func(ctx context.Context) error {
		assert.True(t, domainRepo.OnTransactionEnd(ctx, func() { released = true }))
		assert.False(t, released)
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, released)
	assert.False(t, domainRepo.OnTransactionEnd(h.ctx, func() {}))
}
