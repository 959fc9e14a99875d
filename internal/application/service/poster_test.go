package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/application/service"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/internal/testutil"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// POST
// =============================================================================

func TestPost_MovesBalancesByNormalSide(t *testing.T) {
	// GIVEN: Cash (Asset, Dr) and a sales ledger (Income, Cr)
	h := newHarness(t)
	cash := h.systemLedger(t, service.LedgerCash, enum.LedgerAsset)
	sales, err := h.poster.EnsureLedger(h.ctx, service.CategoryLedger("Milk", enum.LedgerIncome))
	require.NoError(t, err)

	// WHEN: cash sale of 500
	voucher, err := h.poster.Post(h.ctx, &service.PostingRequest{
		Type:      enum.VoucherSales,
		Date:      time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC),
		Narration: "Counter sale",
		Lines: []service.PostingLine{
			{LedgerID: cash.ID, Debit: testutil.Dec(t, "500")},
			{LedgerID: sales.ID, Credit: testutil.Dec(t, "500")},
		},
	})

	// THEN: both balances grow on their own side
	require.NoError(t, err)
	assert.Equal(t, "SV26050001", voucher.VoucherNumber)
	testutil.AssertDecimal(t, "500", h.ledger(t, cash.ID).CurrentBalance)
	testutil.AssertDecimal(t, "500", h.ledger(t, sales.ID).CurrentBalance)

	stored, err := h.voucherRepo.GetByID(h.ctx, voucher.ID)
	require.NoError(t, err)
	require.Len(t, stored.Entries, 2)
	assertBalanced(t, stored)
}

func TestPost_ImbalanceWritesNothing(t *testing.T) {
	// GIVEN
	h := newHarness(t)
	cash := h.systemLedger(t, service.LedgerCash, enum.LedgerAsset)
	roundOff := h.systemLedger(t, service.LedgerRoundOff, enum.LedgerExpense)

	// WHEN
	_, err := h.poster.Post(h.ctx, &service.PostingRequest{
		Type: enum.VoucherJournal,
		Lines: []service.PostingLine{
			{LedgerID: cash.ID, Debit: testutil.Dec(t, "100")},
			{LedgerID: roundOff.ID, Credit: testutil.Dec(t, "99.99")},
		},
	})

	// THEN
	require.Error(t, err)
	assert.True(t, apperror.IsType(err, apperror.TypeLedgerImbalance))
	assert.Zero(t, h.count(t, &entity.Voucher{}, "1 = 1"))
	testutil.AssertDecimal(t, "0", h.ledger(t, cash.ID).CurrentBalance)
}

func TestPost_AllZeroLinesPostNothing(t *testing.T) {
	h := newHarness(t)
	cash := h.systemLedger(t, service.LedgerCash, enum.LedgerAsset)

	voucher, err := h.poster.Post(h.ctx, &service.PostingRequest{
		Type:  enum.VoucherJournal,
		Lines: []service.PostingLine{{LedgerID: cash.ID}},
	})

	require.NoError(t, err)
	assert.Nil(t, voucher)
}

func TestPost_UnknownLedgerRollsBack(t *testing.T) {
	h := newHarness(t)
	cash := h.systemLedger(t, service.LedgerCash, enum.LedgerAsset)

	_, err := h.poster.Post(h.ctx, &service.PostingRequest{
		Type: enum.VoucherJournal,
		Lines: []service.PostingLine{
			{LedgerID: cash.ID, Debit: testutil.Dec(t, "10")},
			{LedgerID: uuid.New(), Credit: testutil.Dec(t, "10")},
		},
	})

	assert.True(t, apperror.IsType(err, apperror.TypeNotFound))
	assert.Zero(t, h.count(t, &entity.Voucher{}, "1 = 1"))
	testutil.AssertDecimal(t, "0", h.ledger(t, cash.ID).CurrentBalance)
}

// =============================================================================
// JOURNAL AND REVERSAL
// =============================================================================

func TestPostJournal_RequiresTwoBalancedEntries(t *testing.T) {
	h := newHarness(t)
	cash := h.systemLedger(t, service.LedgerCash, enum.LedgerAsset)
	discount := h.systemLedger(t, service.LedgerDiscountAllowed, enum.LedgerExpense)

	_, err := h.poster.PostJournal(h.ctx, time.Now(), "single", []service.ManualEntry{
		{LedgerID: cash.ID, Debit: testutil.Dec(t, "10")},
	})
	assert.True(t, apperror.IsType(err, apperror.TypeValidation))

	_, err = h.poster.PostJournal(h.ctx, time.Now(), "unbalanced", []service.ManualEntry{
		{LedgerID: discount.ID, Debit: testutil.Dec(t, "10")},
		{LedgerID: cash.ID, Credit: testutil.Dec(t, "9")},
	})
	assert.True(t, apperror.IsType(err, apperror.TypeValidation))

	voucher, err := h.poster.PostJournal(h.ctx, time.Now(), "discount given", []service.ManualEntry{
		{LedgerID: discount.ID, Debit: testutil.Dec(t, "10")},
		{LedgerID: cash.ID, Credit: testutil.Dec(t, "10")},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(voucher.VoucherNumber, "JV"))
	testutil.AssertDecimal(t, "-10", h.ledger(t, cash.ID).CurrentBalance)
	testutil.AssertDecimal(t, "10", h.ledger(t, discount.ID).CurrentBalance)
}

func TestReverse_RestoresBalances(t *testing.T) {
	// GIVEN
	h := newHarness(t)
	cash := h.systemLedger(t, service.LedgerCash, enum.LedgerAsset)
	payable := h.systemLedger(t, service.LedgerCGSTPayable, enum.LedgerLiability)
	voucher, err := h.poster.PostJournal(h.ctx, time.Now(), "tax collected", []service.ManualEntry{
		{LedgerID: cash.ID, Debit: testutil.Dec(t, "42.50")},
		{LedgerID: payable.ID, Credit: testutil.Dec(t, "42.50")},
	})
	require.NoError(t, err)

	// WHEN
	require.NoError(t, h.poster.Reverse(h.ctx, voucher.ID))

	// THEN
	testutil.AssertDecimal(t, "0", h.ledger(t, cash.ID).CurrentBalance)
	testutil.AssertDecimal(t, "0", h.ledger(t, payable.ID).CurrentBalance)
	gone, err := h.voucherRepo.GetByID(h.ctx, voucher.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Zero(t, h.count(t, &entity.VoucherEntry{}, "voucher_id = ?", voucher.ID))
}

// =============================================================================
// LEDGER CREATION
// =============================================================================

func TestEnsureLedger_IsIdempotent(t *testing.T) {
	h := newHarness(t)

	first, err := h.poster.EnsureLedger(h.ctx, service.CategoryLedger("Ghee", enum.LedgerExpense))
	require.NoError(t, err)
	second, err := h.poster.EnsureLedger(h.ctx, service.CategoryLedger(" Ghee ", enum.LedgerExpense))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Business Ghee Purchase", first.Name)
	assert.Equal(t, enum.SideDebit, first.BalanceSide)
}

func TestSeedStandardLedgers(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.poster.SeedStandardLedgers(h.ctx))
	require.NoError(t, h.poster.SeedStandardLedgers(h.ctx))

	assert.Equal(t, int64(len(service.StandardLedgers)), h.count(t, &entity.Ledger{}, "is_system = ?", true))
}
