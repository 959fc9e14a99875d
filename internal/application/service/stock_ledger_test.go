package service_test

import (
	"testing"

	"github.com/sangkips/dairy-coop-api/internal/application/service"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/internal/testutil"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// APPLY MOVEMENT
// =============================================================================

func TestStockOut_InsufficientStockLeavesBalanceUntouched(t *testing.T) {
	// GIVEN: an item holding 50
	h := newHarness(t)
	item := h.newItem(t, "Milk 1L", "52", "50")
	before := h.count(t, &entity.StockTransaction{}, "item_id = ?", item.ID)

	// WHEN: 60 are taken out
	_, err := h.stock.StockOut(h.ctx, &service.StockOutInput{
		ItemID:   item.ID,
		Quantity: testutil.Dec(t, "60"),
	})

	// THEN
	require.Error(t, err)
	assert.True(t, apperror.IsType(err, apperror.TypeInsufficientStock))
	testutil.AssertDecimal(t, "50", h.balance(t, item.ID))
	assert.Equal(t, before, h.count(t, &entity.StockTransaction{}, "item_id = ?", item.ID))
}

func TestApplyMovement_ChainsBalanceAfter(t *testing.T) {
	// GIVEN
	h := newHarness(t)
	item := h.newItem(t, "Paneer 200g", "90", "10")

	// WHEN
	in, err := h.stock.ApplyMovement(h.ctx, service.Movement{
		ItemID:        item.ID,
		Kind:          enum.StockIn,
		Quantity:      testutil.Dec(t, "5"),
		Rate:          testutil.Dec(t, "90"),
		ReferenceType: enum.ReferenceAdjustment,
	})
	require.NoError(t, err)
	out, err := h.stock.StockOut(h.ctx, &service.StockOutInput{
		ItemID:   item.ID,
		Quantity: testutil.Dec(t, "12"),
	})
	require.NoError(t, err)

	// THEN
	testutil.AssertDecimal(t, "15", in.BalanceAfter)
	testutil.AssertDecimal(t, "3", out.BalanceAfter)
	testutil.AssertDecimal(t, "1080", out.Amount)
	assert.Equal(t, enum.ReferenceAdjustment, out.ReferenceType)
	testutil.AssertDecimal(t, "3", h.balance(t, item.ID))

	rows, err := h.stockRepo.ListByItem(h.ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, enum.ReferenceOpening, rows[0].ReferenceType)
	testutil.AssertDecimal(t, "10", rows[0].BalanceAfter)
}

func TestApplyMovement_RejectsInvalidInput(t *testing.T) {
	h := newHarness(t)
	item := h.newItem(t, "Lassi", "25", "0")

	_, err := h.stock.ApplyMovement(h.ctx, service.Movement{
		ItemID:        item.ID,
		Kind:          enum.StockIn,
		Quantity:      testutil.Dec(t, "0"),
		ReferenceType: enum.ReferenceAdjustment,
	})
	assert.True(t, apperror.IsType(err, apperror.TypeValidation))

	_, err = h.stock.ApplyMovement(h.ctx, service.Movement{
		ItemID:        item.ID,
		Kind:          enum.StockIn,
		Quantity:      testutil.Dec(t, "1"),
		ReferenceType: enum.ReferenceType("Gift"),
	})
	assert.True(t, apperror.IsType(err, apperror.TypeValidation))
}

func TestStockOut_RefusesDocumentOwnedReference(t *testing.T) {
	h := newHarness(t)
	item := h.newItem(t, "Ghee 1L", "600", "10")

	_, err := h.stock.StockOut(h.ctx, &service.StockOutInput{
		ItemID:        item.ID,
		Quantity:      testutil.Dec(t, "1"),
		ReferenceType: enum.ReferenceSale,
	})

	assert.True(t, apperror.IsType(err, apperror.TypeValidation))
	testutil.AssertDecimal(t, "10", h.balance(t, item.ID))
}

// =============================================================================
// EDIT AND DELETE
// =============================================================================

func TestUpdateMovement_AppliesNetDeltaAndReplaysSnapshots(t *testing.T) {
	// GIVEN: opening 10, out 4, in 6  => 12
	h := newHarness(t)
	item := h.newItem(t, "Curd 1kg", "70", "10")
	out, err := h.stock.StockOut(h.ctx, &service.StockOutInput{ItemID: item.ID, Quantity: testutil.Dec(t, "4")})
	require.NoError(t, err)
	_, err = h.stock.ApplyMovement(h.ctx, service.Movement{
		ItemID:        item.ID,
		Kind:          enum.StockIn,
		Quantity:      testutil.Dec(t, "6"),
		ReferenceType: enum.ReferenceTransfer,
	})
	require.NoError(t, err)

	// WHEN: the stock-out is corrected to 7
	updated, err := h.stock.UpdateMovement(h.ctx, out.ID, &service.UpdateMovementInput{
		Kind:     enum.StockOut,
		Quantity: testutil.Dec(t, "7"),
	})

	// THEN
	require.NoError(t, err)
	testutil.AssertDecimal(t, "7", updated.Quantity)
	testutil.AssertDecimal(t, "3", updated.BalanceAfter)
	testutil.AssertDecimal(t, "9", h.balance(t, item.ID))

	rows, err := h.stockRepo.ListByItem(h.ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	testutil.AssertDecimal(t, "9", rows[2].BalanceAfter)
}

func TestUpdateMovement_FlipToStockOutChecksStock(t *testing.T) {
	// GIVEN: opening 5, adjustment in of 3
	h := newHarness(t)
	item := h.newItem(t, "Khoa", "300", "5")
	in, err := h.stock.ApplyMovement(h.ctx, service.Movement{
		ItemID:        item.ID,
		Kind:          enum.StockIn,
		Quantity:      testutil.Dec(t, "3"),
		ReferenceType: enum.ReferenceAdjustment,
	})
	require.NoError(t, err)

	// WHEN: it is flipped to a stock-out of 6, a net change of -9 against 8
	_, err = h.stock.UpdateMovement(h.ctx, in.ID, &service.UpdateMovementInput{
		Kind:     enum.StockOut,
		Quantity: testutil.Dec(t, "6"),
	})

	// THEN
	assert.True(t, apperror.IsType(err, apperror.TypeInsufficientStock))
	testutil.AssertDecimal(t, "8", h.balance(t, item.ID))
}

func TestDeleteMovement_ReversesEffect(t *testing.T) {
	h := newHarness(t)
	item := h.newItem(t, "Buttermilk", "15", "20")
	out, err := h.stock.StockOut(h.ctx, &service.StockOutInput{ItemID: item.ID, Quantity: testutil.Dec(t, "8")})
	require.NoError(t, err)

	require.NoError(t, h.stock.DeleteMovement(h.ctx, out.ID))

	testutil.AssertDecimal(t, "20", h.balance(t, item.ID))
	_, err = h.stock.GetTransaction(h.ctx, out.ID)
	assert.True(t, apperror.IsType(err, apperror.TypeNotFound))
}

func TestDeleteMovement_RefusesNegativeResult(t *testing.T) {
	// GIVEN: in 10 then out 8; deleting the in would leave -8
	h := newHarness(t)
	item := h.newItem(t, "Cheese", "400", "0")
	in, err := h.stock.ApplyMovement(h.ctx, service.Movement{
		ItemID:        item.ID,
		Kind:          enum.StockIn,
		Quantity:      testutil.Dec(t, "10"),
		ReferenceType: enum.ReferenceAdjustment,
	})
	require.NoError(t, err)
	_, err = h.stock.StockOut(h.ctx, &service.StockOutInput{ItemID: item.ID, Quantity: testutil.Dec(t, "8")})
	require.NoError(t, err)

	// WHEN
	err = h.stock.DeleteMovement(h.ctx, in.ID)

	// THEN
	assert.True(t, apperror.IsType(err, apperror.TypeInsufficientStock))
	testutil.AssertDecimal(t, "2", h.balance(t, item.ID))
}

func TestDeleteMovement_RefusesWhenLaterSnapshotWouldGoNegative(t *testing.T) {
	// GIVEN: in 10, out 8, in 20; the final balance survives removing the first in but the out does not
	h := newHarness(t)
	item := h.newItem(t, "Khoa 1kg", "320", "0")
	first, err := h.stock.ApplyMovement(h.ctx, service.Movement{
		ItemID:        item.ID,
		Kind:          enum.StockIn,
		Quantity:      testutil.Dec(t, "10"),
		ReferenceType: enum.ReferenceAdjustment,
	})
	require.NoError(t, err)
	out, err := h.stock.StockOut(h.ctx, &service.StockOutInput{ItemID: item.ID, Quantity: testutil.Dec(t, "8")})
	require.NoError(t, err)
	_, err = h.stock.ApplyMovement(h.ctx, service.Movement{
		ItemID:        item.ID,
		Kind:          enum.StockIn,
		Quantity:      testutil.Dec(t, "20"),
		ReferenceType: enum.ReferenceAdjustment,
	})
	require.NoError(t, err)

	// WHEN
	err = h.stock.DeleteMovement(h.ctx, first.ID)

	// THEN: nothing moved and the out keeps its snapshot
	assert.True(t, apperror.IsType(err, apperror.TypeInsufficientStock))
	testutil.AssertDecimal(t, "22", h.balance(t, item.ID))
	kept, err := h.stock.GetTransaction(h.ctx, first.ID)
	require.NoError(t, err)
	testutil.AssertDecimal(t, "10", kept.BalanceAfter)
	stored, err := h.stock.GetTransaction(h.ctx, out.ID)
	require.NoError(t, err)
	testutil.AssertDecimal(t, "2", stored.BalanceAfter)
}

func TestUpdateMovement_RefusesShrinkingCoverOfLaterOut(t *testing.T) {
	// GIVEN: in 10, out 8, in 20
	h := newHarness(t)
	item := h.newItem(t, "Khoa 500g", "170", "0")
	first, err := h.stock.ApplyMovement(h.ctx, service.Movement{
		ItemID:        item.ID,
		Kind:          enum.StockIn,
		Quantity:      testutil.Dec(t, "10"),
		ReferenceType: enum.ReferenceAdjustment,
	})
	require.NoError(t, err)
	_, err = h.stock.StockOut(h.ctx, &service.StockOutInput{ItemID: item.ID, Quantity: testutil.Dec(t, "8")})
	require.NoError(t, err)
	_, err = h.stock.ApplyMovement(h.ctx, service.Movement{
		ItemID:        item.ID,
		Kind:          enum.StockIn,
		Quantity:      testutil.Dec(t, "20"),
		ReferenceType: enum.ReferenceAdjustment,
	})
	require.NoError(t, err)

	// WHEN: the first in shrinks to 5
	_, err = h.stock.UpdateMovement(h.ctx, first.ID, &service.UpdateMovementInput{
		Kind:     enum.StockIn,
		Quantity: testutil.Dec(t, "5"),
	})

	// THEN
	assert.True(t, apperror.IsType(err, apperror.TypeInsufficientStock))
	testutil.AssertDecimal(t, "22", h.balance(t, item.ID))
}

// =============================================================================
// REBUILD AND REPORT
// =============================================================================

func TestRebuildBalance_RestoresDriftedProjection(t *testing.T) {
	// GIVEN: a projection that drifted from its log
	h := newHarness(t)
	item := h.newItem(t, "Ice Cream Tub", "250", "12")
	_, err := h.stock.StockOut(h.ctx, &service.StockOutInput{ItemID: item.ID, Quantity: testutil.Dec(t, "2")})
	require.NoError(t, err)
	require.NoError(t, h.itemRepo.SetBalance(h.ctx, item.ID, testutil.Dec(t, "99")))

	// WHEN
	balance, err := h.stock.RebuildBalance(h.ctx, item.ID)

	// THEN
	require.NoError(t, err)
	testutil.AssertDecimal(t, "10", balance)
	testutil.AssertDecimal(t, "10", h.balance(t, item.ID))
}

func TestBalanceReport_ValuesAtPurchasePrice(t *testing.T) {
	h := newHarness(t)
	h.newItem(t, "Milk 500ml", "26", "10")
	h.newItem(t, "Ghee 200ml", "250", "2")

	report, err := h.stock.BalanceReport(h.ctx)

	require.NoError(t, err)
	assert.Len(t, report.Items, 2)
	testutil.AssertDecimal(t, "760", report.TotalValue)
}
