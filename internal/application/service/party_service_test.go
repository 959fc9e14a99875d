package service_test

import (
	"testing"
	"time"

	"github.com/sangkips/dairy-coop-api/internal/application/service"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/internal/testutil"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SUPPLIERS
// =============================================================================

func TestCreateSupplier_OpensDueByAndDueToLedgers(t *testing.T) {
	// GIVEN
	h := newHarness(t)

	// WHEN: a supplier is created with an opening balance of 5000
	supplier, err := h.suppliers.CreateSupplier(h.ctx, &service.CreateSupplierInput{
		Name:           "Murugan Farms",
		State:          homeState,
		OpeningBalance: testutil.Dec(t, "5000"),
	})

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "SUP-0001", supplier.SupplierCode)
	assert.Equal(t, enum.SupplierTypeMilkProducer, supplier.Type)
	assert.Equal(t, int64(2), h.count(t, &entity.Ledger{}, "entity_id = ?", supplier.ID))

	require.NotNil(t, supplier.DueByLedgerID)
	require.NotNil(t, supplier.DueToLedgerID)
	dueBy := h.ledger(t, *supplier.DueByLedgerID)
	dueTo := h.ledger(t, *supplier.DueToLedgerID)

	assert.Equal(t, "Murugan Farms (SUP-0001) - Due By", dueBy.Name)
	assert.Equal(t, enum.LedgerAsset, dueBy.Type)
	assert.Equal(t, enum.SideDebit, dueBy.BalanceSide)
	testutil.AssertDecimal(t, "0", dueBy.CurrentBalance)

	assert.Equal(t, "Murugan Farms (SUP-0001) - Due To", dueTo.Name)
	assert.Equal(t, enum.LedgerLiability, dueTo.Type)
	assert.Equal(t, enum.SideCredit, dueTo.BalanceSide)
	testutil.AssertDecimal(t, "5000", dueTo.OpeningBalance)
	testutil.AssertDecimal(t, "5000", dueTo.CurrentBalance)
}

func TestCreateSupplier_RejectsUnknownType(t *testing.T) {
	h := newHarness(t)

	_, err := h.suppliers.CreateSupplier(h.ctx, &service.CreateSupplierInput{
		Name: "Odd Vendor",
		Type: enum.SupplierType("wholesaler"),
	})

	assert.True(t, apperror.IsType(err, apperror.TypeValidation))
}

func TestDeleteSupplier_RemovesUnusedLedgers(t *testing.T) {
	h := newHarness(t)
	supplier, err := h.suppliers.CreateSupplier(h.ctx, &service.CreateSupplierInput{Name: "Feed Depot", Type: enum.SupplierTypeFeedVendor})
	require.NoError(t, err)

	require.NoError(t, h.suppliers.DeleteSupplier(h.ctx, supplier.ID))

	assert.Zero(t, h.count(t, &entity.Ledger{}, "entity_id = ?", supplier.ID))
	_, err = h.suppliers.GetSupplier(h.ctx, supplier.ID)
	assert.True(t, apperror.IsType(err, apperror.TypeNotFound))
}

func TestDeleteSupplier_RefusedOncePosted(t *testing.T) {
	// GIVEN: a payment to the supplier posted against Due To
	h := newHarness(t)
	supplier, err := h.suppliers.CreateSupplier(h.ctx, &service.CreateSupplierInput{Name: "Lakshmi Dairy"})
	require.NoError(t, err)
	cash := h.systemLedger(t, service.LedgerCash, enum.LedgerAsset)
	_, err = h.poster.PostJournal(h.ctx, time.Now(), "advance", []service.ManualEntry{
		{LedgerID: *supplier.DueToLedgerID, Debit: testutil.Dec(t, "200")},
		{LedgerID: cash.ID, Credit: testutil.Dec(t, "200")},
	})
	require.NoError(t, err)

	// WHEN
	err = h.suppliers.DeleteSupplier(h.ctx, supplier.ID)

	// THEN
	assert.True(t, apperror.IsType(err, apperror.TypeConflict))
	assert.Equal(t, int64(2), h.count(t, &entity.Ledger{}, "entity_id = ?", supplier.ID))
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func TestCreateCustomer_OpeningBalanceLandsOnDueBy(t *testing.T) {
	h := newHarness(t)

	customer, err := h.customers.CreateCustomer(h.ctx, &service.CreateCustomerInput{
		Name:           "Anand Tea Stall",
		OpeningBalance: testutil.Dec(t, "750.50"),
	})

	require.NoError(t, err)
	assert.Equal(t, "CUST-0001", customer.CustomerCode)
	require.NotNil(t, customer.DueByLedgerID)
	testutil.AssertDecimal(t, "750.5", h.ledger(t, *customer.DueByLedgerID).CurrentBalance)
	testutil.AssertDecimal(t, "0", h.ledger(t, *customer.DueToLedgerID).CurrentBalance)
}

func TestCreateCustomer_DuplicateCodeIsRejected(t *testing.T) {
	h := newHarness(t)
	_, err := h.customers.CreateCustomer(h.ctx, &service.CreateCustomerInput{CustomerCode: "CUST-0100", Name: "Hotel Saravana"})
	require.NoError(t, err)

	_, err = h.customers.CreateCustomer(h.ctx, &service.CreateCustomerInput{CustomerCode: "CUST-0100", Name: "Hotel Annapoorna"})

	assert.True(t, apperror.IsType(err, apperror.TypeDuplicateIdentifier))
}
