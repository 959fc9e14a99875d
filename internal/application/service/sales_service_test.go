package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/application/service"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/internal/testutil"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var saleDate = time.Date(2026, time.July, 2, 11, 30, 0, 0, time.UTC)

func saleOf(t *testing.T, customerID *uuid.UUID, itemID uuid.UUID, qty string) *service.SaleInput {
	date := saleDate
	return &service.SaleInput{
		InvoiceDate: &date,
		CustomerID:  customerID,
		Items:       []service.LineInput{{ItemID: itemID, Quantity: testutil.Dec(t, qty)}},
	}
}

// salesFixture is an item holding 50 at 100 with 12% GST and a local customer
type salesFixture struct {
	*harness
	item     *entity.Item
	customer *entity.Customer
}

func newSalesFixture(t *testing.T) *salesFixture {
	h := newHarness(t)
	item := h.newItem(t, "Ghee 1kg", "100", "50")
	customer, err := h.customers.CreateCustomer(h.ctx, &service.CreateCustomerInput{Name: "Kumar Sweets", State: homeState})
	require.NoError(t, err)
	return &salesFixture{harness: h, item: item, customer: customer}
}

func (f *salesFixture) dueBy(t *testing.T) decimal.Decimal {
	return f.ledger(t, *f.customer.DueByLedgerID).CurrentBalance
}

// =============================================================================
// CREATE
// =============================================================================

func TestCreateSale_PostsStockAndBalancedVoucher(t *testing.T) {
	// GIVEN
	f := newSalesFixture(t)

	// WHEN: 10 at 100 with 12% GST to a local customer
	sale, err := f.sales.CreateSale(f.ctx, saleOf(t, &f.customer.ID, f.item.ID, "10"))

	// THEN: the bill
	require.NoError(t, err)
	assert.Equal(t, "INV26070001", sale.InvoiceNumber)
	assert.Equal(t, enum.InvoiceSale, sale.InvoiceType)
	assert.Equal(t, enum.PostingStatusPosted, sale.Status)
	assert.Equal(t, enum.PaymentStatusUnpaid, sale.PaymentStatus)
	assert.Equal(t, "Kumar Sweets", sale.PartyName)
	testutil.AssertDecimal(t, "1000", sale.TaxableAmount)
	testutil.AssertDecimal(t, "60", sale.TotalCGST)
	testutil.AssertDecimal(t, "60", sale.TotalSGST)
	testutil.AssertDecimal(t, "1120", sale.GrandTotal)
	require.Len(t, sale.Items, 1)
	testutil.AssertDecimal(t, "1120", sale.Items[0].LineTotal)

	// stock
	testutil.AssertDecimal(t, "40", f.balance(t, f.item.ID))
	rows, err := f.stockRepo.ListByReference(f.ctx, enum.ReferenceSale, sale.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, enum.StockOut, rows[0].Kind)

	// and the books
	require.NotNil(t, sale.VoucherID)
	voucher, err := f.voucherRepo.GetByID(f.ctx, *sale.VoucherID)
	require.NoError(t, err)
	assert.Equal(t, enum.VoucherSales, voucher.Type)
	assertBalanced(t, voucher)
	testutil.AssertDecimal(t, "1120", voucher.TotalAmount)
	testutil.AssertDecimal(t, "1120", f.dueBy(t))
	testutil.AssertDecimal(t, "1000", f.ledger(t, *f.item.SalesLedgerID).CurrentBalance)
	testutil.AssertDecimal(t, "60", f.systemLedger(t, service.LedgerCGSTPayable, enum.LedgerLiability).CurrentBalance)
}

func TestCreateSale_InterStateCustomerChargesIGST(t *testing.T) {
	f := newSalesFixture(t)
	kerala := "Kerala"
	input := saleOf(t, &f.customer.ID, f.item.ID, "10")
	input.PartyState = &kerala

	sale, err := f.sales.CreateSale(f.ctx, input)

	require.NoError(t, err)
	testutil.AssertDecimal(t, "120", sale.TotalIGST)
	testutil.AssertDecimal(t, "0", sale.TotalCGST)
	testutil.AssertDecimal(t, "120", f.systemLedger(t, service.LedgerIGSTPayable, enum.LedgerLiability).CurrentBalance)
}

func TestCreateSale_InsufficientStockWritesNothing(t *testing.T) {
	// GIVEN
	f := newSalesFixture(t)

	// WHEN
	_, err := f.sales.CreateSale(f.ctx, saleOf(t, &f.customer.ID, f.item.ID, "60"))

	// THEN
	assert.True(t, apperror.IsType(err, apperror.TypeInsufficientStock))
	testutil.AssertDecimal(t, "50", f.balance(t, f.item.ID))
	assert.Zero(t, f.count(t, &entity.SalesTransaction{}, "1 = 1"))
	assert.Zero(t, f.count(t, &entity.Voucher{}, "1 = 1"))
	testutil.AssertDecimal(t, "0", f.dueBy(t))
}

func TestCreateSale_WalkInPaysIntoCash(t *testing.T) {
	f := newSalesFixture(t)
	input := saleOf(t, nil, f.item.ID, "1")
	input.PaidAmount = testutil.Dec(t, "112")

	sale, err := f.sales.CreateSale(f.ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "Cash Sale", sale.PartyName)
	assert.Equal(t, enum.PaymentStatusPaid, sale.PaymentStatus)
	testutil.AssertDecimal(t, "112", f.systemLedger(t, service.LedgerCash, enum.LedgerAsset).CurrentBalance)
}

func TestCreateSale_EstimateIsDraftWithoutStock(t *testing.T) {
	// GIVEN: an estimate larger than what is in stock
	f := newSalesFixture(t)
	input := saleOf(t, &f.customer.ID, f.item.ID, "80")
	input.InvoiceType = enum.InvoiceEstimate

	// WHEN
	sale, err := f.sales.CreateSale(f.ctx, input)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "EST26070001", sale.InvoiceNumber)
	assert.Equal(t, enum.PostingStatusDraft, sale.Status)
	assert.Nil(t, sale.VoucherID)
	testutil.AssertDecimal(t, "50", f.balance(t, f.item.ID))
	assert.Zero(t, f.count(t, &entity.Voucher{}, "1 = 1"))
}

func TestCreateSale_ReturnBringsStockBack(t *testing.T) {
	f := newSalesFixture(t)
	input := saleOf(t, &f.customer.ID, f.item.ID, "2")
	input.InvoiceType = enum.InvoiceSaleReturn

	sale, err := f.sales.CreateSale(f.ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "SR26070001", sale.InvoiceNumber)
	testutil.AssertDecimal(t, "52", f.balance(t, f.item.ID))
	voucher, err := f.voucherRepo.GetByID(f.ctx, *sale.VoucherID)
	require.NoError(t, err)
	assert.Equal(t, enum.VoucherJournal, voucher.Type)
	assertBalanced(t, voucher)
	testutil.AssertDecimal(t, "-224", f.dueBy(t))
}

func TestCreateSale_RejectsTakenInvoiceNumber(t *testing.T) {
	f := newSalesFixture(t)
	input := saleOf(t, nil, f.item.ID, "1")
	input.InvoiceNumber = "INV-MANUAL-1"
	_, err := f.sales.CreateSale(f.ctx, input)
	require.NoError(t, err)

	_, err = f.sales.CreateSale(f.ctx, input)

	assert.True(t, apperror.IsType(err, apperror.TypeDuplicateIdentifier))
	testutil.AssertDecimal(t, "49", f.balance(t, f.item.ID))
}

func TestPreviewSale_PersistsNothing(t *testing.T) {
	f := newSalesFixture(t)

	comp, err := f.sales.PreviewSale(f.ctx, saleOf(t, &f.customer.ID, f.item.ID, "10"))

	require.NoError(t, err)
	testutil.AssertDecimal(t, "1120", comp.Totals.GrandTotal)
	assert.Zero(t, f.count(t, &entity.SalesTransaction{}, "1 = 1"))
	next, err := f.sales.NextNumber(f.ctx, enum.InvoiceSale)
	require.NoError(t, err)
	assert.Equal(t, service.FormatSequence(service.PeriodPrefix("INV", time.Now()), 1), next)
}

// =============================================================================
// PAYMENTS
// =============================================================================

func TestRecordPayment_PostsReceiptAndUpdatesStatus(t *testing.T) {
	// GIVEN
	f := newSalesFixture(t)
	sale, err := f.sales.CreateSale(f.ctx, saleOf(t, &f.customer.ID, f.item.ID, "10"))
	require.NoError(t, err)

	// WHEN
	paid, err := f.sales.RecordPayment(f.ctx, sale.ID, &service.PaymentInput{Amount: testutil.Dec(t, "500"), PaymentMode: "UPI"})

	// THEN
	require.NoError(t, err)
	testutil.AssertDecimal(t, "500", paid.PaidAmount)
	testutil.AssertDecimal(t, "620", paid.Balance)
	assert.Equal(t, enum.PaymentStatusPartial, paid.PaymentStatus)
	assert.Equal(t, "UPI", paid.PaymentMode)
	testutil.AssertDecimal(t, "620", f.dueBy(t))
	testutil.AssertDecimal(t, "500", f.systemLedger(t, service.LedgerCash, enum.LedgerAsset).CurrentBalance)

	vouchers, err := f.voucherRepo.ListByReference(f.ctx, string(enum.ReferenceSale), sale.ID)
	require.NoError(t, err)
	assert.Len(t, vouchers, 2)
}

func TestRecordPayment_RejectsOverpaymentAndQuotations(t *testing.T) {
	f := newSalesFixture(t)
	sale, err := f.sales.CreateSale(f.ctx, saleOf(t, &f.customer.ID, f.item.ID, "1"))
	require.NoError(t, err)

	_, err = f.sales.RecordPayment(f.ctx, sale.ID, &service.PaymentInput{Amount: testutil.Dec(t, "500")})
	assert.True(t, apperror.IsType(err, apperror.TypeValidation))

	estimate := saleOf(t, &f.customer.ID, f.item.ID, "1")
	estimate.InvoiceType = enum.InvoiceProforma
	draft, err := f.sales.CreateSale(f.ctx, estimate)
	require.NoError(t, err)
	_, err = f.sales.RecordPayment(f.ctx, draft.ID, &service.PaymentInput{Amount: testutil.Dec(t, "10")})
	assert.True(t, apperror.IsType(err, apperror.TypeValidation))
}

// =============================================================================
// UPDATE AND DELETE
// =============================================================================

func TestUpdateSale_ReplacesPostedEffect(t *testing.T) {
	// GIVEN: a sale of 10
	f := newSalesFixture(t)
	sale, err := f.sales.CreateSale(f.ctx, saleOf(t, &f.customer.ID, f.item.ID, "10"))
	require.NoError(t, err)

	// WHEN: it is edited to 15
	updated, err := f.sales.UpdateSale(f.ctx, sale.ID, saleOf(t, &f.customer.ID, f.item.ID, "15"))

	// THEN: only the edited effect remains
	require.NoError(t, err)
	assert.Equal(t, sale.InvoiceNumber, updated.InvoiceNumber)
	testutil.AssertDecimal(t, "1680", updated.GrandTotal)
	testutil.AssertDecimal(t, "35", f.balance(t, f.item.ID))
	testutil.AssertDecimal(t, "1680", f.dueBy(t))
	assert.Equal(t, int64(1), f.count(t, &entity.Voucher{}, "reference_id = ?", sale.ID))
	assert.Equal(t, int64(1), f.count(t, &entity.StockTransaction{}, "reference_id = ?", sale.ID))
}

func TestUpdateSale_RefusedOnceReceiptsExist(t *testing.T) {
	f := newSalesFixture(t)
	sale, err := f.sales.CreateSale(f.ctx, saleOf(t, &f.customer.ID, f.item.ID, "10"))
	require.NoError(t, err)
	_, err = f.sales.RecordPayment(f.ctx, sale.ID, &service.PaymentInput{Amount: testutil.Dec(t, "100")})
	require.NoError(t, err)

	_, err = f.sales.UpdateSale(f.ctx, sale.ID, saleOf(t, &f.customer.ID, f.item.ID, "5"))

	assert.True(t, apperror.IsType(err, apperror.TypeConflict))
	testutil.AssertDecimal(t, "40", f.balance(t, f.item.ID))
}

func TestUpdateSale_InvoiceTypeIsFixed(t *testing.T) {
	f := newSalesFixture(t)
	sale, err := f.sales.CreateSale(f.ctx, saleOf(t, &f.customer.ID, f.item.ID, "1"))
	require.NoError(t, err)
	input := saleOf(t, &f.customer.ID, f.item.ID, "1")
	input.InvoiceType = enum.InvoiceEstimate

	_, err = f.sales.UpdateSale(f.ctx, sale.ID, input)

	assert.True(t, apperror.IsType(err, apperror.TypeValidation))
}

func TestDeleteSale_RestoresStockAndRemovesPostings(t *testing.T) {
	// GIVEN: a posted and partly paid sale
	f := newSalesFixture(t)
	sale, err := f.sales.CreateSale(f.ctx, saleOf(t, &f.customer.ID, f.item.ID, "10"))
	require.NoError(t, err)
	_, err = f.sales.RecordPayment(f.ctx, sale.ID, &service.PaymentInput{Amount: testutil.Dec(t, "300")})
	require.NoError(t, err)

	// WHEN
	require.NoError(t, f.sales.DeleteSale(f.ctx, sale.ID))

	// THEN
	testutil.AssertDecimal(t, "50", f.balance(t, f.item.ID))
	assert.Zero(t, f.count(t, &entity.Voucher{}, "reference_id = ?", sale.ID))
	assert.Zero(t, f.count(t, &entity.StockTransaction{}, "reference_id = ?", sale.ID))
	testutil.AssertDecimal(t, "0", f.dueBy(t))
	testutil.AssertDecimal(t, "0", f.systemLedger(t, service.LedgerCash, enum.LedgerAsset).CurrentBalance)

	_, err = f.sales.GetSale(f.ctx, sale.ID)
	assert.True(t, apperror.IsType(err, apperror.TypeNotFound))
}
