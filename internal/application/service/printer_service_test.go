package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/application/service"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/infrastructure/repository"
	"github.com/sangkips/dairy-coop-api/internal/testutil"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/sangkips/dairy-coop-api/pkg/logger"
	"github.com/sangkips/dairy-coop-api/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *recordingPrinter) IsConnected(context.Context) bool { return p.err == nil }

func newPrinterService(h *harness, p printer.Printer) *service.PrinterService {
	return service.NewPrinterService(p, printer.TypeNetwork, printer.Width58mm,
		entity.ReceiptHeader{BusinessName: "Vellore Milk Society", GSTIN: "33ABCDE1234F1Z5"},
		repository.NewSalesTransactionRepository(h.db),
		repository.NewPurchaseRepository(h.db),
		logger.Discard(),
	)
}

func TestPrintSale_SendsReceipt(t *testing.T) {
	// GIVEN
	f := newSalesFixture(t)
	sale, err := f.sales.CreateSale(f.ctx, saleOf(t, &f.customer.ID, f.item.ID, "10"))
	require.NoError(t, err)
	p := &recordingPrinter{}

	// WHEN
	receipt, err := newPrinterService(f.harness, p).PrintSale(f.ctx, sale.ID)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, sale.InvoiceNumber, receipt.Number)
	assert.Equal(t, "Sale", receipt.Title)
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, "Ghee 1kg", receipt.Lines[0].Name)
	testutil.AssertDecimal(t, "1120", receipt.GrandTotal)

	require.Len(t, p.jobs, 1)
	assert.True(t, bytes.Contains(p.jobs[0], []byte("Vellore Milk Society")))
	assert.True(t, bytes.Contains(p.jobs[0], []byte("1120.00")))
}

func TestPrintSale_ReturnsReceiptWhenPrinterFails(t *testing.T) {
	f := newSalesFixture(t)
	sale, err := f.sales.CreateSale(f.ctx, saleOf(t, &f.customer.ID, f.item.ID, "1"))
	require.NoError(t, err)

	receipt, err := newPrinterService(f.harness, &recordingPrinter{err: errors.New("paper out")}).PrintSale(f.ctx, sale.ID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "paper out")
	require.NotNil(t, receipt)
	assert.Equal(t, sale.InvoiceNumber, receipt.Number)
}

func TestPrintPurchase_UnknownIsNotFound(t *testing.T) {
	h := newHarness(t)

	_, err := newPrinterService(h, &recordingPrinter{}).PrintPurchase(h.ctx, uuid.New())

	assert.True(t, apperror.IsType(err, apperror.TypeNotFound))
}

func TestPrinterStatus(t *testing.T) {
	h := newHarness(t)

	status := newPrinterService(h, &recordingPrinter{}).GetStatus(h.ctx)

	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
	assert.Equal(t, printer.TypeNetwork, status.Type)
}

func TestFormatReceipt_ListsTaxesAndCuts(t *testing.T) {
	receipt := &entity.Receipt{
		Header:     entity.ReceiptHeader{BusinessName: "Society"},
		Title:      "Stock In",
		Number:     "PUR26060001",
		Lines:      []entity.ReceiptLine{{Name: "Raw Milk", Quantity: testutil.Dec(t, "100"), Rate: testutil.Dec(t, "40"), Total: testutil.Dec(t, "4480")}},
		Taxable:    testutil.Dec(t, "4000"),
		CGST:       testutil.Dec(t, "240"),
		SGST:       testutil.Dec(t, "240"),
		GrandTotal: testutil.Dec(t, "4480"),
	}

	out := service.FormatReceipt(receipt, printer.Width80mm)

	assert.True(t, bytes.Contains(out, []byte("CGST:")))
	assert.False(t, bytes.Contains(out, []byte("IGST:")))
	assert.True(t, bytes.Contains(out, []byte("100.000 x 40.00")))
	assert.True(t, bytes.HasSuffix(out, []byte{printer.GS, 'V', 0x01}))
}
