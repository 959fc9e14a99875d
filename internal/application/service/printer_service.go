package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/sangkips/dairy-coop-api/pkg/logger"
	"github.com/sangkips/dairy-coop-api/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const receiptDateLayout = "02-01-2006 15:04"

// PrinterService renders sales invoices and stock-in bills as thermal receipts
type PrinterService struct {
	printer      printer.Printer
	printerType  string
	width        int
	header       entity.ReceiptHeader
	salesRepo    repository.SalesTransactionRepository
	purchaseRepo repository.PurchaseRepository
	logger       *logrus.Logger
}

// NewPrinterService creates a new printer service
func NewPrinterService(
	p printer.Printer,
	printerType string,
	width int,
	header entity.ReceiptHeader,
	salesRepo repository.SalesTransactionRepository,
	purchaseRepo repository.PurchaseRepository,
	logger *logrus.Logger,
) *PrinterService {
	return &PrinterService{
		printer:      p,
		printerType:  printerType,
		width:        width,
		header:       header,
		salesRepo:    salesRepo,
		purchaseRepo: purchaseRepo,
		logger:       logger,
	}
}

// PrinterStatus reports whether a printer is configured and reachable
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printerType,
	}
}

// PrintSale prints an invoice or quotation. The receipt is returned even when the printer fails,
// together with the print error.
func (s *PrinterService) PrintSale(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	sale, err := s.salesRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sales transaction")
	}

	receipt := s.newReceipt(sale.BillTotals)
	receipt.Title = string(sale.InvoiceType)
	receipt.Number = sale.InvoiceNumber
	receipt.Date = sale.InvoiceDate.Format(receiptDateLayout)
	receipt.Party = sale.PartyName
	receipt.PaymentMode = sale.PaymentMode
	for _, item := range sale.Items {
		receipt.Lines = append(receipt.Lines, receiptLine(item.LineAmounts))
	}

	return receipt, s.print(ctx, receipt, "sale", id)
}

// PrintPurchase prints a stock-in bill
func (s *PrinterService) PrintPurchase(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	purchase, err := s.purchaseRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, apperror.NewNotFoundError("Purchase")
	}

	receipt := s.newReceipt(purchase.BillTotals)
	receipt.Title = "Stock In"
	receipt.Number = purchase.PurchaseNo
	receipt.Date = purchase.Date.Format(receiptDateLayout)
	receipt.Party = purchase.PartyName
	receipt.PaymentMode = purchase.PaymentMode
	for _, detail := range purchase.Details {
		receipt.Lines = append(receipt.Lines, receiptLine(detail.LineAmounts))
	}

	return receipt, s.print(ctx, receipt, "purchase", id)
}

func (s *PrinterService) newReceipt(totals entity.BillTotals) *entity.Receipt {
	return &entity.Receipt{
		Header:     s.header,
		Taxable:    totals.TaxableAmount,
		Discount:   totals.DiscountAmount.Add(totals.BillDiscount),
		CGST:       totals.TotalCGST,
		SGST:       totals.TotalSGST,
		IGST:       totals.TotalIGST,
		RoundOff:   totals.RoundOff,
		GrandTotal: totals.GrandTotal,
		Paid:       totals.PaidAmount,
		Balance:    totals.Balance,
	}
}

func receiptLine(line entity.LineAmounts) entity.ReceiptLine {
	name := line.ItemName
	if name == "" {
		name = "Item"
	}
	return entity.ReceiptLine{
		Name:         name,
		Quantity:     line.Quantity,
		FreeQuantity: line.FreeQuantity,
		Rate:         line.Rate,
		GSTPercent:   line.GSTPercent,
		Total:        line.LineTotal,
	}
}

func (s *PrinterService) print(ctx context.Context, receipt *entity.Receipt, kind string, id uuid.UUID) error {
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		logger.LogError(s.logger, "printer", "print", "printing "+kind+" receipt", id.String(), err)
		return fmt.Errorf("failed to print receipt: %w", err)
	}
	return nil
}

// FormatReceipt converts a receipt into ESC/POS bytes for a paper width in characters
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.BusinessName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.GSTIN != "" {
		doc.TextF("GSTIN: %s", r.Header.GSTIN)
	}
	doc.SetBold(true).Text(r.Title).SetBold(false)

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("No:", r.Number).
		KeyValue("Date:", r.Date)
	if r.Party != "" {
		doc.KeyValue("Party:", r.Party)
	}
	if r.PaymentMode != "" {
		doc.KeyValue("Payment:", r.PaymentMode)
	}
	doc.Separator('-')

	for _, line := range r.Lines {
		doc.ItemLine(line.Name, line.Quantity.StringFixed(3), line.Rate.StringFixed(2), line.Total.StringFixed(2))
		if line.FreeQuantity.IsPositive() {
			doc.TextF("  free %s", line.FreeQuantity.StringFixed(3))
		}
	}
	doc.Separator('-')

	doc.KeyValue("Taxable:", r.Taxable.StringFixed(2))
	if r.Discount.IsPositive() {
		doc.KeyValue("Discount:", r.Discount.StringFixed(2))
	}
	for _, tax := range []struct {
		label  string
		amount decimal.Decimal
	}{{"CGST:", r.CGST}, {"SGST:", r.SGST}, {"IGST:", r.IGST}} {
		if !tax.amount.IsZero() {
			doc.KeyValue(tax.label, tax.amount.StringFixed(2))
		}
	}
	if !r.RoundOff.IsZero() {
		doc.KeyValue("Round off:", r.RoundOff.StringFixed(2))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", r.GrandTotal.StringFixed(2)).
		SetBold(false)
	if r.Paid.IsPositive() {
		doc.KeyValue("Paid:", r.Paid.StringFixed(2))
	}
	if r.Balance.IsPositive() {
		doc.KeyValue("Balance:", r.Balance.StringFixed(2))
	}

	doc.Separator('-').
		SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you!").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
