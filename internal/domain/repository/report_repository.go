package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryRow aggregates posted sales transactions of one invoice type
type SalesSummaryRow struct {
	InvoiceType   string          `json:"invoice_type"`
	Count         int64           `json:"count"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TotalGST      decimal.Decimal `json:"total_gst"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Balance       decimal.Decimal `json:"balance"`
}

// StockMovementRow aggregates stock movements of one item over a period
type StockMovementRow struct {
	ItemID   string          `json:"item_id"`
	ItemCode string          `json:"item_code"`
	ItemName string          `json:"item_name"`
	QtyIn    decimal.Decimal `json:"qty_in"`
	QtyOut   decimal.Decimal `json:"qty_out"`
}

// ReportRepository runs read-only aggregate queries
type ReportRepository interface {
	SalesSummary(ctx context.Context, from, to time.Time) ([]SalesSummaryRow, error)
	StockMovementSummary(ctx context.Context, from, to time.Time) ([]StockMovementRow, error)
}
