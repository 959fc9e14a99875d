package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineAmounts is the priced and taxed form of one document line, shared by sales and purchases
type LineAmounts struct {
	ItemID          uuid.UUID       `gorm:"type:char(36);not null;index" json:"item_id"`
	ItemName        string          `gorm:"size:255" json:"item_name"`
	Quantity        decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"quantity"`
	FreeQuantity    decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0" json:"free_quantity"`
	Rate            decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"rate"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"discount_amount"`
	TaxableAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"taxable_amount"`
	GSTPercent      decimal.Decimal `gorm:"column:gst_percent;type:decimal(5,2);not null;default:0" json:"gst_percent"`
	CGST            decimal.Decimal `gorm:"column:cgst;type:decimal(15,2);not null;default:0" json:"cgst"`
	SGST            decimal.Decimal `gorm:"column:sgst;type:decimal(15,2);not null;default:0" json:"sgst"`
	IGST            decimal.Decimal `gorm:"column:igst;type:decimal(15,2);not null;default:0" json:"igst"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"line_total"`
}

// StockQuantity is what leaves or enters stock for the line, free goods included
func (l LineAmounts) StockQuantity() decimal.Decimal {
	return l.Quantity.Add(l.FreeQuantity)
}

// BillTotals are the bill-level aggregates shared by sales and purchases
type BillTotals struct {
	GrossAmount         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"gross_amount"`
	DiscountAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"discount_amount"`
	TaxableAmount       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"taxable_amount"`
	BillDiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"bill_discount_percent"`
	BillDiscount        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"bill_discount"`
	TotalCGST           decimal.Decimal `gorm:"column:total_cgst;type:decimal(15,2);not null;default:0" json:"total_cgst"`
	TotalSGST           decimal.Decimal `gorm:"column:total_sgst;type:decimal(15,2);not null;default:0" json:"total_sgst"`
	TotalIGST           decimal.Decimal `gorm:"column:total_igst;type:decimal(15,2);not null;default:0" json:"total_igst"`
	TotalGST            decimal.Decimal `gorm:"column:total_gst;type:decimal(15,2);not null;default:0" json:"total_gst"`
	NetAmount           decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"net_amount"`
	RoundOff            decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"round_off"`
	GrandTotal          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"grand_total"`
	PreviousBalance     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"previous_balance"`
	TotalDue            decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_due"`
	PaidAmount          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"paid_amount"`
	Balance             decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
}
