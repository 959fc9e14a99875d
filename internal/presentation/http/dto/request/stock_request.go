package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineRequest is one priced line of a sale or purchase
type LineRequest struct {
	ItemID          uuid.UUID        `json:"item_id" binding:"required"`
	Quantity        decimal.Decimal  `json:"quantity"`
	FreeQuantity    decimal.Decimal  `json:"free_quantity"`
	Rate            *decimal.Decimal `json:"rate"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	GSTPercent      *decimal.Decimal `json:"gst_percent"`
}

// StockInLineRequest is one purchased line. sales_rate and purchase_price update the item master.
type StockInLineRequest struct {
	LineRequest
	SalesRate     *decimal.Decimal `json:"sales_rate"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
}

// LedgerEntryRequest is a caller-supplied voucher line
type LedgerEntryRequest struct {
	LedgerID  uuid.UUID       `json:"ledger_id" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Narration *string         `json:"narration" binding:"omitempty,max=255"`
}

// StockInRequest represents a multi-line stock-in
type StockInRequest struct {
	SupplierID            *uuid.UUID           `json:"supplier_id"`
	SupplierInvoiceNumber *string              `json:"supplier_invoice_number" binding:"omitempty,max=100"`
	PartyName             string               `json:"party_name" binding:"omitempty,max=255"`
	PartyState            *string              `json:"party_state" binding:"omitempty,max=100"`
	Date                  string               `json:"date" binding:"omitempty,datetime=2006-01-02"`
	PaymentMode           string               `json:"payment_mode" binding:"omitempty,max=30"`
	PaidAmount            decimal.Decimal      `json:"paid_amount"`
	Items                 []StockInLineRequest `json:"items" binding:"required,min=1,dive"`
	BillDiscount          *decimal.Decimal     `json:"bill_discount"`
	BillDiscountPercent   *decimal.Decimal     `json:"bill_discount_percent"`
	RoundOff              *decimal.Decimal     `json:"round_off"`
	LedgerEntries         []LedgerEntryRequest `json:"ledger_entries" binding:"omitempty,dive"`
	Notes                 *string              `json:"notes"`
}

// StockOutRequest represents a standalone stock-out
type StockOutRequest struct {
	ItemID        uuid.UUID        `json:"item_id" binding:"required"`
	Quantity      decimal.Decimal  `json:"quantity"`
	Rate          *decimal.Decimal `json:"rate"`
	ReferenceType string           `json:"reference_type" binding:"omitempty,oneof=Opening Adjustment Transfer"`
	Date          string           `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Notes         *string          `json:"notes"`
}

// UpdateStockTransactionRequest represents an edit of a standalone movement
type UpdateStockTransactionRequest struct {
	Kind     string           `json:"transaction_type" binding:"required,oneof='Stock In' 'Stock Out'"`
	Quantity decimal.Decimal  `json:"quantity"`
	Rate     *decimal.Decimal `json:"rate"`
	Date     string           `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Notes    *string          `json:"notes"`
}

// StockFilterRequest represents stock log filter parameters
type StockFilterRequest struct {
	ItemID        string `form:"item_id" binding:"omitempty,uuid"`
	Kind          string `form:"transaction_type" binding:"omitempty,oneof='Stock In' 'Stock Out'"`
	ReferenceType string `form:"reference_type"`
	From          string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To            string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}

// PurchaseFilterRequest represents purchase filter parameters
type PurchaseFilterRequest struct {
	Search     string `form:"search"`
	SupplierID string `form:"supplier_id" binding:"omitempty,uuid"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
