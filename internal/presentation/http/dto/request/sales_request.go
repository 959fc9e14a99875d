package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRequest represents a sale create, update or preview request
type SaleRequest struct {
	InvoiceType         string           `json:"invoice_type" binding:"omitempty,oneof=Sale 'Sale Return' Estimate 'Delivery Challan' Proforma"`
	InvoiceNumber       string           `json:"invoice_number" binding:"omitempty,max=50"`
	InvoiceDate         string           `json:"invoice_date" binding:"omitempty,datetime=2006-01-02"`
	CustomerID          *uuid.UUID       `json:"customer_id"`
	PartyName           string           `json:"party_name" binding:"omitempty,max=255"`
	PartyPhone          *string          `json:"party_phone" binding:"omitempty,max=50"`
	PartyState          *string          `json:"party_state" binding:"omitempty,max=100"`
	PaymentMode         string           `json:"payment_mode" binding:"omitempty,max=30"`
	PaidAmount          decimal.Decimal  `json:"paid_amount"`
	PreviousBalance     decimal.Decimal  `json:"previous_balance"`
	Items               []LineRequest    `json:"items" binding:"required,min=1,dive"`
	BillDiscount        *decimal.Decimal `json:"bill_discount"`
	BillDiscountPercent *decimal.Decimal `json:"bill_discount_percent"`
	RoundOff            *decimal.Decimal `json:"round_off"`
	Notes               *string          `json:"notes"`
}

// PaymentRequest records money received against a sale
type PaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	PaymentMode string          `json:"payment_mode" binding:"omitempty,max=30"`
}

// SalesFilterRequest represents sales filter parameters
type SalesFilterRequest struct {
	Search        string `form:"search"`
	InvoiceType   string `form:"invoice_type" binding:"omitempty,oneof=Sale 'Sale Return' Estimate 'Delivery Challan' Proforma"`
	CustomerID    string `form:"customer_id" binding:"omitempty,uuid"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=Unpaid Partial Paid"`
	From          string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To            string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}
