package request

import "github.com/shopspring/decimal"

// CreateLedgerRequest represents a user-defined ledger
type CreateLedgerRequest struct {
	Name           string          `json:"name" binding:"required,min=2,max=255"`
	Type           string          `json:"type" binding:"required,oneof=Asset Liability Income Expense"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// LedgerFilterRequest represents ledger filter parameters
type LedgerFilterRequest struct {
	Search     string `form:"search"`
	Type       string `form:"type" binding:"omitempty,oneof=Asset Liability Income Expense"`
	EntityType string `form:"entity_type" binding:"omitempty,oneof=supplier customer category system"`
	EntityID   string `form:"entity_id" binding:"omitempty,uuid"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// JournalRequest represents a manual journal voucher
type JournalRequest struct {
	Date      string               `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Narration string               `json:"narration" binding:"omitempty,max=500"`
	Entries   []LedgerEntryRequest `json:"entries" binding:"required,min=2,dive"`
}

// VoucherFilterRequest represents voucher filter parameters
type VoucherFilterRequest struct {
	Type          string `form:"type" binding:"omitempty,oneof=Sales Purchase Receipt Payment Journal"`
	ReferenceType string `form:"reference_type"`
	ReferenceID   string `form:"reference_id" binding:"omitempty,uuid"`
	LedgerID      string `form:"ledger_id" binding:"omitempty,uuid"`
	From          string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To            string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}

// PeriodRequest is a from/to date range query
type PeriodRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}
