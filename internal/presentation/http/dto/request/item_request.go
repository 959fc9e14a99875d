package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateItemRequest represents an item creation request
type CreateItemRequest struct {
	Code          string          `json:"code" binding:"omitempty,max=50"`
	Name          string          `json:"name" binding:"required,min=2,max=255"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	UnitID        *uuid.UUID      `json:"unit_id"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MRP           decimal.Decimal `json:"mrp"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	LowStockAlert decimal.Decimal `json:"low_stock_alert"`
	HSNCode       *string         `json:"hsn_code" binding:"omitempty,max=20"`
	OpeningStock  decimal.Decimal `json:"opening_stock"`
	Notes         *string         `json:"notes"`
}

// UpdateItemRequest represents an item update request. The stock balance cannot be set here.
type UpdateItemRequest struct {
	Code          *string          `json:"code" binding:"omitempty,min=1,max=50"`
	Name          *string          `json:"name" binding:"omitempty,min=2,max=255"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	UnitID        *uuid.UUID       `json:"unit_id"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	MRP           *decimal.Decimal `json:"mrp"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	LowStockAlert *decimal.Decimal `json:"low_stock_alert"`
	HSNCode       *string          `json:"hsn_code" binding:"omitempty,max=20"`
	IsActive      *bool            `json:"is_active"`
	Notes         *string          `json:"notes"`
}

// ItemFilterRequest represents item filter parameters
type ItemFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	LowStock   bool   `form:"low_stock"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// CategoryRequest represents a category create or update request
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
}

// UnitRequest represents a unit create or update request
type UnitRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	ShortCode string `json:"short_code" binding:"omitempty,max=20"`
}

// SearchRequest is the common search-and-page query
type SearchRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
