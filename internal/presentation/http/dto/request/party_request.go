package request

import "github.com/shopspring/decimal"

// CreateSupplierRequest represents a supplier creation request
type CreateSupplierRequest struct {
	SupplierCode   string          `json:"supplier_code" binding:"omitempty,max=50"`
	Name           string          `json:"name" binding:"required,min=2,max=255"`
	Email          *string         `json:"email" binding:"omitempty,email"`
	Phone          *string         `json:"phone" binding:"omitempty,max=50"`
	Address        *string         `json:"address"`
	State          string          `json:"state" binding:"omitempty,max=100"`
	GSTIN          *string         `json:"gstin" binding:"omitempty,max=20"`
	Type           string          `json:"type" binding:"omitempty,oneof=milk_producer feed_vendor distributor"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	AccountHolder  *string         `json:"account_holder" binding:"omitempty,max=255"`
	AccountNumber  *string         `json:"account_number" binding:"omitempty,max=50"`
	BankName       *string         `json:"bank_name" binding:"omitempty,max=255"`
}

// UpdateSupplierRequest represents a supplier update request
type UpdateSupplierRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	Address       *string `json:"address"`
	State         *string `json:"state" binding:"omitempty,max=100"`
	GSTIN         *string `json:"gstin" binding:"omitempty,max=20"`
	Type          *string `json:"type" binding:"omitempty,oneof=milk_producer feed_vendor distributor"`
	AccountHolder *string `json:"account_holder" binding:"omitempty,max=255"`
	AccountNumber *string `json:"account_number" binding:"omitempty,max=50"`
	BankName      *string `json:"bank_name" binding:"omitempty,max=255"`
}

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	CustomerCode   string          `json:"customer_code" binding:"omitempty,max=50"`
	Name           string          `json:"name" binding:"required,min=2,max=255"`
	Email          *string         `json:"email" binding:"omitempty,email"`
	Phone          *string         `json:"phone" binding:"omitempty,max=50"`
	Address        *string         `json:"address"`
	State          string          `json:"state" binding:"omitempty,max=100"`
	GSTIN          *string         `json:"gstin" binding:"omitempty,max=20"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Address *string `json:"address"`
	State   *string `json:"state" binding:"omitempty,max=100"`
	GSTIN   *string `json:"gstin" binding:"omitempty,max=20"`
}
