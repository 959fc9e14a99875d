package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Supplier is a party the cooperative buys from. Every supplier owns a "Due By" (Dr) and a
// "Due To" (Cr) ledger.
type Supplier struct {
	ID             uuid.UUID         `gorm:"type:char(36);primaryKey" json:"id"`
	SupplierCode   string            `gorm:"size:50;uniqueIndex;not null" json:"supplier_code"`
	Name           string            `gorm:"size:255;not null" json:"name"`
	Email          *string           `gorm:"size:255" json:"email,omitempty"`
	Phone          *string           `gorm:"size:50" json:"phone,omitempty"`
	Address        *string           `gorm:"type:text" json:"address,omitempty"`
	State          string            `gorm:"size:100" json:"state"`
	GSTIN          *string           `gorm:"column:gstin;size:20" json:"gstin,omitempty"`
	Type           enum.SupplierType `gorm:"size:50;default:'milk_producer'" json:"type"`
	OpeningBalance decimal.Decimal   `gorm:"type:decimal(15,2);not null;default:0" json:"opening_balance"`
	AccountHolder  *string           `gorm:"size:255" json:"account_holder,omitempty"`
	AccountNumber  *string           `gorm:"size:100" json:"account_number,omitempty"`
	BankName       *string           `gorm:"size:255" json:"bank_name,omitempty"`
	DueByLedgerID  *uuid.UUID        `gorm:"type:char(36)" json:"due_by_ledger_id,omitempty"`
	DueToLedgerID  *uuid.UUID        `gorm:"type:char(36)" json:"due_to_ledger_id,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relationships
	DueByLedger *Ledger    `gorm:"foreignKey:DueByLedgerID" json:"due_by_ledger,omitempty"`
	DueToLedger *Ledger    `gorm:"foreignKey:DueToLedgerID" json:"due_to_ledger,omitempty"`
	Purchases   []Purchase `gorm:"foreignKey:SupplierID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new supplier
func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}
