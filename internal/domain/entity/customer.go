package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer is a party the cooperative sells to, with the same pair of party ledgers as a supplier
type Customer struct {
	ID             uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	CustomerCode   string          `gorm:"size:50;uniqueIndex;not null" json:"customer_code"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Email          *string         `gorm:"size:255" json:"email,omitempty"`
	Phone          *string         `gorm:"size:50" json:"phone,omitempty"`
	Address        *string         `gorm:"type:text" json:"address,omitempty"`
	State          string          `gorm:"size:100" json:"state"`
	GSTIN          *string         `gorm:"column:gstin;size:20" json:"gstin,omitempty"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"opening_balance"`
	DueByLedgerID  *uuid.UUID      `gorm:"type:char(36)" json:"due_by_ledger_id,omitempty"`
	DueToLedgerID  *uuid.UUID      `gorm:"type:char(36)" json:"due_to_ledger_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	DueByLedger *Ledger            `gorm:"foreignKey:DueByLedgerID" json:"due_by_ledger,omitempty"`
	DueToLedger *Ledger            `gorm:"foreignKey:DueToLedgerID" json:"due_to_ledger,omitempty"`
	Sales       []SalesTransaction `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
