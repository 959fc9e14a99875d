package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockTransaction is one immutable-by-default entry of the stock log. BalanceAfter is the item's
// running balance immediately after this row, in log order (created_at, id).
type StockTransaction struct {
	ID              uuid.UUID            `gorm:"type:char(36);primaryKey" json:"id"`
	ItemID          uuid.UUID            `gorm:"type:char(36);not null;index" json:"item_id"`
	Kind            enum.TransactionKind `gorm:"size:20;not null" json:"kind"`
	Quantity        decimal.Decimal      `gorm:"type:decimal(15,3);not null" json:"quantity"`
	Rate            decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"rate"`
	Amount          decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	BalanceAfter    decimal.Decimal      `gorm:"type:decimal(15,3);not null" json:"balance_after"`
	ReferenceType   enum.ReferenceType   `gorm:"size:30;not null;index:idx_stock_reference" json:"reference_type"`
	ReferenceID     *uuid.UUID           `gorm:"type:char(36);index:idx_stock_reference" json:"reference_id,omitempty"`
	PartyType       *enum.PartyType      `gorm:"size:20" json:"party_type,omitempty"`
	PartyID         *uuid.UUID           `gorm:"type:char(36);index" json:"party_id,omitempty"`
	PartyName       *string              `gorm:"size:255" json:"party_name,omitempty"`
	PaymentMode     *string              `gorm:"size:30" json:"payment_mode,omitempty"`
	PaidAmount      decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"paid_amount"`
	VoucherID       *uuid.UUID           `gorm:"type:char(36);index" json:"voucher_id,omitempty"`
	TransactionDate time.Time            `gorm:"not null;index" json:"transaction_date"`
	Notes           *string              `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time            `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// BeforeCreate generates a UUID before creating a new stock transaction
func (s *StockTransaction) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockTransaction model
func (StockTransaction) TableName() string {
	return "stock_transactions"
}

// Delta is the signed effect of this row on the item balance
func (s *StockTransaction) Delta() decimal.Decimal {
	return s.Kind.Signed(s.Quantity)
}
