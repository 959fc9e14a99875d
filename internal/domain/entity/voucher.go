package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Voucher is one balanced double-entry posting
type Voucher struct {
	ID            uuid.UUID        `gorm:"type:char(36);primaryKey" json:"id"`
	VoucherNumber string           `gorm:"size:50;uniqueIndex;not null" json:"voucher_number"`
	Type          enum.VoucherType `gorm:"size:20;not null;index" json:"type"`
	Date          time.Time        `gorm:"not null;index" json:"date"`
	Narration     string           `gorm:"type:text" json:"narration"`
	ReferenceType string           `gorm:"size:30;index:idx_voucher_reference" json:"reference_type"`
	ReferenceID   *uuid.UUID       `gorm:"type:char(36);index:idx_voucher_reference" json:"reference_id,omitempty"`
	TotalAmount   decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	Entries []VoucherEntry `gorm:"foreignKey:VoucherID" json:"entries,omitempty"`
}

// BeforeCreate generates a UUID before creating a new voucher
func (v *Voucher) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Voucher model
func (Voucher) TableName() string {
	return "vouchers"
}

// VoucherEntry debits or credits one ledger; exactly one of Debit and Credit is non-zero
type VoucherEntry struct {
	ID        uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	VoucherID uuid.UUID       `gorm:"type:char(36);not null;index" json:"voucher_id"`
	LedgerID  uuid.UUID       `gorm:"type:char(36);not null;index" json:"ledger_id"`
	LineNo    int             `gorm:"not null" json:"line_no"`
	Debit     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"debit"`
	Credit    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"credit"`
	Narration *string         `gorm:"size:255" json:"narration,omitempty"`
	CreatedAt time.Time       `json:"created_at"`

	Ledger *Ledger `gorm:"foreignKey:LedgerID" json:"ledger,omitempty"`
}

// BeforeCreate generates a UUID before creating a new voucher entry
func (e *VoucherEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the VoucherEntry model
func (VoucherEntry) TableName() string {
	return "voucher_entries"
}
