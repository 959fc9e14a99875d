package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Purchase is the stock-in document that groups the movements and voucher of one supplier bill
type Purchase struct {
	ID                    uuid.UUID          `gorm:"type:char(36);primaryKey" json:"id"`
	PurchaseNo            string             `gorm:"size:50;uniqueIndex;not null" json:"purchase_no"`
	SupplierInvoiceNumber *string            `gorm:"size:100" json:"supplier_invoice_number,omitempty"`
	SupplierID            *uuid.UUID         `gorm:"type:char(36);index" json:"supplier_id,omitempty"`
	PartyName             string             `gorm:"size:255" json:"party_name"`
	PartyState            string             `gorm:"size:100" json:"party_state"`
	Date                  time.Time          `gorm:"not null;index" json:"date"`
	PaymentMode           string             `gorm:"size:30" json:"payment_mode"`
	PaymentStatus         enum.PaymentStatus `gorm:"not null;default:0" json:"payment_status"`
	Status                enum.PostingStatus `gorm:"not null;default:0" json:"status"`
	VoucherID             *uuid.UUID         `gorm:"type:char(36);index" json:"voucher_id,omitempty"`
	VoucherError          *string            `gorm:"type:text" json:"voucher_error,omitempty"`
	Notes                 *string            `gorm:"type:text" json:"notes,omitempty"`
	BillTotals            `gorm:"embedded"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Supplier *Supplier        `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Details  []PurchaseDetail `gorm:"foreignKey:PurchaseID" json:"details,omitempty"`
}

// BeforeCreate generates a UUID before creating a new purchase
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseDetail represents a line item in a purchase
type PurchaseDetail struct {
	ID                 uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	PurchaseID         uuid.UUID  `gorm:"type:char(36);not null;index" json:"purchase_id"`
	LineNo             int        `gorm:"not null" json:"line_no"`
	StockTransactionID *uuid.UUID `gorm:"type:char(36)" json:"stock_transaction_id,omitempty"`
	LineAmounts        `gorm:"embedded"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new purchase detail
func (pd *PurchaseDetail) BeforeCreate(tx *gorm.DB) error {
	if pd.ID == uuid.Nil {
		pd.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseDetail model
func (PurchaseDetail) TableName() string {
	return "purchase_details"
}
