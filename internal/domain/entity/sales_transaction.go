package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"gorm.io/gorm"
)

// SalesTransaction is an invoice or one of its quotation-like siblings (estimate, challan, proforma)
type SalesTransaction struct {
	ID            uuid.UUID          `gorm:"type:char(36);primaryKey" json:"id"`
	InvoiceNumber string             `gorm:"size:50;uniqueIndex;not null" json:"invoice_number"`
	InvoiceType   enum.InvoiceType   `gorm:"size:30;not null;index" json:"invoice_type"`
	InvoiceDate   time.Time          `gorm:"not null;index" json:"invoice_date"`
	CustomerID    *uuid.UUID         `gorm:"type:char(36);index" json:"customer_id,omitempty"`
	PartyName     string             `gorm:"size:255" json:"party_name"`
	PartyPhone    *string            `gorm:"size:50" json:"party_phone,omitempty"`
	PartyState    string             `gorm:"size:100" json:"party_state"`
	PaymentMode   string             `gorm:"size:30" json:"payment_mode"`
	PaymentStatus enum.PaymentStatus `gorm:"not null;default:0" json:"payment_status"`
	Status        enum.PostingStatus `gorm:"not null;default:0" json:"status"`
	VoucherID     *uuid.UUID         `gorm:"type:char(36);index" json:"voucher_id,omitempty"`
	Notes         *string            `gorm:"type:text" json:"notes,omitempty"`
	BillTotals    `gorm:"embedded"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SalesLineItem `gorm:"foreignKey:SalesTransactionID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sales transaction
func (s *SalesTransaction) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SalesTransaction model
func (SalesTransaction) TableName() string {
	return "sales_transactions"
}

// SalesLineItem is one priced line of a sales transaction
type SalesLineItem struct {
	ID                 uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	SalesTransactionID uuid.UUID `gorm:"type:char(36);not null;index" json:"sales_transaction_id"`
	LineNo             int       `gorm:"not null" json:"line_no"`
	LineAmounts        `gorm:"embedded"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new sales line item
func (l *SalesLineItem) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SalesLineItem model
func (SalesLineItem) TableName() string {
	return "sales_line_items"
}
