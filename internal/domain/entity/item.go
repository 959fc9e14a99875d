package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item is a stock-keeping unit. CurrentBalance is a projection of its stock transactions and is
// only written by the stock ledger.
type Item struct {
	ID               uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	Code             string          `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name             string          `gorm:"size:255;not null" json:"name"`
	CategoryID       *uuid.UUID      `gorm:"type:char(36);index" json:"category_id,omitempty"`
	UnitID           *uuid.UUID      `gorm:"type:char(36);index" json:"unit_id,omitempty"`
	CurrentBalance   decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0" json:"current_balance"`
	PurchasePrice    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"purchase_price"`
	SalePrice        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"sale_price"`
	MRP              decimal.Decimal `gorm:"column:mrp;type:decimal(15,2);not null;default:0" json:"mrp"`
	TaxRate          decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_rate"`
	LowStockAlert    decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0" json:"low_stock_alert"`
	HSNCode          *string         `gorm:"column:hsn_code;size:20" json:"hsn_code,omitempty"`
	PurchaseLedgerID *uuid.UUID      `gorm:"type:char(36)" json:"purchase_ledger_id,omitempty"`
	SalesLedgerID    *uuid.UUID      `gorm:"type:char(36)" json:"sales_ledger_id,omitempty"`
	IsActive         bool            `gorm:"not null;default:true" json:"is_active"`
	Notes            *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Unit     *Unit     `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
}

// BeforeCreate generates a UUID before creating a new item
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Item model
func (Item) TableName() string {
	return "items"
}

// CategoryName returns the category used for ledger naming, "General" when uncategorised
func (i *Item) CategoryName() string {
	if i.Category == nil || i.Category.Name == "" {
		return "General"
	}
	return i.Category.Name
}

// IsLowStock reports whether a positive alert threshold has been reached
func (i *Item) IsLowStock() bool {
	return i.LowStockAlert.IsPositive() && i.CurrentBalance.LessThanOrEqual(i.LowStockAlert)
}

// Category groups items; its name selects the per-category sales and purchase ledgers
type Category struct {
	ID        uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []Item `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// Unit represents a unit of measurement (litre, kg, packet)
type Unit struct {
	ID        uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	ShortCode string         `gorm:"size:50" json:"short_code"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []Item `gorm:"foreignKey:UnitID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new unit
func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Unit model
func (Unit) TableName() string {
	return "units"
}
