package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger is an account in the double-entry book. LedgerKey identifies it for find-or-create:
// system and category ledgers are keyed by type and name, party ledgers by party id and role.
type Ledger struct {
	ID             uuid.UUID        `gorm:"type:char(36);primaryKey" json:"id"`
	LedgerKey      string           `gorm:"size:191;uniqueIndex;not null" json:"ledger_key"`
	Name           string           `gorm:"size:255;not null;index" json:"name"`
	Type           enum.LedgerType  `gorm:"size:20;not null;index" json:"type"`
	BalanceSide    enum.BalanceSide `gorm:"size:2;not null" json:"balance_side"`
	OpeningBalance decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"opening_balance"`
	CurrentBalance decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"current_balance"`
	EntityType     enum.PartyType   `gorm:"size:20;not null;index:idx_ledger_entity" json:"entity_type"`
	EntityID       *uuid.UUID       `gorm:"type:char(36);index:idx_ledger_entity" json:"entity_id,omitempty"`
	IsSystem       bool             `gorm:"not null;default:false" json:"is_system"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new ledger
func (l *Ledger) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Ledger model
func (Ledger) TableName() string {
	return "ledgers"
}
