package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// LedgerRepository defines the interface for ledger data operations
type LedgerRepository interface {
	Create(ctx context.Context, ledger *entity.Ledger) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Ledger, error)
	GetByKey(ctx context.Context, key string) (*entity.Ledger, error)
	// ApplyDelta adds delta to current_balance in a single statement
	ApplyDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasEntries(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, params *LedgerFilterParams) ([]entity.Ledger, int64, error)
	ListAll(ctx context.Context) ([]entity.Ledger, error)
}

// LedgerFilterParams contains filtering parameters for ledger queries
type LedgerFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Type       enum.LedgerType
	EntityType enum.PartyType
	EntityID   *uuid.UUID
}

// VoucherRepository defines the interface for vouchers and their entries
type VoucherRepository interface {
	// Create inserts the voucher together with its Entries
	Create(ctx context.Context, voucher *entity.Voucher) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Voucher, error)
	// Delete removes the voucher and its entries
	Delete(ctx context.Context, id uuid.UUID) error
	ListByReference(ctx context.Context, refType string, refID uuid.UUID) ([]entity.Voucher, error)
	List(ctx context.Context, params *VoucherFilterParams) ([]entity.Voucher, int64, error)
}

// VoucherFilterParams contains filtering parameters for voucher queries
type VoucherFilterParams struct {
	Pagination    *pagination.PaginationParams
	Type          enum.VoucherType
	ReferenceType string
	ReferenceID   *uuid.UUID
	LedgerID      *uuid.UUID
	From          *time.Time
	To            *time.Time // exclusive
}
