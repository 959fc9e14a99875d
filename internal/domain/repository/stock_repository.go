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

// StockTransactionRepository defines the interface for the stock log
type StockTransactionRepository interface {
	Create(ctx context.Context, txn *entity.StockTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.StockTransaction, error)
	Update(ctx context.Context, txn *entity.StockTransaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByItem returns every row for the item in log order
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]entity.StockTransaction, error)
	ListByReference(ctx context.Context, refType enum.ReferenceType, refID uuid.UUID) ([]entity.StockTransaction, error)
	UpdateBalanceAfter(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	SetVoucher(ctx context.Context, refType enum.ReferenceType, refID uuid.UUID, voucherID *uuid.UUID) error
	CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
	List(ctx context.Context, params *StockFilterParams) ([]entity.StockTransaction, int64, error)
}

// StockFilterParams contains filtering parameters for stock log queries
type StockFilterParams struct {
	Pagination    *pagination.PaginationParams
	ItemID        *uuid.UUID
	Kind          enum.TransactionKind
	ReferenceType enum.ReferenceType
	From          *time.Time
	To            *time.Time // exclusive
}
