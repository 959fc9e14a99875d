package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/pkg/pagination"
)

// PurchaseRepository defines the interface for stock-in documents
type PurchaseRepository interface {
	// Create inserts the purchase together with its Details
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)
	UpdateHeader(ctx context.Context, purchase *entity.Purchase) error
	LinkDetailStock(ctx context.Context, detailID, stockTxnID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *PurchaseFilterParams) ([]entity.Purchase, int64, error)
}

// PurchaseFilterParams contains filtering parameters for purchase queries
type PurchaseFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	SupplierID *uuid.UUID
	From       *time.Time
	To         *time.Time // exclusive
}
