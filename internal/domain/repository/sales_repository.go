package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/pkg/pagination"
)

// SalesTransactionRepository defines the interface for invoices and their lines
type SalesTransactionRepository interface {
	// Create inserts the transaction together with its Items
	Create(ctx context.Context, sale *entity.SalesTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SalesTransaction, error)
	// GetWithDetails loads the transaction, its lines and customer
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.SalesTransaction, error)
	// UpdateHeader saves header fields without touching lines
	UpdateHeader(ctx context.Context, sale *entity.SalesTransaction) error
	ReplaceItems(ctx context.Context, saleID uuid.UUID, items []entity.SalesLineItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *SalesFilterParams) ([]entity.SalesTransaction, int64, error)
}

// SalesFilterParams contains filtering parameters for sales queries
type SalesFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string
	InvoiceType   enum.InvoiceType
	CustomerID    *uuid.UUID
	PaymentStatus *enum.PaymentStatus
	From          *time.Time
	To            *time.Time // exclusive
}
