package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	domainRepo "github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type salesTransactionRepository struct {
	db *gorm.DB
}

// NewSalesTransactionRepository creates a new sales repository
func NewSalesTransactionRepository(db *gorm.DB) domainRepo.SalesTransactionRepository {
	return &salesTransactionRepository{db: db}
}

func (r *salesTransactionRepository) Create(ctx context.Context, sale *entity.SalesTransaction) error {
	return translate(conn(ctx, r.db).Omit("Customer").Create(sale).Error)
}

func (r *salesTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SalesTransaction, error) {
	var sale entity.SalesTransaction
	err := conn(ctx, r.db).First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *salesTransactionRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.SalesTransaction, error) {
	var sale entity.SalesTransaction
	err := conn(ctx, r.db).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *salesTransactionRepository) UpdateHeader(ctx context.Context, sale *entity.SalesTransaction) error {
	return conn(ctx, r.db).Omit(clause.Associations).Save(sale).Error
}

func (r *salesTransactionRepository) ReplaceItems(ctx context.Context, saleID uuid.UUID, items []entity.SalesLineItem) error {
	db := conn(ctx, r.db)
	if err := db.Where("sales_transaction_id = ?", saleID).Delete(&entity.SalesLineItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].SalesTransactionID = saleID
	}
	return db.Create(&items).Error
}

func (r *salesTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.SalesTransaction{}, "id = ?", id).Error
}

func (r *salesTransactionRepository) List(ctx context.Context, params *domainRepo.SalesFilterParams) ([]entity.SalesTransaction, int64, error) {
	var sales []entity.SalesTransaction
	var total int64

	query := conn(ctx, r.db).Model(&entity.SalesTransaction{})

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("LOWER(invoice_number) LIKE LOWER(?) OR LOWER(party_name) LIKE LOWER(?)", like, like)
	}
	if params.InvoiceType != "" {
		query = query.Where("invoice_type = ?", params.InvoiceType)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *params.PaymentStatus)
	}
	if params.From != nil {
		query = query.Where("invoice_date >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("invoice_date < ?", *params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("invoice_date DESC").Order("created_at DESC").
		Find(&sales).Error

	return sales, total, err
}
