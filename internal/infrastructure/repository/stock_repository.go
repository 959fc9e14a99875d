package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	domainRepo "github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stockTransactionRepository struct {
	db *gorm.DB
}

// NewStockTransactionRepository creates a new stock log repository
func NewStockTransactionRepository(db *gorm.DB) domainRepo.StockTransactionRepository {
	return &stockTransactionRepository{db: db}
}

func (r *stockTransactionRepository) Create(ctx context.Context, txn *entity.StockTransaction) error {
	return conn(ctx, r.db).Omit("Item").Create(txn).Error
}

func (r *stockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.StockTransaction, error) {
	var txn entity.StockTransaction
	err := conn(ctx, r.db).Preload("Item").First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *stockTransactionRepository) Update(ctx context.Context, txn *entity.StockTransaction) error {
	return conn(ctx, r.db).Omit("Item").Save(txn).Error
}

func (r *stockTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.StockTransaction{}, "id = ?", id).Error
}

func (r *stockTransactionRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]entity.StockTransaction, error) {
	var txns []entity.StockTransaction
	err := conn(ctx, r.db).
		Where("item_id = ?", itemID).
		Order("created_at ASC").Order("id ASC").
		Find(&txns).Error
	return txns, err
}

func (r *stockTransactionRepository) ListByReference(ctx context.Context, refType enum.ReferenceType, refID uuid.UUID) ([]entity.StockTransaction, error) {
	var txns []entity.StockTransaction
	err := conn(ctx, r.db).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("created_at ASC").Order("id ASC").
		Find(&txns).Error
	return txns, err
}

func (r *stockTransactionRepository) UpdateBalanceAfter(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return conn(ctx, r.db).Model(&entity.StockTransaction{}).
		Where("id = ?", id).
		Update("balance_after", balance).Error
}

func (r *stockTransactionRepository) SetVoucher(ctx context.Context, refType enum.ReferenceType, refID uuid.UUID, voucherID *uuid.UUID) error {
	return conn(ctx, r.db).Model(&entity.StockTransaction{}).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Update("voucher_id", voucherID).Error
}

func (r *stockTransactionRepository) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.StockTransaction{}).Where("item_id = ?", itemID).Count(&count).Error
	return count, err
}

func (r *stockTransactionRepository) List(ctx context.Context, params *domainRepo.StockFilterParams) ([]entity.StockTransaction, int64, error) {
	var txns []entity.StockTransaction
	var total int64

	query := conn(ctx, r.db).Model(&entity.StockTransaction{})
	if params.ItemID != nil {
		query = query.Where("item_id = ?", *params.ItemID)
	}
	if params.Kind != "" {
		query = query.Where("kind = ?", params.Kind)
	}
	if params.ReferenceType != "" {
		query = query.Where("reference_type = ?", params.ReferenceType)
	}
	if params.From != nil {
		query = query.Where("transaction_date >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("transaction_date < ?", *params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Preload("Item").
		Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").Order("id DESC").
		Find(&txns).Error

	return txns, total, err
}
