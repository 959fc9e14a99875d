package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	domainRepo "github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) domainRepo.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	return translate(conn(ctx, r.db).Omit("Category", "Unit").Create(item).Error)
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	var item entity.Item
	err := conn(ctx, r.db).Preload("Category").Preload("Unit").First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *itemRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error) {
	if len(ids) == 0 {
		return []entity.Item{}, nil
	}
	var items []entity.Item
	err := conn(ctx, r.db).Preload("Category").Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *itemRepository) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	var item entity.Item
	err := conn(ctx, r.db).First(&item, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *itemRepository) UpdateMaster(ctx context.Context, item *entity.Item) error {
	return translate(conn(ctx, r.db).Model(item).
		Select("code", "name", "category_id", "unit_id", "purchase_price", "sale_price", "mrp",
			"tax_rate", "low_stock_alert", "hsn_code", "purchase_ledger_id", "sales_ledger_id", "is_active", "notes").
		Updates(item).Error)
}

func (r *itemRepository) UpdatePrices(ctx context.Context, id uuid.UUID, purchasePrice, salePrice *decimal.Decimal) error {
	updates := map[string]interface{}{}
	if purchasePrice != nil {
		updates["purchase_price"] = *purchasePrice
	}
	if salePrice != nil {
		updates["sale_price"] = *salePrice
	}
	if len(updates) == 0 {
		return nil
	}
	return conn(ctx, r.db).Model(&entity.Item{}).Where("id = ?", id).Updates(updates).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Item{}, "id = ?", id).Error
}

func (r *itemRepository) List(ctx context.Context, params *domainRepo.ItemFilterParams) ([]entity.Item, int64, error) {
	var items []entity.Item
	var total int64

	query := conn(ctx, r.db).Model(&entity.Item{})

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(code) LIKE LOWER(?)", like, like)
	}
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.LowStock {
		query = query.Where("low_stock_alert > 0 AND current_balance <= low_stock_alert")
	}
	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Preload("Category").Preload("Unit").
		Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("code ASC").
		Find(&items).Error

	return items, total, err
}

func (r *itemRepository) ListAll(ctx context.Context) ([]entity.Item, error) {
	var items []entity.Item
	err := conn(ctx, r.db).Preload("Category").Preload("Unit").Order("code ASC").Find(&items).Error
	return items, err
}

// CompareAndSetBalance is a conditional update on the previously read balance. The row is written
// only while nobody else has moved it, which keeps the projection exact without row locks.
func (r *itemRepository) CompareAndSetBalance(ctx context.Context, id uuid.UUID, expected, next decimal.Decimal) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.Item{}).
		Where("id = ? AND current_balance = ?", id, expected).
		Update("current_balance", next)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *itemRepository) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return conn(ctx, r.db).Model(&entity.Item{}).
		Where("id = ?", id).
		Update("current_balance", balance).Error
}

func (r *itemRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Item{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}
