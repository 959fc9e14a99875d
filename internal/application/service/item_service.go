package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sangkips/dairy-coop-api/internal/domain/enum"
	"github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"github.com/sangkips/dairy-coop-api/pkg/apperror"
	"github.com/sangkips/dairy-coop-api/pkg/pagination"
	"github.com/sangkips/dairy-coop-api/pkg/utils"
	"github.com/shopspring/decimal"
)

const itemCodePrefix = "ITM-"

// ItemService handles item master data. Balances are moved only through the stock ledger.
type ItemService struct {
	transactor   repository.Transactor
	itemRepo     repository.ItemRepository
	categoryRepo repository.CategoryRepository
	unitRepo     repository.UnitRepository
	stockRepo    repository.StockTransactionRepository
	stock        *StockLedger
	poster       *Poster
	sequences    *SequenceAllocator
}

// NewItemService creates a new item service
func NewItemService(
	transactor repository.Transactor,
	itemRepo repository.ItemRepository,
	categoryRepo repository.CategoryRepository,
	unitRepo repository.UnitRepository,
	stockRepo repository.StockTransactionRepository,
	stock *StockLedger,
	poster *Poster,
	sequences *SequenceAllocator,
) *ItemService {
	return &ItemService{
		transactor:   transactor,
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		unitRepo:     unitRepo,
		stockRepo:    stockRepo,
		stock:        stock,
		poster:       poster,
		sequences:    sequences,
	}
}

// CreateItemInput represents the create item input
type CreateItemInput struct {
	Code          string
	Name          string
	CategoryID    *uuid.UUID
	UnitID        *uuid.UUID
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	MRP           decimal.Decimal
	TaxRate       decimal.Decimal
	LowStockAlert decimal.Decimal
	HSNCode       *string
	OpeningStock  decimal.Decimal
	Notes         *string
}

// CreateItem creates an item, links it to its category ledgers and posts any opening stock
func (s *ItemService) CreateItem(ctx context.Context, input *CreateItemInput) (*entity.Item, error) {
	if input.OpeningStock.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "opening_stock", Message: "must not be negative"}})
	}
	category, err := s.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnit(ctx, input.UnitID); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(input.Code)
	if code != "" {
		if err := s.sequences.Claim(ctx, repository.ItemCodes, "Item code", code); err != nil {
			return nil, err
		}
	}

	var item *entity.Item
	err = withSequenceRetry(s.sequences.metrics, "item", func() error {
		itemCode, release := code, func() {}
		if itemCode == "" {
			var err error
			itemCode, release, err = s.sequences.Acquire(ctx, repository.ItemCodes, itemCodePrefix, ScopeGlobal, time.Now())
			if err != nil {
				return err
			}
		}
		defer release()

		return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			item = &entity.Item{
				Code:          itemCode,
				Name:          strings.TrimSpace(input.Name),
				CategoryID:    input.CategoryID,
				UnitID:        input.UnitID,
				PurchasePrice: input.PurchasePrice,
				SalePrice:     input.SalePrice,
				MRP:           input.MRP,
				TaxRate:       input.TaxRate,
				LowStockAlert: input.LowStockAlert,
				HSNCode:       input.HSNCode,
				IsActive:      true,
				Notes:         input.Notes,
				Category:      category,
			}
			if err := s.linkLedgers(ctx, item); err != nil {
				return err
			}
			if err := s.itemRepo.Create(ctx, item); err != nil {
				return err
			}

			if input.OpeningStock.IsPositive() {
				itemID := item.ID
				_, err := s.stock.ApplyMovement(ctx, Movement{
					ItemID:        item.ID,
					Kind:          enum.StockIn,
					Quantity:      input.OpeningStock,
					Rate:          input.PurchasePrice,
					ReferenceType: enum.ReferenceOpening,
					ReferenceID:   &itemID,
					Notes:         utils.StringPtr("Opening stock"),
				})
				return err
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return s.itemRepo.GetByID(ctx, item.ID)
}

// GetItem retrieves an item by ID
func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	return item, nil
}

// ListItems lists items with filtering
func (s *ItemService) ListItems(ctx context.Context, params *repository.ItemFilterParams) (*pagination.PaginatedResult[entity.Item], error) {
	items, total, err := s.itemRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(items, params.Pagination, total), nil
}

// NextCode previews the code the next item would get
func (s *ItemService) NextCode(ctx context.Context) (string, error) {
	return s.sequences.NextID(ctx, repository.ItemCodes, itemCodePrefix, ScopeGlobal, time.Now())
}

// UpdateItemInput represents the update item input. CurrentBalance is deliberately absent.
type UpdateItemInput struct {
	ID            uuid.UUID
	Code          *string
	Name          *string
	CategoryID    *uuid.UUID
	UnitID        *uuid.UUID
	PurchasePrice *decimal.Decimal
	SalePrice     *decimal.Decimal
	MRP           *decimal.Decimal
	TaxRate       *decimal.Decimal
	LowStockAlert *decimal.Decimal
	HSNCode       *string
	IsActive      *bool
	Notes         *string
}

// UpdateItem updates master fields
func (s *ItemService) UpdateItem(ctx context.Context, input *UpdateItemInput) (*entity.Item, error) {
	item, err := s.GetItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Code != nil {
		code := strings.TrimSpace(*input.Code)
		if code != "" && code != item.Code {
			if err := s.sequences.Claim(ctx, repository.ItemCodes, "Item code", code); err != nil {
				return nil, err
			}
			item.Code = code
		}
	}

	relink := false
	if input.CategoryID != nil && (item.CategoryID == nil || *item.CategoryID != *input.CategoryID) {
		category, err := s.resolveCategory(ctx, input.CategoryID)
		if err != nil {
			return nil, err
		}
		item.CategoryID = input.CategoryID
		item.Category = category
		relink = true
	}
	if input.UnitID != nil {
		if err := s.checkUnit(ctx, input.UnitID); err != nil {
			return nil, err
		}
		item.UnitID = input.UnitID
	}
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.PurchasePrice != nil {
		item.PurchasePrice = *input.PurchasePrice
	}
	if input.SalePrice != nil {
		item.SalePrice = *input.SalePrice
	}
	if input.MRP != nil {
		item.MRP = *input.MRP
	}
	if input.TaxRate != nil {
		item.TaxRate = *input.TaxRate
	}
	if input.LowStockAlert != nil {
		item.LowStockAlert = *input.LowStockAlert
	}
	if input.HSNCode != nil {
		item.HSNCode = input.HSNCode
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
	if input.Notes != nil {
		item.Notes = input.Notes
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if relink {
			item.SalesLedgerID, item.PurchaseLedgerID = nil, nil
			if err := s.linkLedgers(ctx, item); err != nil {
				return err
			}
		}
		return s.itemRepo.UpdateMaster(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	return s.itemRepo.GetByID(ctx, item.ID)
}

// DeleteItem deletes an item that has no stock movements
func (s *ItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}

	count, err := s.stockRepo.CountByItem(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError("Item has stock transactions; delete them first")
	}
	return s.itemRepo.Delete(ctx, id)
}

// RebuildBalance recomputes the item balance from its stock log
func (s *ItemService) RebuildBalance(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	if _, err := s.stock.RebuildBalance(ctx, id); err != nil {
		return nil, err
	}
	return s.GetItem(ctx, id)
}

// linkLedgers points the item at its category's sales and purchase ledgers, creating them on first use
func (s *ItemService) linkLedgers(ctx context.Context, item *entity.Item) error {
	sales, err := s.poster.EnsureLedger(ctx, CategoryLedger(item.CategoryName(), enum.LedgerIncome))
	if err != nil {
		return err
	}
	purchase, err := s.poster.EnsureLedger(ctx, CategoryLedger(item.CategoryName(), enum.LedgerExpense))
	if err != nil {
		return err
	}
	item.SalesLedgerID = &sales.ID
	item.PurchaseLedgerID = &purchase.ID
	return nil
}

func (s *ItemService) resolveCategory(ctx context.Context, id *uuid.UUID) (*entity.Category, error) {
	if id == nil {
		return nil, nil
	}
	category, err := s.categoryRepo.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	return category, nil
}

func (s *ItemService) checkUnit(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	unit, err := s.unitRepo.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if unit == nil {
		return apperror.NewNotFoundError("Unit")
	}
	return nil
}
