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

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) domainRepo.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, ledger *entity.Ledger) error {
	return translate(conn(ctx, r.db).Create(ledger).Error)
}

func (r *ledgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Ledger, error) {
	var ledger entity.Ledger
	err := conn(ctx, r.db).First(&ledger, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ledger, err
}

func (r *ledgerRepository) GetByKey(ctx context.Context, key string) (*entity.Ledger, error) {
	var ledger entity.Ledger
	err := conn(ctx, r.db).First(&ledger, "ledger_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ledger, err
}

func (r *ledgerRepository) ApplyDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	result := conn(ctx, r.db).Model(&entity.Ledger{}).
		Where("id = ?", id).
		Update("current_balance", gorm.Expr("current_balance + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ledgerRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	return conn(ctx, r.db).Model(&entity.Ledger{}).Where("id = ?", id).Update("name", name).Error
}

func (r *ledgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Ledger{}, "id = ?", id).Error
}

func (r *ledgerRepository) HasEntries(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.VoucherEntry{}).Where("ledger_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *ledgerRepository) List(ctx context.Context, params *domainRepo.LedgerFilterParams) ([]entity.Ledger, int64, error) {
	var ledgers []entity.Ledger
	var total int64

	query := conn(ctx, r.db).Model(&entity.Ledger{})
	if params.Search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+params.Search+"%")
	}
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.EntityType != "" {
		query = query.Where("entity_type = ?", params.EntityType)
	}
	if params.EntityID != nil {
		query = query.Where("entity_id = ?", *params.EntityID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("type ASC").Order("name ASC").
		Find(&ledgers).Error

	return ledgers, total, err
}

func (r *ledgerRepository) ListAll(ctx context.Context) ([]entity.Ledger, error) {
	var ledgers []entity.Ledger
	err := conn(ctx, r.db).Order("type ASC").Order("name ASC").Find(&ledgers).Error
	return ledgers, err
}

type voucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository creates a new voucher repository
func NewVoucherRepository(db *gorm.DB) domainRepo.VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) Create(ctx context.Context, voucher *entity.Voucher) error {
	return translate(conn(ctx, r.db).Omit("Entries.Ledger").Create(voucher).Error)
}

func (r *voucherRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	var voucher entity.Voucher
	err := conn(ctx, r.db).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Preload("Entries.Ledger").
		First(&voucher, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &voucher, err
}

func (r *voucherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := conn(ctx, r.db)
	if err := db.Where("voucher_id = ?", id).Delete(&entity.VoucherEntry{}).Error; err != nil {
		return err
	}
	return db.Delete(&entity.Voucher{}, "id = ?", id).Error
}

func (r *voucherRepository) ListByReference(ctx context.Context, refType string, refID uuid.UUID) ([]entity.Voucher, error) {
	var vouchers []entity.Voucher
	err := conn(ctx, r.db).
		Preload("Entries").
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("created_at ASC").
		Find(&vouchers).Error
	return vouchers, err
}

func (r *voucherRepository) List(ctx context.Context, params *domainRepo.VoucherFilterParams) ([]entity.Voucher, int64, error) {
	var vouchers []entity.Voucher
	var total int64

	query := conn(ctx, r.db).Model(&entity.Voucher{})
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.ReferenceType != "" {
		query = query.Where("reference_type = ?", params.ReferenceType)
	}
	if params.ReferenceID != nil {
		query = query.Where("reference_id = ?", *params.ReferenceID)
	}
	if params.LedgerID != nil {
		query = query.Where("id IN (?)",
			conn(ctx, r.db).Model(&entity.VoucherEntry{}).Select("voucher_id").Where("ledger_id = ?", *params.LedgerID))
	}
	if params.From != nil {
		query = query.Where("date >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("date < ?", *params.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("date DESC").Order("created_at DESC").
		Find(&vouchers).Error

	return vouchers, total, err
}
