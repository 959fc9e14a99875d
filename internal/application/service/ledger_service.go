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
	"github.com/shopspring/decimal"
)

// LedgerService exposes the chart of accounts and posted vouchers
type LedgerService struct {
	ledgerRepo  repository.LedgerRepository
	voucherRepo repository.VoucherRepository
	poster      *Poster
}

// NewLedgerService creates a new ledger service
func NewLedgerService(ledgerRepo repository.LedgerRepository, voucherRepo repository.VoucherRepository, poster *Poster) *LedgerService {
	return &LedgerService{
		ledgerRepo:  ledgerRepo,
		voucherRepo: voucherRepo,
		poster:      poster,
	}
}

// CreateLedgerInput represents a user-defined ledger
type CreateLedgerInput struct {
	Name           string
	Type           enum.LedgerType
	OpeningBalance decimal.Decimal
}

// CreateLedger adds a custom ledger. Creating one that already exists returns the existing ledger.
func (s *LedgerService) CreateLedger(ctx context.Context, input *CreateLedgerInput) (*entity.Ledger, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "is required"}})
	}
	if !input.Type.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "type", Message: "must be one of Asset, Liability, Income, Expense"}})
	}
	spec := SystemLedger(name, input.Type)
	spec.IsSystem = false
	spec.OpeningBalance = input.OpeningBalance
	return s.poster.EnsureLedger(ctx, spec)
}

// GetLedger retrieves a ledger by ID
func (s *LedgerService) GetLedger(ctx context.Context, id uuid.UUID) (*entity.Ledger, error) {
	ledger, err := s.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		return nil, apperror.NewNotFoundError("Ledger")
	}
	return ledger, nil
}

// ListLedgers lists ledgers with filtering
func (s *LedgerService) ListLedgers(ctx context.Context, params *repository.LedgerFilterParams) (*pagination.PaginatedResult[entity.Ledger], error) {
	ledgers, total, err := s.ledgerRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(ledgers, params.Pagination, total), nil
}

// GetVoucher retrieves a voucher with its entries
func (s *LedgerService) GetVoucher(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperror.NewNotFoundError("Voucher")
	}
	return voucher, nil
}

// ListVouchers lists vouchers with filtering
func (s *LedgerService) ListVouchers(ctx context.Context, params *repository.VoucherFilterParams) (*pagination.PaginatedResult[entity.Voucher], error) {
	vouchers, total, err := s.voucherRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(vouchers, params.Pagination, total), nil
}

// JournalInput represents a manual journal voucher
type JournalInput struct {
	Date      *time.Time
	Narration string
	Entries   []ManualEntry
}

// PostJournal posts a manual journal voucher
func (s *LedgerService) PostJournal(ctx context.Context, input *JournalInput) (*entity.Voucher, error) {
	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	var voucher *entity.Voucher
	err := withSequenceRetry(s.poster.metrics, "journal", func() error {
		var err error
		voucher, err = s.poster.PostJournal(ctx, date, strings.TrimSpace(input.Narration), input.Entries)
		return err
	})
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "ledger_entries", Message: "must carry an amount"}})
	}
	return s.GetVoucher(ctx, voucher.ID)
}

// DeleteVoucher reverses a manual voucher. Vouchers owned by a document go with the document.
func (s *LedgerService) DeleteVoucher(ctx context.Context, id uuid.UUID) error {
	voucher, err := s.GetVoucher(ctx, id)
	if err != nil {
		return err
	}
	if voucher.ReferenceID != nil {
		return apperror.NewConflictError("Voucher belongs to " + voucher.ReferenceType + "; delete the document instead")
	}
	return s.poster.Reverse(ctx, id)
}
